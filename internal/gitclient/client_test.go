package gitclient

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoErrorf(t, err, "git %v: %s", args, out)
	}
	run("init", "-b", "main")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "test")
	return dir
}

func TestClient_HeadHash(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := initTestRepo(t)
	writeFile(t, filepath.Join(dir, "a.json"), `{"v":1}`)
	gitAdd(t, dir)
	gitCommit(t, dir, "init")

	c := NewClient(dir)
	hash, err := c.HeadHash(context.Background(), dir)
	require.NoError(t, err)
	assert.Len(t, hash, 40)
}

func TestClient_DiffNameStatus(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := initTestRepo(t)
	writeFile(t, filepath.Join(dir, "a.json"), `{"v":1}`)
	gitAdd(t, dir)
	gitCommit(t, dir, "init")

	writeFile(t, filepath.Join(dir, "a.json"), `{"v":2}`)
	gitAdd(t, dir)
	gitCommit(t, dir, "update")

	c := NewClient(dir)
	out, err := c.DiffNameStatus(context.Background(), dir)
	require.NoError(t, err)
	assert.Contains(t, string(out), "a.json")
}

func TestCheckGitVersion(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	assert.NoError(t, CheckGitVersion())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func gitAdd(t *testing.T, dir string) {
	t.Helper()
	cmd := exec.Command("git", "add", ".")
	cmd.Dir = dir
	require.NoError(t, cmd.Run())
}

func gitCommit(t *testing.T, dir, message string) {
	t.Helper()
	cmd := exec.Command("git", "commit", "-m", message)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoErrorf(t, err, "commit failed: %s", out)
}
