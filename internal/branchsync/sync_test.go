package branchsync

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lowcarboncode/gitdis/internal/cache"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
}

func run(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoErrorf(t, err, "git %v: %s", args, out)
}

// newBareRemote creates a bare repo with one commit containing a.json, and
// returns its filesystem path, usable as a clone URL.
func newBareRemote(t *testing.T) string {
	t.Helper()
	bare := filepath.Join(t.TempDir(), "remote.git")
	require.NoError(t, os.MkdirAll(bare, 0o755))
	run(t, bare, "init", "--bare", "-b", "main")

	seed := t.TempDir()
	run(t, seed, "init", "-b", "main")
	run(t, seed, "config", "user.email", "test@example.com")
	run(t, seed, "config", "user.name", "test")
	require.NoError(t, os.WriteFile(filepath.Join(seed, "a.json"), []byte(`{"v":1}`), 0o644))
	run(t, seed, "add", ".")
	run(t, seed, "commit", "-m", "init")
	run(t, seed, "remote", "add", "origin", bare)
	run(t, seed, "push", "origin", "main")

	return bare
}

func TestSynchronizer_SetupBootstrapsCache(t *testing.T) {
	requireGit(t)
	remote := newBareRemote(t)
	cloneRoot := t.TempDir()

	c := cache.New(100)
	log := logrus.NewEntry(logrus.New())
	s := New(Options{URL: remote, BranchName: "main", PullIntervalMs: 100, CloneRoot: cloneRoot}, c, log)

	require.NoError(t, s.Setup(context.Background()))
	assert.Equal(t, Synchronizing, s.State())

	v, ok := c.Get("a.v")
	require.True(t, ok)
	assert.Equal(t, "1", v.NumberValue().String())
}

func TestSynchronizer_TickAppliesNewCommit(t *testing.T) {
	requireGit(t)
	remote := newBareRemote(t)
	cloneRoot := t.TempDir()

	c := cache.New(100)
	log := logrus.NewEntry(logrus.New())
	s := New(Options{URL: remote, BranchName: "main", PullIntervalMs: 100, CloneRoot: cloneRoot}, c, log)
	require.NoError(t, s.Setup(context.Background()))

	// Simulate another clone pushing a new commit.
	other := t.TempDir()
	run(t, other, "clone", remote, ".")
	run(t, other, "config", "user.email", "test@example.com")
	run(t, other, "config", "user.name", "test")
	require.NoError(t, os.WriteFile(filepath.Join(other, "a.json"), []byte(`{"v":2}`), 0o644))
	run(t, other, "add", ".")
	run(t, other, "commit", "-m", "update")
	run(t, other, "push", "origin", "main")

	require.NoError(t, s.Tick(context.Background()))

	v, ok := c.Get("a.v")
	require.True(t, ok)
	assert.Equal(t, "2", v.NumberValue().String())
}

func TestSynchronizer_TickRenameAcrossExtensionsKeepsSameKey(t *testing.T) {
	requireGit(t)
	remote := newBareRemote(t)
	cloneRoot := t.TempDir()

	c := cache.New(100)
	log := logrus.NewEntry(logrus.New())
	s := New(Options{URL: remote, BranchName: "main", PullIntervalMs: 100, CloneRoot: cloneRoot}, c, log)
	require.NoError(t, s.Setup(context.Background()))

	// a.json -> a.yml: CacheKey strips the extension from both, so the
	// rename's old and new cache keys are identical ("a"). Renaming must
	// not remove the key it just upserted. The content is kept byte-for-byte
	// (JSON is valid YAML) so git reports a rename rather than a delete plus
	// an add.
	other := t.TempDir()
	run(t, other, "clone", remote, ".")
	run(t, other, "config", "user.email", "test@example.com")
	run(t, other, "config", "user.name", "test")
	run(t, other, "mv", "a.json", "a.yml")
	require.NoError(t, os.WriteFile(filepath.Join(other, "a.yml"), []byte(`{"v":1}`), 0o644))
	run(t, other, "add", ".")
	run(t, other, "commit", "-m", "rename a.json to a.yml")
	run(t, other, "push", "origin", "main")

	require.NoError(t, s.Tick(context.Background()))

	_, ok := c.Get("a")
	require.True(t, ok, "expected root key a to survive the same-key rename")
	v, ok := c.Get("a.v")
	require.True(t, ok, "expected a.v to survive the same-key rename")
	assert.Equal(t, "1", v.NumberValue().String())
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "default.settings", CacheKey("/data/demo", "/data/demo/default/settings.yml"))
	assert.Equal(t, "a", CacheKey("/data/demo", "/data/demo/a.json"))
}

func TestRepoLastSegment(t *testing.T) {
	assert.Equal(t, "demo", repoLastSegment("https://github.com/acme/demo.git"))
	assert.Equal(t, "demo", repoLastSegment("git@github.com:acme/demo.git"))
}

func TestIsIgnoredPath(t *testing.T) {
	assert.True(t, isIgnoredPath("/data/demo/.git/HEAD", nil))
	assert.False(t, isIgnoredPath("/data/demo/a.json", nil))
}
