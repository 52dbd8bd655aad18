// Package gitclient implements spec.md §4.3's GitDriver: a thin shell-out
// adapter over the git CLI. Every operation runs the git binary in a
// working directory and either returns stdout or a structured error on a
// nonzero exit, in the idiom of the teacher's internal/git.Client.
package gitclient

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/lowcarboncode/gitdis/internal/constants"
)

// Client wraps git CLI operations for one repository working directory.
// Operations are serialized with a mutex, matching the teacher's
// internal/git.Client — git does not tolerate concurrent invocations
// against the same working tree.
type Client struct {
	workdir string
	mu      sync.Mutex
}

// NewClient creates a Client rooted at workdir.
func NewClient(workdir string) *Client {
	return &Client{workdir: workdir}
}

// GitError mirrors spec.md §7's GitError{exit_code?, stderr}.
type GitError struct {
	Op       string
	ExitCode *int
	Stderr   string
}

func (e *GitError) Error() string {
	code := "unknown"
	if e.ExitCode != nil {
		code = fmt.Sprintf("%d", *e.ExitCode)
	}
	return fmt.Sprintf("git %s: exit %s: %s", e.Op, code, strings.TrimSpace(e.Stderr))
}

func (c *Client) run(ctx context.Context, dir string, args ...string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cmd := exec.CommandContext(ctx, "git", args...)
	if dir != "" {
		cmd.Dir = dir
	}
	// Non-interactive, stable-locale output, matching the teacher's client.
	cmd.Env = append(os.Environ(),
		"GIT_TERMINAL_PROMPT=0",
		"LC_ALL=C",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		ge := &GitError{Op: strings.Join(args, " "), Stderr: stderr.String()}
		if exitErr, ok := err.(*exec.ExitError); ok {
			code := exitErr.ExitCode()
			ge.ExitCode = &code
		}
		return "", ge
	}
	return strings.TrimSpace(stdout.String()), nil
}

// CheckGitVersion verifies git is installed and reachable on PATH.
func CheckGitVersion() error {
	cmd := exec.Command("git", "--version")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git not found on PATH: %w", err)
	}
	return nil
}

// Clone runs `git clone --branch <branch> <url>` with cwd=destParent, per
// spec.md §4.3's table.
func Clone(ctx context.Context, url, branch, destParent string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.CloneTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "clone", "--branch", branch, url)
	cmd.Dir = destParent
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		ge := &GitError{Op: "clone", Stderr: stderr.String()}
		if exitErr, ok := err.(*exec.ExitError); ok {
			code := exitErr.ExitCode()
			ge.ExitCode = &code
		}
		return ge
	}
	return nil
}

// Pull runs `git pull` in repoDir.
func (c *Client) Pull(ctx context.Context, repoDir string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.PullTimeout)
	defer cancel()
	_, err := c.run(ctx, repoDir, "pull")
	return err
}

// HeadHash runs `git rev-parse HEAD` in repoDir, returning the trimmed hash.
func (c *Client) HeadHash(ctx context.Context, repoDir string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RevParseTimeout)
	defer cancel()
	return c.run(ctx, repoDir, "rev-parse", "HEAD")
}

// DiffNameStatus runs `git diff -z --name-status HEAD^ HEAD` in repoDir and
// returns the raw NUL-separated output for internal/diff to parse.
func (c *Client) DiffNameStatus(ctx context.Context, repoDir string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DiffTimeout)
	defer cancel()

	c.mu.Lock()
	defer c.mu.Unlock()

	cmd := exec.CommandContext(ctx, "git", "diff", "-z", "--name-status", "HEAD^", "HEAD")
	cmd.Dir = repoDir
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0", "LC_ALL=C")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		ge := &GitError{Op: "diff", Stderr: stderr.String()}
		if exitErr, ok := err.(*exec.ExitError); ok {
			code := exitErr.ExitCode()
			ge.ExitCode = &code
		}
		return nil, ge
	}
	return stdout.Bytes(), nil
}

// LsRemote runs `git ls-remote <url>`, used by the doctor command to check
// a configured branch's URL is reachable before a worker is started.
func LsRemote(ctx context.Context, url string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.LsRemoteTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "ls-remote", "--exit-code", url)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		ge := &GitError{Op: "ls-remote", Stderr: stderr.String()}
		if exitErr, ok := err.(*exec.ExitError); ok {
			code := exitErr.ExitCode()
			ge.ExitCode = &code
		}
		return ge
	}
	return nil
}
