// Package branchsync implements spec.md §4.4's BranchSynchronizer: the
// per-branch worker that owns one repository working copy, walks it once on
// setup, and thereafter polls for new commits and applies each changed file
// to its OrderedCache. It plays the role the teacher's divergence/dualpush
// workers played for keeping two remotes in sync, narrowed to one remote
// and one cache.
package branchsync

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lowcarboncode/gitdis/internal/cache"
	"github.com/lowcarboncode/gitdis/internal/diff"
	"github.com/lowcarboncode/gitdis/internal/gitclient"
	"github.com/lowcarboncode/gitdis/internal/payload"
	"github.com/lowcarboncode/gitdis/internal/value"
)

// State is the worker lifecycle state from spec.md §4.4's state diagram.
type State int

const (
	Created State = iota
	Synchronizing
	Failed
)

func (s State) String() string {
	switch s {
	case Created:
		return "Created"
	case Synchronizing:
		return "Synchronizing"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Options configures one Synchronizer. CloneRoot is shared across branches;
// the repo directory under it is derived from URL when New is called.
type Options struct {
	URL            string
	BranchName     string
	PullIntervalMs int
	TargetPath     string
	CloneRoot      string
	IgnoreGlobs    []string
}

// Synchronizer owns one repository working copy and the OrderedCache it
// feeds, per spec.md §4.4.
type Synchronizer struct {
	opts Options
	c    *cache.Cache
	git  *gitclient.Client
	log  *logrus.Entry

	repoDir      string
	targetDir    string
	commitCursor string
	state        State
}

// New creates a Synchronizer for a branch's cache. The working tree
// directory is not touched until Setup runs.
func New(opts Options, c *cache.Cache, log *logrus.Entry) *Synchronizer {
	repoDir := filepath.Join(opts.CloneRoot, repoLastSegment(opts.URL))
	return &Synchronizer{
		opts:    opts,
		c:       c,
		git:     gitclient.NewClient(repoDir),
		log:     log,
		repoDir: repoDir,
		state:   Created,
	}
}

// State reports the worker's current lifecycle state.
func (s *Synchronizer) State() State {
	return s.state
}

// RepoDir returns the directory the branch is cloned into.
func (s *Synchronizer) RepoDir() string {
	return s.repoDir
}

// Setup runs spec.md §4.4's one-time bootstrap: clone-or-pull, then walk
// the target directory inserting every valid file's flattened content.
// On failure the worker transitions to Failed — a terminal state the
// caller must not retry from (it must create a fresh Synchronizer).
func (s *Synchronizer) Setup(ctx context.Context) error {
	if err := s.setup(ctx); err != nil {
		s.state = Failed
		return err
	}
	s.state = Synchronizing
	return nil
}

func (s *Synchronizer) setup(ctx context.Context) error {
	if err := os.MkdirAll(s.opts.CloneRoot, 0o755); err != nil {
		return err
	}

	if _, err := os.Stat(s.repoDir); err == nil {
		if err := s.git.Pull(ctx, s.repoDir); err != nil {
			return err
		}
	} else {
		if err := gitclient.Clone(ctx, s.opts.URL, s.opts.BranchName, s.opts.CloneRoot); err != nil {
			return err
		}
	}

	s.targetDir = s.repoDir
	if s.opts.TargetPath != "" {
		s.targetDir = filepath.Join(s.repoDir, s.opts.TargetPath)
	}

	if err := s.walkAndInsert(); err != nil {
		return err
	}

	hash, err := s.git.HeadHash(ctx, s.repoDir)
	if err != nil {
		return err
	}
	s.commitCursor = hash
	return nil
}

func (s *Synchronizer) walkAndInsert() error {
	return filepath.WalkDir(s.targetDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if s.isIgnored(path) || !payload.IsValidFile(path) {
			return nil
		}
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			s.log.WithError(readErr).WithField("path", path).Warn("branchsync: skipping unreadable file during setup")
			return nil
		}
		key := CacheKey(s.repoDir, path)
		s.insertDocument(key, payload.Decode(path, content))
		return nil
	})
}

// Run blocks, ticking every PullIntervalMs until ctx is cancelled. Setup
// must have already succeeded; Run never transitions the worker to Failed
// — a git error on a tick is logged and retried next interval, per
// spec.md §4.4's state diagram.
func (s *Synchronizer) Run(ctx context.Context) {
	interval := time.Duration(s.opts.PullIntervalMs) * time.Millisecond
	if interval <= 0 {
		interval = time.Second
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
		}
		if err := s.Tick(ctx); err != nil {
			s.log.WithError(err).Warn("branchsync: tick failed, will retry next interval")
		}
	}
}

// Tick runs one spec.md §4.4 poll cycle: pull, compare head, diff, apply.
func (s *Synchronizer) Tick(ctx context.Context) error {
	if err := s.git.Pull(ctx, s.repoDir); err != nil {
		return err
	}

	hash, err := s.git.HeadHash(ctx, s.repoDir)
	if err != nil {
		return err
	}
	if hash == s.commitCursor {
		return nil
	}

	raw, err := s.git.DiffNameStatus(ctx, s.repoDir)
	if err != nil {
		return err
	}
	s.commitCursor = hash

	for _, rec := range diff.ParseNameStatus(raw) {
		s.apply(rec)
	}
	return nil
}

func (s *Synchronizer) apply(rec diff.Record) {
	switch rec.Status {
	case diff.Added, diff.Modified, diff.Copied:
		s.applyUpsert(rec.Path)
	case diff.Renamed:
		s.applyUpsert(rec.NewPath)
		oldKey := CacheKey(s.repoDir, filepath.Join(s.repoDir, rec.Path))
		newKey := CacheKey(s.repoDir, filepath.Join(s.repoDir, rec.NewPath))
		if oldKey == newKey {
			return
		}
		_ = s.c.Remove(oldKey)
		props := cache.NewListProps(-1)
		props.Filter = cache.Filter{Kind: cache.FilterStartsWith, Start: oldKey + "."}
		if items, err := s.c.List(props); err == nil {
			for _, it := range items {
				_ = s.c.Remove(it.Key)
			}
		}
	case diff.Deleted:
		key := CacheKey(s.repoDir, filepath.Join(s.repoDir, rec.Path))
		_ = s.c.Remove(key)
	}
}

func (s *Synchronizer) applyUpsert(relPath string) {
	if s.isIgnored(relPath) || !payload.IsValidFile(relPath) {
		return
	}
	full := filepath.Join(s.repoDir, relPath)
	content, err := os.ReadFile(full)
	if err != nil {
		s.log.WithError(err).WithField("path", full).Warn("branchsync: skipping unreadable file during tick")
		return
	}
	key := CacheKey(s.repoDir, full)
	s.insertDocument(key, payload.Decode(full, content))
}

func (s *Synchronizer) insertDocument(rootKey string, v value.Value) {
	result := payload.Flatten(rootKey, v)
	for k, leaf := range result.FlatMap {
		s.c.Insert(k, leaf)
	}
	for k, ref := range result.Refs {
		s.c.Insert(k, refEntryToValue(ref))
	}
}

func refEntryToValue(e payload.RefEntry) value.Value {
	obj := value.NewObject()
	kind := "object"
	if e.Kind == payload.RefArray {
		kind = "array"
	}
	obj.Set("kind", value.String(kind))
	children := make([]value.Value, len(e.Children))
	for i, c := range e.Children {
		children[i] = value.String(c)
	}
	obj.Set("children", value.Array(children))
	return obj
}

// isIgnored reports whether path matches one of the synchronizer's ignore
// globs. Multi-level globs like "*/.git/*" are approximated by a per-
// segment ".git" check rather than true glob matching, since
// path/filepath.Match can't express arbitrary depth; any additional globs
// are matched against the full path with filepath.Match as a best effort.
func (s *Synchronizer) isIgnored(path string) bool {
	return isIgnoredPath(path, s.opts.IgnoreGlobs)
}

func isIgnoredPath(path string, globs []string) bool {
	slashPath := filepath.ToSlash(path)
	for _, seg := range strings.Split(slashPath, "/") {
		if seg == ".git" {
			return true
		}
	}
	for _, g := range globs {
		if matched, _ := filepath.Match(g, slashPath); matched {
			return true
		}
	}
	return false
}

// CacheKey implements spec.md §4.4's key derivation: strip the
// "<repo_dir>/" prefix, drop the suffix from the first "." onward, and
// replace remaining "/" with ".".
func CacheKey(repoDir, path string) string {
	repoDir = filepath.ToSlash(repoDir)
	path = filepath.ToSlash(path)
	rel := strings.TrimPrefix(path, repoDir+"/")
	if idx := strings.IndexByte(rel, '.'); idx >= 0 {
		rel = rel[:idx]
	}
	return strings.ReplaceAll(rel, "/", ".")
}

// repoLastSegment extracts the repo directory name git clone would create:
// the URL's last "/"-segment with any trailing ".git" removed.
func repoLastSegment(url string) string {
	trimmed := strings.TrimRight(url, "/")
	parts := strings.Split(trimmed, "/")
	last := parts[len(parts)-1]
	return strings.TrimSuffix(last, ".git")
}
