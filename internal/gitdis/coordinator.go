package gitdis

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lowcarboncode/gitdis/internal/branchsync"
	"github.com/lowcarboncode/gitdis/internal/cache"
	"github.com/lowcarboncode/gitdis/internal/errors"
)

// GitdisSettings is the Coordinator's process-wide configuration, per
// spec.md §4.5.
type GitdisSettings struct {
	TotalCacheItems int
	CloneRoot       string
}

// Branch is the Coordinator's runtime record for one registered branch,
// per spec.md §3. Owned exclusively by the Coordinator; shared by
// reference with its synchronizer worker once started.
type Branch struct {
	Settings    BranchSettings
	Cache       *cache.Cache
	CreatedAtMs int64

	worker *branchsync.Synchronizer
	cancel context.CancelFunc
	done   chan struct{}
}

// TaggedEvent pairs a cache.Event with the branch key that produced it, the
// shape delivered to Coordinator.Events consumers.
type TaggedEvent struct {
	BranchKey string
	Event     cache.Event
}

// chanSink fans every branch's cache.Event onto one shared channel, the
// Coordinator's "single MPSC event channel used by all OrderedCaches" from
// spec.md §4.5. The channel is buffered; once full, Publish blocks the
// calling synchronizer — an accepted backpressure tradeoff (see DESIGN.md).
type chanSink struct {
	ch chan TaggedEvent
}

func (s *chanSink) Publish(branchKey string, event cache.Event) {
	s.ch <- TaggedEvent{BranchKey: branchKey, Event: event}
}

// WorkerHandle is a join-only reference to a started branch worker, per
// spec.md §4.5 — it does not expose cancellation, matching "workers run
// until the process ends" (§5).
type WorkerHandle struct {
	Done <-chan struct{}
}

// Coordinator is the multi-branch registry from spec.md §4.5: it owns
// every branch's cache, spawns synchronizer workers, and multiplexes their
// events onto one stream.
type Coordinator struct {
	settings GitdisSettings
	log      *logrus.Logger

	mu       sync.RWMutex
	branches map[string]*Branch

	sink *chanSink
}

// New creates a Coordinator with no registered branches.
func New(settings GitdisSettings, log *logrus.Logger) *Coordinator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Coordinator{
		settings: settings,
		log:      log,
		branches: map[string]*Branch{},
		sink:     &chanSink{ch: make(chan TaggedEvent, 1024)},
	}
}

// nowMs is a var so tests can stub the wall clock for CreatedAtMs assertions.
var nowMs = func() int64 {
	return time.Now().UnixMilli()
}

// AddBranch registers settings, creating a new OrderedCache bound to the
// shared event sink. Returns errors.RepoExists if the derived key is
// already registered. Does not start the worker, per spec.md §4.5.
func (co *Coordinator) AddBranch(settings BranchSettings) (*Branch, error) {
	key := settings.Key()

	co.mu.Lock()
	defer co.mu.Unlock()

	if _, exists := co.branches[key]; exists {
		return nil, errors.RepoExists(key)
	}

	b := &Branch{
		Settings:    settings,
		Cache:       cache.NewWithSink(co.settings.TotalCacheItems, key, co.sink),
		CreatedAtMs: nowMs(),
		done:        make(chan struct{}),
	}
	co.branches[key] = b
	return b, nil
}

// GetBranch looks up a registered branch by key.
func (co *Coordinator) GetBranch(key string) (*Branch, bool) {
	co.mu.RLock()
	defer co.mu.RUnlock()
	b, ok := co.branches[key]
	return b, ok
}

// BranchInfo is a read-only summary of one registered branch.
type BranchInfo struct {
	Key         string
	URL         string
	BranchName  string
	CreatedAtMs int64
}

// ListBranches reports every registered branch's metadata, in no
// particular order — supplements spec.md's C5 contract with the listing
// original_source/gitdis's service layer exposes.
func (co *Coordinator) ListBranches() []BranchInfo {
	co.mu.RLock()
	defer co.mu.RUnlock()
	out := make([]BranchInfo, 0, len(co.branches))
	for key, b := range co.branches {
		out = append(out, BranchInfo{
			Key:         key,
			URL:         b.Settings.URL,
			BranchName:  b.Settings.BranchName,
			CreatedAtMs: b.CreatedAtMs,
		})
	}
	return out
}

// GetBranchCache looks up a registered branch's cache by key.
func (co *Coordinator) GetBranchCache(key string) (*cache.Cache, bool) {
	b, ok := co.GetBranch(key)
	if !ok {
		return nil, false
	}
	return b.Cache, true
}

// StartBranch spawns a synchronizer worker for the registered branch,
// running setup synchronously and the poll loop in a new goroutine.
// Returns errors.BranchNotFound if key isn't registered.
func (co *Coordinator) StartBranch(ctx context.Context, key string) (*WorkerHandle, error) {
	co.mu.Lock()
	b, ok := co.branches[key]
	if !ok {
		co.mu.Unlock()
		return nil, errors.BranchNotFound(key)
	}
	if b.worker != nil {
		co.mu.Unlock()
		return &WorkerHandle{Done: b.done}, nil
	}

	opts := branchsync.Options{
		URL:            b.Settings.URL,
		BranchName:     b.Settings.BranchName,
		PullIntervalMs: b.Settings.PullIntervalMs,
		TargetPath:     b.Settings.TargetPath,
		CloneRoot:      co.settings.CloneRoot,
		IgnoreGlobs:    []string{"*/.git/*"},
	}
	entry := co.log.WithField("branch_key", key)
	worker := branchsync.New(opts, b.Cache, entry)
	b.worker = worker

	workerCtx, cancel := context.WithCancel(ctx)
	b.cancel = cancel
	co.mu.Unlock()

	if err := worker.Setup(workerCtx); err != nil {
		entry.WithError(err).Error("gitdis: branch setup failed, worker will not start")
		close(b.done)
		return nil, errors.Wrap(errors.ErrorTypeSync, errors.KindInternalError, "branch setup failed", err)
	}

	go func() {
		defer close(b.done)
		worker.Run(workerCtx)
	}()

	return &WorkerHandle{Done: b.done}, nil
}

// StartAll starts every registered branch, logging per-key failures rather
// than propagating them, per spec.md §4.5.
func (co *Coordinator) StartAll(ctx context.Context) {
	co.mu.RLock()
	keys := make([]string, 0, len(co.branches))
	for k := range co.branches {
		keys = append(keys, k)
	}
	co.mu.RUnlock()

	for _, key := range keys {
		if _, err := co.StartBranch(ctx, key); err != nil {
			co.log.WithError(err).WithField("branch_key", key).Error("gitdis: start_all failed for branch")
		}
	}
}

// Events runs a blocking fan-in loop: it reads from the shared event
// channel and invokes consumer for each item, until ctx is cancelled, per
// spec.md §4.5.
func (co *Coordinator) Events(ctx context.Context, consumer func(TaggedEvent)) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt := <-co.sink.ch:
			consumer(evt)
		}
	}
}
