// Package service implements spec.md §4.6: the stable, boundary-facing API
// the HTTP layer (internal/httpapi) and CLI (cmd/gitdis) call instead of
// reaching into internal/gitdis directly.
package service

import (
	"context"
	"strings"

	"github.com/lowcarboncode/gitdis/internal/gitdis"
	"github.com/lowcarboncode/gitdis/internal/value"
)

// AddBranchResponse is the DTO spec.md §4.6 names for add_branch's result.
type AddBranchResponse struct {
	URL            string `json:"url"`
	BranchName     string `json:"branch_name"`
	Key            string `json:"key"`
	PullIntervalMs int    `json:"pull_request_interval_millis"`
	TargetPath     string `json:"target_path,omitempty"`
	CreatedAtMs    int64  `json:"created_at_ms"`
}

// BranchInfo is a read-only summary of one registered branch, served by
// the GET /branches endpoint that `gitdis branch list` calls.
type BranchInfo struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	BranchName  string `json:"branch_name"`
	CreatedAtMs int64  `json:"created_at_ms"`
}

// Service wraps a Coordinator with the narrow surface spec.md §4.6 names.
type Service struct {
	co *gitdis.Coordinator
}

// New creates a Service over an already-constructed Coordinator.
func New(co *gitdis.Coordinator) *Service {
	return &Service{co: co}
}

// AddBranch registers settings and reports the created branch's metadata.
func (s *Service) AddBranch(settings gitdis.BranchSettings) (AddBranchResponse, error) {
	branch, err := s.co.AddBranch(settings)
	if err != nil {
		return AddBranchResponse{}, err
	}
	return AddBranchResponse{
		URL:            branch.Settings.URL,
		BranchName:     branch.Settings.BranchName,
		Key:            branch.Settings.Key(),
		PullIntervalMs: branch.Settings.PullIntervalMs,
		TargetPath:     branch.Settings.TargetPath,
		CreatedAtMs:    branch.CreatedAtMs,
	}, nil
}

// ListenBranch starts the worker for an already-registered branch.
func (s *Service) ListenBranch(ctx context.Context, key string) error {
	_, err := s.co.StartBranch(ctx, key)
	return err
}

// ListBranches reports every registered branch's metadata, for the
// `gitdis branch list` command — a feature supplemented from
// original_source/gitdis's service layer that spec.md's distillation omits.
func (s *Service) ListBranches() []BranchInfo {
	infos := s.co.ListBranches()
	out := make([]BranchInfo, len(infos))
	for i, b := range infos {
		out[i] = BranchInfo{Key: b.Key, URL: b.URL, BranchName: b.BranchName, CreatedAtMs: b.CreatedAtMs}
	}
	return out
}

// Get resolves link against branch_key's cache, per spec.md §4.6:
//   - link is "<cache_key>" or "<cache_key>(<sub_path>)", split on the
//     outermost "(" ... ")".
//   - an absent cache_key or branch_key yields (Undefined, false), not an
//     error — callers render this as HTTP 200 null or 404, per §6.
//   - a sub_path against a non-Object value also yields (Undefined, false).
func (s *Service) Get(branchKey, link string) (value.Value, bool) {
	c, ok := s.co.GetBranchCache(branchKey)
	if !ok {
		return value.Undefined(), false
	}

	cacheKey, subPath := splitLink(link)
	v, ok := c.Get(cacheKey)
	if !ok {
		return value.Undefined(), false
	}
	if subPath == "" {
		return v, true
	}
	if !v.IsObject() {
		return value.Undefined(), false
	}
	return v.ObjectGet(subPath)
}

// splitLink divides link into (cache_key, sub_path) on the outermost
// "(" ... ")" pair, per spec.md §4.6. If link has no "(", sub_path is "".
func splitLink(link string) (cacheKey, subPath string) {
	open := strings.IndexByte(link, '(')
	if open < 0 {
		return link, ""
	}
	close := strings.LastIndexByte(link, ')')
	if close < open {
		return link, ""
	}
	return link[:open], link[open+1 : close]
}
