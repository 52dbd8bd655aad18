// Package gitdis implements spec.md §4.5 and §4.7: the Coordinator that
// owns every registered branch's cache and worker lifecycle, and the
// BranchSettings key derivation that canonicalizes a branch's identity.
package gitdis

import "strings"

// BranchSettings is the immutable descriptor a caller submits to register
// a branch, per spec.md §3.
type BranchSettings struct {
	URL            string
	BranchName     string
	PullIntervalMs int
	TargetPath     string
}

// Key derives the stable branch identifier "<owner>/<repo>/<branch>" from
// the URL, per spec.md §4.7:
//  1. Split on "/"; the last segment is tail, the penultimate is
//     host_or_owner.
//  2. repo = tail up to the first ".".
//  3. owner = the substring after ":" in host_or_owner if it contains one,
//     else host_or_owner verbatim.
//  4. key = owner + "/" + repo + "/" + branch_name.
func (s BranchSettings) Key() string {
	return DeriveKey(s.URL, s.BranchName)
}

// DeriveKey implements the algorithm Key documents, standalone so callers
// that only have a URL and branch name (the CLI, the HTTP handler) can
// compute a key before constructing a BranchSettings.
func DeriveKey(url, branchName string) string {
	trimmed := strings.TrimRight(url, "/")
	segments := strings.Split(trimmed, "/")

	tail := segments[len(segments)-1]
	repo := tail
	if idx := strings.IndexByte(tail, '.'); idx >= 0 {
		repo = tail[:idx]
	}

	owner := tail
	if len(segments) >= 2 {
		hostOrOwner := segments[len(segments)-2]
		if idx := strings.IndexByte(hostOrOwner, ':'); idx >= 0 {
			owner = hostOrOwner[idx+1:]
		} else {
			owner = hostOrOwner
		}
	}

	return owner + "/" + repo + "/" + branchName
}
