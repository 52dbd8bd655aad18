// Package errors provides a structured error type used across gitdis so the
// service façade and HTTP layer can map failures to transport codes without
// string-matching error messages.
package errors

import "fmt"

// ErrorType classifies a GitdisError for transport mapping and logging.
type ErrorType string

const (
	ErrorTypeGit         ErrorType = "git"
	ErrorTypeCache       ErrorType = "cache"
	ErrorTypeSync        ErrorType = "sync"
	ErrorTypeCoordinator ErrorType = "coordinator"
	ErrorTypeDecode      ErrorType = "decode"
	ErrorTypeConfig      ErrorType = "config"
	ErrorTypeInternal    ErrorType = "internal"
)

// Kind names the specific, spec-defined error case within an ErrorType.
// Service façades switch on Kind, not on Type or Message.
type Kind string

const (
	KindGitError        Kind = "git_error"
	KindRepoExists      Kind = "repo_exists"
	KindBranchNotFound  Kind = "branch_not_found"
	KindKeyNotFound     Kind = "key_not_found"
	KindSortKeyNotFound Kind = "sort_key_not_found"
	KindSortKeyExists   Kind = "sort_key_exists"
	KindInternalError   Kind = "internal_error"
)

// GitdisError is a structured error with enough context for both human
// output (Hint) and transport mapping (Kind).
type GitdisError struct {
	Type    ErrorType
	Kind    Kind
	Message string
	Hint    string
	Err     error
}

func (e *GitdisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *GitdisError) Unwrap() error {
	return e.Err
}

// UserFriendlyMessage renders the message plus hint, for CLI output.
func (e *GitdisError) UserFriendlyMessage() string {
	msg := e.Message
	if e.Hint != "" {
		msg += "\n\nSuggestion: " + e.Hint
	}
	return msg
}

// New creates a GitdisError without a wrapped cause.
func New(errType ErrorType, kind Kind, message string) *GitdisError {
	return &GitdisError{Type: errType, Kind: kind, Message: message}
}

// Wrap wraps an existing error with gitdis context.
func Wrap(errType ErrorType, kind Kind, message string, err error) *GitdisError {
	return &GitdisError{Type: errType, Kind: kind, Message: message, Err: err}
}

// WithHint attaches an operator-facing hint to an error.
func WithHint(err *GitdisError, hint string) *GitdisError {
	err.Hint = hint
	return err
}

// Is reports whether err is a GitdisError of the given Kind.
func Is(err error, kind Kind) bool {
	ge, ok := err.(*GitdisError)
	return ok && ge.Kind == kind
}

// Common constructors, one per spec.md §7 error kind.

func GitFailed(op string, exitCode *int, stderr string) *GitdisError {
	return WithHint(
		Wrap(ErrorTypeGit, KindGitError, fmt.Sprintf("git %s failed: %s", op, stderr), fmt.Errorf("exit code %v", exitCode)),
		"Check that the repository URL and branch are reachable and that git is on PATH.",
	)
}

func RepoExists(key string) *GitdisError {
	return WithHint(
		New(ErrorTypeCoordinator, KindRepoExists, fmt.Sprintf("branch %q is already registered", key)),
		"Use a different branch, or call ListenBranch on the existing key.",
	)
}

func BranchNotFound(key string) *GitdisError {
	return WithHint(
		New(ErrorTypeCoordinator, KindBranchNotFound, fmt.Sprintf("branch %q is not registered", key)),
		"Call AddBranch first, or check the key with 'gitdis branch list'.",
	)
}

func KeyNotFound(key string) *GitdisError {
	return New(ErrorTypeCache, KindKeyNotFound, fmt.Sprintf("key %q not found", key))
}

func SortKeyNotFound(key string) *GitdisError {
	return New(ErrorTypeCache, KindSortKeyNotFound, fmt.Sprintf("start_after key %q not found", key))
}

func SortKeyExists(key string) *GitdisError {
	return New(ErrorTypeCache, KindSortKeyExists, fmt.Sprintf("key %q already exists", key))
}

func Internal(detail string, err error) *GitdisError {
	return Wrap(ErrorTypeInternal, KindInternalError, detail, err)
}
