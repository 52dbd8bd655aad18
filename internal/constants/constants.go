package constants

import "time"

// Defaults for the external interfaces named in spec.md §6.
const (
	DefaultHTTPPort     = "3000"
	DefaultClonePath    = "data"
	DefaultBranchName   = "main"
	DefaultPullInterval = 3000 // milliseconds, matches original_source's hardcoded default
	DefaultCacheItems   = 10000
)

// Timeouts for individual git invocations. Spec.md §5 allows an
// implementation to add a wall-clock budget per command as long as a diff
// is never partially committed; these bound clone/pull/rev-parse/diff so a
// single unreachable remote can't wedge a worker forever.
const (
	CloneTimeout    = 2 * time.Minute
	PullTimeout     = 2 * time.Minute
	RevParseTimeout = 10 * time.Second
	DiffTimeout     = 30 * time.Second
	LsRemoteTimeout = 15 * time.Second
)

// Valid configuration file extensions per spec.md §4.2.
const (
	ExtJSON = ".json"
	ExtYML  = ".yml"
	ExtYAML = ".yaml"
	ExtXML  = ".xml"
)

// IgnoreGlobs are always excluded from the working tree walk, per spec.md §4.4.
var IgnoreGlobs = []string{"*/.git/*"}

// Env var names consumed by the outer program, per spec.md §6.
const (
	EnvHTTPPort        = "GITDIS_HTTP_PORT"
	EnvLocalClonePath  = "GITDIS_LOCAL_CLONE_PATH"
	EnvTotalCacheItems = "GITDIS_TOTAL_CACHE_ITEMS"
	EnvLogLevel        = "GITDIS_LOG_LEVEL"
)
