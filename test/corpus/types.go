package main

import "time"

// FixtureManifest is the root of a corpus fixture file: a list of documents
// to decode and flatten, each with the flat map and reference index it is
// expected to produce.
type FixtureManifest struct {
	Version string        `yaml:"version"`
	Cases   []FixtureCase `yaml:"cases"`
}

// FixtureCase is one document under test.
type FixtureCase struct {
	Name     string `yaml:"name"`
	Format   string `yaml:"format"` // "json", "yaml", or "xml"
	RootKey  string `yaml:"root_key"`
	Document string `yaml:"document"`
	Notes    string `yaml:"notes,omitempty"`
	Skip     bool   `yaml:"skip,omitempty"`

	// ExpectedFlat maps a dotted path to its expected leaf value, given as
	// a JSON literal (e.g. `"5"`, `"\"host\""`, `"true"`, `"null"`).
	ExpectedFlat map[string]string `yaml:"expected_flat"`

	// ExpectedRefs maps a container path to its expected shape.
	ExpectedRefs map[string]ExpectedRef `yaml:"expected_refs"`
}

// ExpectedRef is the expected shape of one container path.
type ExpectedRef struct {
	Kind     string   `yaml:"kind"` // "object" or "array"
	Children []string `yaml:"children"`
}

// CaseResult captures the outcome of running one fixture case.
type CaseResult struct {
	Name       string   `json:"name"`
	Format     string   `json:"format"`
	Success    bool     `json:"success"`
	Error      string   `json:"error,omitempty"`
	Mismatches []string `json:"mismatches,omitempty"`
	DurationUs int64    `json:"duration_us"`
}

// Summary provides aggregate statistics across a run.
type Summary struct {
	TotalCases      int     `json:"total_cases"`
	SkippedCount    int     `json:"skipped_count"`
	PassCount       int     `json:"pass_count"`
	FailCount       int     `json:"fail_count"`
	PassRate        float64 `json:"pass_rate"`
	TotalDurationUs int64   `json:"total_duration_us"`
}

// Report is the full fixture run report.
type Report struct {
	Version     string       `json:"version"`
	GeneratedAt time.Time    `json:"generated_at"`
	Summary     Summary      `json:"summary"`
	Results     []CaseResult `json:"results"`
	Failures    []CaseResult `json:"failures,omitempty"`
}
