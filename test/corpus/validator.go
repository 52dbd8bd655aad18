package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lowcarboncode/gitdis/internal/payload"
	"github.com/lowcarboncode/gitdis/internal/value"
)

// Validator runs a fixture manifest's cases through internal/payload and
// checks the resulting flat map and reference index against expectations.
type Validator struct {
	manifest FixtureManifest
	reporter *Reporter
}

// NewValidator loads and parses a fixture manifest.
func NewValidator(manifestPath string) (*Validator, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var manifest FixtureManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	return &Validator{
		manifest: manifest,
		reporter: NewReporter(),
	}, nil
}

// Run executes every non-skipped case and returns the reporter holding all
// results.
func (v *Validator) Run() *Reporter {
	for _, c := range v.manifest.Cases {
		if c.Skip {
			v.reporter.AddSkipped()
			continue
		}
		v.reporter.AddResult(runCase(c))
	}
	return v.reporter
}

func runCase(c FixtureCase) CaseResult {
	start := time.Now()
	result := CaseResult{Name: c.Name, Format: c.Format}

	decoded, err := decodeCase(c)
	if err != nil {
		result.Error = err.Error()
		result.DurationUs = time.Since(start).Microseconds()
		return result
	}

	flattened := payload.Flatten(c.RootKey, decoded)
	result.Mismatches = compareFlatten(c, flattened)
	result.Success = len(result.Mismatches) == 0
	result.DurationUs = time.Since(start).Microseconds()
	return result
}

func decodeCase(c FixtureCase) (value.Value, error) {
	switch c.Format {
	case "json":
		return payload.DecodeJSON([]byte(c.Document))
	case "yaml":
		return payload.DecodeYAML([]byte(c.Document))
	case "xml":
		return payload.DecodeXML([]byte(c.Document))
	default:
		return value.Undefined(), fmt.Errorf("unknown format %q", c.Format)
	}
}

func compareFlatten(c FixtureCase, got payload.FlattenResult) []string {
	var mismatches []string

	for path, wantJSON := range c.ExpectedFlat {
		leaf, ok := got.FlatMap[path]
		if !ok {
			mismatches = append(mismatches, fmt.Sprintf("flat_map[%s]: missing, want %s", path, wantJSON))
			continue
		}
		gotJSON, err := leaf.MarshalJSON()
		if err != nil {
			mismatches = append(mismatches, fmt.Sprintf("flat_map[%s]: marshal error: %v", path, err))
			continue
		}
		if string(gotJSON) != wantJSON {
			mismatches = append(mismatches, fmt.Sprintf("flat_map[%s]: got %s, want %s", path, gotJSON, wantJSON))
		}
	}
	for path := range got.FlatMap {
		if _, want := c.ExpectedFlat[path]; !want {
			mismatches = append(mismatches, fmt.Sprintf("flat_map[%s]: unexpected entry", path))
		}
	}

	for path, want := range c.ExpectedRefs {
		ref, ok := got.Refs[path]
		if !ok {
			mismatches = append(mismatches, fmt.Sprintf("refs[%s]: missing", path))
			continue
		}
		gotKind := "object"
		if ref.Kind == payload.RefArray {
			gotKind = "array"
		}
		if gotKind != want.Kind {
			mismatches = append(mismatches, fmt.Sprintf("refs[%s]: kind got %s, want %s", path, gotKind, want.Kind))
		}
		if !equalStrings(ref.Children, want.Children) {
			mismatches = append(mismatches, fmt.Sprintf("refs[%s]: children got %v, want %v", path, ref.Children, want.Children))
		}
	}
	for path := range got.Refs {
		if _, want := c.ExpectedRefs[path]; !want {
			mismatches = append(mismatches, fmt.Sprintf("refs[%s]: unexpected entry", path))
		}
	}

	return mismatches
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
