// Package config loads gitdis's runtime configuration: environment
// variables per spec.md §6, plus an optional declarative bootstrap file
// (gitdis.yaml) listing branches to register and start at boot — the
// generalized form of original_source/gitdis-http's hardcoded branch list.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/lowcarboncode/gitdis/internal/constants"
	"github.com/lowcarboncode/gitdis/internal/gitdis"
)

// BranchConfig is one entry of a bootstrap file's branch list, shaped
// after gitdis.BranchSettings.
type BranchConfig struct {
	URL            string `yaml:"url"`
	BranchName     string `yaml:"branch_name"`
	PullIntervalMs int    `yaml:"pull_interval_ms"`
	TargetPath     string `yaml:"target_path"`
}

// ToSettings converts a bootstrap entry into a gitdis.BranchSettings,
// filling in spec.md §6's default pull interval when unset.
func (b BranchConfig) ToSettings() gitdis.BranchSettings {
	interval := b.PullIntervalMs
	if interval <= 0 {
		interval = constants.DefaultPullInterval
	}
	return gitdis.BranchSettings{
		URL:            b.URL,
		BranchName:     branchNameOrDefault(b.BranchName),
		PullIntervalMs: interval,
		TargetPath:     b.TargetPath,
	}
}

func branchNameOrDefault(name string) string {
	if name == "" {
		return constants.DefaultBranchName
	}
	return name
}

// BootstrapFile is gitdis.yaml's top-level shape.
type BootstrapFile struct {
	Branches []BranchConfig `yaml:"branches"`
}

// Config is gitdis's fully-resolved runtime configuration.
type Config struct {
	HTTPPort        string
	LocalClonePath  string
	TotalCacheItems int
	LogLevel        string
	Branches        []gitdis.BranchSettings
}

// Load resolves configuration from environment variables and, if
// bootstrapPath is non-empty and exists, a gitdis.yaml-shaped file.
// Every field has a spec.md §6-aligned default, so Load never fails on a
// missing bootstrap file — only on a malformed one.
func Load(bootstrapPath string) (Config, error) {
	cfg := Config{
		HTTPPort:        envOr(constants.EnvHTTPPort, constants.DefaultHTTPPort),
		LocalClonePath:  envOr(constants.EnvLocalClonePath, constants.DefaultClonePath),
		TotalCacheItems: envIntOr(constants.EnvTotalCacheItems, constants.DefaultCacheItems),
		LogLevel:        envOr(constants.EnvLogLevel, "info"),
	}

	if bootstrapPath == "" {
		return cfg, nil
	}
	content, err := os.ReadFile(bootstrapPath)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: reading %s: %w", bootstrapPath, err)
	}

	var boot BootstrapFile
	if err := yaml.Unmarshal(content, &boot); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", bootstrapPath, err)
	}
	for _, b := range boot.Branches {
		cfg.Branches = append(cfg.Branches, b.ToSettings())
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
