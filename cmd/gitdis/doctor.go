package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/lowcarboncode/gitdis/internal/config"
	"github.com/lowcarboncode/gitdis/internal/gitclient"
	"github.com/lowcarboncode/gitdis/internal/ui"
)

var doctorBootstrapPath string

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the local environment can run gitdis serve",
	Long: `doctor checks that git is installed, that the configured clone
directory exists and is writable, and — if a bootstrap file is given —
that every configured branch's URL is reachable.`,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().StringVar(&doctorBootstrapPath, "config", "gitdis.yaml", "Path to the declarative branch bootstrap file")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	out := ui.NewOutput(os.Stdout)
	if format != "" {
		out.SetFormat(ui.OutputFormat(format))
	}
	if noColor {
		out.SetColorEnabled(false)
	}

	if !out.IsJSON() {
		out.Header("gitdis doctor")
	}

	healthy := true

	if err := gitclient.CheckGitVersion(); err != nil {
		out.Errorf("git: %v", err)
		healthy = false
	} else {
		out.Success("git is installed and on PATH")
	}

	cfg, err := config.Load(doctorBootstrapPath)
	if err != nil {
		out.Errorf("config: %v", err)
		healthy = false
	} else {
		if checkWritableDir(out, cfg.LocalClonePath) {
			out.Successf("clone directory %q is writable", cfg.LocalClonePath)
		} else {
			healthy = false
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		for _, b := range cfg.Branches {
			if err := gitclient.LsRemote(ctx, b.URL); err != nil {
				out.Errorf("branch %q: remote unreachable: %v", b.Key(), err)
				healthy = false
			} else {
				out.Successf("branch %q: remote reachable", b.Key())
			}
		}
	}

	if !healthy {
		return fmt.Errorf("doctor found problems")
	}
	out.Success("all checks passed")
	return nil
}

func checkWritableDir(out *ui.Output, dir string) bool {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		out.Errorf("clone directory %q: %v", dir, err)
		return false
	}
	probe := dir + "/.gitdis-doctor-probe"
	if err := os.WriteFile(probe, []byte("ok"), 0o644); err != nil {
		out.Errorf("clone directory %q is not writable: %v", dir, err)
		return false
	}
	_ = os.Remove(probe)
	return true
}
