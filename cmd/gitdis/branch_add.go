package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/lowcarboncode/gitdis/internal/constants"
	"github.com/lowcarboncode/gitdis/internal/service"
	"github.com/lowcarboncode/gitdis/internal/ui"
)

var (
	addBranchName     string
	addPullIntervalMs int
	addTargetPath     string
)

var branchAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Register a branch with the running server",
	Args:  cobra.ExactArgs(1),
	RunE:  runBranchAdd,
}

func init() {
	branchAddCmd.Flags().StringVar(&addBranchName, "branch", constants.DefaultBranchName, "Branch name")
	branchAddCmd.Flags().IntVar(&addPullIntervalMs, "interval", constants.DefaultPullInterval, "Pull interval in milliseconds")
	branchAddCmd.Flags().StringVar(&addTargetPath, "target", "", "Subdirectory to surface, relative to the repo root")
}

func runBranchAdd(cmd *cobra.Command, args []string) error {
	out := ui.NewOutput(os.Stdout)
	if format != "" {
		out.SetFormat(ui.OutputFormat(format))
	}

	reqBody := map[string]interface{}{
		"url":                          args[0],
		"branch_name":                  addBranchName,
		"pull_request_interval_millis": addPullIntervalMs,
		"target_path":                  addTargetPath,
	}

	resp, err := httpPostJSON(serverURL+"/repos", reqBody)
	if err != nil {
		return fmt.Errorf("contacting %s: %w", serverURL, err)
	}
	raw, err := readBody(resp)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusCreated {
		return errorFromResponse(resp, raw)
	}

	if out.IsJSON() {
		out.JSON(jsonRaw(raw))
		return nil
	}
	var created service.AddBranchResponse
	if err := unmarshalInto(raw, &created); err != nil {
		return err
	}
	out.Successf("registered branch %s", created.Key)
	return nil
}
