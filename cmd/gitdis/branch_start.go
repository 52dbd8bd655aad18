package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/lowcarboncode/gitdis/internal/ui"
)

var branchStartCmd = &cobra.Command{
	Use:   "start <key>",
	Short: "Start syncing an already-registered branch (key is owner/repo/branch)",
	Args:  cobra.ExactArgs(1),
	RunE:  runBranchStart,
}

func runBranchStart(cmd *cobra.Command, args []string) error {
	out := ui.NewOutput(os.Stdout)
	if format != "" {
		out.SetFormat(ui.OutputFormat(format))
	}

	key := args[0]
	resp, err := httpPostJSON(serverURL+"/repos/"+key+"/listen", map[string]interface{}{})
	if err != nil {
		return fmt.Errorf("contacting %s: %w", serverURL, err)
	}
	raw, err := readBody(resp)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return errorFromResponse(resp, raw)
	}
	out.Successf("branch %s is syncing", key)
	return nil
}
