package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/lowcarboncode/gitdis/internal/service"
	"github.com/lowcarboncode/gitdis/internal/ui"
)

var branchListCmd = &cobra.Command{
	Use:   "list",
	Short: "List branches registered with the running server",
	Args:  cobra.NoArgs,
	RunE:  runBranchList,
}

func runBranchList(cmd *cobra.Command, args []string) error {
	out := ui.NewOutput(os.Stdout)
	if format != "" {
		out.SetFormat(ui.OutputFormat(format))
	}

	resp, err := http.Get(serverURL + "/branches")
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

	var body struct {
		Branches []service.BranchInfo `json:"branches"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return err
	}

	if out.IsJSON() {
		out.JSON(body)
		return nil
	}

	if len(body.Branches) == 0 {
		out.Info("No branches registered.")
		return nil
	}
	out.Header("Registered branches")
	for _, b := range body.Branches {
		out.Infof("%s  (%s @ %s)", b.Key, b.URL, b.BranchName)
	}
	return nil
}
