package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/lowcarboncode/gitdis/internal/ui"
)

var getCmd = &cobra.Command{
	Use:   "get <branch-key> <link>",
	Short: "Resolve a link against a branch's cache and print the value as JSON",
	Long: `get calls the running server's read API. <branch-key> is
"owner/repo/branch"; <link> is a dotted cache key, optionally followed by
a parenthesized sub-path, e.g. "app.db(host)".`,
	Args: cobra.ExactArgs(2),
	RunE: runGet,
}

func init() {
	getCmd.Flags().StringVar(&serverURL, "server", "http://localhost:3000", "Base URL of a running gitdis server")
}

func runGet(cmd *cobra.Command, args []string) error {
	out := ui.NewOutput(os.Stdout)
	out.SetFormat(ui.FormatJSON)

	branchKey, link := args[0], args[1]
	url := fmt.Sprintf("%s/repos/%s/%s", serverURL, branchKey, link)

	resp, err := http.Get(url)
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

	fmt.Fprintln(os.Stdout, string(raw))
	return nil
}
