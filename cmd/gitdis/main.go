package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lowcarboncode/gitdis/internal/gitclient"
)

var (
	format  string
	noColor bool
	quiet   bool
	verbose bool

	rootCmd = &cobra.Command{
		Use:   "gitdis",
		Short: "Git-backed configuration cache",
		Long: `gitdis mirrors Git branches into an in-memory ordered key/value cache,
decoding JSON/YAML/XML files into a dynamic value tree and serving them
through a read API that stays live as the source branches move.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := gitclient.CheckGitVersion(); err != nil {
				return fmt.Errorf("git check failed: %w", err)
			}
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&format, "format", "", "Output format (human|json)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Minimal output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(branchCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(doctorCmd)
}

func main() {
	ctx := context.Background()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
