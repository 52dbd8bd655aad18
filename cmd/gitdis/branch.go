package main

import "github.com/spf13/cobra"

var branchCmd = &cobra.Command{
	Use:   "branch",
	Short: "Manage registered branches on a running gitdis server",
}

func init() {
	branchCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:3000", "Base URL of a running gitdis server")
	branchCmd.AddCommand(branchAddCmd)
	branchCmd.AddCommand(branchStartCmd)
	branchCmd.AddCommand(branchListCmd)
}
