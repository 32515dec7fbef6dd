package main

import (
	"fmt"
	"os"

	"github.com/cloo-solutions/backlogai/internal/cli"
	"github.com/cloo-solutions/backlogai/internal/cli/admin"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "backlogd",
		Short: "Backlog daemon",
		Long:  "Backlog daemon for running the API server and maintaining work item embeddings",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.ReindexCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
