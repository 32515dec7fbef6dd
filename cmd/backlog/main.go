package main

import (
	"fmt"
	"os"

	"github.com/cloo-solutions/backlogai/internal/cli"
	"github.com/cloo-solutions/backlogai/internal/cli/client"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "backlog",
		Short: "Backlog CLI - RAG-backed backlog tracking",
		Long: `Backlog CLI manages work items and asks questions grounded in them.

Environment variables:
  BACKLOG_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().Bool("output", false, "Output as JSON")
	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env and config)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.InitCmd())
	rootCmd.AddCommand(client.AddCmd())
	rootCmd.AddCommand(client.ListCmd())
	rootCmd.AddCommand(client.UpdateCmd())
	rootCmd.AddCommand(client.ChatCmd())
	rootCmd.AddCommand(client.LogsCmd())
	rootCmd.AddCommand(client.AttachCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
