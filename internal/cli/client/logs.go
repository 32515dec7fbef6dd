package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// ChatLogItem represents one recorded chat turn.
type ChatLogItem struct {
	ID         string  `json:"id"`
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	ItemIDs    []int64 `json:"item_ids"`
	DurationMs int64   `json:"duration_ms"`
	CreatedAt  string  `json:"created_at"`
}

// ChatLogListAPIResponse represents the chat log listing response.
type ChatLogListAPIResponse struct {
	Items   []ChatLogItem `json:"items"`
	Cursor  string        `json:"cursor,omitempty"`
	HasMore bool          `json:"has_more"`
}

// LogsCmd creates the logs command.
func LogsCmd() *cobra.Command {
	var (
		limit  int
		cursor string
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "List recorded chat turns",
		Long:  "Lists recorded chat questions and answers, newest first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runLogs(cmd, limit, cursor, outputJSON)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of results")
	cmd.Flags().StringVar(&cursor, "cursor", "", "Pagination cursor from previous response")

	return cmd
}

func runLogs(cmd *cobra.Command, limit int, cursor string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if cursor != "" {
		query.Set("cursor", cursor)
	}
	path := "/chatlogs"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	resp, err := api.Get(path)
	if err != nil {
		return fmt.Errorf("logs failed: %w", err)
	}

	var logsResp ChatLogListAPIResponse
	if err := json.Unmarshal(resp.Data, &logsResp); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(logsResp, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(logsResp.Items) == 0 {
		fmt.Println("No chat logs found.")
		return nil
	}

	for i, entry := range logsResp.Items {
		fmt.Printf("[%s] %s\n", entry.CreatedAt, entry.Question)
		fmt.Printf("  %s\n", entry.Answer)
		if len(entry.ItemIDs) > 0 {
			fmt.Printf("  context items: %v (%dms)\n", entry.ItemIDs, entry.DurationMs)
		}
		if i < len(logsResp.Items)-1 {
			fmt.Println(strings.Repeat("-", 40))
		}
	}

	if logsResp.HasMore && logsResp.Cursor != "" {
		fmt.Printf("\nMore results available. Use --cursor %s\n", logsResp.Cursor)
	}

	return nil
}
