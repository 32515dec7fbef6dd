package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"
)

// WorkItemNode represents one node of the backlog tree response.
type WorkItemNode struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Type        string          `json:"type"`
	Children    []*WorkItemNode `json:"children"`
}

// ListCmd creates the list command.
func ListCmd() *cobra.Command {
	var (
		itemType string
		title    string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the backlog hierarchy",
		Long:  "Lists all work items as an Epic/Feature/User Story tree, with optional filters.",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runList(cmd, itemType, title, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&itemType, "type", "t", "", "Filter by work item type")
	cmd.Flags().StringVar(&title, "title", "", "Filter by title substring")

	return cmd
}

func runList(cmd *cobra.Command, itemType, title string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	query := url.Values{}
	if itemType != "" {
		query.Set("type", itemType)
	}
	if title != "" {
		query.Set("title", title)
	}
	path := "/workitems"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	resp, err := api.Get(path)
	if err != nil {
		return fmt.Errorf("list failed: %w", err)
	}

	var roots []*WorkItemNode
	if err := json.Unmarshal(resp.Data, &roots); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		output, _ := json.MarshalIndent(roots, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(roots) == 0 {
		fmt.Println("No work items found.")
		return nil
	}

	for _, root := range roots {
		printNode(root, 0)
	}

	return nil
}

func printNode(node *WorkItemNode, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s%d. %s [%s]\n", indent, node.ID, node.Title, node.Type)
	if node.Description != "" {
		fmt.Printf("%s   %s\n", indent, node.Description)
	}
	for _, child := range node.Children {
		printNode(child, depth+1)
	}
}
