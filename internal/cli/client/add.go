package client

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// AddRequest represents the work item creation request.
type AddRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
	ParentID    int64  `json:"parentId,omitempty"`
}

// AddCmd creates the add command.
func AddCmd() *cobra.Command {
	var (
		title       string
		description string
		itemType    string
		parentID    int64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a work item",
		Long:  "Creates a work item (Epic, Feature, or User Story) and embeds it for retrieval.",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runAdd(cmd, title, description, itemType, parentID, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Work item title (required)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Work item description")
	cmd.Flags().StringVar(&itemType, "type", "", "Work item type: Epic, Feature, or \"User Story\" (required)")
	cmd.Flags().Int64Var(&parentID, "parent", 0, "Parent work item id (0 for a root item)")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("type")

	return cmd
}

func runAdd(cmd *cobra.Command, title, description, itemType string, parentID int64, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.Post("/workitems", AddRequest{
		Title:       title,
		Description: description,
		Type:        itemType,
		ParentID:    parentID,
	})
	if err != nil {
		return fmt.Errorf("add failed: %w", err)
	}

	var created struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(resp.Data, &created); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		data, _ := json.MarshalIndent(map[string]interface{}{"id": created.ID}, "", "  ")
		fmt.Println(string(data))
	} else {
		fmt.Printf("Created work item %d: %s [%s]\n", created.ID, title, itemType)
	}

	return nil
}
