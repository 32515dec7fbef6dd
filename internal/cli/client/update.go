package client

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// UpdateRequest represents the partial work item update request.
// Only flags the user sets are sent.
type UpdateRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Type        *string `json:"type,omitempty"`
	ParentID    *int64  `json:"parentId,omitempty"`
}

// UpdateCmd creates the update command.
func UpdateCmd() *cobra.Command {
	var (
		title       string
		description string
		itemType    string
		parentID    int64
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a work item",
		Long:  "Applies a partial update. Changing the title or description re-embeds the item.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid work item id %q", args[0])
			}

			req := UpdateRequest{}
			if cmd.Flags().Changed("title") {
				req.Title = &title
			}
			if cmd.Flags().Changed("description") {
				req.Description = &description
			}
			if cmd.Flags().Changed("type") {
				req.Type = &itemType
			}
			if cmd.Flags().Changed("parent") {
				req.ParentID = &parentID
			}
			if req.Title == nil && req.Description == nil && req.Type == nil && req.ParentID == nil {
				return fmt.Errorf("nothing to update (set at least one of --title, --description, --type, --parent)")
			}

			outputJSON, _ := cmd.Flags().GetBool("output")
			return runUpdate(cmd, id, req, outputJSON)
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVar(&itemType, "type", "", "New work item type")
	cmd.Flags().Int64Var(&parentID, "parent", 0, "New parent work item id (0 to make it a root)")

	return cmd
}

func runUpdate(cmd *cobra.Command, id int64, req UpdateRequest, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	if _, err := api.Put(fmt.Sprintf("/workitems/%d", id), req); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}

	if outputJSON {
		data, _ := json.MarshalIndent(map[string]interface{}{"id": id, "updated": true}, "", "  ")
		fmt.Println(string(data))
	} else {
		fmt.Printf("Updated work item %d\n", id)
	}

	return nil
}
