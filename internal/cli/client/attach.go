package client

import (
	"encoding/json"
	"fmt"
	"mime"
	"path/filepath"

	"github.com/spf13/cobra"
)

// AttachCmd creates the attach command.
func AttachCmd() *cobra.Command {
	var contentType string

	cmd := &cobra.Command{
		Use:   "attach <file>",
		Short: "Upload an image attachment",
		Long:  "Uploads an image to the server's attachment storage and prints its URL.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			return runAttach(cmd, args[0], contentType, outputJSON)
		},
	}

	cmd.Flags().StringVar(&contentType, "content-type", "", "Content type (detected from the file extension if not set)")

	return cmd
}

func runAttach(cmd *cobra.Command, filePath, contentType string, outputJSON bool) error {
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(filePath))
	}
	if contentType == "" {
		return fmt.Errorf("could not detect content type for %q (set --content-type)", filePath)
	}

	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	resp, err := api.UploadFile("/attachments", filePath, contentType)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	var uploaded struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(resp.Data, &uploaded); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	if outputJSON {
		data, _ := json.MarshalIndent(uploaded, "", "  ")
		fmt.Println(string(data))
	} else {
		fmt.Println(uploaded.URL)
	}

	return nil
}
