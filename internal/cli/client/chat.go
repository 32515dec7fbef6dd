package client

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// ChatTurn is one conversation turn sent as history.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents the chat API request.
type ChatRequest struct {
	Message string     `json:"message"`
	History []ChatTurn `json:"history,omitempty"`
}

// ChatAPIResponse represents the chat API response.
type ChatAPIResponse struct {
	Answer string `json:"answer"`
}

// ChatCmd creates the chat command.
func ChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat [question]",
		Short: "Ask a question about the backlog",
		Long:  "Answers one question grounded in the stored work items. With no argument, starts an interactive session that keeps the conversation history.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputJSON, _ := cmd.Flags().GetBool("output")
			if len(args) == 1 {
				return runChatOnce(cmd, args[0], outputJSON)
			}
			return runChatSession(cmd)
		},
	}

	return cmd
}

func runChatOnce(cmd *cobra.Command, question string, outputJSON bool) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	answer, err := askQuestion(api, question, nil)
	if err != nil {
		return err
	}

	if outputJSON {
		data, _ := json.MarshalIndent(map[string]string{"answer": answer}, "", "  ")
		fmt.Println(string(data))
	} else {
		fmt.Println(answer)
	}

	return nil
}

// runChatSession keeps the conversation history client-side; the
// server holds no session state.
func runChatSession(cmd *cobra.Command) error {
	api, err := NewAPIClientWithCmd(cmd)
	if err != nil {
		return err
	}

	fmt.Println("Interactive backlog chat. Empty line or Ctrl-D to exit.")

	var history []ChatTurn
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			break
		}

		answer, err := askQuestion(api, question, history)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}

		fmt.Println(answer)
		history = append(history,
			ChatTurn{Role: "user", Content: question},
			ChatTurn{Role: "assistant", Content: answer},
		)
	}

	return scanner.Err()
}

func askQuestion(api *APIClient, question string, history []ChatTurn) (string, error) {
	resp, err := api.Post("/chat", ChatRequest{Message: question, History: history})
	if err != nil {
		return "", fmt.Errorf("chat failed: %w", err)
	}

	var chatResp ChatAPIResponse
	if err := json.Unmarshal(resp.Data, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	return chatResp.Answer, nil
}
