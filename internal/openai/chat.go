package openai

import (
	"context"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel is the model used for answer generation
	DefaultChatModel = "gpt-4.1"
	// DefaultChatTemperature matches the configured sampling temperature
	DefaultChatTemperature = 0.5
)

// ErrNoChoices is returned when the model response contains no choices
var ErrNoChoices = errors.New("no choices in model response")

// Message is one turn of a chat completion request.
type Message struct {
	Role    string
	Content string
}

// ChatAPI defines the interface for chat completion
type ChatAPI interface {
	CreateChatCompletion(ctx context.Context, model string, temperature float32, messages []Message) (string, error)
}

// ChatClient wraps the OpenAI API client for answer generation
type ChatClient struct {
	api         ChatAPI
	model       string
	temperature float32
}

type ChatAdapter struct {
	client *openai.Client
}

func NewChatAdapter(apiKey string) *ChatAdapter {
	return newChatAdapter(apiKey, "")
}

func newChatAdapter(apiKey, baseURL string) *ChatAdapter {
	clientCfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientCfg.BaseURL = baseURL
	}
	return &ChatAdapter{client: openai.NewClientWithConfig(clientCfg)}
}

// CreateChatCompletion calls the OpenAI chat completion API and extracts
// the text content of the first choice.
func (a *ChatAdapter) CreateChatCompletion(ctx context.Context, model string, temperature float32, messages []Message) (string, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		msgs = append(msgs, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Temperature: temperature,
		Messages:    msgs,
	})
	if err != nil {
		return "", err
	}

	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}

	return resp.Choices[0].Message.Content, nil
}

type ChatConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
}

// NewChatClient creates a chat client using defaults.
func NewChatClient(apiKey string) *ChatClient {
	return NewChatClientWithConfig(ChatConfig{APIKey: apiKey})
}

// NewChatClientWithConfig creates a chat client with explicit configuration.
func NewChatClientWithConfig(cfg ChatConfig) *ChatClient {
	model := cfg.Model
	if model == "" {
		model = DefaultChatModel
	}
	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = DefaultChatTemperature
	}
	return &ChatClient{
		api:         newChatAdapter(cfg.APIKey, cfg.BaseURL),
		model:       model,
		temperature: temperature,
	}
}

// Complete invokes the chat model with the given messages and returns
// the plain-text answer.
func (c *ChatClient) Complete(ctx context.Context, messages []Message) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("no messages to complete")
	}

	content, err := c.api.CreateChatCompletion(ctx, c.model, c.temperature, messages)
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}

	return content, nil
}
