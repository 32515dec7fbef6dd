package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/cloo-solutions/backlogai/internal/domain"
	"github.com/cloo-solutions/backlogai/internal/telemetry"
)

// ContextRetriever defines the interface for fetching retrieval context
type ContextRetriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]*domain.RetrievedItem, error)
}

// AnswerGenerator defines the interface for language-model invocation
type AnswerGenerator interface {
	Complete(ctx context.Context, turns []domain.ChatTurn) (string, error)
}

// ChatLogStore records completed chat turns. Logging is best effort
// and never fails the turn.
type ChatLogStore interface {
	CreateChatLog(ctx context.Context, entry domain.ChatLog) (string, error)
}

// ChatInput is one user turn. History is whatever prior turns the
// caller supplies, in original order; the server holds no session
// state between calls.
type ChatInput struct {
	Message string
	History []domain.ChatTurn
}

// ChatService runs the retrieval-to-generation pipeline for one chat
// turn: embed the question, fetch the top-k similar items, assemble
// the prompt, invoke the model, return the plain-text answer. The
// steps are strictly sequential; each depends on the previous one's
// output.
type ChatService struct {
	retriever ContextRetriever
	generator AnswerGenerator
	logs      ChatLogStore
	topK      int
	timeout   time.Duration
}

type ChatServiceConfig struct {
	TopK    int
	Timeout time.Duration
}

func NewChatService(retriever ContextRetriever, generator AnswerGenerator) *ChatService {
	return NewChatServiceWithConfig(retriever, generator, nil, ChatServiceConfig{})
}

func NewChatServiceWithConfig(retriever ContextRetriever, generator AnswerGenerator, logs ChatLogStore, cfg ChatServiceConfig) *ChatService {
	topK := cfg.TopK
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &ChatService{
		retriever: retriever,
		generator: generator,
		logs:      logs,
		topK:      topK,
		timeout:   cfg.Timeout,
	}
}

// Chat answers one user turn. With an empty store (or no relevant
// context) it returns the fixed refusal rather than inventing an
// answer.
func (s *ChatService) Chat(ctx context.Context, input ChatInput) (string, error) {
	if strings.TrimSpace(input.Message) == "" {
		return "", domain.ErrMissingQuestion
	}

	ctx, span := telemetry.StartSpan(ctx, "ChatService.Chat", telemetry.SpanAttributes{
		Operation: "chat",
	})
	defer span.End()

	start := time.Now()

	retrieved, err := s.retriever.Retrieve(ctx, input.Message, s.topK)
	if err != nil {
		span.SetError(err)
		return "", err
	}

	itemIDs := make([]int64, 0, len(retrieved))
	contextTexts := make([]string, 0, len(retrieved))
	for _, item := range retrieved {
		itemIDs = append(itemIDs, item.ID)
		contextTexts = append(contextTexts, item.Description)
	}

	var answer string
	if len(retrieved) == 0 {
		// Nothing to ground an answer on; skip the model call.
		answer = RefusalAnswer
	} else {
		prompt := AssemblePrompt(contextTexts, input.History, input.Message)
		answer, err = s.generate(ctx, prompt)
		if err != nil {
			span.SetError(err)
			return "", domain.NewGenerationError(err)
		}
	}

	s.logTurn(ctx, domain.ChatLog{
		Question:   input.Message,
		Answer:     answer,
		ItemIDs:    itemIDs,
		DurationMs: time.Since(start).Milliseconds(),
	})

	return answer, nil
}

func (s *ChatService) generate(ctx context.Context, turns []domain.ChatTurn) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return s.generator.Complete(ctx, turns)
}

func (s *ChatService) logTurn(ctx context.Context, entry domain.ChatLog) {
	if s.logs == nil {
		return
	}
	if _, err := s.logs.CreateChatLog(ctx, entry); err != nil {
		log.Printf("failed to record chat log: %v", err)
	}
}
