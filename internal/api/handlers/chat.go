package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/cloo-solutions/backlogai/internal/api"
	"github.com/cloo-solutions/backlogai/internal/domain"
	"github.com/cloo-solutions/backlogai/internal/service"
)

type ChatAnswerer interface {
	Chat(ctx context.Context, input service.ChatInput) (string, error)
}

type ChatHandler struct {
	svc ChatAnswerer
}

func NewChatHandler(svc ChatAnswerer) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type ChatRequest struct {
	Message string            `json:"message"`
	History []domain.ChatTurn `json:"history,omitempty"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}

func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Message == "" {
		api.Error(w, http.StatusBadRequest, "message is required")
		return
	}
	for _, turn := range req.History {
		if !domain.IsValidChatRole(turn.Role) {
			api.Error(w, http.StatusBadRequest, "invalid history role")
			return
		}
	}

	answer, err := h.svc.Chat(r.Context(), service.ChatInput{
		Message: req.Message,
		History: req.History,
	})
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusOK, ChatResponse{Answer: answer})
}
