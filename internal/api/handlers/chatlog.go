package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/cloo-solutions/backlogai/internal/api"
	"github.com/cloo-solutions/backlogai/internal/domain"
	"github.com/cloo-solutions/backlogai/internal/pagination"
)

type ChatLogLister interface {
	ListChatLogs(ctx context.Context, cursor *pagination.Cursor, limit int) (*pagination.PageResult[*domain.ChatLog], error)
}

type ChatLogHandler struct {
	repo ChatLogLister
}

func NewChatLogHandler(repo ChatLogLister) *ChatLogHandler {
	return &ChatLogHandler{repo: repo}
}

type ChatLogResponse struct {
	ID         string  `json:"id"`
	Question   string  `json:"question"`
	Answer     string  `json:"answer"`
	ItemIDs    []int64 `json:"item_ids"`
	DurationMs int64   `json:"duration_ms"`
	CreatedAt  string  `json:"created_at"`
}

type ChatLogListResponse struct {
	Items   []*ChatLogResponse `json:"items"`
	Cursor  string             `json:"cursor,omitempty"`
	HasMore bool               `json:"has_more"`
}

func (h *ChatLogHandler) List(w http.ResponseWriter, r *http.Request) {
	cursor, err := pagination.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		api.Error(w, http.StatusBadRequest, "invalid cursor")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			api.Error(w, http.StatusBadRequest, "invalid limit")
			return
		}
	}

	page, err := h.repo.ListChatLogs(r.Context(), cursor, limit)
	if err != nil {
		api.HandleError(w, domain.NewPersistenceError(err))
		return
	}

	items := make([]*ChatLogResponse, 0, len(page.Items))
	for _, entry := range page.Items {
		items = append(items, &ChatLogResponse{
			ID:         entry.ID,
			Question:   entry.Question,
			Answer:     entry.Answer,
			ItemIDs:    entry.ItemIDs,
			DurationMs: entry.DurationMs,
			CreatedAt:  entry.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}

	api.Success(w, http.StatusOK, ChatLogListResponse{
		Items:   items,
		Cursor:  page.Cursor,
		HasMore: page.HasMore,
	})
}
