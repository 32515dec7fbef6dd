package server

import (
	"net/http"

	"github.com/cloo-solutions/backlogai/internal/api"
	"github.com/cloo-solutions/backlogai/internal/api/handlers"
	"github.com/cloo-solutions/backlogai/internal/api/middleware"
	"github.com/go-chi/chi/v5"
)

type RouterConfig struct {
	WorkItemHandler   *handlers.WorkItemHandler
	ChatHandler       *handlers.ChatHandler
	ChatLogHandler    *handlers.ChatLogHandler
	AttachmentHandler *handlers.AttachmentHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 5 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		api.Success(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/workitems", func(r chi.Router) {
		r.Post("/", cfg.WorkItemHandler.Create)
		r.Get("/", cfg.WorkItemHandler.List)
		r.Put("/{id}", cfg.WorkItemHandler.Update)
	})

	r.Post("/chat", cfg.ChatHandler.Chat)
	r.Get("/chatlogs", cfg.ChatLogHandler.List)

	if cfg.AttachmentHandler != nil {
		r.Post("/attachments", cfg.AttachmentHandler.Upload)
	}

	return r
}
