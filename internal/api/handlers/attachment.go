package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/cloo-solutions/backlogai/internal/api"
)

type AttachmentUploader interface {
	UploadAttachment(ctx context.Context, contentType string, body io.Reader) (string, error)
}

type AttachmentHandler struct {
	svc AttachmentUploader
}

func NewAttachmentHandler(svc AttachmentUploader) *AttachmentHandler {
	return &AttachmentHandler{svc: svc}
}

type AttachmentResponse struct {
	URL string `json:"url"`
}

// Upload accepts one multipart "file" part and stores it.
func (h *AttachmentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		api.Error(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		api.Error(w, http.StatusBadRequest, "content type is required")
		return
	}

	url, err := h.svc.UploadAttachment(r.Context(), contentType, file)
	if err != nil {
		api.HandleError(w, err)
		return
	}

	api.Success(w, http.StatusCreated, AttachmentResponse{URL: url})
}
