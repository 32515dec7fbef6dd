package service

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/cloo-solutions/backlogai/internal/domain"
	"github.com/google/uuid"
)

// ObjectStore defines the interface for attachment object storage
type ObjectStore interface {
	PutObject(ctx context.Context, key string, contentType string, body io.Reader) error
	ObjectURL(key string) string
}

var allowedAttachmentTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// AttachmentService stores uploaded images and hands back their
// public URLs. Attachments are write-once; there is no listing.
type AttachmentService struct {
	store ObjectStore
}

func NewAttachmentService(store ObjectStore) *AttachmentService {
	return &AttachmentService{store: store}
}

// UploadAttachment stores one image and returns its URL. Only image
// content types are accepted.
func (s *AttachmentService) UploadAttachment(ctx context.Context, contentType string, body io.Reader) (string, error) {
	ext, ok := allowedAttachmentTypes[contentType]
	if !ok {
		return "", domain.NewDomainError(domain.ErrCodeValidation, fmt.Sprintf("unsupported attachment type %q", contentType))
	}

	key := path.Join("attachments", uuid.New().String()+ext)
	if err := s.store.PutObject(ctx, key, contentType, body); err != nil {
		return "", domain.NewDomainErrorWithCause(domain.ErrCodeStorage, "attachment upload failed", err)
	}
	return s.store.ObjectURL(key), nil
}
