package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/cloo-solutions/backlogai/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAttachmentUploader struct {
	mock.Mock
}

func (m *MockAttachmentUploader) UploadAttachment(ctx context.Context, contentType string, body io.Reader) (string, error) {
	args := m.Called(ctx, contentType, body)
	return args.String(0), args.Error(1)
}

func multipartUpload(t *testing.T, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="screenshot.png"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func TestAttachmentHandler_Upload(t *testing.T) {
	mockSvc := new(MockAttachmentUploader)
	handler := NewAttachmentHandler(mockSvc)

	mockSvc.On("UploadAttachment", mock.Anything, "image/png", mock.Anything).
		Return("http://storage.local/backlog-attachments/attachments/abc.png", nil)

	body, contentType := multipartUpload(t, "image/png", []byte("fake png bytes"))
	req := httptest.NewRequest(http.MethodPost, "/attachments", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.Upload(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data AttachmentResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "http://storage.local/backlog-attachments/attachments/abc.png", resp.Data.URL)
}

func TestAttachmentHandler_Upload_MissingFile(t *testing.T) {
	mockSvc := new(MockAttachmentUploader)
	handler := NewAttachmentHandler(mockSvc)

	req := httptest.NewRequest(http.MethodPost, "/attachments", bytes.NewBufferString("not multipart"))
	rec := httptest.NewRecorder()
	handler.Upload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	mockSvc.AssertNotCalled(t, "UploadAttachment")
}

func TestAttachmentHandler_Upload_UnsupportedType(t *testing.T) {
	mockSvc := new(MockAttachmentUploader)
	handler := NewAttachmentHandler(mockSvc)

	mockSvc.On("UploadAttachment", mock.Anything, "application/pdf", mock.Anything).
		Return("", domain.NewDomainError(domain.ErrCodeValidation, `unsupported attachment type "application/pdf"`))

	body, contentType := multipartUpload(t, "application/pdf", []byte("%PDF"))
	req := httptest.NewRequest(http.MethodPost, "/attachments", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	handler.Upload(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
