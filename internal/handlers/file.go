package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/serroba/eightbin/internal/analytics"
	"github.com/serroba/eightbin/internal/filebin"
	"github.com/serroba/eightbin/internal/messaging"
	"github.com/serroba/eightbin/internal/metrics"
	"github.com/serroba/eightbin/internal/shortener"
	"go.uber.org/zap"
)

// FileHandler handles POST /upload.
type FileHandler struct {
	uploader *filebin.Uploader
	baseURL  string
	maxBytes int64
	publish  messaging.Publish[analytics.FileUploadedEvent]
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewFileHandler creates a file handler accepting files up to maxBytes.
func NewFileHandler(
	uploader *filebin.Uploader,
	baseURL string,
	maxBytes int64,
	publish messaging.Publish[analytics.FileUploadedEvent],
	m *metrics.Metrics,
	logger *zap.Logger,
) *FileHandler {
	return &FileHandler{
		uploader: uploader,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		maxBytes: maxBytes,
		publish:  publish,
		metrics:  m,
		logger:   logger,
	}
}

// MaxBytes is the largest accepted file.
func (h *FileHandler) MaxBytes() int64 {
	return h.maxBytes
}

func (h *FileHandler) Upload(ctx context.Context, req *UploadRequest) (*URLResponse, error) {
	upload, err := h.readForm(&req.RawBody)
	if err != nil {
		h.metrics.RequestFailed("upload", "invalid_input")

		return nil, err
	}

	file, err := h.uploader.Upload(ctx, *upload)
	if err != nil {
		f := classify(err, "failed to upload file")
		h.metrics.RequestFailed("upload", f.kind)
		h.logger.Error("upload failed",
			zap.String("kind", f.kind),
			zap.String("namespace", shortener.NamespaceFiles.Label()),
			zap.String("alias", upload.Alias),
			zap.Error(err),
		)

		return nil, NewAPIError(f.status, f.message)
	}

	h.metrics.FileUploaded(file.ContentType, file.Alias)

	meta := RequestMetaFromContext(ctx)
	event := &analytics.FileUploadedEvent{
		Name:        file.Name,
		ContentType: file.ContentType,
		Size:        file.Size,
		Alias:       file.Alias,
		Expiration:  upload.Expiration,
		ContentHash: analytics.ContentHash(upload.Content),
		UploadedAt:  time.Now().UTC(),
		RequestID:   meta.RequestID,
		ClientIP:    meta.ClientIP,
		UserAgent:   meta.UserAgent,
	}

	if err := h.publish(ctx, event); err != nil {
		h.logger.Error("failed to publish analytics event",
			zap.String("key", file.Key()),
			zap.Error(err),
		)
	}

	return newURLResponse(h.baseURL, file.Key()), nil
}

// readForm validates the multipart fields and reads the file content.
func (h *FileHandler) readForm(form *multipart.Form) (*filebin.FileUpload, error) {
	name := formValue(form, "name")
	if name == "" {
		return nil, NewAPIError(http.StatusBadRequest, "missing form field: name")
	}

	if len(form.File["file"]) == 0 {
		return nil, NewAPIError(http.StatusBadRequest, "missing form field: file")
	}

	header := form.File["file"][0]
	if header.Size > h.maxBytes {
		return nil, NewAPIError(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file exceeds %d bytes", h.maxBytes))
	}

	f, err := header.Open()
	if err != nil {
		h.logger.Error("open multipart file", zap.Error(err))

		return nil, NewAPIError(http.StatusBadRequest, "unreadable file")
	}
	defer f.Close()

	content, err := io.ReadAll(io.LimitReader(f, h.maxBytes+1))
	if err != nil {
		h.logger.Error("read multipart file", zap.Error(err))

		return nil, NewAPIError(http.StatusBadRequest, "unreadable file")
	}

	if int64(len(content)) > h.maxBytes {
		return nil, NewAPIError(http.StatusRequestEntityTooLarge,
			fmt.Sprintf("file exceeds %d bytes", h.maxBytes))
	}

	return &filebin.FileUpload{
		Name:       name,
		Expiration: formValue(form, "expiration"),
		Alias:      formValue(form, "custom_alias"),
		Content:    content,
	}, nil
}

func formValue(form *multipart.Form, key string) string {
	if values := form.Value[key]; len(values) > 0 {
		return values[0]
	}

	return ""
}
