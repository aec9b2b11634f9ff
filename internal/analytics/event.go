// Package analytics defines the events emitted for created links and uploaded files.
package analytics

import (
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
)

const (
	TopicLinkCreated  = "link.created"
	TopicFileUploaded = "file.uploaded"
)

// LinkCreatedEvent is emitted after a redirect object is written.
type LinkCreatedEvent struct {
	Code      string    `json:"code"`
	Target    string    `json:"target"`
	CreatedAt time.Time `json:"createdAt"`
	RequestID string    `json:"requestId,omitempty"`
	ClientIP  string    `json:"clientIp"`
	UserAgent string    `json:"userAgent"`
}

// FileUploadedEvent is emitted after a file is written under f/.
type FileUploadedEvent struct {
	Name        string    `json:"name"`
	ContentType string    `json:"contentType"`
	Size        int       `json:"size"`
	Alias       bool      `json:"alias"`
	Expiration  string    `json:"expiration,omitempty"`
	ContentHash string    `json:"contentHash"`
	UploadedAt  time.Time `json:"uploadedAt"`
	RequestID   string    `json:"requestId,omitempty"`
	ClientIP    string    `json:"clientIp"`
	UserAgent   string    `json:"userAgent"`
}

// ContentHash fingerprints file content as 16 hex digits of xxhash64.
// It only groups identical uploads in reports; nothing is deduplicated.
func ContentHash(content []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(content))
}
