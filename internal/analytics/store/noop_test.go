package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/serroba/eightbin/internal/analytics"
	"github.com/serroba/eightbin/internal/analytics/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNoop_SaveLinkCreated(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	noop := store.NewNoop(zap.New(core))

	err := noop.SaveLinkCreated(context.Background(), &analytics.LinkCreatedEvent{
		Code:      "ab",
		Target:    "http://github.com",
		CreatedAt: time.Now(),
	})

	require.NoError(t, err)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "ab", logs.All()[0].ContextMap()["code"])
}

func TestNoop_SaveFileUploaded(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	noop := store.NewNoop(zap.New(core))

	err := noop.SaveFileUploaded(context.Background(), &analytics.FileUploadedEvent{
		Name:        "abcdefgh.pdf",
		ContentType: "application/pdf",
		Size:        8,
		ContentHash: analytics.ContentHash([]byte("%PDF-1.7")),
	})

	require.NoError(t, err)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "application/pdf", logs.All()[0].ContextMap()["contentType"])
}
