package store

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/serroba/eightbin/internal/analytics"
)

//go:embed schema.sql
var schema string

// Postgres persists analytics events in PostgreSQL.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPostgres creates a Postgres analytics store.
func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// EnsureSchema creates the event tables when missing.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply analytics schema: %w", err)
	}

	return nil
}

func (p *Postgres) SaveLinkCreated(ctx context.Context, event *analytics.LinkCreatedEvent) error {
	query := `
		INSERT INTO link_events (code, target, created_at, request_id, client_ip, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := p.pool.Exec(ctx, query,
		event.Code,
		event.Target,
		event.CreatedAt,
		nullable(event.RequestID),
		nullable(event.ClientIP),
		nullable(event.UserAgent),
	)
	if err != nil {
		return fmt.Errorf("insert link event %q: %w", event.Code, err)
	}

	return nil
}

func (p *Postgres) SaveFileUploaded(ctx context.Context, event *analytics.FileUploadedEvent) error {
	query := `
		INSERT INTO file_events (
			name, content_type, size_bytes, alias, expiration, content_hash,
			uploaded_at, request_id, client_ip, user_agent
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := p.pool.Exec(ctx, query,
		event.Name,
		event.ContentType,
		event.Size,
		event.Alias,
		nullable(event.Expiration),
		event.ContentHash,
		event.UploadedAt,
		nullable(event.RequestID),
		nullable(event.ClientIP),
		nullable(event.UserAgent),
	)
	if err != nil {
		return fmt.Errorf("insert file event %q: %w", event.Name, err)
	}

	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

var _ analytics.Store = (*Postgres)(nil)
