package contracts

import (
	"context"
	"time"
)

// ExportRecord is an archived document.
type ExportRecord struct {
	ID        string
	SessionID string
	Format    DocumentFormat
	Name      string
	Body      []byte
	SHA256    string
	CreatedAt time.Time
}

// ExportArchive defines the interface for persisting rendered exports.
type ExportArchive interface {
	Save(ctx context.Context, record *ExportRecord) error
	Get(ctx context.Context, id string) (*ExportRecord, error)
	ListBySession(ctx context.Context, sessionID string) ([]*ExportRecord, error)
}
