package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ehsaudit/database"
)

// BaseRepository provides timestamp conversion and database access that can be embedded in all repositories.
type BaseRepository struct {
	db *database.Database
}

// NewBaseRepository creates a new BaseRepository with database access
func NewBaseRepository(database *database.Database) *BaseRepository {
	return &BaseRepository{
		db: database,
	}
}

// ReadDB returns the read pool for SELECT operations
func (b *BaseRepository) ReadDB() *sql.DB {
	return b.db.ReadDB()
}

// WithTx executes a function within a write transaction
func (b *BaseRepository) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	return b.db.WithTx(ctx, fn)
}

// storedTimeLayout is RFC 3339 with a fixed nine-digit fraction. Values are
// always UTC, so the text is fixed width and sorts lexically.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// FormatTime stores timestamps in UTC using storedTimeLayout.
func (b *BaseRepository) FormatTime(t time.Time) string {
	return t.UTC().Format(storedTimeLayout)
}

// ParseTime reads a timestamp written by FormatTime.
func (b *BaseRepository) ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}
