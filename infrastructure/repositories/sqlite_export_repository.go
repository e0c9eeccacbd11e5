package repositories

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"ehsaudit/database"
	"ehsaudit/domain/contracts"
)

// SQLiteExportRepository implements contracts.ExportArchive on the exports table.
type SQLiteExportRepository struct {
	*BaseRepository
	now func() time.Time
}

// NewSQLiteExportRepository creates a new export archive with read/write database separation.
func NewSQLiteExportRepository(database *database.Database) contracts.ExportArchive {
	return &SQLiteExportRepository{
		BaseRepository: NewBaseRepository(database),
		now:            time.Now,
	}
}

// Save stores a rendered document. Missing id, digest and creation time are
// filled in and written back to the record.
func (r *SQLiteExportRepository) Save(ctx context.Context, record *contracts.ExportRecord) error {
	if record == nil {
		return fmt.Errorf("export record is nil")
	}
	if record.SessionID == "" {
		return fmt.Errorf("export record requires a session id")
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = r.now()
	}
	record.CreatedAt = record.CreatedAt.UTC()
	if record.Body == nil {
		record.Body = []byte{}
	}
	record.SHA256 = checksum(record.Body)

	return r.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO exports (id, session_id, format, name, body, sha256, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			record.ID, record.SessionID, string(record.Format), record.Name,
			record.Body, record.SHA256, r.FormatTime(record.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("failed to insert export %s: %w", record.ID, err)
		}
		return nil
	})
}

// Get retrieves an archived export and verifies its digest.
func (r *SQLiteExportRepository) Get(ctx context.Context, id string) (*contracts.ExportRecord, error) {
	row := r.ReadDB().QueryRowContext(ctx,
		`SELECT id, session_id, format, name, body, sha256, created_at
		 FROM exports WHERE id = ?`, id)

	record, err := r.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", contracts.ErrExportNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	if actual := checksum(record.Body); actual != record.SHA256 {
		return nil, ErrChecksumMismatch{ExportID: id, Expected: record.SHA256, Actual: actual}
	}
	return record, nil
}

// ListBySession retrieves the exports of a session, oldest first. Bodies are
// not loaded.
func (r *SQLiteExportRepository) ListBySession(ctx context.Context, sessionID string) ([]*contracts.ExportRecord, error) {
	rows, err := r.ReadDB().QueryContext(ctx,
		`SELECT id, session_id, format, name, NULL, sha256, created_at
		 FROM exports WHERE session_id = ? ORDER BY created_at, id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports for session %s: %w", sessionID, err)
	}
	defer rows.Close()

	records := []*contracts.ExportRecord{}
	for rows.Next() {
		record, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteExportRepository) scan(row rowScanner) (*contracts.ExportRecord, error) {
	var (
		record    contracts.ExportRecord
		format    string
		createdAt string
	)
	if err := row.Scan(&record.ID, &record.SessionID, &format, &record.Name,
		&record.Body, &record.SHA256, &createdAt); err != nil {
		return nil, err
	}

	parsed, err := r.ParseTime(createdAt)
	if err != nil {
		return nil, err
	}
	record.Format = contracts.DocumentFormat(format)
	record.CreatedAt = parsed
	return &record, nil
}

func checksum(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
