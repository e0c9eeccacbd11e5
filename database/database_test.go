package database

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ehsaudit/logging"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	cfg := Config{
		Path:              filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns:      4,
		MaxIdleConns:      2,
		BusyTimeoutMs:     1000,
		EnableForeignKeys: true,
		EnableWAL:         true,
	}
	db, err := New(cfg, logging.NewLogger(&logging.Config{Output: "discard"}))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLoadSchemaSteps_Embedded(t *testing.T) {
	steps, err := loadSchemaSteps(schemaFiles)

	require.NoError(t, err)
	require.NotEmpty(t, steps)
	for i := 1; i < len(steps); i++ {
		assert.Less(t, steps[i-1].Version, steps[i].Version)
	}
	assert.Equal(t, 1, steps[0].Version)
	assert.Equal(t, "1_export_archive", steps[0].Name)
}

func TestLoadSchemaSteps_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		files fstest.MapFS
		want  string
	}{
		{
			name: "duplicate version",
			files: fstest.MapFS{
				"migrations/1_a.sql":  {Data: []byte("SELECT 1;")},
				"migrations/01_b.sql": {Data: []byte("SELECT 1;")},
			},
			want: "schema version 1 used by both",
		},
		{
			name:  "missing prefix",
			files: fstest.MapFS{"migrations/archive.sql": {Data: []byte("SELECT 1;")}},
			want:  "no version prefix",
		},
		{
			name:  "non-numeric prefix",
			files: fstest.MapFS{"migrations/v1_archive.sql": {Data: []byte("SELECT 1;")}},
			want:  "invalid version",
		},
		{
			name:  "zero version",
			files: fstest.MapFS{"migrations/0_archive.sql": {Data: []byte("SELECT 1;")}},
			want:  "invalid version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadSchemaSteps(tt.files)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNew_AppliesMigrationsOnce(t *testing.T) {
	db := newTestDatabase(t)

	// Running again must be a no-op
	require.NoError(t, db.runMigrations())

	version, err := db.schemaVersion()
	require.NoError(t, err)
	assert.Equal(t, 1, version)

	var table string
	require.NoError(t, db.ReadDB().QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name='exports'").Scan(&table))
	assert.Equal(t, "exports", table)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := newTestDatabase(t)
	ctx := context.Background()
	sentinel := errors.New("abort")

	err := db.WithTx(ctx, func(tx *sql.Tx) error {
		_, execErr := tx.Exec(`INSERT INTO exports (id, session_id, format, name, body, sha256, created_at)
			VALUES ('x', 's', 'json', 'n', X'00', 'h', '2024-01-01T00:00:00Z')`)
		require.NoError(t, execErr)
		return sentinel
	})
	assert.ErrorIs(t, err, sentinel)

	var count int
	require.NoError(t, db.ReadDB().QueryRow("SELECT COUNT(*) FROM exports").Scan(&count))
	assert.Equal(t, 0, count)
}

func TestHealth_ReportsPools(t *testing.T) {
	db := newTestDatabase(t)

	health, err := db.Health(context.Background())

	require.NoError(t, err)
	assert.Contains(t, health, "read_pool")
	assert.Contains(t, health, "write_pool")
}

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN(Config{Path: "/tmp/a.db", BusyTimeoutMs: 250, EnableWAL: true})

	assert.Contains(t, dsn, "file:/tmp/a.db?")
	assert.Contains(t, dsn, "busy_timeout%28250%29")
	assert.Contains(t, dsn, "journal_mode%28WAL%29")
	assert.NotContains(t, dsn, "foreign_keys")
}
