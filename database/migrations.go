package database

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var schemaFiles embed.FS

// schemaStep is one numbered file under migrations/. The archive tracks the
// last applied step in SQLite's user_version header field.
type schemaStep struct {
	Version int
	Name    string
	SQL     string
}

// loadSchemaSteps reads the embedded steps in version order. Versions must be
// unique and start at 1.
func loadSchemaSteps(files fs.FS) ([]schemaStep, error) {
	names, err := fs.Glob(files, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list schema files: %w", err)
	}

	steps := make([]schemaStep, 0, len(names))
	for _, file := range names {
		name := strings.TrimSuffix(path.Base(file), ".sql")
		prefix, _, ok := strings.Cut(name, "_")
		if !ok {
			return nil, fmt.Errorf("schema file %s has no version prefix", file)
		}
		version, err := strconv.Atoi(prefix)
		if err != nil || version < 1 {
			return nil, fmt.Errorf("schema file %s has invalid version %q", file, prefix)
		}
		body, err := fs.ReadFile(files, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read schema file %s: %w", file, err)
		}
		steps = append(steps, schemaStep{Version: version, Name: name, SQL: string(body)})
	}

	sort.Slice(steps, func(i, j int) bool { return steps[i].Version < steps[j].Version })
	for i := 1; i < len(steps); i++ {
		if steps[i].Version == steps[i-1].Version {
			return nil, fmt.Errorf("schema version %d used by both %s and %s",
				steps[i].Version, steps[i-1].Name, steps[i].Name)
		}
	}
	return steps, nil
}

// schemaVersion returns the last applied step.
func (d *Database) schemaVersion() (int, error) {
	var version int
	if err := d.writeDB.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// runMigrations brings the export archive schema up to the newest embedded step.
// Each step and its version bump commit together.
func (d *Database) runMigrations() error {
	steps, err := loadSchemaSteps(schemaFiles)
	if err != nil {
		return err
	}

	current, err := d.schemaVersion()
	if err != nil {
		return err
	}

	applied := 0
	for _, step := range steps {
		if step.Version <= current {
			continue
		}
		if err := d.applySchemaStep(step); err != nil {
			return err
		}
		current = step.Version
		applied++
	}

	d.logger.Database("Export archive schema ready", "version", current, "applied", applied)
	return nil
}

func (d *Database) applySchemaStep(step schemaStep) error {
	tx, err := d.writeDB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin schema step %s: %w", step.Name, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(step.SQL); err != nil {
		return fmt.Errorf("schema step %s failed: %w", step.Name, err)
	}
	// PRAGMA does not accept bound parameters.
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", step.Version)); err != nil {
		return fmt.Errorf("failed to record schema step %s: %w", step.Name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit schema step %s: %w", step.Name, err)
	}

	d.logger.Database("Applied schema step", "version", step.Version, "name", step.Name)
	return nil
}
