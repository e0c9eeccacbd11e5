package sinks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ehsaudit/domain/contracts"
	"ehsaudit/logging"
)

// FileSink writes rendered documents into a local directory. Files are
// written to a temporary name first and renamed into place.
type FileSink struct {
	dir    string
	logger *logging.Logger
}

// NewFileSink creates a sink rooted at dir. The directory is created on first delivery.
func NewFileSink(dir string, logger *logging.Logger) *FileSink {
	return &FileSink{
		dir:    dir,
		logger: logger.WithComponent("file_sink"),
	}
}

// Name identifies the sink in receipts and metrics.
func (s *FileSink) Name() string {
	return "file"
}

// Deliver writes the document and returns its path.
func (s *FileSink) Deliver(ctx context.Context, doc contracts.Document) (contracts.ExportReceipt, error) {
	if err := ctx.Err(); err != nil {
		return contracts.ExportReceipt{}, err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return contracts.ExportReceipt{}, fmt.Errorf("failed to create export directory %s: %w", s.dir, err)
	}

	path := filepath.Join(s.dir, safeFileName(doc.FileName()))
	tmp, err := os.CreateTemp(s.dir, ".export-*")
	if err != nil {
		return contracts.ExportReceipt{}, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(doc.Body); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return contracts.ExportReceipt{}, fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return contracts.ExportReceipt{}, fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return contracts.ExportReceipt{}, fmt.Errorf("failed to move export into place: %w", err)
	}

	s.logger.Export("Document written", "format", string(doc.Format), "path", path, "bytes", len(doc.Body))
	return contracts.ExportReceipt{Sink: s.Name(), Location: path, Bytes: len(doc.Body)}, nil
}

// safeFileName strips directory components and characters that are awkward in file names.
func safeFileName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r < 0x20, strings.ContainsRune(`<>:"|?*`, r):
			return '_'
		}
		return r
	}, name)
	if name == "" || name == "." || name == ".." || name == "/" {
		return "export"
	}
	return name
}
