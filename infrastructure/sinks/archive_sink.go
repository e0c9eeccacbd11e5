package sinks

import (
	"context"
	"fmt"

	"ehsaudit/domain/contracts"
	"ehsaudit/logging"
)

// ArchiveSink stores rendered documents in the export archive so they can be
// fetched again by id.
type ArchiveSink struct {
	archive contracts.ExportArchive
	logger  *logging.Logger
}

// NewArchiveSink creates a sink backed by an export archive.
func NewArchiveSink(archive contracts.ExportArchive, logger *logging.Logger) *ArchiveSink {
	return &ArchiveSink{
		archive: archive,
		logger:  logger.WithComponent("archive_sink"),
	}
}

func (s *ArchiveSink) Name() string {
	return "archive"
}

// Deliver saves the document. The receipt location is the archived export id.
func (s *ArchiveSink) Deliver(ctx context.Context, doc contracts.Document) (contracts.ExportReceipt, error) {
	record := &contracts.ExportRecord{
		SessionID: doc.SessionID,
		Format:    doc.Format,
		Name:      doc.FileName(),
		Body:      doc.Body,
		CreatedAt: doc.RenderedAt,
	}
	if err := s.archive.Save(ctx, record); err != nil {
		return contracts.ExportReceipt{}, fmt.Errorf("failed to archive %s export: %w", doc.Format, err)
	}

	s.logger.Export("Document archived", "format", string(doc.Format), "export_id", record.ID,
		"session_id", doc.SessionID, "sha256", record.SHA256)
	return contracts.ExportReceipt{Sink: s.Name(), Location: record.ID, Bytes: len(doc.Body)}, nil
}
