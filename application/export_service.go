package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"ehsaudit/domain/audit"
	"ehsaudit/domain/contracts"
	"ehsaudit/domain/findings"
	"ehsaudit/logging"
)

// DocumentRenderer renders a register snapshot in one document format.
type DocumentRenderer interface {
	Render(format contracts.DocumentFormat, items []findings.Finding, actx audit.AuditContext) ([]byte, error)
}

// ExportService renders session registers and delivers them to document sinks.
type ExportService struct {
	renderer   DocumentRenderer
	sinks      []contracts.DocumentSink
	filePrefix string
	clock      clockwork.Clock
	metrics    ReviewMetrics
	logger     *logging.Logger
}

// NewExportService creates an export service. Sinks are tried in the order given.
func NewExportService(
	renderer DocumentRenderer,
	sinks []contracts.DocumentSink,
	filePrefix string,
	clock clockwork.Clock,
	metrics ReviewMetrics,
) *ExportService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if metrics == nil {
		metrics = NoOpMetrics{}
	}
	if filePrefix == "" {
		filePrefix = "ehs-register"
	}
	return &ExportService{
		renderer:   renderer,
		sinks:      sinks,
		filePrefix: filePrefix,
		clock:      clock,
		metrics:    metrics,
		logger:     logging.Default().WithComponent("export_service"),
	}
}

// SinkNames lists the configured sinks.
func (s *ExportService) SinkNames() []string {
	names := make([]string, 0, len(s.sinks))
	for _, sink := range s.sinks {
		names = append(names, sink.Name())
	}
	return names
}

// Render produces a document from the session's current register.
func (s *ExportService) Render(ctx context.Context, session *ReviewSession, format contracts.DocumentFormat) (contracts.Document, error) {
	return s.RenderFindings(ctx, session.ID(), session.Findings(), session.Context(), format)
}

// RenderFindings produces a document from an explicit snapshot. The CLI uses
// it without a live session.
func (s *ExportService) RenderFindings(ctx context.Context, sessionID string, items []findings.Finding, actx audit.AuditContext, format contracts.DocumentFormat) (contracts.Document, error) {
	if err := ctx.Err(); err != nil {
		return contracts.Document{}, err
	}

	start := s.clock.Now()
	body, err := s.renderer.Render(format, items, actx)
	if err != nil {
		return contracts.Document{}, err
	}
	elapsed := s.clock.Since(start)
	s.metrics.ObserveRender(string(format), elapsed)

	doc := contracts.Document{
		Format:     format,
		SessionID:  sessionID,
		Name:       s.documentName(sessionID, actx, start),
		Body:       body,
		RenderedAt: start,
	}
	s.logger.Export("Document rendered", "session_id", sessionID, "format", string(format),
		"findings", len(items), "bytes", len(body), "duration_ms", elapsed.Milliseconds())
	return doc, nil
}

// Export renders the session register and delivers it to the named sinks, or
// to every sink when none are named. Delivery stops at the first failure.
func (s *ExportService) Export(ctx context.Context, session *ReviewSession, format contracts.DocumentFormat, sinkNames ...string) ([]contracts.ExportReceipt, error) {
	targets, err := s.selectSinks(sinkNames)
	if err != nil {
		return nil, err
	}

	doc, err := s.Render(ctx, session, format)
	if err != nil {
		return nil, err
	}
	return s.Deliver(ctx, doc, targets)
}

// Deliver sends an already rendered document to the given sinks.
func (s *ExportService) Deliver(ctx context.Context, doc contracts.Document, targets []contracts.DocumentSink) ([]contracts.ExportReceipt, error) {
	receipts := make([]contracts.ExportReceipt, 0, len(targets))
	for _, sink := range targets {
		receipt, err := sink.Deliver(ctx, doc)
		s.metrics.RecordExport(string(doc.Format), sink.Name(), err)
		if err != nil {
			s.logger.Error("Export delivery failed", "sink", sink.Name(), "format", string(doc.Format), "error", err)
			return receipts, fmt.Errorf("sink %s: %w", sink.Name(), err)
		}
		receipts = append(receipts, receipt)
	}
	return receipts, nil
}

func (s *ExportService) selectSinks(names []string) ([]contracts.DocumentSink, error) {
	if len(names) == 0 {
		return s.sinks, nil
	}

	selected := make([]contracts.DocumentSink, 0, len(names))
	for _, name := range names {
		sink := s.findSink(name)
		if sink == nil {
			return nil, fmt.Errorf("%w %q (available: %s)", contracts.ErrUnknownSink, name, strings.Join(s.SinkNames(), ", "))
		}
		selected = append(selected, sink)
	}
	return selected, nil
}

func (s *ExportService) findSink(name string) contracts.DocumentSink {
	for _, sink := range s.sinks {
		if strings.EqualFold(sink.Name(), name) {
			return sink
		}
	}
	return nil
}

// documentName builds "<prefix>-<audit date>-<session prefix>", falling back
// to the render date when the audit has no date.
func (s *ExportService) documentName(sessionID string, actx audit.AuditContext, at time.Time) string {
	date := actx.Date
	if date.IsZero() {
		date = findings.DateOf(at)
	}

	name := s.filePrefix + "-" + date.String()
	if short := shortID(sessionID); short != "" {
		name += "-" + short
	}
	return name
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
