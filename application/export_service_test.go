package application

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ehsaudit/domain/audit"
	"ehsaudit/domain/contracts"
	"ehsaudit/interfaces/reports"
	"ehsaudit/test/helpers"
	"ehsaudit/test/mocks"
)

func newTestExportService(collab *helpers.MockCollaborators, sinks ...contracts.DocumentSink) *ExportService {
	return NewExportService(reports.NewRenderer(), sinks, "ehs-register",
		clockwork.NewFakeClockAt(helpers.SeedTime), collab.Metrics)
}

func TestExportService_Export_AllSinks(t *testing.T) {
	// Arrange
	session, collab := newTestSession(t, clockwork.NewFakeClockAt(helpers.SeedTime), helpers.NewTestFindings(2)...)
	fileSink := &mocks.MockDocumentSink{SinkName: "file"}
	archiveSink := &mocks.MockDocumentSink{SinkName: "archive"}

	isRegisterDoc := mock.MatchedBy(func(doc contracts.Document) bool {
		return doc.Format == contracts.FormatMarkdown &&
			doc.SessionID == "session-1" &&
			doc.Name == "ehs-register-2024-05-01-session-" &&
			strings.Contains(string(doc.Body), "Title F-1")
	})
	fileSink.On("Deliver", mock.Anything, isRegisterDoc).
		Return(contracts.ExportReceipt{Sink: "file", Location: "/tmp/x.md", Bytes: 10}, nil).Once()
	archiveSink.On("Deliver", mock.Anything, isRegisterDoc).
		Return(contracts.ExportReceipt{Sink: "archive", Location: "id-1", Bytes: 10}, nil).Once()

	service := newTestExportService(collab, fileSink, archiveSink)

	// Act
	receipts, err := service.Export(context.Background(), session, contracts.FormatMarkdown)

	// Assert
	require.NoError(t, err)
	require.Len(t, receipts, 2)
	assert.Equal(t, "file", receipts[0].Sink)
	assert.Equal(t, "archive", receipts[1].Sink)
	fileSink.AssertExpectations(t)
	archiveSink.AssertExpectations(t)
	collab.Metrics.AssertCalled(t, "RecordExport", "markdown", "file", nil)
	collab.Metrics.AssertCalled(t, "ObserveRender", "markdown", mock.Anything)
}

func TestExportService_Export_NamedSink(t *testing.T) {
	session, collab := newTestSession(t, clockwork.NewFakeClockAt(helpers.SeedTime), helpers.NewTestFindings(1)...)
	fileSink := &mocks.MockDocumentSink{SinkName: "file"}
	archiveSink := &mocks.MockDocumentSink{SinkName: "archive"}
	archiveSink.On("Deliver", mock.Anything, mock.Anything).
		Return(contracts.ExportReceipt{Sink: "archive", Location: "id-1"}, nil).Once()
	service := newTestExportService(collab, fileSink, archiveSink)

	receipts, err := service.Export(context.Background(), session, contracts.FormatJSON, "ARCHIVE")

	require.NoError(t, err)
	require.Len(t, receipts, 1)
	fileSink.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
}

func TestExportService_Export_UnknownSink(t *testing.T) {
	session, collab := newTestSession(t, clockwork.NewFakeClockAt(helpers.SeedTime), helpers.NewTestFindings(1)...)
	service := newTestExportService(collab, &mocks.MockDocumentSink{SinkName: "file"})

	_, err := service.Export(context.Background(), session, contracts.FormatHTML, "s3")

	assert.ErrorIs(t, err, contracts.ErrUnknownSink)
	collab.Metrics.AssertNotCalled(t, "ObserveRender", mock.Anything, mock.Anything)
}

func TestExportService_Export_StopsAtFirstFailure(t *testing.T) {
	// Arrange
	session, collab := newTestSession(t, clockwork.NewFakeClockAt(helpers.SeedTime), helpers.NewTestFindings(1)...)
	failing := &mocks.MockDocumentSink{SinkName: "file"}
	never := &mocks.MockDocumentSink{SinkName: "archive"}
	sinkErr := errors.New("permission denied")
	failing.On("Deliver", mock.Anything, mock.Anything).Return(contracts.ExportReceipt{}, sinkErr).Once()
	service := newTestExportService(collab, failing, never)

	// Act
	receipts, err := service.Export(context.Background(), session, contracts.FormatHTML)

	// Assert
	assert.ErrorIs(t, err, sinkErr)
	assert.Empty(t, receipts)
	never.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
	collab.Metrics.AssertCalled(t, "RecordExport", "html", "file", sinkErr)
}

func TestExportService_RenderFindings(t *testing.T) {
	collab := helpers.NewMockCollaborators()
	collab.AllowAllEvents()
	service := newTestExportService(collab)

	t.Run("unknown format", func(t *testing.T) {
		_, err := service.RenderFindings(context.Background(), "cli", nil, helpers.NewTestContext(), contracts.DocumentFormat("pdf"))
		assert.ErrorIs(t, err, contracts.ErrUnknownFormat)
	})

	t.Run("name falls back to render date", func(t *testing.T) {
		doc, err := service.RenderFindings(context.Background(), "", helpers.NewTestFindings(1),
			audit.AuditContext{LanguageMode: audit.LanguageEnglish}, contracts.FormatText)
		require.NoError(t, err)
		assert.Equal(t, "ehs-register-2024-05-01", doc.Name)
		assert.Equal(t, "ehs-register-2024-05-01.txt", doc.FileName())
		assert.Equal(t, helpers.SeedTime, doc.RenderedAt)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := service.RenderFindings(ctx, "cli", nil, helpers.NewTestContext(), contracts.FormatJSON)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestExportService_SinkNames(t *testing.T) {
	service := newTestExportService(helpers.NewMockCollaborators(),
		&mocks.MockDocumentSink{SinkName: "file"}, &mocks.MockDocumentSink{SinkName: "archive"})

	assert.Equal(t, []string{"file", "archive"}, service.SinkNames())
}
