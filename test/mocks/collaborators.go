package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"ehsaudit/domain/contracts"
	"ehsaudit/domain/findings"
)

// MockExportArchive implements ExportArchive for testing
type MockExportArchive struct {
	mock.Mock
}

func (m *MockExportArchive) Save(ctx context.Context, record *contracts.ExportRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockExportArchive) Get(ctx context.Context, id string) (*contracts.ExportRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contracts.ExportRecord), args.Error(1)
}

func (m *MockExportArchive) ListBySession(ctx context.Context, sessionID string) ([]*contracts.ExportRecord, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*contracts.ExportRecord), args.Error(1)
}

// MockAnalysisSource implements AnalysisSource for testing
type MockAnalysisSource struct {
	mock.Mock
}

func (m *MockAnalysisSource) Load(ctx context.Context) (*contracts.AnalysisResult, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*contracts.AnalysisResult), args.Error(1)
}

// MockDocumentSink implements DocumentSink for testing
type MockDocumentSink struct {
	mock.Mock
	SinkName string
}

func (m *MockDocumentSink) Name() string {
	return m.SinkName
}

func (m *MockDocumentSink) Deliver(ctx context.Context, doc contracts.Document) (contracts.ExportReceipt, error) {
	args := m.Called(ctx, doc)
	return args.Get(0).(contracts.ExportReceipt), args.Error(1)
}

// MockReviewMetrics implements application.ReviewMetrics for testing
type MockReviewMetrics struct {
	mock.Mock
}

func (m *MockReviewMetrics) RecordSeeded(items []findings.Finding) {
	m.Called(items)
}

func (m *MockReviewMetrics) RecordFieldUpdate() {
	m.Called()
}

func (m *MockReviewMetrics) RecordTransition(from, to findings.Status, result findings.TransitionResult) {
	m.Called(from, to, result)
}

func (m *MockReviewMetrics) SetActiveSessions(count int) {
	m.Called(count)
}

func (m *MockReviewMetrics) RecordExport(format, sink string, err error) {
	m.Called(format, sink, err)
}

func (m *MockReviewMetrics) ObserveRender(format string, duration time.Duration) {
	m.Called(format, duration)
}
