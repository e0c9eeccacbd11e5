package helpers

import (
	"fmt"
	"time"

	"github.com/stretchr/testify/mock"

	"ehsaudit/domain/audit"
	"ehsaudit/domain/contracts"
	"ehsaudit/domain/findings"
	"ehsaudit/test/mocks"
)

// SeedTime is the instant test registers are seeded at.
var SeedTime = time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC)

// MockCollaborators holds the mocks a review session talks to
type MockCollaborators struct {
	Publisher *mocks.MockRegisterEventPublisher
	Metrics   *mocks.MockReviewMetrics
	Source    *mocks.MockAnalysisSource
}

// NewMockCollaborators creates a new set of collaborator mocks
func NewMockCollaborators() *MockCollaborators {
	return &MockCollaborators{
		Publisher: &mocks.MockRegisterEventPublisher{},
		Metrics:   &mocks.MockReviewMetrics{},
		Source:    &mocks.MockAnalysisSource{},
	}
}

// AllowAllEvents accepts any event and metric call
func (m *MockCollaborators) AllowAllEvents() {
	m.Publisher.On("PublishRegisterSeeded", mock.Anything).Maybe()
	m.Publisher.On("PublishFindingUpdated", mock.Anything).Maybe()
	m.Publisher.On("PublishStatusChanged", mock.Anything).Maybe()
	m.Publisher.On("PublishTransitionRejected", mock.Anything).Maybe()

	m.Metrics.On("RecordSeeded", mock.Anything).Maybe()
	m.Metrics.On("RecordFieldUpdate").Maybe()
	m.Metrics.On("RecordTransition", mock.Anything, mock.Anything, mock.Anything).Maybe()
	m.Metrics.On("SetActiveSessions", mock.Anything).Maybe()
	m.Metrics.On("RecordExport", mock.Anything, mock.Anything, mock.Anything).Maybe()
	m.Metrics.On("ObserveRender", mock.Anything, mock.Anything).Maybe()
}

// ExpectAnalysis sets up the analysis source to return the given findings
func (m *MockCollaborators) ExpectAnalysis(items ...findings.Finding) {
	m.Source.On("Load", mock.Anything).Return(&contracts.AnalysisResult{
		MarkdownReport: "# Analysis",
		Findings:       items,
	}, nil)
}

// ExpectAnalysisFailure sets up the analysis source to fail
func (m *MockCollaborators) ExpectAnalysisFailure(err error) {
	m.Source.On("Load", mock.Anything).Return(nil, err)
}

// AssertExpectations verifies all mocks
func (m *MockCollaborators) AssertExpectations(t mock.TestingT) {
	m.Publisher.AssertExpectations(t)
	m.Metrics.AssertExpectations(t)
	m.Source.AssertExpectations(t)
}

// NewTestFinding creates a freshly analysed finding in the creation state
func NewTestFinding(id string, likelihood, severity int) findings.Finding {
	return findings.Finding{
		ID:                 id,
		Category:           "Electrical",
		FindingTitle:       findings.NewBilingualText("Tiêu đề "+id, "Title "+id),
		Observation:        findings.NewBilingualText("Quan sát", "Observation"),
		Likelihood:         likelihood,
		Severity:           severity,
		Owner:              "Maintenance",
		Status:             findings.StatusOpen,
		VerificationResult: findings.VerificationPending,
		EvidenceLinks:      []string{},
		EvidenceTypes:      []string{},
	}
}

// NewTestFindings creates n findings with ids F-1..F-n and increasing risk
func NewTestFindings(n int) []findings.Finding {
	items := make([]findings.Finding, 0, n)
	for i := 1; i <= n; i++ {
		rating := (i-1)%findings.MaxRating + 1
		items = append(items, NewTestFinding(fmt.Sprintf("F-%d", i), rating, rating))
	}
	return items
}

// NewTestContext creates the audit context used across tests
func NewTestContext() audit.AuditContext {
	return audit.AuditContext{
		Site:         "Plant A",
		Area:         "Warehouse",
		AuditType:    "Routine",
		Date:         findings.NewDate(2024, time.May, 1),
		LanguageMode: audit.LanguageBilingual,
	}
}
