package contracts

import (
	"context"

	"ehsaudit/domain/findings"
)

// AnalysisResult is the parsed output of the photo analysis collaborator.
type AnalysisResult struct {
	MarkdownReport string
	Findings       []findings.Finding
	PDFReportHTML  string
}

// AnalysisSource loads analysis results from an external collaborator.
type AnalysisSource interface {
	Load(ctx context.Context) (*AnalysisResult, error)
}
