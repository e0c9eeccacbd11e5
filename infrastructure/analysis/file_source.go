package analysis

import (
	"context"
	"fmt"
	"os"

	"ehsaudit/domain/contracts"
)

// FileSource loads a saved analysis response from disk.
type FileSource struct {
	path   string
	intake *Intake
}

// NewFileSource creates an analysis source backed by a JSON file.
func NewFileSource(path string, intake *Intake) *FileSource {
	return &FileSource{path: path, intake: intake}
}

// Load reads and parses the analysis file.
func (s *FileSource) Load(ctx context.Context) (*contracts.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read analysis file %s: %w", s.path, err)
	}
	return s.intake.Parse(data)
}

// BytesSource parses an analysis response already held in memory, such as an
// HTTP request body.
type BytesSource struct {
	data   []byte
	intake *Intake
}

// NewBytesSource creates an analysis source over raw response bytes.
func NewBytesSource(data []byte, intake *Intake) *BytesSource {
	return &BytesSource{data: data, intake: intake}
}

// Load parses the response bytes.
func (s *BytesSource) Load(ctx context.Context) (*contracts.AnalysisResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.intake.Parse(s.data)
}
