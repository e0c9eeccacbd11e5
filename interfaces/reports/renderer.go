package reports

import (
	"fmt"

	"ehsaudit/domain/audit"
	"ehsaudit/domain/contracts"
	"ehsaudit/domain/findings"
	"ehsaudit/infrastructure/serialization"
)

// Renderer renders register snapshots into any supported document format.
type Renderer struct{}

// NewRenderer creates a document renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render produces the document body for the given format.
func (r *Renderer) Render(format contracts.DocumentFormat, items []findings.Finding, actx audit.AuditContext) ([]byte, error) {
	switch format {
	case contracts.FormatHTML:
		return []byte(HTML(items, actx)), nil
	case contracts.FormatMarkdown:
		return []byte(Markdown(items, actx)), nil
	case contracts.FormatText:
		return []byte(PlainText(items, actx)), nil
	case contracts.FormatJSON:
		return JSON(items)
	}
	return nil, fmt.Errorf("%w: %q", contracts.ErrUnknownFormat, format)
}

// JSON serializes findings as a pretty-printed array with the register's
// stable key order.
func JSON(items []findings.Finding) ([]byte, error) {
	return serialization.NewRegisterSerializer().SerializeFindings(items)
}
