package presenters

import (
	"ehsaudit/domain/contracts"
)

// ExportView represents an archived export without its body
type ExportView struct {
	ID        string `json:"id"`
	SessionID string `json:"session_id"`
	Format    string `json:"format"`
	Name      string `json:"name"`
	SHA256    string `json:"sha256"`
	CreatedAt string `json:"created_at"`
	URL       string `json:"url"`
}

// ExportResultView represents the outcome of an export request
type ExportResultView struct {
	Format   string                    `json:"format"`
	Receipts []contracts.ExportReceipt `json:"receipts"`
}

// ExportPresenter transforms archive records into view models.
type ExportPresenter struct{}

// NewExportPresenter creates a new export presenter.
func NewExportPresenter() *ExportPresenter {
	return &ExportPresenter{}
}

// FormatExports converts archive records, keeping their order.
func (p *ExportPresenter) FormatExports(records []*contracts.ExportRecord) []*ExportView {
	views := make([]*ExportView, 0, len(records))
	for _, record := range records {
		views = append(views, &ExportView{
			ID:        record.ID,
			SessionID: record.SessionID,
			Format:    string(record.Format),
			Name:      record.Name,
			SHA256:    record.SHA256,
			CreatedAt: formatTimestamp(record.CreatedAt),
			URL:       "/api/exports/" + record.ID,
		})
	}
	return views
}

// FormatExportResult converts delivery receipts.
func (p *ExportPresenter) FormatExportResult(format contracts.DocumentFormat, receipts []contracts.ExportReceipt) *ExportResultView {
	if receipts == nil {
		receipts = []contracts.ExportReceipt{}
	}
	return &ExportResultView{Format: string(format), Receipts: receipts}
}
