package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"ehsaudit/application"
	"ehsaudit/domain/contracts"
	"ehsaudit/interfaces/reports"
	"ehsaudit/logging"
)

// ReportHandlers renders session registers as documents.
type ReportHandlers struct {
	sessions application.SessionService
	exports  *application.ExportService
	logger   *logging.Logger
}

// NewReportHandlers creates a new report handlers instance.
func NewReportHandlers(sessions application.SessionService, exports *application.ExportService) *ReportHandlers {
	return &ReportHandlers{
		sessions: sessions,
		exports:  exports,
		logger:   logging.Default().WithComponent("report_handler"),
	}
}

// GetReport renders the register in the requested format (html by default).
// download=1 serves it as an attachment.
func (h *ReportHandlers) GetReport(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.GetSession(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	format := contracts.FormatHTML
	if raw := r.URL.Query().Get("format"); raw != "" {
		if format, err = contracts.ParseDocumentFormat(raw); err != nil {
			writeError(w, h.logger, err)
			return
		}
	}

	doc, err := h.exports.Render(r.Context(), session, format)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeDocument(w, doc.Format, doc.FileName(), doc.Body, wantsDownload(r))
}

// ViewReport serves the bilingual HTML report as a page.
func (h *ReportHandlers) ViewReport(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.GetSession(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	RenderResponse(r.Context(), w, reports.HTMLReport(session.Findings(), session.Context()))
}

// PrintReport serves the print-ready HTML from the analysis collaborator,
// falling back to the generated report when it sent none.
func (h *ReportHandlers) PrintReport(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.GetSession(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if printable := session.PrintableReport(); printable != "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(printable))
		return
	}
	RenderResponse(r.Context(), w, reports.HTMLReport(session.Findings(), session.Context()))
}

// writeDocument writes a rendered document body with its content type.
func writeDocument(w http.ResponseWriter, format contracts.DocumentFormat, fileName string, body []byte, attachment bool) {
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	if attachment {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	}
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
