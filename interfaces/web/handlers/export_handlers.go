package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ehsaudit/application"
	"ehsaudit/domain/contracts"
	"ehsaudit/interfaces/web/presenters"
	"ehsaudit/logging"
)

// ExportHandlers delivers rendered registers to sinks and serves archived exports.
type ExportHandlers struct {
	sessions  application.SessionService
	exports   *application.ExportService
	archive   contracts.ExportArchive
	presenter *presenters.ExportPresenter
	logger    *logging.Logger
}

// NewExportHandlers creates a new export handlers instance. archive may be nil
// when archiving is disabled.
func NewExportHandlers(
	sessions application.SessionService,
	exports *application.ExportService,
	archive contracts.ExportArchive,
	presenter *presenters.ExportPresenter,
) *ExportHandlers {
	return &ExportHandlers{
		sessions:  sessions,
		exports:   exports,
		archive:   archive,
		presenter: presenter,
		logger:    logging.Default().WithComponent("export_handler"),
	}
}

// ExportRequest selects the format and, optionally, the sinks of an export
type ExportRequest struct {
	Format string   `json:"format"`
	Sinks  []string `json:"sinks,omitempty"`
}

// CreateExport renders the register and delivers it
func (h *ExportHandlers) CreateExport(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.GetSession(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req ExportRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeBadRequest(w, h.logger, "invalid request body: "+err.Error())
		return
	}
	format, err := contracts.ParseDocumentFormat(req.Format)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	receipts, err := h.exports.Export(r.Context(), session, format, req.Sinks...)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.WithContext(r.Context()).Export("Export delivered", "session_id", session.ID(),
		"format", string(format), "sinks", len(receipts))
	writeJSON(w, h.logger, http.StatusCreated, h.presenter.FormatExportResult(format, receipts))
}

// ListExports returns the archived exports of a session
func (h *ExportHandlers) ListExports(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := h.sessions.GetSession(sessionID); err != nil {
		writeError(w, h.logger, err)
		return
	}

	var records []*contracts.ExportRecord
	if h.archive != nil {
		var err error
		if records, err = h.archive.ListBySession(r.Context(), sessionID); err != nil {
			writeError(w, h.logger, err)
			return
		}
	}
	writeJSON(w, h.logger, http.StatusOK, h.presenter.FormatExports(records))
}

// GetExport serves an archived export. It outlives the session it came from.
func (h *ExportHandlers) GetExport(w http.ResponseWriter, r *http.Request) {
	exportID := chi.URLParam(r, "exportID")
	if h.archive == nil {
		writeError(w, h.logger, contracts.ErrExportNotFound)
		return
	}

	record, err := h.archive.Get(r.Context(), exportID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeDocument(w, record.Format, record.Name, record.Body, wantsDownload(r))
}
