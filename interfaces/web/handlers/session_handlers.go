package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"ehsaudit/application"
	"ehsaudit/infrastructure/analysis"
	"ehsaudit/infrastructure/serialization"
	"ehsaudit/interfaces/web/presenters"
	"ehsaudit/logging"
)

// SessionHandlers handles review session lifecycle endpoints.
type SessionHandlers struct {
	sessions   application.SessionService
	intake     *analysis.Intake
	serializer *serialization.RegisterSerializer
	presenter  *presenters.SessionPresenter
	logger     *logging.Logger
}

// NewSessionHandlers creates a new session handlers instance.
func NewSessionHandlers(
	sessions application.SessionService,
	intake *analysis.Intake,
	serializer *serialization.RegisterSerializer,
	presenter *presenters.SessionPresenter,
) *SessionHandlers {
	return &SessionHandlers{
		sessions:   sessions,
		intake:     intake,
		serializer: serializer,
		presenter:  presenter,
		logger:     logging.Default().WithComponent("session_handler"),
	}
}

// CreateSessionRequest seeds a session from an analysis payload. Analysis is
// passed to the intake unchanged, so it may be the collaborator's envelope,
// a bare register array or a fenced string.
type CreateSessionRequest struct {
	Context  json.RawMessage `json:"context"`
	Analysis json.RawMessage `json:"analysis"`
}

// CreateSession seeds a new register
func (h *SessionHandlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeBadRequest(w, h.logger, "invalid request body: "+err.Error())
		return
	}
	if len(req.Analysis) == 0 || string(req.Analysis) == "null" {
		writeBadRequest(w, h.logger, "missing analysis payload")
		return
	}

	actx, err := h.serializer.DeserializeContext(req.Context)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	source := analysis.NewBytesSource(req.Analysis, h.intake)
	session, err := h.sessions.CreateSession(r.Context(), actx, source)
	if err != nil {
		h.logger.WithContext(r.Context()).Warn("Failed to create review session", "error", err)
		writeError(w, h.logger, err)
		return
	}

	w.Header().Set("Location", "/api/sessions/"+session.ID())
	writeJSON(w, h.logger, http.StatusCreated, h.presenter.FormatSession(session))
}

// ListSessions returns the live sessions
func (h *SessionHandlers) ListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, h.presenter.FormatSessionList(h.sessions.ListSessions()))
}

// GetSession returns a session with its ranked findings
func (h *SessionHandlers) GetSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.GetSession(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, h.presenter.FormatSession(session))
}

// DeleteSession discards a session
func (h *SessionHandlers) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.CloseSession(chi.URLParam(r, "sessionID")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetAnalysisReport returns the narrative report from the analysis collaborator
func (h *SessionHandlers) GetAnalysisReport(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.GetSession(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(session.AnalysisReport()))
}
