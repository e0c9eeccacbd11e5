package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"ehsaudit/application"
	"ehsaudit/domain/findings"
	"ehsaudit/infrastructure/serialization"
	"ehsaudit/interfaces/web/presenters"
	"ehsaudit/logging"
)

// FindingHandlers handles register reads and the two mutation entry points:
// field edits and status change requests.
type FindingHandlers struct {
	sessions   application.SessionService
	serializer *serialization.RegisterSerializer
	presenter  *presenters.FindingPresenter
	logger     *logging.Logger
}

// NewFindingHandlers creates a new finding handlers instance.
func NewFindingHandlers(
	sessions application.SessionService,
	serializer *serialization.RegisterSerializer,
	presenter *presenters.FindingPresenter,
) *FindingHandlers {
	return &FindingHandlers{
		sessions:   sessions,
		serializer: serializer,
		presenter:  presenter,
		logger:     logging.Default().WithComponent("finding_handler"),
	}
}

// StatusChangeRequest is the body of a status change request
type StatusChangeRequest struct {
	Status string `json:"status"`
}

// ListFindings returns the register. order=ranked sorts by risk score.
func (h *FindingHandlers) ListFindings(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.GetSession(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var items []findings.Finding
	switch strings.ToLower(r.URL.Query().Get("order")) {
	case "", "insertion":
		items = session.Findings()
	case "ranked", "risk":
		items = session.Ranked()
	default:
		writeBadRequest(w, h.logger, "order must be insertion or ranked")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, h.presenter.FormatFindings(items))
}

// GetFinding returns one finding
func (h *FindingHandlers) GetFinding(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.GetSession(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	f, err := session.Finding(chi.URLParam(r, "findingID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, h.presenter.FormatFinding(f))
}

// UpdateFinding applies a partial edit. Unknown and non-editable keys are rejected.
func (h *FindingHandlers) UpdateFinding(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.GetSession(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	patch, err := h.serializer.DecodePatch(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	updated, err := session.UpdateFinding(chi.URLParam(r, "findingID"), patch)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, h.presenter.FormatFinding(updated))
}

// ChangeStatus requests a status transition. A rejected transition answers
// 422 with the guard message and the unchanged finding.
func (h *FindingHandlers) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	session, err := h.sessions.GetSession(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	var req StatusChangeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeBadRequest(w, h.logger, "invalid request body: "+err.Error())
		return
	}
	to, err := findings.ParseStatus(req.Status)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	f, result, err := session.ChangeStatus(chi.URLParam(r, "findingID"), to)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	status := http.StatusOK
	if !result.Valid {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, h.logger, status, h.presenter.FormatTransition(f, result))
}
