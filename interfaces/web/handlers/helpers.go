package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"ehsaudit/domain/audit"
	"ehsaudit/domain/contracts"
	"ehsaudit/domain/findings"
	"ehsaudit/logging"
)

// maxBodyBytes bounds request bodies. Analysis payloads embed full reports.
const maxBodyBytes = 8 << 20

// ErrorResponse is the JSON body of every failed API request.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusForError maps domain errors onto HTTP status codes.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, contracts.ErrSessionNotFound),
		errors.Is(err, contracts.ErrFindingNotFound),
		errors.Is(err, contracts.ErrExportNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, contracts.ErrUpstreamAnalysis):
		return http.StatusBadGateway, "upstream_analysis"
	case errors.Is(err, findings.ErrInvalidPatch),
		errors.Is(err, findings.ErrInvalidFinding),
		errors.Is(err, findings.ErrInvalidStatus),
		errors.Is(err, findings.ErrDuplicateFinding),
		errors.Is(err, audit.ErrInvalidContext),
		errors.Is(err, contracts.ErrUnknownFormat),
		errors.Is(err, contracts.ErrUnknownSink):
		return http.StatusBadRequest, "invalid_request"
	}
	return http.StatusInternalServerError, "internal"
}

// writeError writes err as a JSON error response.
func writeError(w http.ResponseWriter, logger *logging.Logger, err error) {
	status, code := statusForError(err)
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
	}
	writeJSON(w, logger, status, ErrorResponse{Error: err.Error(), Code: code})
}

// writeBadRequest reports malformed input that never reached the domain.
func writeBadRequest(w http.ResponseWriter, logger *logging.Logger, message string) {
	writeJSON(w, logger, http.StatusBadRequest, ErrorResponse{Error: message, Code: "invalid_request"})
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, logger *logging.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}
