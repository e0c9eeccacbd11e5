package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"ehsaudit/application"
	"ehsaudit/domain/contracts"
	"ehsaudit/domain/findings"
	"ehsaudit/infrastructure/analysis"
	"ehsaudit/infrastructure/serialization"
	"ehsaudit/interfaces/reports"
	"ehsaudit/interfaces/web/presenters"
	"ehsaudit/logging"
	"ehsaudit/test/mocks"
)

var seedTime = time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC)

const analysisPayload = `{
  "markdown_report": "# Báo cáo",
  "action_register_json": "[{\"id\": \"F-1\", \"finding_title\": {\"vi\": \"Dây điện hở\", \"en\": \"Exposed wiring\"}, \"likelihood\": 3, \"severity\": 5, \"due_date\": \"2024-04-28\"}, {\"id\": \"F-2\", \"finding_title\": {\"vi\": \"Thiếu biển báo\", \"en\": \"Missing sign\"}, \"likelihood\": 2, \"severity\": 2}]",
  "pdf_report_html": "<html><body>print me</body></html>"
}`

// testHandlers wires real services around a mocked archive and sink.
type testHandlers struct {
	sessions *application.SessionServiceImpl
	archive  *mocks.MockExportArchive
	sink     *mocks.MockDocumentSink
	session  *SessionHandlers
	finding  *FindingHandlers
	report   *ReportHandlers
	export   *ExportHandlers
}

func newTestHandlers(t *testing.T) *testHandlers {
	t.Helper()
	logging.SetDefault(logging.NewLogger(&logging.Config{Output: "discard"}))

	clock := clockwork.NewFakeClockAt(seedTime)
	sessions := application.NewSessionService(time.Hour, 0, clock, nil, nil)
	archive := &mocks.MockExportArchive{}
	sink := &mocks.MockDocumentSink{SinkName: "file"}
	exports := application.NewExportService(reports.NewRenderer(), []contracts.DocumentSink{sink}, "ehs-register", clock, nil)
	serializer := serialization.NewRegisterSerializer()
	findingPresenter := presenters.NewFindingPresenter()

	return &testHandlers{
		sessions: sessions,
		archive:  archive,
		sink:     sink,
		session: NewSessionHandlers(sessions, analysis.NewIntake(nil), serializer,
			presenters.NewSessionPresenter(findingPresenter)),
		finding: NewFindingHandlers(sessions, serializer, findingPresenter),
		report:  NewReportHandlers(sessions, exports),
		export:  NewExportHandlers(sessions, exports, archive, presenters.NewExportPresenter()),
	}
}

// createSession seeds a session through the handler and returns its id.
func (h *testHandlers) createSession(t *testing.T) string {
	t.Helper()
	body := `{"context": {"site": "Plant A", "area": "Warehouse", "date": "2024-05-01"}, "analysis": ` + analysisPayload + `}`
	w := httptest.NewRecorder()
	h.session.CreateSession(w, httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var view presenters.SessionView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	return view.ID
}

func withURLParams(req *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSessionHandlers_CreateSession(t *testing.T) {
	// Arrange
	h := newTestHandlers(t)
	body := `{"context": {"site": "Plant A", "area": "Warehouse", "date": "2024-05-01"}, "analysis": ` + analysisPayload + `}`
	w := httptest.NewRecorder()

	// Act
	h.session.CreateSession(w, httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(body)))

	// Assert
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var view presenters.SessionView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, "/api/sessions/"+view.ID, w.Header().Get("Location"))
	assert.Equal(t, "Plant A | Warehouse | 2024-05-01", view.Label)
	assert.Equal(t, 2, view.Summary.Total)
	assert.Equal(t, 1, view.Summary.Overdue)
	require.Len(t, view.Findings, 2)
	assert.Equal(t, "F-1", view.Findings[0].ID, "findings are ranked by risk")
	assert.Equal(t, 15, view.Findings[0].RiskScore)
	assert.Equal(t, "orange", view.Findings[0].RiskBadge.Color)
	assert.Equal(t, "Plant A", view.Findings[0].Site)
}

func TestSessionHandlers_CreateSession_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"malformed body", `{`, http.StatusBadRequest},
		{"missing analysis", `{"context": {}}`, http.StatusBadRequest},
		{"unknown language mode", `{"context": {"language_mode": "fr"}, "analysis": []}`, http.StatusBadRequest},
		{"analysis without ids", `{"analysis": [{"likelihood": 2, "severity": 2}]}`, http.StatusBadGateway},
		{"empty analysis string", `{"analysis": ""}`, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandlers(t)
			w := httptest.NewRecorder()

			h.session.CreateSession(w, httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, 0, h.sessions.Count())
		})
	}
}

func TestSessionHandlers_GetAndDelete(t *testing.T) {
	h := newTestHandlers(t)
	id := h.createSession(t)

	w := httptest.NewRecorder()
	h.session.GetSession(w, withURLParams(httptest.NewRequest(http.MethodGet, "/api/sessions/"+id, nil), "sessionID", id))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.session.GetAnalysisReport(w, withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), "sessionID", id))
	assert.Equal(t, "# Báo cáo", w.Body.String())
	assert.Equal(t, "text/markdown; charset=utf-8", w.Header().Get("Content-Type"))

	w = httptest.NewRecorder()
	h.session.ListSessions(w, httptest.NewRequest(http.MethodGet, "/api/sessions", nil))
	var list presenters.SessionListView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Sessions, 1)
	assert.Empty(t, list.Sessions[0].Findings)

	w = httptest.NewRecorder()
	h.session.DeleteSession(w, withURLParams(httptest.NewRequest(http.MethodDelete, "/", nil), "sessionID", id))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	h.session.GetSession(w, withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), "sessionID", id))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not_found", decodeError(t, w).Code)
}

func TestFindingHandlers_ListFindings_Order(t *testing.T) {
	h := newTestHandlers(t)
	id := h.createSession(t)

	tests := []struct {
		order      string
		wantStatus int
		wantFirst  string
	}{
		{"", http.StatusOK, "F-1"},
		{"ranked", http.StatusOK, "F-1"},
		{"insertion", http.StatusOK, "F-1"},
		{"alphabetical", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run("order="+tt.order, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+id+"/findings?order="+tt.order, nil)
			h.finding.ListFindings(w, withURLParams(req, "sessionID", id))

			require.Equal(t, tt.wantStatus, w.Code)
			if tt.wantFirst == "" {
				return
			}
			var views []presenters.FindingView
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
			require.Len(t, views, 2)
			assert.Equal(t, tt.wantFirst, views[0].ID)
		})
	}
}

func TestFindingHandlers_UpdateFinding(t *testing.T) {
	// Arrange
	h := newTestHandlers(t)
	id := h.createSession(t)

	tests := []struct {
		name       string
		findingID  string
		body       string
		wantStatus int
		check      func(t *testing.T, view presenters.FindingView)
	}{
		{
			name:       "rescoring recomputes risk",
			findingID:  "F-2",
			body:       `{"likelihood": 5, "severity": 4}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, view presenters.FindingView) {
				assert.Equal(t, 20, view.RiskScore)
				assert.Equal(t, findings.RiskCritical, view.RiskLevel)
				assert.Equal(t, "red", view.RiskBadge.Color)
			},
		},
		{
			name:       "clearing the due date",
			findingID:  "F-1",
			body:       `{"due_date": ""}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, view presenters.FindingView) {
				assert.True(t, view.DueDate.IsZero())
				assert.Equal(t, "No due date", view.DueLabel)
			},
		},
		{name: "status is not a patch field", findingID: "F-1", body: `{"status": "Closed"}`, wantStatus: http.StatusBadRequest},
		{name: "out of range rating", findingID: "F-1", body: `{"severity": 9}`, wantStatus: http.StatusBadRequest},
		{name: "unknown finding", findingID: "F-404", body: `{"owner": "Lan"}`, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(tt.body))

			// Act
			h.finding.UpdateFinding(w, withURLParams(req, "sessionID", id, "findingID", tt.findingID))

			// Assert
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.check != nil {
				var view presenters.FindingView
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
				tt.check(t, view)
			}
		})
	}
}

func TestFindingHandlers_ChangeStatus(t *testing.T) {
	// Arrange
	h := newTestHandlers(t)
	id := h.createSession(t)
	changeStatus := func(findingID, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		h.finding.ChangeStatus(w, withURLParams(req, "sessionID", id, "findingID", findingID))
		return w
	}

	// Act & Assert: guard rejection answers 422 with the message
	w := changeStatus("F-1", `{"status": "In-progress"}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var rejected presenters.TransitionView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rejected))
	assert.False(t, rejected.Valid)
	assert.Equal(t, findings.MsgStartRequiresAccountability, rejected.Message)
	assert.Equal(t, findings.StatusOpen, rejected.Finding.Status)

	// Satisfy the guard, then retry
	patch := httptest.NewRecorder()
	h.finding.UpdateFinding(patch, withURLParams(
		httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status_reason": {"vi": "", "en": "Owner assigned on site"}}`)),
		"sessionID", id, "findingID", "F-1"))
	require.Equal(t, http.StatusOK, patch.Code)

	w = changeStatus("F-1", `{"status": "In-progress"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var accepted presenters.TransitionView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &accepted))
	assert.True(t, accepted.Valid)
	assert.True(t, accepted.Finding.OwnerConfirmed)

	// Contract violations
	assert.Equal(t, http.StatusBadRequest, changeStatus("F-1", `{"status": "Archived"}`).Code)
	assert.Equal(t, http.StatusBadRequest, changeStatus("F-1", `not json`).Code)
	assert.Equal(t, http.StatusNotFound, changeStatus("F-404", `{"status": "Closed"}`).Code)
}

func TestReportHandlers_GetReport(t *testing.T) {
	h := newTestHandlers(t)
	id := h.createSession(t)

	tests := []struct {
		query           string
		wantStatus      int
		wantContentType string
		wantBody        string
	}{
		{"", http.StatusOK, "text/html; charset=utf-8", "Exposed wiring"},
		{"?format=md", http.StatusOK, "text/markdown; charset=utf-8", "## Finding #F-1"},
		{"?format=json", http.StatusOK, "application/json", `"containment_0_24h"`},
		{"?format=text", http.StatusOK, "text/plain; charset=utf-8", "Exposed wiring"},
		{"?format=pdf", http.StatusBadRequest, "application/json", "unknown document format"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.report.GetReport(w, withURLParams(httptest.NewRequest(http.MethodGet, "/report"+tt.query, nil), "sessionID", id))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantContentType, w.Header().Get("Content-Type"))
			assert.Contains(t, w.Body.String(), tt.wantBody)
			assert.Empty(t, w.Header().Get("Content-Disposition"))
		})
	}
}

func TestReportHandlers_GetReport_Download(t *testing.T) {
	h := newTestHandlers(t)
	id := h.createSession(t)

	w := httptest.NewRecorder()
	h.report.GetReport(w, withURLParams(httptest.NewRequest(http.MethodGet, "/report?format=markdown&download=1", nil), "sessionID", id))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="ehs-register-2024-05-01-`+id[:8]+`.md"`, w.Header().Get("Content-Disposition"))
}

func TestReportHandlers_ViewAndPrint(t *testing.T) {
	h := newTestHandlers(t)
	id := h.createSession(t)

	w := httptest.NewRecorder()
	h.report.ViewReport(w, withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), "sessionID", id))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<!DOCTYPE html>")

	w = httptest.NewRecorder()
	h.report.PrintReport(w, withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), "sessionID", id))
	assert.Equal(t, "<html><body>print me</body></html>", w.Body.String())
}

func TestExportHandlers_CreateExport(t *testing.T) {
	// Arrange
	h := newTestHandlers(t)
	id := h.createSession(t)
	h.sink.On("Deliver", mock.Anything, mock.MatchedBy(func(doc contracts.Document) bool {
		return doc.Format == contracts.FormatHTML && doc.SessionID == id
	})).Return(contracts.ExportReceipt{Sink: "file", Location: "/exports/r.html", Bytes: 42}, nil).Once()

	// Act
	w := httptest.NewRecorder()
	h.export.CreateExport(w, withURLParams(
		httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"format": "html"}`)), "sessionID", id))

	// Assert
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var result presenters.ExportResultView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "html", result.Format)
	require.Len(t, result.Receipts, 1)
	assert.Equal(t, "/exports/r.html", result.Receipts[0].Location)
	h.sink.AssertExpectations(t)
}

func TestExportHandlers_CreateExport_Errors(t *testing.T) {
	h := newTestHandlers(t)
	id := h.createSession(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"unknown format", `{"format": "docx"}`, http.StatusBadRequest},
		{"unknown sink", `{"format": "md", "sinks": ["s3"]}`, http.StatusBadRequest},
		{"malformed", `[`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.export.CreateExport(w, withURLParams(
				httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)), "sessionID", id))
			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
	h.sink.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
}

func TestExportHandlers_Archive(t *testing.T) {
	// Arrange
	h := newTestHandlers(t)
	id := h.createSession(t)
	record := &contracts.ExportRecord{
		ID:        "export-1",
		SessionID: id,
		Format:    contracts.FormatMarkdown,
		Name:      "register.md",
		Body:      []byte("# Register"),
		SHA256:    "abc",
		CreatedAt: seedTime,
	}
	h.archive.On("ListBySession", mock.Anything, id).Return([]*contracts.ExportRecord{record}, nil)
	h.archive.On("Get", mock.Anything, "export-1").Return(record, nil)
	h.archive.On("Get", mock.Anything, "missing").Return(nil, contracts.ErrExportNotFound)

	// Act & Assert: listing
	w := httptest.NewRecorder()
	h.export.ListExports(w, withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), "sessionID", id))
	require.Equal(t, http.StatusOK, w.Code)
	var views []presenters.ExportView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "/api/exports/export-1", views[0].URL)

	// Fetching
	w = httptest.NewRecorder()
	h.export.GetExport(w, withURLParams(httptest.NewRequest(http.MethodGet, "/?download=true", nil), "exportID", "export-1"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "# Register", w.Body.String())
	assert.Equal(t, `attachment; filename="register.md"`, w.Header().Get("Content-Disposition"))

	w = httptest.NewRecorder()
	h.export.GetExport(w, withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), "exportID", "missing"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{contracts.ErrSessionNotFound, http.StatusNotFound},
		{contracts.ErrFindingNotFound, http.StatusNotFound},
		{contracts.ErrExportNotFound, http.StatusNotFound},
		{contracts.ErrUpstreamAnalysis, http.StatusBadGateway},
		{findings.ErrInvalidPatch, http.StatusBadRequest},
		{findings.ErrInvalidStatus, http.StatusBadRequest},
		{contracts.ErrUnknownFormat, http.StatusBadRequest},
		{context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			got, _ := statusForError(tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}
