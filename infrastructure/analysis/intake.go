package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"ehsaudit/domain/contracts"
	"ehsaudit/domain/findings"
	"ehsaudit/logging"
)

// response is the envelope returned by the photo analysis model.
type response struct {
	MarkdownReport     string          `json:"markdown_report"`
	ActionRegisterJSON json.RawMessage `json:"action_register_json"`
	PDFReportHTML      string          `json:"pdf_report_html"`
}

// wireFinding decodes one register row leniently. Fields the model tends to
// emit in loose shapes shadow the strict ones on the embedded Finding.
type wireFinding struct {
	findings.Finding

	Date                    string          `json:"date"`
	DueDate                 string          `json:"due_date"`
	CompletionDate          json.RawMessage `json:"completion_date"`
	EffectivenessReviewDate json.RawMessage `json:"effectiveness_review_date"`
	VerificationDate        json.RawMessage `json:"verification_date"`
	CreatedAt               string          `json:"created_at"`
	UpdatedAt               string          `json:"updated_at"`

	Likelihood *json.Number `json:"likelihood"`
	Severity   *json.Number `json:"severity"`
	PhotoIndex *json.Number `json:"photo_index"`

	// Derived or lifecycle fields, recomputed or forced on intake.
	RiskScore          json.RawMessage `json:"risk_score"`
	RiskLevel          json.RawMessage `json:"risk_level"`
	DaysToDue          json.RawMessage `json:"days_to_due"`
	OverdueFlag        json.RawMessage `json:"overdue_flag"`
	Status             json.RawMessage `json:"status"`
	OwnerConfirmed     json.RawMessage `json:"owner_confirmed"`
	VerificationResult json.RawMessage `json:"verification_result"`
}

// Intake parses analysis output into findings ready to seed a register.
type Intake struct {
	logger *logging.Logger
}

// NewIntake creates an analysis intake.
func NewIntake(logger *logging.Logger) *Intake {
	if logger == nil {
		logger = logging.Default()
	}
	return &Intake{logger: logger.WithComponent("analysis_intake")}
}

// Parse decodes the analysis response. It accepts the full envelope or a bare
// register array, either optionally wrapped in a Markdown code fence, and an
// action_register_json value that is itself a JSON-encoded string.
//
// Every returned finding is in its creation state: Open, owner unconfirmed,
// verification Pending and no completion, verification or review dates.
func (in *Intake) Parse(data []byte) (*contracts.AnalysisResult, error) {
	body := cleanJSON(string(data))
	if body == "" {
		return nil, fmt.Errorf("%w: empty analysis payload", contracts.ErrUpstreamAnalysis)
	}

	var env response
	rawRegister := json.RawMessage(body)
	if strings.HasPrefix(body, "{") {
		if err := json.Unmarshal([]byte(body), &env); err != nil {
			return nil, fmt.Errorf("%w: malformed analysis payload: %v", contracts.ErrUpstreamAnalysis, err)
		}
		rawRegister = env.ActionRegisterJSON
	}

	rows, err := decodeRegister(rawRegister)
	if err != nil {
		return nil, err
	}

	items := make([]findings.Finding, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for i, row := range rows {
		f, err := in.toFinding(i, row)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[f.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate finding id %q", contracts.ErrUpstreamAnalysis, f.ID)
		}
		seen[f.ID] = struct{}{}
		items = append(items, f)
	}

	in.logger.Info("Parsed analysis response", "findings", len(items))

	return &contracts.AnalysisResult{
		MarkdownReport: norm.NFC.String(env.MarkdownReport),
		Findings:       items,
		PDFReportHTML:  env.PDFReportHTML,
	}, nil
}

func decodeRegister(raw json.RawMessage) ([]wireFinding, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("%w: action register missing", contracts.ErrUpstreamAnalysis)
	}

	// Some models return the register as a JSON string.
	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return nil, fmt.Errorf("%w: malformed action register: %v", contracts.ErrUpstreamAnalysis, err)
		}
		raw = json.RawMessage(cleanJSON(inner))
	}

	var rows []wireFinding
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("%w: malformed action register: %v", contracts.ErrUpstreamAnalysis, err)
	}
	return rows, nil
}

func (in *Intake) toFinding(index int, row wireFinding) (findings.Finding, error) {
	f := row.Finding
	f.ID = strings.TrimSpace(norm.NFC.String(f.ID))
	if f.ID == "" {
		return findings.Finding{}, fmt.Errorf("%w: finding %d has no id", contracts.ErrUpstreamAnalysis, index)
	}

	var err error
	if f.Date, err = findings.ParseDate(row.Date); err != nil {
		in.logger.Warn("Ignoring malformed audit date", "finding_id", f.ID, "value", row.Date)
	}
	if f.DueDate, err = findings.ParseDate(row.DueDate); err != nil {
		in.logger.Warn("Ignoring malformed due date", "finding_id", f.ID, "value", row.DueDate)
	}
	f.CreatedAt = parseTimestamp(row.CreatedAt)
	f.UpdatedAt = parseTimestamp(row.UpdatedAt)

	f.Likelihood = in.rating(f.ID, "likelihood", row.Likelihood)
	f.Severity = in.rating(f.ID, "severity", row.Severity)
	f.PhotoIndex = 0
	if row.PhotoIndex != nil {
		if v, err := row.PhotoIndex.Float64(); err == nil && v > 0 {
			f.PhotoIndex = int(v)
		}
	}

	// Creation state
	f.Status = findings.StatusOpen
	f.OwnerConfirmed = false
	f.VerificationResult = findings.VerificationPending
	f.CompletionDate = findings.Date{}
	f.VerificationDate = findings.Date{}
	f.EffectivenessReviewDate = findings.Date{}
	f.RiskScore, f.RiskLevel, f.DaysToDue, f.OverdueFlag = 0, "", 0, false

	normalize(&f)
	for _, tag := range f.EvidenceTypes {
		if tag != "" && !findings.IsKnownEvidenceType(tag) {
			in.logger.Warn("Evidence type outside catalogue", "finding_id", f.ID, "value", tag)
		}
	}
	f.ApplyDefaults()
	return f, nil
}

// rating reads a 1..5 rating, clamping out-of-range or missing values.
func (in *Intake) rating(findingID, field string, raw *json.Number) int {
	if raw == nil {
		in.logger.Warn("Rating missing, defaulting to minimum", "finding_id", findingID, "field", field)
		return findings.MinRating
	}
	v, err := raw.Float64()
	if err != nil {
		in.logger.Warn("Rating not numeric, defaulting to minimum", "finding_id", findingID, "field", field, "value", raw.String())
		return findings.MinRating
	}
	rounded := int(math.Round(v))
	clamped := findings.ClampRating(rounded)
	if clamped != rounded || float64(rounded) != v {
		in.logger.Warn("Rating out of range, clamped", "finding_id", findingID, "field", field, "value", v, "clamped", clamped)
	}
	return clamped
}

func parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", findings.DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

// normalize converts every free-text field to Unicode NFC so Vietnamese
// diacritics compare and render consistently.
func normalize(f *findings.Finding) {
	for _, s := range []*string{&f.Site, &f.Area, &f.AuditType, &f.Category, &f.Owner, &f.Verifier} {
		*s = strings.TrimSpace(norm.NFC.String(*s))
	}
	for _, t := range []*findings.BilingualText{
		&f.FindingTitle, &f.Observation, &f.Evidence, &f.PotentialImpact, &f.ReferenceToVerify,
		&f.Containment, &f.CorrectiveAction, &f.PreventiveAction, &f.RootCause,
		&f.VerificationMethod, &f.EvidenceToKeep, &f.StatusReason,
	} {
		t.VI = norm.NFC.String(t.VI)
		t.EN = norm.NFC.String(t.EN)
	}
	for i := range f.EvidenceLinks {
		f.EvidenceLinks[i] = strings.TrimSpace(f.EvidenceLinks[i])
	}
	for i := range f.EvidenceTypes {
		f.EvidenceTypes[i] = strings.TrimSpace(norm.NFC.String(f.EvidenceTypes[i]))
	}
}

// cleanJSON strips a Markdown code fence around a JSON document.
func cleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
