package serialization

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ehsaudit/domain/audit"
	"ehsaudit/domain/findings"
)

func createTestFinding() findings.Finding {
	return findings.Finding{
		ID:                 "F-1",
		FindingTitle:       findings.NewBilingualText("Dây điện hở", "Exposed wiring"),
		Likelihood:         3,
		Severity:           5,
		RiskScore:          15,
		RiskLevel:          findings.RiskHigh,
		Owner:              "Maintenance & Facilities",
		Status:             findings.StatusClosed,
		DueDate:            findings.NewDate(2024, time.May, 14),
		CompletionDate:     findings.NewDate(2024, time.May, 10),
		VerificationResult: findings.VerificationPass,
		Verifier:           "Jane",
		VerificationDate:   findings.NewDate(2024, time.May, 9),
		EvidenceLinks:      []string{"https://example.com/after.jpg?a=1&b=2"},
		EvidenceTypes:      []string{"before_after_photo"},
		CreatedAt:          time.Date(2024, time.May, 1, 8, 0, 0, 0, time.UTC),
		UpdatedAt:          time.Date(2024, time.May, 10, 9, 30, 0, 0, time.UTC),
	}
}

func TestRegisterSerializer_RoundTrip(t *testing.T) {
	s := NewRegisterSerializer()

	t.Run("empty list", func(t *testing.T) {
		data, err := s.SerializeFindings(nil)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(data))

		items, err := s.DeserializeFindings(data)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("populated list with nullable fields", func(t *testing.T) {
		original := []findings.Finding{createTestFinding()}

		data, err := s.SerializeFindings(original)
		require.NoError(t, err)

		items, err := s.DeserializeFindings(data)
		require.NoError(t, err)
		assert.Equal(t, original, items)
	})
}

func TestRegisterSerializer_SerializeFindings_StableLayout(t *testing.T) {
	data, err := NewRegisterSerializer().SerializeFindings([]findings.Finding{createTestFinding()})
	require.NoError(t, err)

	body := string(data)
	assert.Contains(t, body, `"owner": "Maintenance & Facilities"`)
	assert.Contains(t, body, `"https://example.com/after.jpg?a=1&b=2"`)
	assert.Contains(t, body, `"effectiveness_review_date": null`)
	assert.Less(t, strings.Index(body, `"id"`), strings.Index(body, `"site"`))
	assert.Less(t, strings.Index(body, `"risk_level"`), strings.Index(body, `"owner"`))
	assert.Less(t, strings.Index(body, `"verification_date"`), strings.Index(body, `"created_at"`))
	assert.False(t, strings.HasSuffix(body, "\n"))
}

func TestRegisterSerializer_DeserializeFindings_RejectsUnknownKeys(t *testing.T) {
	_, err := NewRegisterSerializer().DeserializeFindings([]byte(`[{"id": "F-1", "priority": "urgent"}]`))

	assert.Error(t, err)
}

func TestRegisterSerializer_DecodePatch(t *testing.T) {
	s := NewRegisterSerializer()

	tests := []struct {
		name      string
		body      string
		expectErr bool
		check     func(t *testing.T, p findings.Patch)
	}{
		{
			name: "editable fields",
			body: `{"owner": "Lan", "likelihood": 2, "due_date": "2024-06-01"}`,
			check: func(t *testing.T, p findings.Patch) {
				require.NotNil(t, p.Owner)
				assert.Equal(t, "Lan", *p.Owner)
				require.NotNil(t, p.Likelihood)
				assert.Equal(t, 2, *p.Likelihood)
				require.NotNil(t, p.DueDate)
				assert.Equal(t, "2024-06-01", p.DueDate.String())
			},
		},
		{
			name: "empty string clears a date",
			body: `{"verification_date": ""}`,
			check: func(t *testing.T, p findings.Patch) {
				require.NotNil(t, p.VerificationDate)
				assert.True(t, p.VerificationDate.IsZero())
			},
		},
		{name: "status is not editable", body: `{"status": "Closed"}`, expectErr: true},
		{name: "derived field rejected", body: `{"risk_score": 25}`, expectErr: true},
		{name: "unknown field rejected", body: `{"__proto__": {}}`, expectErr: true},
		{name: "out of range severity", body: `{"severity": 7}`, expectErr: true},
		{name: "unknown verification result", body: `{"verification_result": "Maybe"}`, expectErr: true},
		{name: "trailing data", body: `{"owner": "A"} {"owner": "B"}`, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patch, err := s.DecodePatch(strings.NewReader(tt.body))
			if tt.expectErr {
				assert.ErrorIs(t, err, findings.ErrInvalidPatch)
				return
			}
			require.NoError(t, err)
			tt.check(t, patch)
		})
	}
}

func TestRegisterSerializer_DeserializeContext(t *testing.T) {
	s := NewRegisterSerializer()

	actx, err := s.DeserializeContext([]byte(`{"site": "Plant A", "date": "2024-05-01"}`))
	require.NoError(t, err)
	assert.Equal(t, "Plant A", actx.Site)
	assert.Equal(t, audit.LanguageBilingual, actx.LanguageMode)

	_, err = s.DeserializeContext([]byte(`{"language_mode": "fr"}`))
	assert.ErrorIs(t, err, audit.ErrInvalidContext)

	_, err = s.DeserializeContext([]byte(`{"site": 42}`))
	assert.ErrorIs(t, err, audit.ErrInvalidContext)

	empty, err := s.DeserializeContext(nil)
	require.NoError(t, err)
	assert.Equal(t, audit.LanguageBilingual, empty.LanguageMode)
}
