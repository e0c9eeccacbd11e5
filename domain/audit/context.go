package audit

import (
	"errors"
	"fmt"
	"strings"

	"ehsaudit/domain/findings"
)

// ErrInvalidContext occurs when an audit context carries an unknown language mode
var ErrInvalidContext = errors.New("invalid audit context")

// LanguageMode selects which languages reports display.
type LanguageMode string

const (
	LanguageBilingual  LanguageMode = "bilingual"
	LanguageVietnamese LanguageMode = "vi"
	LanguageEnglish    LanguageMode = "en"
)

// ParseLanguageMode converts a raw value into a LanguageMode. An empty value
// selects bilingual output.
func ParseLanguageMode(raw string) (LanguageMode, error) {
	mode := LanguageMode(strings.ToLower(strings.TrimSpace(raw)))
	if mode == "" {
		return LanguageBilingual, nil
	}
	if !mode.IsValid() {
		return "", fmt.Errorf("%w: unknown language mode %q: expected bilingual, vi or en", ErrInvalidContext, raw)
	}
	return mode, nil
}

// IsValid returns true if the mode is a recognized value.
func (m LanguageMode) IsValid() bool {
	switch m {
	case LanguageBilingual, LanguageVietnamese, LanguageEnglish:
		return true
	}
	return false
}

// ShowsVietnamese reports whether Vietnamese text is displayed.
func (m LanguageMode) ShowsVietnamese() bool {
	return m == LanguageBilingual || m == LanguageVietnamese
}

// ShowsEnglish reports whether English text is displayed.
func (m LanguageMode) ShowsEnglish() bool {
	return m == LanguageBilingual || m == LanguageEnglish
}

// AuditContext is the session-level metadata of a photo audit. It is set once
// when the session starts and passed unchanged to every report.
type AuditContext struct {
	Site         string        `json:"site"`
	Area         string        `json:"area"`
	AuditType    string        `json:"audit_type"`
	Date         findings.Date `json:"date"`
	LanguageMode LanguageMode  `json:"language_mode"`
}

// Validate checks the context. A blank language mode is treated as bilingual.
func (c *AuditContext) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: audit context cannot be nil", ErrInvalidContext)
	}
	if c.LanguageMode == "" {
		c.LanguageMode = LanguageBilingual
	}
	if !c.LanguageMode.IsValid() {
		return fmt.Errorf("%w: unknown language mode %q", ErrInvalidContext, c.LanguageMode)
	}
	return nil
}

// Label renders the context as "site | area | date" for report headers.
func (c AuditContext) Label() string {
	return fmt.Sprintf("%s | %s | %s", c.Site, c.Area, c.Date)
}

// ApplyTo fills site, area, audit type and date on findings that left them blank.
func (c AuditContext) ApplyTo(items []findings.Finding) {
	for i := range items {
		f := &items[i]
		if strings.TrimSpace(f.Site) == "" {
			f.Site = c.Site
		}
		if strings.TrimSpace(f.Area) == "" {
			f.Area = c.Area
		}
		if strings.TrimSpace(f.AuditType) == "" {
			f.AuditType = c.AuditType
		}
		if f.Date.IsZero() {
			f.Date = c.Date
		}
	}
}
