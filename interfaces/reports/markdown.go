package reports

import (
	"fmt"
	"strings"

	"ehsaudit/domain/audit"
	"ehsaudit/domain/findings"
)

const markdownSeparator = "--------------------------------------------------"

// label is a field caption in both languages.
type label struct {
	vi, en string
}

var (
	labelArea        = label{"Khu vực", "Area"}
	labelObservation = label{"Quan sát", "Observation"}
	labelEvidence    = label{"Bằng chứng từ ảnh", "Evidence from photo"}
	labelContainment = label{"Ngăn chặn (0-24h)", "Containment (0-24h)"}
	labelCorrective  = label{"Khắc phục", "Corrective"}
	labelPreventive  = label{"Phòng ngừa", "Preventive"}
	labelRootCause   = label{"Nguyên nhân", "Root Cause"}
	labelReason      = label{"Lý do", "Reason"}
)

// Markdown renders the register as Markdown, one section per finding in the
// order given. Bilingual values and their captions are emitted only for the
// languages enabled by the context's language mode.
func Markdown(items []findings.Finding, actx audit.AuditContext) string {
	mode := actx.LanguageMode
	if !mode.IsValid() {
		mode = audit.LanguageBilingual
	}

	var b strings.Builder
	b.WriteString("# EHS Photo Audit Report\n\n")
	b.WriteString(actx.Label())
	b.WriteString("\n\n")

	writeMarkdownSummary(&b, findings.Summarize(items))

	if len(items) == 0 {
		b.WriteString("_No findings._\n")
		return b.String()
	}

	for _, f := range items {
		writeMarkdownFinding(&b, f, mode)
	}
	return b.String()
}

func writeMarkdownSummary(b *strings.Builder, s findings.Summary) {
	fmt.Fprintf(b, "**Findings**: %d | **Overdue**: %d\n", s.Total, s.Overdue)

	levels := make([]string, 0, len(findings.RiskLevels()))
	for i := len(findings.RiskLevels()) - 1; i >= 0; i-- {
		level := findings.RiskLevels()[i]
		levels = append(levels, fmt.Sprintf("%s %d", level, s.ByLevel[level]))
	}
	fmt.Fprintf(b, "**Risk**: %s\n", strings.Join(levels, " · "))

	statuses := make([]string, 0, len(findings.Statuses()))
	for _, status := range findings.Statuses() {
		statuses = append(statuses, fmt.Sprintf("%s %d", status, s.ByStatus[status]))
	}
	fmt.Fprintf(b, "**Status**: %s\n\n", strings.Join(statuses, " · "))
}

func writeMarkdownFinding(b *strings.Builder, f findings.Finding, mode audit.LanguageMode) {
	fmt.Fprintf(b, "## Finding #%s - %s\n\n", f.ID, joinTitle(f.FindingTitle, mode))

	fmt.Fprintf(b, "**%s**: %s\n", captionFor(labelArea, mode), f.Area)
	fmt.Fprintf(b, "**Category**: %s\n", f.Category)
	fmt.Fprintf(b, "**Risk**: %s (Score: %d)\n\n", f.RiskLevel, f.RiskScore)

	writeBilingualLines(b, labelObservation, f.Observation, mode, "")
	b.WriteString("\n")
	writeBilingualLines(b, labelEvidence, f.Evidence, mode, "")
	b.WriteString("\n")

	b.WriteString("### CAP\n")
	writeBilingualLines(b, labelContainment, f.Containment, mode, "- ")
	writeBilingualLines(b, labelCorrective, f.CorrectiveAction, mode, "- ")
	writeBilingualLines(b, labelPreventive, f.PreventiveAction, mode, "- ")
	writeBilingualLines(b, labelRootCause, f.RootCause, mode, "- ")

	fmt.Fprintf(b, "\n**Owner**: %s | **Due**: %s | **Status**: %s", f.Owner, f.DueDate, f.Status)
	if f.OverdueFlag {
		fmt.Fprintf(b, " | **Overdue**: %d days", -f.DaysToDue)
	}
	b.WriteString("\n")
	fmt.Fprintf(b, "**Verification**: %s", f.VerificationResult)
	if verifier := strings.TrimSpace(f.Verifier); verifier != "" {
		fmt.Fprintf(b, " by %s", verifier)
	}
	if !f.VerificationDate.IsZero() {
		fmt.Fprintf(b, " on %s", f.VerificationDate)
	}
	b.WriteString("\n")
	if f.StatusReason.HasText() {
		writeBilingualLines(b, labelReason, f.StatusReason, mode, "")
	}
	b.WriteString(markdownSeparator)
	b.WriteString("\n\n")
}

// writeBilingualLines emits one line per enabled language.
func writeBilingualLines(b *strings.Builder, l label, value findings.BilingualText, mode audit.LanguageMode, prefix string) {
	if mode.ShowsVietnamese() {
		fmt.Fprintf(b, "%s**%s**: %s\n", prefix, l.vi, value.VI)
	}
	if mode.ShowsEnglish() {
		fmt.Fprintf(b, "%s**%s**: %s\n", prefix, l.en, value.EN)
	}
}

// captionFor returns the caption text for the enabled languages.
func captionFor(l label, mode audit.LanguageMode) string {
	switch {
	case mode.ShowsVietnamese() && mode.ShowsEnglish():
		return l.en + "/" + l.vi
	case mode.ShowsVietnamese():
		return l.vi
	default:
		return l.en
	}
}

func joinTitle(title findings.BilingualText, mode audit.LanguageMode) string {
	switch {
	case mode.ShowsVietnamese() && mode.ShowsEnglish():
		return title.VI + " / " + title.EN
	case mode.ShowsVietnamese():
		return title.VI
	default:
		return title.EN
	}
}
