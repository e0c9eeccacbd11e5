package reports

import (
	"strings"

	"github.com/k3a/html2text"

	"ehsaudit/domain/audit"
	"ehsaudit/domain/findings"
)

// PlainText renders the register as plain text by stripping the HTML report.
// Useful for mail bodies and terminals.
func PlainText(items []findings.Finding, actx audit.AuditContext) string {
	text := html2text.HTML2TextWithOptions(HTML(items, actx), html2text.WithUnixLineBreaks())
	return strings.TrimSpace(text) + "\n"
}
