package reports

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"ehsaudit/domain/audit"
	"ehsaudit/domain/findings"
)

const reportStyles = `
    body { font-family: Arial, sans-serif; padding: 20px; color: #333; line-height: 1.4; }
    h1 { color: #2563eb; border-bottom: 2px solid #2563eb; padding-bottom: 10px; }
    h2 { margin-top: 30px; color: #1e293b; border-bottom: 1px solid #e2e8f0; padding-bottom: 5px; }
    .info-block { background: #f8fafc; padding: 15px; margin-bottom: 20px; border-radius: 8px; font-size: 14px; }
    table { width: 100%; border-collapse: collapse; margin-bottom: 20px; font-size: 12px; }
    th, td { border: 1px solid #e2e8f0; padding: 8px; text-align: left; }
    th { background-color: #f1f5f9; font-weight: bold; }
    .badge { padding: 4px 8px; border-radius: 4px; font-weight: bold; color: white; display: inline-block; font-size: 11px; }
    .Critical { background-color: #dc2626; }
    .High { background-color: #f97316; }
    .Medium { background-color: #facc15; color: black; }
    .Low { background-color: #22c55e; }
    .overdue { color: #dc2626; font-weight: bold; }
    .finding-block { margin-bottom: 30px; page-break-inside: avoid; }
    .meta-row { font-size: 12px; color: #64748b; margin-bottom: 10px; }
    .grid-2 { display: grid; grid-template-columns: 1fr 1fr; gap: 20px; margin-bottom: 10px; }
    .vi { color: #000; margin-bottom: 4px; }
    .en { color: #666; font-style: italic; font-size: 0.9em; margin-top: 0; }
    .cap-box { background: #f0fdf4; padding: 10px; border: 1px solid #bbf7d0; border-radius: 6px; font-size: 13px; }
    .status-box { margin-top: 10px; padding: 5px; background: #eff6ff; border-radius: 4px; font-size: 12px; }
    .row { margin-bottom: 8px; }
    .footer { margin-top: 50px; text-align: center; font-size: 10px; color: #999; border-top: 1px solid #eee; padding-top: 10px; }
    a { color: #2563eb; text-decoration: none; }
`

// HTML renders the register as a self-contained, printable document. Findings
// are rendered in the order given. Both languages are always shown.
func HTML(items []findings.Finding, actx audit.AuditContext) string {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer cannot fail.
	_ = HTMLReport(items, actx).Render(context.Background(), &buf)
	return buf.String()
}

// HTMLReport returns the register document as a templ component so it can be
// streamed straight into an HTTP response.
func HTMLReport(items []findings.Finding, actx audit.AuditContext) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		d := &docWriter{w: w}

		d.raw("<!DOCTYPE html>\n<html>\n<head>\n  <meta charset=\"utf-8\">\n  <title>")
		d.text(reportTitle)
		d.raw("</title>\n  <style>")
		d.raw(reportStyles)
		d.raw("  </style>\n</head>\n<body>\n")

		d.raw("  <h1>")
		d.text(reportTitle)
		d.raw("</h1>\n  <div class=\"info-block\">\n    <strong>Context:</strong> ")
		d.text(actx.Label())
		d.raw("\n  </div>\n")

		writeSummaryTable(d, items)

		d.raw("\n  <h2>2. Findings Details / Chi tiết phát hiện</h2>\n")
		for _, f := range items {
			writeFindingDetail(d, f)
		}

		writeClosureTable(d, items)

		d.raw("\n  <div class=\"footer\">\n    Generated by EHS Photo Audit Assistant\n  </div>\n</body>\n</html>\n")
		return d.err
	})
}

const reportTitle = "EHS Photo Audit Report / Báo cáo kiểm tra EHS từ ảnh"

func writeSummaryTable(d *docWriter, items []findings.Finding) {
	d.raw(`
  <h2>1. Action Register Summary</h2>
  <table>
    <thead>
      <tr>
        <th width="50">ID</th>
        <th>Finding / Phát hiện</th>
        <th width="80">Risk</th>
        <th width="80">Owner</th>
        <th width="80">Due Date</th>
        <th width="70">Status</th>
        <th width="60">Verif.</th>
      </tr>
    </thead>
    <tbody>
`)
	for _, f := range items {
		d.raw("      <tr>\n        <td>")
		d.text(f.ID)
		d.raw("</td>\n        <td>\n          <div class=\"vi\"><strong>")
		d.text(f.FindingTitle.VI)
		d.raw("</strong></div>\n          <div class=\"en\">")
		d.text(f.FindingTitle.EN)
		d.raw("</div>\n        </td>\n        <td>")
		writeBadge(d, f)
		d.raw("</td>\n        <td>")
		d.text(f.Owner)
		d.raw("</td>\n        <td>")
		d.text(f.DueDate.String())
		if f.OverdueFlag {
			d.raw(" <span class=\"overdue\">(overdue ")
			d.text(strconv.Itoa(-f.DaysToDue))
			d.raw("d)</span>")
		}
		d.raw("</td>\n        <td>")
		d.text(f.Status.String())
		d.raw("</td>\n        <td>")
		d.text(f.VerificationResult.String())
		d.raw("</td>\n      </tr>\n")
	}
	d.raw("    </tbody>\n  </table>\n")
}

func writeBadge(d *docWriter, f findings.Finding) {
	class := "Low"
	if f.RiskLevel.IsValid() {
		class = f.RiskLevel.String()
	}
	d.rawf("<span class=\"badge %s\">", class)
	d.text(f.RiskLevel.String())
	d.rawf(" (%d)</span>", f.RiskScore)
}

func writeFindingDetail(d *docWriter, f findings.Finding) {
	d.raw("  <div class=\"finding-block\">\n    <h3>Finding #")
	d.text(f.ID)
	d.raw(": ")
	d.text(f.FindingTitle.VI)
	d.raw(" <br/><span style=\"font-size:0.8em;color:#666;font-weight:normal;\">")
	d.text(f.FindingTitle.EN)
	d.raw("</span></h3>\n    <div class=\"meta-row\">\n      <span><strong>Area:</strong> ")
	d.text(f.Area)
	d.raw("</span> |\n      <span><strong>Category:</strong> ")
	d.text(f.Category)
	d.raw("</span> |\n      <span><strong>Risk:</strong> ")
	writeBadge(d, f)
	d.raw("</span>\n    </div>\n    <div class=\"grid-2\">\n")
	writeBilingualCell(d, "Observation / Quan sát", f.Observation)
	writeBilingualCell(d, "Evidence / Bằng chứng", f.Evidence)
	d.raw("    </div>\n\n    <div class=\"cap-box\">\n      <h4>Corrective Action Plan (CAP)</h4>\n")
	writeCAPRow(d, "Containment (0-24h)", f.Containment)
	writeCAPRow(d, "Corrective", f.CorrectiveAction)
	writeCAPRow(d, "Preventive", f.PreventiveAction)
	writeCAPRow(d, "Root Cause", f.RootCause)
	d.raw("    </div>\n\n    <div class=\"status-box\">\n      <strong>Status:</strong> ")
	d.text(f.Status.String())
	if strings.TrimSpace(f.Verifier) != "" {
		d.raw(" | <strong>Verifier:</strong> ")
		d.text(f.Verifier)
		d.raw(" (")
		d.text(f.VerificationDate.String())
		d.raw(")")
	}
	if f.StatusReason.HasText() {
		d.raw("<br/><strong>Reason:</strong> ")
		d.text(f.StatusReason.VI)
		d.raw(" / ")
		d.text(f.StatusReason.EN)
	}
	d.raw("\n    </div>\n  </div>\n  <hr/>\n")
}

func writeBilingualCell(d *docWriter, label string, value findings.BilingualText) {
	d.raw("      <div>\n        <strong>")
	d.text(label)
	d.raw(":</strong>\n        <p class=\"vi\">")
	d.text(value.VI)
	d.raw("</p>\n        <p class=\"en\">")
	d.text(value.EN)
	d.raw("</p>\n      </div>\n")
}

func writeCAPRow(d *docWriter, label string, value findings.BilingualText) {
	d.raw("      <div class=\"row\">\n        <strong>")
	d.text(label)
	d.raw(":</strong> <br/> VI: ")
	d.text(value.VI)
	d.raw(" <br/> EN: ")
	d.text(value.EN)
	d.raw("\n      </div>\n")
}

func writeClosureTable(d *docWriter, items []findings.Finding) {
	d.raw(`
  <h2>3. Closure Evidence Summary / Tổng hợp bằng chứng đóng lỗi</h2>
  <table>
    <thead>
      <tr>
        <th>ID</th>
        <th>Finding</th>
        <th>Evidence Links</th>
        <th>Type</th>
        <th>Date Closed</th>
      </tr>
    </thead>
    <tbody>
`)
	closed := 0
	for _, f := range items {
		if !f.IsClosed() {
			continue
		}
		closed++
		d.raw("      <tr>\n        <td>")
		d.text(f.ID)
		d.raw("</td>\n        <td>")
		d.text(f.FindingTitle.EN)
		d.raw("</td>\n        <td>")
		if len(f.EvidenceLinks) == 0 {
			d.raw("No link")
		}
		for i, link := range f.EvidenceLinks {
			if i > 0 {
				d.raw(", ")
			}
			d.rawf("<a href=\"%s\" target=\"_blank\" rel=\"noopener\">Link</a>", href(link))
		}
		d.raw("</td>\n        <td>")
		d.text(strings.Join(f.EvidenceTypes, ", "))
		d.raw("</td>\n        <td>")
		if f.CompletionDate.IsZero() {
			d.raw("N/A")
		} else {
			d.text(f.CompletionDate.String())
		}
		d.raw("</td>\n      </tr>\n")
	}
	if closed == 0 {
		d.raw("      <tr><td colspan=\"5\" style=\"text-align:center\">No closed items found.</td></tr>\n")
	}
	d.raw("    </tbody>\n  </table>\n")
}
