package notify

import (
	"fmt"
	"html"
	"net/smtp"
	"strings"
	"time"

	"github.com/SnehaPriyaa-fs/vibe-coders-timesheet-sync/internal/domain"
)

// Mailer sends HTML mail over plain SMTP. No retries; the dispatcher
// records the outcome and moves on.
type Mailer struct {
	Host string
	Port int
	User string
	Pass string
}

func (m *Mailer) SendHTML(to []string, subject, htmlBody string) error {
	headers := fmt.Sprintf("From: Timesheet Monitor <%s>\r\n", m.User)
	headers += fmt.Sprintf("To: %s\r\n", strings.Join(to, ", "))
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	auth := smtp.PlainAuth("", m.User, m.Pass, m.Host)
	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	if err := smtp.SendMail(addr, auth, m.User, to, []byte(headers+htmlBody)); err != nil {
		return fmt.Errorf("sending mail to %s: %w", strings.Join(to, ", "), err)
	}
	return nil
}

// BuildEmailReport renders the weekly report as a standalone HTML
// document for the admin/HR mail.
func BuildEmailReport(sum domain.SummaryAnalysis, week domain.WeekInfo) string {
	var b strings.Builder
	b.WriteString(`<html>
<head>
<style>
    body { font-family: Arial, sans-serif; margin: 20px; }
    .header { background-color: #f4f4f4; padding: 15px; border-radius: 5px; }
    .section { margin: 20px 0; }
    .issue-list { background-color: #fff3cd; padding: 10px; border-radius: 5px; margin: 10px 0; }
    .employee { background-color: #f8f9fa; padding: 8px; margin: 5px 0; border-radius: 3px; }
    .summary { background-color: #d1ecf1; padding: 15px; border-radius: 5px; }
    .footer { margin-top: 30px; font-size: 12px; color: #666; }
</style>
</head>
<body>
`)

	fmt.Fprintf(&b, `<div class="header">
<h2>Weekly Timesheet Monitoring Report</h2>
<p><strong>Week:</strong> %d (%s to %s)</p>
<p><strong>Generated:</strong> %s</p>
</div>
`, week.WeekNumber, week.StartDate, week.EndDate, time.Now().Format("Jan 2, 2006 15:04 MST"))

	fmt.Fprintf(&b, `<div class="summary">
<h3>Summary</h3>
<ul>
<li><strong>Total Employees:</strong> %d</li>
<li><strong>No Submission:</strong> %d</li>
<li><strong>Partial Submission:</strong> %d</li>
<li><strong>Flagged Hours:</strong> %d</li>
</ul>
</div>
`, sum.TotalEmployees, len(sum.NoSubmission), len(sum.PartialSubmission), len(sum.FlaggedHours))

	writeSection(&b, fmt.Sprintf("No Timesheet Submission (%d employees)", len(sum.NoSubmission)),
		sum.NoSubmission, func(emp domain.IssueEntry) string {
			return fmt.Sprintf("<strong>%s</strong> (%s)<br><small>User ID: %s | Allocated: %.0fh | Logged: %.0fh</small>",
				html.EscapeString(emp.Name), html.EscapeString(emp.EmploymentStatus),
				html.EscapeString(emp.UserID), emp.AllocatedHours, emp.LoggedHours)
		})

	writeSection(&b, fmt.Sprintf("Incomplete Timesheet Submission (%d employees)", len(sum.PartialSubmission)),
		sum.PartialSubmission, func(emp domain.IssueEntry) string {
			return fmt.Sprintf("<strong>%s</strong> (%s)<br><small>User ID: %s | Allocated: %.0fh | Logged: %.0fh</small>",
				html.EscapeString(emp.Name), html.EscapeString(emp.EmploymentStatus),
				html.EscapeString(emp.UserID), emp.AllocatedHours, emp.LoggedHours)
		})

	writeSection(&b, fmt.Sprintf("Flagged Hours Requiring Review (%d employees)", len(sum.FlaggedHours)),
		sum.FlaggedHours, func(emp domain.IssueEntry) string {
			return fmt.Sprintf("<strong>%s</strong><br><small>User ID: %s | Flagged Hours: %.0fh | Total Logged: %.0fh</small>",
				html.EscapeString(emp.Name), html.EscapeString(emp.UserID), emp.FlaggedHours, emp.LoggedHours)
		})

	b.WriteString(`<div class="footer">
<p>This is an automated report generated by the Timesheet Monitoring System.</p>
<p>For questions or issues, please contact the IT team.</p>
</div>
</body>
</html>
`)
	return b.String()
}

func writeSection(b *strings.Builder, title string, entries []domain.IssueEntry, render func(domain.IssueEntry) string) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintf(b, "<div class=\"section\">\n<h3>%s</h3>\n<div class=\"issue-list\">\n", title)
	for _, emp := range entries {
		fmt.Fprintf(b, "<div class=\"employee\">%s</div>\n", render(emp))
	}
	b.WriteString("</div></div>\n")
}
