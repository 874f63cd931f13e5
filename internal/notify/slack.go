package notify

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/slack-go/slack"

	"github.com/SnehaPriyaa-fs/vibe-coders-timesheet-sync/internal/domain"
)

// previewLimit caps per-category entry previews in the Slack report.
const previewLimit = 5

// BuildReportMessage renders the weekly report as a webhook message with
// count fields and capped per-category previews.
func BuildReportMessage(sum domain.SummaryAnalysis, week domain.WeekInfo, channel string) *slack.WebhookMessage {
	totalIssues := sum.TotalIssues()
	color := "good"
	if totalIssues > 0 {
		color = "warning"
	}

	fields := []slack.AttachmentField{
		{Title: "Week Period", Value: fmt.Sprintf("%s to %s", week.StartDate, week.EndDate), Short: true},
		{Title: "Total Employees", Value: strconv.Itoa(sum.TotalEmployees), Short: true},
		{Title: "No Submission", Value: strconv.Itoa(len(sum.NoSubmission)), Short: true},
		{Title: "Partial Submission", Value: strconv.Itoa(len(sum.PartialSubmission)), Short: true},
		{Title: "Flagged Hours", Value: strconv.Itoa(len(sum.FlaggedHours)), Short: true},
	}

	if len(sum.NoSubmission) > 0 {
		fields = append(fields, slack.AttachmentField{
			Title: fmt.Sprintf("No Timesheet Submission (%d)", len(sum.NoSubmission)),
			Value: previewLines(sum.NoSubmission, func(emp domain.IssueEntry) string {
				return fmt.Sprintf("• %s (%s) - %.0fh logged", emp.Name, emp.EmploymentStatus, emp.LoggedHours)
			}),
		})
	}
	if len(sum.PartialSubmission) > 0 {
		fields = append(fields, slack.AttachmentField{
			Title: fmt.Sprintf("Incomplete Submission (%d)", len(sum.PartialSubmission)),
			Value: previewLines(sum.PartialSubmission, func(emp domain.IssueEntry) string {
				return fmt.Sprintf("• %s (%s) - %.0fh logged", emp.Name, emp.EmploymentStatus, emp.LoggedHours)
			}),
		})
	}
	if len(sum.FlaggedHours) > 0 {
		fields = append(fields, slack.AttachmentField{
			Title: fmt.Sprintf("Flagged Hours (%d)", len(sum.FlaggedHours)),
			Value: previewLines(sum.FlaggedHours, func(emp domain.IssueEntry) string {
				return fmt.Sprintf("• %s - %.0fh flagged", emp.Name, emp.FlaggedHours)
			}),
		})
	}

	return &slack.WebhookMessage{
		Channel:   channel,
		Username:  "Timesheet Monitor",
		IconEmoji: ":chart_with_upwards_trend:",
		Text:      fmt.Sprintf("Weekly Timesheet Report - Week %d", week.WeekNumber),
		Attachments: []slack.Attachment{{
			Color:  color,
			Fields: fields,
			Footer: "Timesheet Monitoring System",
			Ts:     json.Number(strconv.FormatInt(time.Now().Unix(), 10)),
		}},
	}
}

func previewLines(entries []domain.IssueEntry, format func(domain.IssueEntry) string) string {
	limit := previewLimit
	if len(entries) < limit {
		limit = len(entries)
	}
	lines := make([]string, 0, limit+1)
	for _, emp := range entries[:limit] {
		lines = append(lines, format(emp))
	}
	if rest := len(entries) - limit; rest > 0 {
		lines = append(lines, fmt.Sprintf("... and %d more", rest))
	}
	return strings.Join(lines, "\n")
}
