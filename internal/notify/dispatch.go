package notify

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/slack-go/slack"

	"github.com/SnehaPriyaa-fs/vibe-coders-timesheet-sync/internal/domain"
)

// Outcome is the result of one delivery attempt. Failures are carried
// here instead of propagating; a failed send never affects the analysis
// result or sibling sends.
type Outcome struct {
	Channel   string `json:"channel"`
	Recipient string `json:"recipient"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
}

func outcome(channel, recipient string, err error) Outcome {
	o := Outcome{Channel: channel, Recipient: recipient, OK: err == nil}
	if err != nil {
		o.Error = err.Error()
	}
	return o
}

// SlackDMClient is the slice of the Slack bot API the reminder channel
// needs. *slack.Client satisfies it.
type SlackDMClient interface {
	OpenConversationContext(ctx context.Context, params *slack.OpenConversationParameters) (*slack.Channel, bool, bool, error)
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

// WebhookPoster posts a webhook message. Split out so tests can stub the
// Slack webhook transport.
type WebhookPoster func(ctx context.Context, url string, msg *slack.WebhookMessage) error

// Dispatcher fans a summary analysis out to the configured channels. A
// nil/empty channel configuration disables that channel silently; it is
// never an error.
type Dispatcher struct {
	WebhookURL   string
	SlackChannel string
	DM           SlackDMClient
	Mailer       *Mailer
	AdminEmail   string
	HREmail      string

	// PostWebhook defaults to slack.PostWebhookContext.
	PostWebhook WebhookPoster
}

func (d *Dispatcher) postWebhook(ctx context.Context, url string, msg *slack.WebhookMessage) error {
	if d.PostWebhook != nil {
		return d.PostWebhook(ctx, url, msg)
	}
	return slack.PostWebhookContext(ctx, url, msg)
}

// DispatchAll runs the report, reminder, and email channels concurrently
// and returns every delivery outcome once all attempts, successful or
// not, have completed. One channel failing never blocks the others.
func (d *Dispatcher) DispatchAll(ctx context.Context, sum domain.SummaryAnalysis, week domain.WeekInfo) []Outcome {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []Outcome
	)
	collect := func(run func(context.Context, domain.SummaryAnalysis, domain.WeekInfo) []Outcome) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out := run(ctx, sum, week)
			mu.Lock()
			results = append(results, out...)
			mu.Unlock()
		}()
	}

	collect(d.SendReport)
	collect(d.SendReminders)
	collect(d.SendEmailReport)
	wg.Wait()

	for _, o := range results {
		if !o.OK {
			log.Printf("dispatch failed channel=%s recipient=%s: %s", o.Channel, o.Recipient, o.Error)
		}
	}
	return results
}

// SendReport posts the structured weekly report to the Slack webhook
// channel. Without a webhook URL it is a no-op with zero outcomes.
func (d *Dispatcher) SendReport(ctx context.Context, sum domain.SummaryAnalysis, week domain.WeekInfo) []Outcome {
	if d.WebhookURL == "" {
		return nil
	}
	msg := BuildReportMessage(sum, week, d.SlackChannel)
	err := d.postWebhook(ctx, d.WebhookURL, msg)
	if err == nil {
		log.Printf("slack report sent channel=%s week=%d", d.SlackChannel, week.WeekNumber)
	}
	return []Outcome{outcome("slack-report", d.SlackChannel, err)}
}

// SendReminders sends one direct message per flagged employee per issue
// type. Recipient sends run concurrently; each is wrapped so a failure is
// recorded and does not cancel sibling sends.
func (d *Dispatcher) SendReminders(ctx context.Context, sum domain.SummaryAnalysis, week domain.WeekInfo) []Outcome {
	if d.DM == nil {
		return nil
	}

	type send struct {
		userID string
		text   string
	}
	var sends []send
	for _, emp := range sum.NoSubmission {
		sends = append(sends, send{emp.UserID, reminderMessage(emp, week)})
	}
	for _, emp := range sum.PartialSubmission {
		sends = append(sends, send{emp.UserID, partialMessage(emp, week)})
	}
	for _, emp := range sum.FlaggedHours {
		sends = append(sends, send{emp.UserID, flaggedMessage(emp, week)})
	}

	outcomes := make([]Outcome, len(sends))
	var wg sync.WaitGroup
	for i, s := range sends {
		i, s := i, s
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i] = outcome("slack-dm", s.userID, d.sendDM(ctx, s.userID, s.text))
		}()
	}
	wg.Wait()
	return outcomes
}

func (d *Dispatcher) sendDM(ctx context.Context, userID, text string) error {
	channel, _, _, err := d.DM.OpenConversationContext(ctx, &slack.OpenConversationParameters{
		Users: []string{userID},
	})
	if err != nil {
		return fmt.Errorf("opening DM with %s: %w", userID, err)
	}
	_, _, err = d.DM.PostMessageContext(ctx, channel.ID, slack.MsgOptionText(text, false))
	if err != nil {
		return fmt.Errorf("sending DM to %s: %w", userID, err)
	}
	return nil
}

// SendEmailReport mails the HTML weekly report to the admin and HR
// addresses. Without a mailer it is a no-op with zero outcomes.
func (d *Dispatcher) SendEmailReport(ctx context.Context, sum domain.SummaryAnalysis, week domain.WeekInfo) []Outcome {
	if d.Mailer == nil {
		return nil
	}
	recipients := uniqueNonEmpty(d.AdminEmail, d.HREmail)
	if len(recipients) == 0 {
		return nil
	}

	subject := fmt.Sprintf("Weekly Timesheet Monitoring Report - Week %d (%s to %s)",
		week.WeekNumber, week.StartDate, week.EndDate)
	body := BuildEmailReport(sum, week)

	err := d.Mailer.SendHTML(recipients, subject, body)
	outcomes := make([]Outcome, len(recipients))
	for i, to := range recipients {
		outcomes[i] = outcome("email", to, err)
	}
	return outcomes
}

func uniqueNonEmpty(vals ...string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range vals {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func reminderMessage(emp domain.IssueEntry, week domain.WeekInfo) string {
	return fmt.Sprintf("*Timesheet Reminder*\n\nHi %s!\n\nYou haven't submitted your timesheet for Week %d (%s to %s).\n\nPlease submit your timesheet as soon as possible.\n\nIf you have any questions, please contact HR.\n\nThanks!",
		emp.Name, week.WeekNumber, week.StartDate, week.EndDate)
}

func partialMessage(emp domain.IssueEntry, week domain.WeekInfo) string {
	return fmt.Sprintf("*Incomplete Timesheet Reminder*\n\nHi %s!\n\nYour timesheet for Week %d (%s to %s) is incomplete.\n\nYou've logged %.0f hours but need %.0f hours.\n\nPlease complete your timesheet submission.\n\nThanks!",
		emp.Name, week.WeekNumber, week.StartDate, week.EndDate, emp.LoggedHours, emp.AllocatedHours)
}

func flaggedMessage(emp domain.IssueEntry, week domain.WeekInfo) string {
	return fmt.Sprintf("*Flagged Hours Alert*\n\nHi %s!\n\nYour timesheet for Week %d (%s to %s) has %.0f flagged hours that require review.\n\nPlease review and correct any flagged entries.\n\nThanks!",
		emp.Name, week.WeekNumber, week.StartDate, week.EndDate, emp.FlaggedHours)
}
