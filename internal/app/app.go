package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/slack-go/slack"

	"github.com/SnehaPriyaa-fs/vibe-coders-timesheet-sync/internal/analyze"
	"github.com/SnehaPriyaa-fs/vibe-coders-timesheet-sync/internal/config"
	"github.com/SnehaPriyaa-fs/vibe-coders-timesheet-sync/internal/httpx"
	"github.com/SnehaPriyaa-fs/vibe-coders-timesheet-sync/internal/notify"
	"github.com/SnehaPriyaa-fs/vibe-coders-timesheet-sync/internal/schedule"
	"github.com/SnehaPriyaa-fs/vibe-coders-timesheet-sync/internal/server"
	"github.com/SnehaPriyaa-fs/vibe-coders-timesheet-sync/internal/storage/sqlite"
	"github.com/SnehaPriyaa-fs/vibe-coders-timesheet-sync/internal/timesheet"
)

func Main() {
	cfg := config.LoadConfig()
	log.Printf(
		"Config loaded. APIURL=%s Timeout=%ds Concurrency=%d SlackReport=%t SlackDM=%t Email=%t Schedule=%q",
		cfg.TimesheetAPIURL,
		cfg.HTTPTimeoutSecs,
		cfg.FetchConcurrency,
		cfg.SlackReportConfigured(),
		cfg.SlackDMConfigured(),
		cfg.EmailConfigured(),
		cfg.ReportSchedule,
	)

	httpc := httpx.NewExternalClient(cfg.HTTPTimeoutSecs)
	sheets := timesheet.NewClient(cfg.TimesheetAPIURL, cfg.TimesheetPostURL, httpc, cfg.MockMode)
	pipeline := analyze.NewPipeline(sheets, cfg.FetchConcurrency)

	dispatcher := &notify.Dispatcher{
		WebhookURL:   cfg.SlackWebhookURL,
		SlackChannel: cfg.SlackChannel,
		AdminEmail:   cfg.AdminEmail,
		HREmail:      cfg.HREmail,
	}
	if cfg.SlackDMConfigured() {
		dispatcher.DM = slack.New(cfg.SlackBotToken)
	}
	if cfg.EmailConfigured() {
		dispatcher.Mailer = &notify.Mailer{
			Host: cfg.SMTPHost,
			Port: cfg.SMTPPort,
			User: cfg.SMTPUser,
			Pass: cfg.SMTPPass,
		}
	}

	handler := &server.Handler{
		Pipeline:    pipeline,
		Dispatcher:  dispatcher,
		Sheets:      sheets,
		PostTimeout: time.Duration(cfg.HTTPTimeoutSecs+5) * time.Second,
	}

	if cfg.DBPath != "" {
		db, err := sqlite.InitDB(cfg.DBPath)
		if err != nil {
			log.Fatalf("Failed to init delivery log database: %v", err)
		}
		defer db.Close()
		log.Printf("Delivery log initialized at %s", cfg.DBPath)
		handler.DeliveryDB = db
	}

	schedule.StartReportScheduler(cfg.ReportSchedule, func() {
		runScheduledReport(pipeline, dispatcher, handler)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting Timesheet Monitor API on %s...", addr)
	if err := http.ListenAndServe(addr, server.NewRouter(handler)); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

// runScheduledReport is the cron job body: previous-week analysis plus
// notification fan-out, with the same delivery logging as /api/notify.
func runScheduledReport(pipeline *analyze.Pipeline, dispatcher *notify.Dispatcher, handler *server.Handler) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	result, err := pipeline.AnalyzePreviousWeek(ctx, time.Now())
	if err != nil {
		log.Printf("Scheduled report error: %v", err)
		return
	}

	sum := analyze.BuildSummaryAnalysis(result.Summary, result.TotalEmployees)
	outcomes := dispatcher.DispatchAll(ctx, sum, result.WeekInfo)
	handler.RecordDeliveries(result.WeekInfo.WeekNumber, outcomes)
	log.Printf("Scheduled report complete week=%d issues=%d deliveries=%d",
		result.WeekInfo.WeekNumber, sum.TotalIssues(), len(outcomes))
}
