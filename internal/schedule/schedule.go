package schedule

import (
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// StartReportScheduler runs the given job on a standard 5-field cron
// expression (minute hour day-of-month month day-of-week). Examples:
// "0 9 * * 1" (Mondays 9am), "0 7 * * 1-5" (weekdays 7am). An empty
// schedule disables it.
func StartReportScheduler(schedule string, job func()) {
	schedule = strings.TrimSpace(schedule)
	if schedule == "" {
		log.Println("Scheduled report disabled (report_schedule not set)")
		return
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		log.Printf("Invalid report_schedule '%s': %v, scheduled report disabled", schedule, err)
		return
	}

	log.Printf("Weekly report scheduled (cron: %s)", schedule)

	go func() {
		for {
			now := time.Now()
			next := sched.Next(now)
			wait := next.Sub(now)
			log.Printf("Next scheduled report at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

			time.Sleep(wait)
			job()
		}
	}()
}
