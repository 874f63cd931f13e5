package analyze

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/SnehaPriyaa-fs/vibe-coders-timesheet-sync/internal/domain"
)

// maxWindowDays caps the analyzable range; anything larger is a
// configuration mistake, not a real reporting window.
const maxWindowDays = 366

// Fetcher supplies one day's employee records.
type Fetcher interface {
	FetchDay(ctx context.Context, day time.Time) ([]domain.EmployeeRecord, error)
}

// WindowAnalysis is the full result for one reporting window.
type WindowAnalysis struct {
	WeekInfo       domain.WeekInfo          `json:"weekInfo"`
	WorkingDays    []string                 `json:"workingDays"`
	DailyAnalysis  []domain.DailyIssueSet   `json:"dailyAnalysis"`
	Summary        []domain.EmployeeSummary `json:"summary"`
	TotalEmployees int                      `json:"totalEmployees"`
	AnalyzedAt     time.Time                `json:"analyzedAt"`
}

// Pipeline runs fetch+classify per working day and folds the results.
// Each AnalyzeWindow call is an isolated computation; the pipeline itself
// holds only immutable collaborators.
type Pipeline struct {
	fetcher     Fetcher
	concurrency int
}

func NewPipeline(fetcher Fetcher, concurrency int) *Pipeline {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Pipeline{fetcher: fetcher, concurrency: concurrency}
}

// AnalyzeWindow fetches and classifies every working day in [start, end],
// then aggregates per-employee issues. A single day's fetch failure is
// recorded on that day's entry and skipped by aggregation; only a
// malformed window fails the whole operation. Days are fetched
// concurrently up to the configured limit, and DailyAnalysis keeps the
// working-day order regardless of completion order.
func (p *Pipeline) AnalyzeWindow(ctx context.Context, start, end time.Time) (WindowAnalysis, error) {
	if end.Sub(start) > maxWindowDays*24*time.Hour {
		return WindowAnalysis{}, fmt.Errorf("date range %s - %s exceeds %d days",
			start.Format(domain.DateLayout), end.Format(domain.DateLayout), maxWindowDays)
	}

	days := domain.WorkingDays(start, end)
	log.Printf("analyze window %s - %s working_days=%d",
		start.Format(domain.DateLayout), end.Format(domain.DateLayout), len(days))

	daily := make([]domain.DailyIssueSet, len(days))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, day := range days {
		i, day := i, day
		g.Go(func() error {
			records, err := p.fetcher.FetchDay(gctx, day)
			if err != nil {
				log.Printf("analyze day=%s error: %v", day.Format(domain.DateLayout), err)
				daily[i] = domain.DailyIssueSet{
					Date:    day.Format(domain.DateLayout),
					DayName: domain.DayName(day),
					Err:     err.Error(),
				}
				return nil
			}
			daily[i] = domain.ClassifyDay(records, day)
			return nil
		})
	}
	// Workers never return errors; Wait only surfaces context cancellation.
	if err := g.Wait(); err != nil {
		return WindowAnalysis{}, err
	}
	if err := ctx.Err(); err != nil {
		return WindowAnalysis{}, err
	}

	summary, totalEmployees := FoldDailySets(daily)

	workingDays := make([]string, len(days))
	for i, d := range days {
		workingDays[i] = d.Format(domain.DateLayout)
	}

	return WindowAnalysis{
		WeekInfo: domain.WeekInfo{
			StartDate:  start.Format(domain.DateLayout),
			EndDate:    end.Format(domain.DateLayout),
			WeekNumber: domain.WeekNumber(start),
		},
		WorkingDays:    workingDays,
		DailyAnalysis:  daily,
		Summary:        summary,
		TotalEmployees: totalEmployees,
		AnalyzedAt:     time.Now().UTC(),
	}, nil
}

// AnalyzePreviousWeek resolves the previous Monday-Sunday window from now
// and analyzes it.
func (p *Pipeline) AnalyzePreviousWeek(ctx context.Context, now time.Time) (WindowAnalysis, error) {
	week := domain.PreviousWeekRange(now)
	start, err := domain.ParseDate(week.StartDate)
	if err != nil {
		return WindowAnalysis{}, err
	}
	end, err := domain.ParseDate(week.EndDate)
	if err != nil {
		return WindowAnalysis{}, err
	}
	result, err := p.AnalyzeWindow(ctx, start, end)
	if err != nil {
		return WindowAnalysis{}, err
	}
	result.WeekInfo = week
	return result, nil
}
