package analyze

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/SnehaPriyaa-fs/vibe-coders-timesheet-sync/internal/domain"
)

// FoldDailySets merges per-day issue sets into per-employee summaries.
// The keyed accumulator lives only for the duration of this pass. Days
// that failed to fetch contribute nothing. A day lands in DaysMissed only
// for a no-submission issue; flagged-hours days are tracked separately so
// an employee with both issues on the same day is not double counted.
// The window's employee total is the maximum of per-day totals, which
// keeps days with partial rosters from undercounting.
func FoldDailySets(daily []domain.DailyIssueSet) ([]domain.EmployeeSummary, int) {
	acc := make(map[string]*domain.EmployeeSummary)
	totalEmployees := 0

	getOrCreate := func(e domain.IssueEntry) *domain.EmployeeSummary {
		s, ok := acc[e.UserID]
		if !ok {
			s = &domain.EmployeeSummary{
				UserID:           e.UserID,
				Name:             e.Name,
				Email:            e.Email,
				EmploymentStatus: e.EmploymentStatus,
			}
			acc[e.UserID] = s
		}
		return s
	}

	for _, day := range daily {
		if day.Failed() {
			continue
		}

		for _, emp := range day.NoSubmission {
			s := getOrCreate(emp)
			s.DaysMissed = append(s.DaysMissed, domain.DayRef{Date: day.Date, DayName: day.DayName})
		}

		for _, emp := range day.FlaggedHours {
			s := getOrCreate(emp)
			if emp.FlaggedHours > 0 {
				s.FlaggedHours = emp.FlaggedHours
			}
			if !containsDay(s.FlaggedDays, day.Date) {
				s.FlaggedDays = append(s.FlaggedDays, day.Date)
			}
		}

		if day.TotalEmployees > totalEmployees {
			totalEmployees = day.TotalEmployees
		}
	}

	summaries := make([]domain.EmployeeSummary, 0, len(acc))
	for _, s := range acc {
		s.TotalDaysMissed = len(s.DaysMissed)
		summaries = append(summaries, *s)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].TotalDaysMissed != summaries[j].TotalDaysMissed {
			return summaries[i].TotalDaysMissed > summaries[j].TotalDaysMissed
		}
		return summaries[i].Name < summaries[j].Name
	})

	return summaries, totalEmployees
}

// BuildSummaryAnalysis reshapes the per-employee summaries into the
// per-category buckets the notification channels render.
func BuildSummaryAnalysis(summaries []domain.EmployeeSummary, totalEmployees int) domain.SummaryAnalysis {
	out := domain.SummaryAnalysis{
		NoSubmission:      []domain.IssueEntry{},
		PartialSubmission: []domain.IssueEntry{},
		FlaggedHours:      []domain.IssueEntry{},
		TotalEmployees:    totalEmployees,
		AnalyzedAt:        time.Now().UTC(),
	}

	for _, s := range summaries {
		if s.TotalDaysMissed > 0 {
			dates := make([]string, len(s.DaysMissed))
			for i, d := range s.DaysMissed {
				dates[i] = d.Date
			}
			out.NoSubmission = append(out.NoSubmission, domain.IssueEntry{
				UserID:           s.UserID,
				Name:             s.Name,
				Email:            s.Email,
				EmploymentStatus: s.EmploymentStatus,
				Issue: fmt.Sprintf("No timesheet submission for %d day(s): %s",
					s.TotalDaysMissed, strings.Join(dates, ", ")),
			})
		}
		if s.FlaggedHours > 0 {
			out.FlaggedHours = append(out.FlaggedHours, domain.IssueEntry{
				UserID:           s.UserID,
				Name:             s.Name,
				Email:            s.Email,
				FlaggedHours:     s.FlaggedHours,
				EmploymentStatus: s.EmploymentStatus,
				Issue: fmt.Sprintf("Flagged hours on %d day(s): %s",
					len(s.FlaggedDays), strings.Join(s.FlaggedDays, ", ")),
			})
		}
	}

	return out
}

func containsDay(days []string, date string) bool {
	for _, d := range days {
		if d == date {
			return true
		}
	}
	return false
}
