package analyze

import (
	"strings"
	"testing"

	"github.com/SnehaPriyaa-fs/vibe-coders-timesheet-sync/internal/domain"
)

func missedDay(date, dayName, userID, name string) domain.DailyIssueSet {
	return domain.DailyIssueSet{
		Date:    date,
		DayName: dayName,
		NoSubmission: []domain.IssueEntry{
			{UserID: userID, Name: name, Email: name + "@example.com", EmploymentStatus: "Full-time"},
		},
		TotalEmployees: 10,
	}
}

func TestFoldDailySetsDedup(t *testing.T) {
	daily := []domain.DailyIssueSet{
		missedDay("2025-10-06", "Monday", "U1", "Alice"),
		missedDay("2025-10-07", "Tuesday", "U1", "Alice"),
		missedDay("2025-10-09", "Thursday", "U1", "Alice"),
	}

	summaries, _ := FoldDailySets(daily)

	if len(summaries) != 1 {
		t.Fatalf("same employee on 3 days must fold to 1 entry, got %d", len(summaries))
	}
	s := summaries[0]
	if s.TotalDaysMissed != 3 || len(s.DaysMissed) != 3 {
		t.Errorf("totalDaysMissed=%d daysMissed=%d, want 3/3", s.TotalDaysMissed, len(s.DaysMissed))
	}
	seen := make(map[string]bool)
	for _, d := range s.DaysMissed {
		if seen[d.Date] {
			t.Errorf("duplicate date %s in daysMissed", d.Date)
		}
		seen[d.Date] = true
	}
}

func TestFoldDailySetsFlaggedMerge(t *testing.T) {
	daily := []domain.DailyIssueSet{
		{
			Date:    "2025-10-06",
			DayName: "Monday",
			NoSubmission: []domain.IssueEntry{
				{UserID: "U1", Name: "Alice"},
			},
			FlaggedHours: []domain.IssueEntry{
				{UserID: "U1", Name: "Alice", FlaggedHours: 4},
			},
			TotalEmployees: 5,
		},
		{
			Date:    "2025-10-07",
			DayName: "Tuesday",
			FlaggedHours: []domain.IssueEntry{
				{UserID: "U1", Name: "Alice", FlaggedHours: 2},
			},
			TotalEmployees: 5,
		},
	}

	summaries, _ := FoldDailySets(daily)

	if len(summaries) != 1 {
		t.Fatalf("expected one merged entry, got %d", len(summaries))
	}
	s := summaries[0]
	// Flagged hours on Monday must not inflate the missed-day count.
	if s.TotalDaysMissed != 1 {
		t.Errorf("totalDaysMissed = %d, want 1", s.TotalDaysMissed)
	}
	if len(s.FlaggedDays) != 2 {
		t.Errorf("flaggedDays = %v, want both days", s.FlaggedDays)
	}
	if s.FlaggedHours == 0 {
		t.Error("flaggedHours not carried onto the summary")
	}
}

func TestFoldDailySetsFlaggedOnlyEmployee(t *testing.T) {
	daily := []domain.DailyIssueSet{
		{
			Date:    "2025-10-06",
			DayName: "Monday",
			FlaggedHours: []domain.IssueEntry{
				{UserID: "U2", Name: "Bob", FlaggedHours: 6},
			},
			TotalEmployees: 5,
		},
	}

	summaries, _ := FoldDailySets(daily)
	if len(summaries) != 1 {
		t.Fatalf("flagged-only employee missing from summary")
	}
	if summaries[0].TotalDaysMissed != 0 {
		t.Errorf("flagged-only employee has totalDaysMissed = %d", summaries[0].TotalDaysMissed)
	}
}

func TestFoldDailySetsSkipsFailedDays(t *testing.T) {
	daily := []domain.DailyIssueSet{
		missedDay("2025-10-06", "Monday", "U1", "Alice"),
		{Date: "2025-10-07", DayName: "Tuesday", Err: "connection refused"},
	}

	summaries, total := FoldDailySets(daily)
	if len(summaries) != 1 || summaries[0].TotalDaysMissed != 1 {
		t.Errorf("failed day leaked into aggregation: %+v", summaries)
	}
	if total != 10 {
		t.Errorf("totalEmployees = %d, want 10 from the successful day", total)
	}
}

func TestFoldDailySetsOrdering(t *testing.T) {
	daily := []domain.DailyIssueSet{
		{
			Date: "2025-10-06", DayName: "Monday",
			NoSubmission: []domain.IssueEntry{
				{UserID: "U1", Name: "Zoe"},
				{UserID: "U2", Name: "Amy"},
				{UserID: "U3", Name: "Bea"},
			},
		},
		{
			Date: "2025-10-07", DayName: "Tuesday",
			NoSubmission: []domain.IssueEntry{
				{UserID: "U2", Name: "Amy"},
			},
		},
	}

	summaries, _ := FoldDailySets(daily)
	if len(summaries) != 3 {
		t.Fatalf("got %d summaries, want 3", len(summaries))
	}
	// Amy missed 2 days; Bea and Zoe missed 1 each and tie-break by name.
	want := []string{"Amy", "Bea", "Zoe"}
	for i, s := range summaries {
		if s.Name != want[i] {
			t.Errorf("summaries[%d] = %s, want %s", i, s.Name, want[i])
		}
	}
}

func TestFoldDailySetsMaxEmployeeTotal(t *testing.T) {
	daily := []domain.DailyIssueSet{
		{Date: "2025-10-06", DayName: "Monday", TotalEmployees: 8},
		{Date: "2025-10-07", DayName: "Tuesday", TotalEmployees: 12},
		{Date: "2025-10-08", DayName: "Wednesday", TotalEmployees: 3},
	}
	_, total := FoldDailySets(daily)
	if total != 12 {
		t.Errorf("totalEmployees = %d, want max per-day total 12", total)
	}
}

func TestBuildSummaryAnalysis(t *testing.T) {
	summaries := []domain.EmployeeSummary{
		{
			UserID: "U1", Name: "Alice", Email: "alice@example.com", EmploymentStatus: "Full-time",
			DaysMissed: []domain.DayRef{
				{Date: "2025-10-06", DayName: "Monday"},
				{Date: "2025-10-07", DayName: "Tuesday"},
			},
			TotalDaysMissed: 2,
		},
		{
			UserID: "U2", Name: "Bob",
			FlaggedHours: 4,
			FlaggedDays:  []string{"2025-10-08"},
		},
	}

	sum := BuildSummaryAnalysis(summaries, 15)

	if sum.TotalEmployees != 15 {
		t.Errorf("totalEmployees = %d", sum.TotalEmployees)
	}
	if len(sum.NoSubmission) != 1 {
		t.Fatalf("noSubmission = %d entries, want 1", len(sum.NoSubmission))
	}
	if got := sum.NoSubmission[0].Issue; !strings.Contains(got, "2 day(s)") || !strings.Contains(got, "2025-10-06, 2025-10-07") {
		t.Errorf("noSubmission issue text = %q", got)
	}
	if len(sum.FlaggedHours) != 1 {
		t.Fatalf("flaggedHours = %d entries, want 1", len(sum.FlaggedHours))
	}
	if got := sum.FlaggedHours[0].Issue; !strings.Contains(got, "1 day(s)") {
		t.Errorf("flaggedHours issue text = %q", got)
	}
	// Defined but never populated.
	if len(sum.PartialSubmission) != 0 {
		t.Errorf("partialSubmission should stay empty, got %d", len(sum.PartialSubmission))
	}
	if sum.TotalIssues() != 2 {
		t.Errorf("totalIssues = %d, want 2", sum.TotalIssues())
	}
}
