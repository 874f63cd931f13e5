package domain

import "time"

// DateLayout is the wire format for calendar dates, both on the
// timesheet API path segments and in our own JSON payloads.
const DateLayout = "2006-01-02"

// EmployeeRecord is one employee's timesheet row for a single queried day,
// as returned by the reporting API.
type EmployeeRecord struct {
	UserID           string  `json:"userId"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	AllocatedHours   float64 `json:"allocatedHours"`
	LoggedHours      float64 `json:"loggedHours"`
	FlaggedHours     float64 `json:"flaggedHours"`
	Active           bool    `json:"isActive"`
	EmploymentStatus string  `json:"employementStatus"` // upstream spells it this way
}

// IssueEntry is an employee record plus the issue text that put it into a
// classification bucket.
type IssueEntry struct {
	UserID           string  `json:"userId"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	AllocatedHours   float64 `json:"allocatedHours"`
	LoggedHours      float64 `json:"loggedHours"`
	FlaggedHours     float64 `json:"flaggedHours,omitempty"`
	EmploymentStatus string  `json:"employmentStatus"`
	Issue            string  `json:"issue"`
}

// DailyIssueSet holds one working day's classification result. When the
// fetch for the day failed, Err carries the message and the buckets are nil;
// such days stay in the report but are skipped by aggregation.
type DailyIssueSet struct {
	Date           string       `json:"date"`
	DayName        string       `json:"dayName"`
	NoSubmission   []IssueEntry `json:"noSubmission,omitempty"`
	FlaggedHours   []IssueEntry `json:"flaggedHours,omitempty"`
	TotalEmployees int          `json:"totalEmployees"`
	IssuesFound    int          `json:"issuesFound"`
	Err            string       `json:"error,omitempty"`
}

// Failed reports whether this day's fetch failed.
func (d DailyIssueSet) Failed() bool { return d.Err != "" }

// DayRef names a calendar day inside a summary entry.
type DayRef struct {
	Date    string `json:"date"`
	DayName string `json:"dayName"`
}

// EmployeeSummary is the per-employee, cross-day view built by folding the
// daily issue sets. An employee appears at most once, keyed by UserID.
type EmployeeSummary struct {
	UserID           string   `json:"userId"`
	Name             string   `json:"name"`
	Email            string   `json:"email"`
	EmploymentStatus string   `json:"employmentStatus"`
	DaysMissed       []DayRef `json:"daysWithNoSubmission"`
	TotalDaysMissed  int      `json:"totalDaysMissed"`
	FlaggedHours     float64  `json:"flaggedHours,omitempty"`
	FlaggedDays      []string `json:"flaggedDays,omitempty"`
}

// WeekInfo is a resolved reporting window.
type WeekInfo struct {
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	WeekNumber int    `json:"weekNumber"`
}

// SummaryAnalysis is the cross-day, per-category view handed to the
// notification channels. PartialSubmission is defined for report symmetry
// but never populated by the classifier.
type SummaryAnalysis struct {
	NoSubmission      []IssueEntry `json:"noSubmission"`
	PartialSubmission []IssueEntry `json:"partialSubmission"`
	FlaggedHours      []IssueEntry `json:"flaggedHours"`
	TotalEmployees    int          `json:"totalEmployees"`
	AnalyzedAt        time.Time    `json:"analyzedAt"`
}

// TotalIssues counts entries across all categories.
func (s SummaryAnalysis) TotalIssues() int {
	return len(s.NoSubmission) + len(s.PartialSubmission) + len(s.FlaggedHours)
}
