package domain

import (
	"fmt"
	"time"
)

// ClassifyDay applies the compliance rules to one day's records. Inactive
// employees are skipped entirely; the two rules are independent, so a
// record with zero logged hours and flagged hours lands in both buckets.
// TotalEmployees counts every record passed in, inactive included, for
// audit visibility. Bucket order follows input order.
func ClassifyDay(records []EmployeeRecord, day time.Time) DailyIssueSet {
	date := day.Format(DateLayout)
	issues := DailyIssueSet{
		Date:           date,
		DayName:        DayName(day),
		TotalEmployees: len(records),
	}

	for _, emp := range records {
		if !emp.Active {
			continue
		}

		if emp.LoggedHours == 0 {
			issues.NoSubmission = append(issues.NoSubmission, IssueEntry{
				UserID:           emp.UserID,
				Name:             emp.Name,
				Email:            orNA(emp.Email),
				AllocatedHours:   emp.AllocatedHours,
				LoggedHours:      emp.LoggedHours,
				EmploymentStatus: emp.EmploymentStatus,
				Issue:            fmt.Sprintf("No timesheet submission for %s", date),
			})
		}

		if emp.FlaggedHours > 0 {
			issues.FlaggedHours = append(issues.FlaggedHours, IssueEntry{
				UserID:           emp.UserID,
				Name:             emp.Name,
				Email:            orNA(emp.Email),
				LoggedHours:      emp.LoggedHours,
				FlaggedHours:     emp.FlaggedHours,
				EmploymentStatus: emp.EmploymentStatus,
				Issue:            "Timesheet has flagged hours requiring review",
			})
		}
	}

	issues.IssuesFound = len(issues.NoSubmission) + len(issues.FlaggedHours)
	return issues
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
