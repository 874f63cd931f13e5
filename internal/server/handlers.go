package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/SnehaPriyaa-fs/vibe-coders-timesheet-sync/internal/analyze"
	"github.com/SnehaPriyaa-fs/vibe-coders-timesheet-sync/internal/domain"
	"github.com/SnehaPriyaa-fs/vibe-coders-timesheet-sync/internal/notify"
	"github.com/SnehaPriyaa-fs/vibe-coders-timesheet-sync/internal/storage/sqlite"
	"github.com/SnehaPriyaa-fs/vibe-coders-timesheet-sync/internal/timesheet"
)

// Handler owns the HTTP-facing operations. DeliveryDB is nil when the
// delivery log is disabled; Now is swappable for tests.
type Handler struct {
	Pipeline   *analyze.Pipeline
	Dispatcher *notify.Dispatcher
	Sheets     *timesheet.Client
	DeliveryDB *sql.DB
	Now        func() time.Time

	// PostTimeout bounds a holiday entry submission, usually the
	// configured HTTP timeout plus margin.
	PostTimeout time.Duration
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Handler) postTimeout() time.Duration {
	if h.PostTimeout > 0 {
		return h.PostTimeout
	}
	return 35 * time.Second
}

// Health reports service liveness.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondData(w, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   "Timesheet Monitor API",
	})
}

// WeekInfo returns the resolved previous-week range.
func (h *Handler) WeekInfo(w http.ResponseWriter, r *http.Request) {
	respondData(w, domain.PreviousWeekRange(h.now()))
}

type analyzeRequest struct {
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
	PreviousWeek bool   `json:"previousWeek"`
}

// resolveRange validates the request and produces the window to analyze.
// All input problems surface here, before the pipeline runs.
func (h *Handler) resolveRange(req analyzeRequest) (start, end time.Time, err error) {
	if req.PreviousWeek {
		week := domain.PreviousWeekRange(h.now())
		req.StartDate, req.EndDate = week.StartDate, week.EndDate
	} else if req.StartDate == "" || req.EndDate == "" {
		return start, end, fmt.Errorf("either provide startDate and endDate, or set previousWeek to true")
	}

	if start, err = domain.ParseDate(req.StartDate); err != nil {
		return start, end, err
	}
	if end, err = domain.ParseDate(req.EndDate); err != nil {
		return start, end, err
	}
	if start.After(end) {
		return start, end, fmt.Errorf("startDate %s is after endDate %s", req.StartDate, req.EndDate)
	}
	return start, end, nil
}

// MissingByDay runs the compliance analysis for the requested window and
// returns the per-employee missed-day summary.
func (h *Handler) MissingByDay(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondClientError(w, "invalid JSON body: "+err.Error())
		return
	}

	start, end, err := h.resolveRange(req)
	if err != nil {
		respondClientError(w, err.Error())
		return
	}

	result, err := h.Pipeline.AnalyzeWindow(r.Context(), start, end)
	if err != nil {
		log.Printf("missing-by-day error: %v", err)
		respondServerError(w, err.Error())
		return
	}

	// A flagged-only employee missed no days; those entries surface via
	// the notify channels, not this route.
	missed := make([]domain.EmployeeSummary, 0, len(result.Summary))
	for _, s := range result.Summary {
		if s.TotalDaysMissed > 0 {
			missed = append(missed, s)
		}
	}

	respondData(w, map[string]any{
		"weekInfo":                 result.WeekInfo,
		"workingDays":              result.WorkingDays,
		"summary":                  missed,
		"totalEmployeesWithMisses": len(missed),
		"analyzedAt":               result.AnalyzedAt.Format(time.RFC3339),
	})
}

// Notify runs the previous-week analysis and fans the result out to every
// configured notification channel, returning the delivery outcomes.
func (h *Handler) Notify(w http.ResponseWriter, r *http.Request) {
	result, err := h.Pipeline.AnalyzePreviousWeek(r.Context(), h.now())
	if err != nil {
		log.Printf("notify analysis error: %v", err)
		respondServerError(w, err.Error())
		return
	}

	sum := analyze.BuildSummaryAnalysis(result.Summary, result.TotalEmployees)
	outcomes := h.Dispatcher.DispatchAll(r.Context(), sum, result.WeekInfo)
	h.RecordDeliveries(result.WeekInfo.WeekNumber, outcomes)

	respondData(w, map[string]any{
		"weekInfo":      result.WeekInfo,
		"totalIssues":   sum.TotalIssues(),
		"notifications": outcomes,
	})
}

// RecordDeliveries stores dispatch outcomes in the delivery log when one
// is configured. Shared with the cron job so both paths leave an audit
// trail.
func (h *Handler) RecordDeliveries(weekNumber int, outcomes []notify.Outcome) {
	if h.DeliveryDB == nil || len(outcomes) == 0 {
		return
	}
	deliveries := make([]sqlite.Delivery, len(outcomes))
	for i, o := range outcomes {
		deliveries[i] = sqlite.Delivery{
			WeekNumber: weekNumber,
			Channel:    o.Channel,
			Recipient:  o.Recipient,
			OK:         o.OK,
			Error:      o.Error,
		}
	}
	if _, err := sqlite.InsertDeliveries(h.DeliveryDB, deliveries); err != nil {
		log.Printf("delivery log insert error: %v", err)
	}
}

// Deliveries lists recent notification outcomes from the delivery log.
func (h *Handler) Deliveries(w http.ResponseWriter, r *http.Request) {
	if h.DeliveryDB == nil {
		respondNotFound(w, "delivery log is not configured")
		return
	}
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			respondClientError(w, fmt.Sprintf("invalid limit '%s'", v))
			return
		}
		limit = parsed
	}
	deliveries, err := sqlite.RecentDeliveries(h.DeliveryDB, limit)
	if err != nil {
		log.Printf("delivery log query error: %v", err)
		respondServerError(w, "failed to read delivery log")
		return
	}
	respondData(w, deliveries)
}

type holidayRequest struct {
	ProjectName  string  `json:"projectName"`
	TaskName     string  `json:"taskName"`
	EntryDate    string  `json:"entryDate"`
	TicketNumber string  `json:"ticketNumber"`
	TimeSpent    float64 `json:"timeSpent"`
	Details      string  `json:"details"`
	UserID       string  `json:"userId"`
}

// PostHoliday submits a holiday timesheet entry on behalf of a user.
func (h *Handler) PostHoliday(w http.ResponseWriter, r *http.Request) {
	req := holidayRequest{
		ProjectName:  "00-Holiday",
		TaskName:     "Holiday/Leave",
		TicketNumber: "NIL",
		TimeSpent:    8,
		Details:      "Holiday",
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondClientError(w, "invalid JSON body: "+err.Error())
		return
	}
	if req.EntryDate == "" {
		respondClientError(w, "entryDate is required")
		return
	}
	if req.UserID == "" {
		respondClientError(w, "userId is required")
		return
	}
	if _, err := domain.ParseDate(req.EntryDate); err != nil {
		respondClientError(w, err.Error())
		return
	}

	entry := timesheet.Entry{
		Title:        fmt.Sprintf("%s-%s-%d", req.ProjectName, req.TaskName, time.Now().UnixMilli()),
		UID:          req.UserID,
		EntryDate:    req.EntryDate,
		TicketNumber: req.TicketNumber,
		Project:      req.ProjectName,
		Task:         req.TaskName,
		Body:         req.Details,
		TimeSpent:    strconv.FormatFloat(req.TimeSpent, 'f', -1, 64),
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.postTimeout())
	defer cancel()
	id, err := h.Sheets.PostEntry(ctx, entry)
	if err != nil {
		log.Printf("holiday entry error user=%s date=%s: %v", req.UserID, req.EntryDate, err)
		respondServerError(w, err.Error())
		return
	}

	respondMessage(w, "Holiday timesheet entry posted successfully", map[string]any{
		"entryDate":   req.EntryDate,
		"timeSpent":   req.TimeSpent,
		"projectName": req.ProjectName,
		"taskName":    req.TaskName,
		"details":     req.Details,
		"timesheetId": id,
	})
}
