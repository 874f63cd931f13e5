package timesheet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/SnehaPriyaa-fs/vibe-coders-timesheet-sync/internal/domain"
)

const userAgent = "TimesheetMonitor-API/1.0"

// FetchError marks a single day's fetch failure. The pipeline records it
// against that day and moves on; it never aborts the window.
type FetchError struct {
	Day string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching timesheet data for %s: %v", e.Day, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client queries the external timesheet reporting API. It performs no
// retries and keeps no state beyond the shared HTTP client.
type Client struct {
	baseURL string
	postURL string
	httpc   *http.Client
	mock    bool
}

func NewClient(baseURL, postURL string, httpc *http.Client, mock bool) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		postURL: postURL,
		httpc:   httpc,
		mock:    mock,
	}
}

// FetchDay retrieves every employee record for a single day. The upstream
// endpoint takes an inclusive start/end pair, so a single-day query is
// keyed (day, day). Any transport failure or non-2xx status comes back as
// a *FetchError for that day.
func (c *Client) FetchDay(ctx context.Context, day time.Time) ([]domain.EmployeeRecord, error) {
	ds := day.Format(domain.DateLayout)
	apiURL := fmt.Sprintf("%s/%s/%s", c.baseURL, ds, ds)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, &FetchError{Day: ds, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &FetchError{Day: ds, Err: fmt.Errorf("executing request: %w", err)}
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, &FetchError{Day: ds, Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Day: ds, Err: fmt.Errorf("API returned status %d: %s", resp.StatusCode, truncate(body, 200))}
	}

	var records []domain.EmployeeRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, &FetchError{Day: ds, Err: fmt.Errorf("parsing response: %w", err)}
	}

	for i := range records {
		if records[i].Email == "" {
			records[i].Email = "N/A"
		}
	}

	log.Printf("timesheet fetch day=%s records=%d", ds, len(records))
	return records, nil
}

// Entry is one timesheet row in the upstream write API's field naming.
type Entry struct {
	Title        string `json:"title"`
	UID          string `json:"uid"`
	EntryDate    string `json:"field_entrydate"`
	TicketNumber string `json:"field_ticket_number"`
	Project      string `json:"field_proj"`
	Task         string `json:"field_entrytask"`
	Body         string `json:"body"`
	TimeSpent    string `json:"field_time_spent"`
}

// PostEntry submits a timesheet entry (the write endpoint expects a
// one-element array). In mock mode it returns a synthetic ID without any
// outbound call.
func (c *Client) PostEntry(ctx context.Context, entry Entry) (string, error) {
	if c.mock {
		id := fmt.Sprintf("mock-%d", time.Now().UnixMilli())
		log.Printf("timesheet post mock id=%s date=%s", id, entry.EntryDate)
		return id, nil
	}
	if c.postURL == "" {
		return "", fmt.Errorf("timesheet post URL is not configured")
	}

	payload, err := json.Marshal([]Entry{entry})
	if err != nil {
		return "", fmt.Errorf("encoding entry: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.postURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("posting timesheet entry: %w", err)
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("timesheet API returned status %d: %s", resp.StatusCode, truncate(body, 200))
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &result); err != nil || result.ID == "" {
		return "N/A", nil
	}
	return result.ID, nil
}

func truncate(b []byte, n int) string {
	s := string(b)
	if len(s) > n {
		return s[:n] + "..."
	}
	return s
}
