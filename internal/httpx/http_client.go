package httpx

import (
	"net/http"
	"time"
)

const defaultExternalHTTPTimeout = 30 * time.Second

// NewExternalClient builds the shared client for outbound calls to the
// timesheet API. A non-positive timeout falls back to the 30s default.
func NewExternalClient(timeoutSeconds int) *http.Client {
	timeout := defaultExternalHTTPTimeout
	if timeoutSeconds > 0 {
		timeout = time.Duration(timeoutSeconds) * time.Second
	}
	return &http.Client{Timeout: timeout}
}
