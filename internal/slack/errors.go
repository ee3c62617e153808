package slack

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"
)

// APIError is a rejected Slack API call: either a non-2xx HTTP status or an
// ok=false envelope. Code carries Slack's error string ("ratelimited",
// "invalid_auth", "channel_not_found", ...). It deliberately carries no
// request payload and no message text, so it is safe to log and to record
// into run telemetry.
type APIError struct {
	Endpoint   string
	Code       string
	Status     int
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Endpoint, e.Code)
	}
	return fmt.Sprintf("%s: HTTP %d", e.Endpoint, e.Status)
}

// RateLimited reports whether the call was refused with a wait-and-retry
// signal. Slack signals this both as HTTP 429 and as a "ratelimited" error
// code inside a 200 envelope.
func (e *APIError) RateLimited() bool {
	return e.Status == 429 || e.Code == "ratelimited"
}

// Transient reports whether the call failed server-side in a way worth
// retrying.
func (e *APIError) Transient() bool {
	return e.Status >= 500
}

// IsRateLimited reports whether err is a rate-limit refusal.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.RateLimited()
}

// retryAfter extracts the server-stated wait from a rate-limit refusal.
func retryAfter(err error) time.Duration {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
		return apiErr.RetryAfter
	}
	return time.Second
}

// isTransient reports whether err is worth retrying under the fixed budget:
// server errors, timeouts, and transport-level failures (connection reset,
// DNS). Everything else (bad arguments, missing scope, unknown channel)
// fails immediately.
func isTransient(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Transient()
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var urlErr *url.Error
	return errors.As(err, &urlErr)
}
