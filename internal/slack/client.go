package slack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/marusama/semaphore/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"slackrecap/internal/auth"
)

// DefaultBaseURL is the Slack Web API root.
const DefaultBaseURL = "https://slack.com/api"

// maxInflight caps concurrent HTTP calls across all batches. Batch
// scheduling already bounds parallelism per stage; this is the hard upper
// bound for the whole process.
const maxInflight = 8

// Client is a typed Slack Web API client.
type Client struct {
	// BaseURL may be overridden before first use, e.g. to point at a test
	// server.
	BaseURL string

	credentials *auth.Credentials
	httpClient  *http.Client
	inflight    semaphore.Semaphore
	retry       *Retrier
	log         *zap.Logger
}

// NewClient creates a new Slack client. Terminal failures and call counters
// are reported through tel.
func NewClient(credentials *auth.Credentials, tel Telemetry, log *zap.Logger) (*Client, error) {
	httpClient, err := credentials.ConfigureHTTPClient()
	if err != nil {
		return nil, errors.Wrap(err, "failed to configure HTTP client")
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		BaseURL:     DefaultBaseURL,
		credentials: credentials,
		httpClient:  httpClient,
		inflight:    semaphore.New(maxInflight),
		retry:       NewRetrier(tel, log.Named("retry")),
		log:         log,
	}, nil
}

// Retrier exposes the client's resilient call executor for call sites that
// paginate.
func (c *Client) Retrier() *Retrier {
	return c.retry
}

// envelope is the common ok/error wrapper around every Slack API response.
type envelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func (e *envelope) apiOK() bool      { return e.OK }
func (e *envelope) apiError() string { return e.Error }

type apiResponse interface {
	apiOK() bool
	apiError() string
}

// call performs a single API request and decodes the response into out.
// Rate-limit refusals, server errors, and ok=false envelopes all come back
// as *APIError; the retrier decides what to do with them.
func (c *Client) call(ctx context.Context, endpoint string, params url.Values, out apiResponse) error {
	if err := c.inflight.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.inflight.Release(1)

	reqURL := c.BaseURL + "/" + endpoint
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	c.credentials.Authorize(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return &APIError{
			Endpoint:   endpoint,
			Code:       "ratelimited",
			Status:     resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}
	if resp.StatusCode >= 500 {
		return &APIError{Endpoint: endpoint, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "%s: failed to decode response", endpoint)
	}
	if !out.apiOK() {
		return &APIError{
			Endpoint: endpoint,
			Code:     out.apiError(),
			Status:   resp.StatusCode,
		}
	}
	return nil
}

func parseRetryAfter(header string) time.Duration {
	secs, err := strconv.Atoi(header)
	if err != nil || secs <= 0 {
		return time.Second
	}
	return time.Duration(secs) * time.Second
}
