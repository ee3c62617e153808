package auth

import (
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

// Credentials holds the bearer token used against the Slack API. The token
// lives in process memory only; it is never logged and never written out.
type Credentials struct {
	Token    string
	ProxyURL string
}

// NewCredentials creates a new Credentials instance.
func NewCredentials(token, proxyURL string) (*Credentials, error) {
	if token == "" {
		return nil, errors.New("a Slack token must be provided")
	}
	return &Credentials{
		Token:    token,
		ProxyURL: proxyURL,
	}, nil
}

// Authorize sets the bearer header on an outgoing request.
func (c *Credentials) Authorize(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.Token)
}

// ConfigureHTTPClient configures an http.Client with the credentials.
func (c *Credentials) ConfigureHTTPClient() (*http.Client, error) {
	transport := &http.Transport{}

	if c.ProxyURL != "" {
		proxyURLParsed, err := url.Parse(c.ProxyURL)
		if err != nil {
			return nil, errors.Wrap(err, "failed to parse proxy URL")
		}
		transport.Proxy = http.ProxyURL(proxyURLParsed)
	}

	return &http.Client{
		Transport: transport,
		Timeout:   30 * time.Second,
	}, nil
}
