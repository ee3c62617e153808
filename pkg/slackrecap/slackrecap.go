// Package slackrecap is the public entry point: configure once, export a
// window, read the telemetry snapshot afterwards.
package slackrecap

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"slackrecap/internal/auth"
	"slackrecap/internal/export"
	"slackrecap/internal/slack"
)

// Config wires a Recap. Token is the only required field.
type Config struct {
	Token    string
	ProxyURL string
	Timezone string // IANA zone name; empty means the process-local zone
	Logger   *zap.Logger

	// Optional batch-size overrides; zero keeps the defaults.
	HistoryBatch int
	ReplyBatch   int
}

// Recap runs exports against one workspace credential.
type Recap struct {
	exporter *export.Exporter
	location *time.Location
}

// New creates a Recap from the given configuration.
func New(cfg Config) (*Recap, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	creds, err := auth.NewCredentials(cfg.Token, cfg.ProxyURL)
	if err != nil {
		return nil, err
	}

	loc := time.Local
	if cfg.Timezone != "" {
		loc, err = time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, errors.Wrapf(err, "unknown timezone %q", cfg.Timezone)
		}
	}

	tel := export.NewTelemetry()
	client, err := slack.NewClient(creds, tel, log.Named("slack"))
	if err != nil {
		return nil, err
	}

	exporter := export.New(client, tel, log.Named("export"))
	if cfg.HistoryBatch > 0 {
		exporter.HistoryBatch = cfg.HistoryBatch
	}
	if cfg.ReplyBatch > 0 {
		exporter.ReplyBatch = cfg.ReplyBatch
	}

	return &Recap{exporter: exporter, location: loc}, nil
}

// Export retrieves all visible messages for the date (or date range when to
// is non-empty) and returns the rendered document. Conversations whose
// display name or identifier matches the blacklist are skipped without
// being fetched.
func (r *Recap) Export(ctx context.Context, from, to string, blacklist []string) (string, error) {
	win, err := export.WindowForDates(from, to, r.location)
	if err != nil {
		return "", err
	}
	return r.exporter.Export(ctx, win, r.location, blacklist)
}

// Window returns the label and epoch bounds the given dates map to, for
// callers that name output files after the window.
func (r *Recap) Window(from, to string) (export.Window, error) {
	return export.WindowForDates(from, to, r.location)
}

// Telemetry returns the run's counters and recorded errors. Read it after
// Export returns.
func (r *Recap) Telemetry() export.Snapshot {
	return r.exporter.Telemetry().Snapshot()
}
