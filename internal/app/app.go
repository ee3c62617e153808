package app

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"slackrecap/internal/export"
	"slackrecap/internal/journal"
	"slackrecap/internal/summary"
	"slackrecap/pkg/slackrecap"
)

type Config struct {
	// Authentication
	Token    string
	ProxyURL string

	// Window selection
	Date     string
	From     string
	To       string
	Timezone string

	// Output options
	Blacklist string
	VaultDir  string
	Summarize bool
	Verbose   bool
}

func Run() {
	// Best-effort: a missing .env is fine.
	_ = godotenv.Load()

	cfg := parseFlags()

	logger, err := newLogger(cfg.Verbose, os.Getenv("SENTRY_DSN"))
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	recap, err := slackrecap.New(slackrecap.Config{
		Token:    cfg.Token,
		ProxyURL: cfg.ProxyURL,
		Timezone: cfg.Timezone,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal("failed to configure exporter", zap.Error(err))
	}

	ctx := context.Background()
	document, err := recap.Export(ctx, cfg.From, cfg.To, splitBlacklist(cfg.Blacklist))
	snapshot := recap.Telemetry()
	if err != nil {
		reportTelemetry(logger, snapshot)
		logger.Error("export failed", zap.Error(err))
		os.Exit(1)
	}

	if err := deliver(ctx, cfg, recap, logger, document); err != nil {
		logger.Error("failed to deliver document", zap.Error(err))
		os.Exit(1)
	}

	reportTelemetry(logger, snapshot)
}

func parseFlags() *Config {
	cfg := &Config{}

	// Authentication flags
	flag.StringVar(&cfg.Token, "token", os.Getenv("SLACK_TOKEN"), "Slack API token (defaults to SLACK_TOKEN)")
	flag.StringVar(&cfg.ProxyURL, "proxy", os.Getenv("SLACK_PROXY_URL"), "Proxy URL (optional)")

	// Window flags
	flag.StringVar(&cfg.Date, "date", "", "Single date to export, YYYY-MM-DD (default: today)")
	flag.StringVar(&cfg.From, "from", "", "First date of a range, YYYY-MM-DD")
	flag.StringVar(&cfg.To, "to", "", "Last date of a range, YYYY-MM-DD")
	flag.StringVar(&cfg.Timezone, "timezone", os.Getenv("RECAP_TIMEZONE"), "IANA timezone for the window (default: local)")

	// Output flags
	flag.StringVar(&cfg.Blacklist, "blacklist", os.Getenv("RECAP_BLACKLIST"), "Comma-separated conversation names or IDs to skip")
	flag.StringVar(&cfg.VaultDir, "vault", os.Getenv("RECAP_VAULT_DIR"), "Notes directory to write <date>.md into (default: stdout)")
	flag.BoolVar(&cfg.Summarize, "summarize", false, "Append an LLM digest to the journal file (needs OPENAI_API_KEY)")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "Enable verbose logging")

	flag.Parse()

	// Validate flag combinations
	if cfg.Token == "" {
		log.Fatal("a Slack token must be provided via -token or SLACK_TOKEN")
	}
	if cfg.Date != "" && (cfg.From != "" || cfg.To != "") {
		log.Fatal("-date cannot be combined with -from/-to")
	}
	if cfg.To != "" && cfg.From == "" {
		log.Fatal("-to requires -from")
	}

	if cfg.Date != "" {
		cfg.From = cfg.Date
	}
	if cfg.From == "" {
		cfg.From = time.Now().Format("2006-01-02")
	}

	return cfg
}

func splitBlacklist(raw string) []string {
	if raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

// deliver writes the document to the vault when configured, otherwise to
// stdout. The optional summary only ever lands in the journal file so the
// exported document stays byte-stable.
func deliver(ctx context.Context, cfg *Config, recap *slackrecap.Recap, logger *zap.Logger, document string) error {
	if cfg.VaultDir == "" {
		fmt.Print(document)
		return nil
	}

	digest := ""
	if cfg.Summarize {
		summarizer, err := summary.New(summary.Config{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: os.Getenv("OPENAI_BASE_URL"),
			Model:   os.Getenv("OPENAI_MODEL"),
		})
		if err != nil {
			return err
		}
		digest, err = summarizer.Summarize(ctx, document)
		if err != nil {
			// A failed digest never blocks the export artifact.
			logger.Warn("summarization failed, writing document without digest", zap.Error(err))
			digest = ""
		}
	}

	win, err := recap.Window(cfg.From, cfg.To)
	if err != nil {
		return err
	}
	path, err := journal.Write(cfg.VaultDir, win.Label, document, digest)
	if err != nil {
		return err
	}
	logger.Info("journal written", zap.String("path", path))
	return nil
}

func reportTelemetry(logger *zap.Logger, snap export.Snapshot) {
	logger.Info("run telemetry",
		zap.String("run_id", snap.RunID),
		zap.Int64("conversations", snap.Conversations),
		zap.Int64("messages", snap.Messages),
		zap.Int64("threads_expanded", snap.ThreadsExpanded),
		zap.Int64("rate_limit_waits", snap.RateLimitWaits),
		zap.Int64("calls", snap.Calls),
		zap.Int("errors", len(snap.Errors)))
	for _, rec := range snap.Errors {
		logger.Warn("unit failed during run",
			zap.String("unit", rec.Unit),
			zap.String("reason", rec.Reason))
	}
}
