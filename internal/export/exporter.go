package export

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"slackrecap/internal/models"
	"slackrecap/internal/render"
	"slackrecap/internal/slack"
)

// Exporter runs the retrieval pipeline: enumerate conversations, fetch each
// conversation's window history in batches, expand threads, and render one
// deterministic document.
type Exporter struct {
	// HistoryBatch and ReplyBatch bound parallel fetches per stage.
	HistoryBatch int
	ReplyBatch   int

	client *slack.Client
	tel    *Telemetry
	log    *zap.Logger
}

// New creates an Exporter with the default batch sizes.
func New(client *slack.Client, tel *Telemetry, log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{
		HistoryBatch: historyBatchSize,
		ReplyBatch:   replyBatchSize,
		client:       client,
		tel:          tel,
		log:          log,
	}
}

// Telemetry returns the run's telemetry aggregation point.
func (e *Exporter) Telemetry() *Telemetry {
	return e.tel
}

// Export retrieves everything the credential can see inside the window and
// returns the rendered document. A failure before or during conversation
// enumeration is run-fatal; any single conversation or thread failing is
// recorded and the rest of the run continues.
func (e *Exporter) Export(ctx context.Context, win Window, loc *time.Location, blacklist []string) (string, error) {
	if err := e.client.AuthTest(ctx); err != nil {
		return "", errors.Wrap(err, "credential rejected")
	}

	conversations, err := e.client.ListConversations(ctx)
	if err != nil {
		return "", errors.Wrap(err, "failed to enumerate conversations")
	}
	e.log.Info("enumerated conversations", zap.Int("count", len(conversations)))

	identity := buildIdentity(ctx, e.client, e.log)

	skip := make(map[string]bool, len(blacklist))
	for _, entry := range blacklist {
		if entry = strings.TrimSpace(entry); entry != "" {
			skip[strings.ToLower(entry)] = true
		}
	}

	type unit struct {
		conv models.Conversation
		name string
	}
	var units []unit
	for _, conv := range conversations {
		name := displayName(conv, identity)
		if skip[strings.ToLower(name)] || skip[strings.ToLower(conv.ID)] {
			e.log.Debug("skipping blacklisted conversation", zap.String("conversation", name))
			continue
		}
		units = append(units, unit{conv: conv, name: name})
	}

	groups := make([]*render.Group, len(units))
	indexed := make([]int, len(units))
	for i := range indexed {
		indexed[i] = i
	}
	InBatches(indexed, e.HistoryBatch, func(i int) {
		groups[i] = e.fetchConversation(ctx, units[i].conv, units[i].name, win)
	})

	var rendered []render.Group
	for _, g := range groups {
		if g != nil {
			rendered = append(rendered, *g)
		}
	}

	return render.Document(rendered, win.Label, loc, identity.Resolve), nil
}

// fetchConversation retrieves one conversation's window history and expands
// its threads. Returns nil when the history fetch fails terminally; the
// failure is already recorded in telemetry under the conversation's name and
// must not affect other conversations.
func (e *Exporter) fetchConversation(ctx context.Context, conv models.Conversation, name string, win Window) *render.Group {
	history, err := e.client.ConversationHistory(ctx, "history "+name, conv.ID, win.Oldest, win.Latest)
	if err != nil {
		e.log.Warn("conversation skipped after terminal fetch failure",
			zap.String("conversation", name),
			zap.Error(err))
		return nil
	}

	var topLevel []models.Message
	var roots []models.Message
	for _, m := range history {
		if !m.IsTopLevel() {
			continue
		}
		topLevel = append(topLevel, m)
		if m.IsThreadRoot() {
			roots = append(roots, m)
		}
	}

	var mu sync.Mutex
	replies := make(map[string][]models.Message, len(roots))
	InBatches(roots, e.ReplyBatch, func(root models.Message) {
		fetched, rerr := e.client.ThreadReplies(ctx, "replies "+name+" @"+root.TS, conv.ID, root.TS)
		if rerr != nil {
			// The root still renders, without its children.
			e.log.Warn("thread left unexpanded after terminal fetch failure",
				zap.String("conversation", name),
				zap.String("thread", root.TS),
				zap.Error(rerr))
			return
		}
		// The replies endpoint re-returns the root; drop it.
		kept := make([]models.Message, 0, len(fetched))
		for _, m := range fetched {
			if m.TS != root.TS {
				kept = append(kept, m)
			}
		}
		mu.Lock()
		replies[root.TS] = kept
		mu.Unlock()
		e.tel.IncThreads()
	})

	exported := len(topLevel)
	for _, rs := range replies {
		exported += len(rs)
	}
	e.tel.IncConversations()
	e.tel.AddMessages(exported)
	e.log.Debug("conversation fetched",
		zap.String("conversation", name),
		zap.Int("messages", exported),
		zap.Int("threads", len(replies)))

	return &render.Group{
		Name:     name,
		Kind:     conv.Kind,
		Messages: topLevel,
		Replies:  replies,
	}
}
