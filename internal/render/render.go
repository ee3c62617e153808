// Package render turns fetched conversations into one deterministic
// document. Sorting here is the system's correctness anchor: fetch
// concurrency must never leak into output order, so every ordering rule is
// applied from scratch on render.
package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"slackrecap/internal/models"
)

// Group is one conversation's renderable content: its top-level messages in
// fetch order plus a side map from thread-root timestamp to replies.
type Group struct {
	Name     string
	Kind     models.Kind
	Messages []models.Message
	Replies  map[string][]models.Message
}

// Document assembles the final UTF-8 text: groups ordered by conversation
// kind then display name, messages and replies ascending by numeric
// timestamp, every body normalized. Byte-stable for the same input.
func Document(groups []Group, windowLabel string, loc *time.Location, resolve func(id string) string) string {
	ordered := make([]Group, len(groups))
	copy(ordered, groups)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Kind != ordered[j].Kind {
			return ordered[i].Kind.Precedence() < ordered[j].Kind.Precedence()
		}
		return ordered[i].Name < ordered[j].Name
	})

	var b strings.Builder
	fmt.Fprintf(&b, "# Slack recap for %s (%s)\n", windowLabel, loc.String())

	for _, g := range ordered {
		if len(g.Messages) == 0 {
			continue
		}

		messages := make([]models.Message, len(g.Messages))
		copy(messages, g.Messages)
		sort.SliceStable(messages, func(i, j int) bool {
			return LessTS(messages[i].TS, messages[j].TS)
		})

		fmt.Fprintf(&b, "\n## %s %s\n\n", g.Kind.Glyph(), g.Name)
		for _, m := range messages {
			writeLine(&b, m, 0, loc, resolve)
			replies := make([]models.Message, len(g.Replies[m.TS]))
			copy(replies, g.Replies[m.TS])
			sort.SliceStable(replies, func(i, j int) bool {
				return LessTS(replies[i].TS, replies[j].TS)
			})
			for _, reply := range replies {
				writeLine(&b, reply, 1, loc, resolve)
			}
		}
	}
	return b.String()
}

func writeLine(b *strings.Builder, m models.Message, indent int, loc *time.Location, resolve func(id string) string) {
	fmt.Fprintf(b, "%s- %s **%s**: %s\n",
		strings.Repeat("    ", indent),
		clockTime(m.TS, loc),
		resolve(m.AuthorID()),
		Normalize(m.Text, resolve))
}

// clockTime formats the seconds component of a ts string as a local HH:MM.
func clockTime(ts string, loc *time.Location) string {
	sec, _, _ := strings.Cut(ts, ".")
	n, err := strconv.ParseInt(sec, 10, 64)
	if err != nil {
		return "??:??"
	}
	return time.Unix(n, 0).In(loc).Format("15:04")
}
