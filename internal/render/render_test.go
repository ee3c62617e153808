package render_test

import (
	"sort"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"slackrecap/internal/models"
	"slackrecap/internal/render"
)

var _ = Describe("LessTS", func() {
	It("orders numerically, not lexicographically", func() {
		ts := []string{"100.001", "99.5", "100.0002"}
		sort.Slice(ts, func(i, j int) bool { return render.LessTS(ts[i], ts[j]) })
		Expect(ts).To(Equal([]string{"99.5", "100.0002", "100.001"}))
	})

	It("orders seconds of different digit counts", func() {
		Expect(render.LessTS("9.9", "10.1")).To(BeTrue())
		Expect(render.LessTS("10.1", "9.9")).To(BeFalse())
	})

	It("does not lose precision on large timestamps", func() {
		Expect(render.LessTS("1700000000.000001", "1700000000.000002")).To(BeTrue())
		Expect(render.LessTS("1700000000.000002", "1700000000.000001")).To(BeFalse())
	})

	It("treats equal timestamps as not less", func() {
		Expect(render.LessTS("100.5", "100.5")).To(BeFalse())
		Expect(render.LessTS("100.50", "100.5")).To(BeFalse())
		Expect(render.LessTS("100.5", "100.50")).To(BeFalse())
	})
})

var _ = Describe("Document", func() {
	identity := func(id string) string {
		names := map[string]string{"U1": "Ann", "U2": "Bob"}
		if n, ok := names[id]; ok {
			return n
		}
		return id
	}

	msg := func(ts, user, text string) models.Message {
		return models.Message{TS: ts, User: user, Text: text}
	}

	It("orders groups by kind precedence, then display name", func() {
		groups := []render.Group{
			{Name: "ann", Kind: models.KindDirect, Messages: []models.Message{msg("100.1", "U1", "dm")}},
			{Name: "zebra", Kind: models.KindPublic, Messages: []models.Message{msg("100.1", "U1", "z")}},
			{Name: "alpha", Kind: models.KindPublic, Messages: []models.Message{msg("100.1", "U1", "a")}},
			{Name: "ops", Kind: models.KindPrivate, Messages: []models.Message{msg("100.1", "U1", "o")}},
		}
		doc := render.Document(groups, "2026-08-28", time.UTC, identity)

		alpha := strings.Index(doc, "## # alpha")
		zebra := strings.Index(doc, "## # zebra")
		ops := strings.Index(doc, "## 🔒 ops")
		ann := strings.Index(doc, "## 💬 ann")
		Expect(alpha).To(BeNumerically(">", 0))
		Expect(zebra).To(BeNumerically(">", alpha))
		Expect(ops).To(BeNumerically(">", zebra))
		Expect(ann).To(BeNumerically(">", ops))
	})

	It("sorts messages and replies ascending by numeric timestamp", func() {
		groups := []render.Group{{
			Name: "general",
			Kind: models.KindPublic,
			Messages: []models.Message{
				msg("100.001", "U1", "third"),
				msg("99.5", "U1", "first"),
				msg("100.0002", "U2", "second"),
			},
			Replies: map[string][]models.Message{
				"99.5": {
					msg("101.2", "U2", "late reply"),
					msg("100.9", "U1", "early reply"),
				},
			},
		}}
		doc := render.Document(groups, "2026-08-28", time.UTC, identity)

		lines := strings.Split(strings.TrimRight(doc, "\n"), "\n")
		var bodies []string
		for _, line := range lines {
			if i := strings.Index(line, "**: "); i >= 0 {
				bodies = append(bodies, line[i+4:])
			}
		}
		Expect(bodies).To(Equal([]string{"first", "early reply", "late reply", "second", "third"}))
	})

	It("indents replies one level beneath their root", func() {
		groups := []render.Group{{
			Name:     "general",
			Kind:     models.KindPublic,
			Messages: []models.Message{msg("100.1", "U1", "root")},
			Replies: map[string][]models.Message{
				"100.1": {msg("100.2", "U2", "child")},
			},
		}}
		doc := render.Document(groups, "2026-08-28", time.UTC, identity)
		Expect(doc).To(ContainSubstring("\n- "))
		Expect(doc).To(ContainSubstring("\n    - "))
		Expect(doc).To(ContainSubstring("**Bob**: child"))
	})

	It("formats the heading with the window label and timezone", func() {
		doc := render.Document(nil, "2026-08-28", time.UTC, identity)
		Expect(doc).To(HavePrefix("# Slack recap for 2026-08-28 (UTC)\n"))
	})

	It("formats message times as local clock time", func() {
		// 1700000100 is 22:15 UTC.
		groups := []render.Group{{
			Name:     "general",
			Kind:     models.KindPublic,
			Messages: []models.Message{msg("1700000100.000000", "U1", "hello")},
		}}
		doc := render.Document(groups, "2023-11-14", time.UTC, identity)
		Expect(doc).To(ContainSubstring("- 22:15 **Ann**: hello"))
	})

	It("skips conversations with no messages in the window", func() {
		groups := []render.Group{
			{Name: "quiet", Kind: models.KindPublic},
			{Name: "busy", Kind: models.KindPublic, Messages: []models.Message{msg("100.1", "U1", "hi")}},
		}
		doc := render.Document(groups, "2026-08-28", time.UTC, identity)
		Expect(doc).NotTo(ContainSubstring("quiet"))
		Expect(doc).To(ContainSubstring("busy"))
	})

	It("produces byte-identical output for repeated renders", func() {
		groups := []render.Group{{
			Name: "general",
			Kind: models.KindPublic,
			Messages: []models.Message{
				msg("100.2", "U2", "b"),
				msg("100.1", "U1", "a <@U2>"),
			},
			Replies: map[string][]models.Message{
				"100.1": {msg("100.3", "U2", "c"), msg("100.15", "U1", "d")},
			},
		}}
		first := render.Document(groups, "2026-08-28", time.UTC, identity)
		second := render.Document(groups, "2026-08-28", time.UTC, identity)
		Expect(second).To(Equal(first))
	})
})
