package render_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"slackrecap/internal/render"
)

var _ = Describe("Normalize", func() {
	resolve := func(id string) string {
		names := map[string]string{"U1": "Ann", "U2": "Bob"}
		if n, ok := names[id]; ok {
			return n
		}
		return id
	}

	DescribeTable("rewrites Slack markup",
		func(input, expected string) {
			Expect(render.Normalize(input, resolve)).To(Equal(expected))
		},
		Entry("mention, emphasis, channel and labeled link together",
			"<@U1> said *hi* to <#C1|general>: see <http://x|link>",
			"@Ann said hi to #general: see [link](http://x)"),
		Entry("unresolved mention falls back to the identifier",
			"ping <@U9>", "ping @U9"),
		Entry("mention with embedded label still resolves by id",
			"<@U2|bobby> agreed", "@Bob agreed"),
		Entry("channel reference without a label keeps the identifier",
			"moved to <#C42>", "moved to #C42"),
		Entry("bare link keeps only the url",
			"docs at <https://example.com/a?b=1>", "docs at https://example.com/a?b=1"),
		Entry("labeled link with emphasis marker inside the label survives stripping order",
			"<http://x|a*b>", "[a*b](http://x)"),
		Entry("italic and strikethrough markers are stripped",
			"_really_ ~not~ done", "really not done"),
		Entry("inline code markers are stripped",
			"run `make all` now", "run make all now"),
		Entry("code fences are stripped and the body collapsed",
			"```\nfoo := 1\nbar := 2\n```", "foo := 1 bar := 2"),
		Entry("whitespace runs collapse to a single space",
			"  a \n\n b\tc  ", "a b c"),
		Entry("empty input stays empty", "", ""),
	)

	It("is idempotent on already-normalized text", func() {
		once := render.Normalize("<@U1> *says* <http://x|go>", resolve)
		Expect(render.Normalize(once, resolve)).To(Equal(once))
	})
})
