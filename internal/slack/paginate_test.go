package slack_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"slackrecap/internal/slack"
)

type fakePage struct {
	items []string
	next  string
}

var _ = Describe("Paginate", func() {
	var (
		tel *recordingTelemetry
		r   *slack.Retrier
	)

	BeforeEach(func() {
		tel = &recordingTelemetry{}
		r = slack.NewRetrier(tel, zap.NewNop())
	})

	items := func(p fakePage) []string { return p.items }
	next := func(p fakePage) string { return p.next }

	It("concatenates pages in order and stops on the empty cursor", func() {
		pages := map[string]fakePage{
			"":  {items: []string{"1", "2"}, next: "a"},
			"a": {items: []string{"3"}, next: "b"},
			"b": {items: []string{"4", "5"}, next: ""},
		}
		var cursors []string
		got, err := slack.Paginate(context.Background(), r, "list",
			func(_ context.Context, cursor string) (fakePage, error) {
				cursors = append(cursors, cursor)
				return pages[cursor], nil
			}, items, next)

		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal([]string{"1", "2", "3", "4", "5"}))
		// Exactly three fetches: no fourth call after the empty cursor.
		Expect(cursors).To(Equal([]string{"", "a", "b"}))
	})

	It("handles an empty first page", func() {
		got, err := slack.Paginate(context.Background(), r, "list",
			func(_ context.Context, _ string) (fakePage, error) {
				return fakePage{}, nil
			}, items, next)

		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(BeEmpty())
	})

	It("returns accumulated items alongside a terminal failure", func() {
		got, err := slack.Paginate(context.Background(), r, "list",
			func(_ context.Context, cursor string) (fakePage, error) {
				if cursor == "" {
					return fakePage{items: []string{"1", "2"}, next: "a"}, nil
				}
				return fakePage{}, &slack.APIError{Endpoint: "users.list", Code: "invalid_cursor"}
			}, items, next)

		Expect(err).To(HaveOccurred())
		Expect(got).To(Equal([]string{"1", "2"}))

		_, _, errs := tel.snapshot()
		Expect(errs).To(HaveLen(1))
		Expect(errs[0]).To(ContainSubstring("invalid_cursor"))
	})

	It("runs every page fetch through the retrier", func() {
		r.Sleep = func(context.Context, time.Duration) error { return nil }
		failures := 2
		got, err := slack.Paginate(context.Background(), r, "list",
			func(_ context.Context, cursor string) (fakePage, error) {
				if cursor == "a" && failures > 0 {
					failures--
					return fakePage{}, &slack.APIError{Status: 500}
				}
				if cursor == "" {
					return fakePage{items: []string{"1"}, next: "a"}, nil
				}
				return fakePage{items: []string{"2"}, next: ""}, nil
			}, items, next)

		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal([]string{"1", "2"}))

		calls, _, _ := tel.snapshot()
		Expect(calls).To(Equal(4))
	})
})
