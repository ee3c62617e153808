package slack

import "context"

// Paginate drives a cursor-paginated endpoint to completion: fetch with an
// empty cursor, append the page's items, follow the next cursor until it
// comes back empty. Intra-page order is preserved and pages are concatenated
// in order. Every page fetch goes through the retrier.
//
// On terminal failure the items accumulated so far are returned alongside
// the error; the call site decides whether that partial result is usable
// (best-effort listings) or the failure propagates (conversation-fatal).
func Paginate[P, T any](
	ctx context.Context,
	r *Retrier,
	label string,
	fetch func(ctx context.Context, cursor string) (P, error),
	items func(P) []T,
	next func(P) string,
) ([]T, error) {
	var all []T
	cursor := ""
	for {
		var page P
		err := r.Do(ctx, label, func() error {
			var ferr error
			page, ferr = fetch(ctx, cursor)
			return ferr
		})
		if err != nil {
			return all, err
		}
		all = append(all, items(page)...)
		cursor = next(page)
		if cursor == "" {
			return all, nil
		}
	}
}
