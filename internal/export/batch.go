package export

import "sync"

const (
	// historyBatchSize bounds parallel history fetches per batch.
	historyBatchSize = 3
	// replyBatchSize bounds parallel reply fetches within one conversation's
	// thread set; the replies endpoint sits in a stricter rate-limit tier.
	replyBatchSize = 2
)

// InBatches processes items in fixed-size batches: all members of a batch
// run in parallel, and the next batch starts only after the whole batch has
// resolved. This keeps a predictable upper bound on in-flight work without
// letting one slow item stall unrelated batches forever.
func InBatches[T any](items []T, size int, fn func(item T)) {
	if size < 1 {
		size = 1
	}
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		var wg sync.WaitGroup
		for _, item := range items[start:end] {
			wg.Add(1)
			go func() {
				defer wg.Done()
				fn(item)
			}()
		}
		wg.Wait()
	}
}
