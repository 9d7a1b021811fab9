package session

import (
	"context"
	"time"
)

// RunJanitor runs the periodic eviction task of spec.md §4.4 step 5 /
// §5 "Janitor task": every JanitorInterval, evict stale cache entries
// and reset the flow if the queue has been idle too long. It returns
// when ctx is cancelled.
func RunJanitor(ctx context.Context, s *Session) {
	ticker := time.NewTicker(JanitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.EvictStale(now)
		}
	}
}
