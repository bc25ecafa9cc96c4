package radio

import (
	"context"
	"log"
	"time"
)

// Sweeper is anything the janitor can purge on a schedule: the registry
// itself and the stream cache both qualify.
type Sweeper interface {
	Sweep(now time.Time) int
}

// RunJanitor periodically sweeps the given sweepers until ctx is
// cancelled. Intended to run as a single background goroutine from main.
func RunJanitor(ctx context.Context, interval time.Duration, sweepers ...Sweeper) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			total := 0
			for _, s := range sweepers {
				total += s.Sweep(now)
			}
			if total > 0 {
				log.Printf("Janitor removed %d stale record(s)", total)
			}
		}
	}
}
