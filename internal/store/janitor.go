package store

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// RunJanitor sweeps rounds idle longer than ttl every interval until ctx is
// done. It blocks; run it in its own goroutine.
func RunJanitor(ctx context.Context, st Store, ttl, every time.Duration) {
	if ttl <= 0 || every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			n, err := st.Sweep(ctx, now.Add(-ttl))
			if err != nil {
				log.Warn().Err(err).Msg("sweep sessions")
				continue
			}
			if n > 0 {
				log.Info().Int("removed", n).Dur("ttl", ttl).Msg("swept idle sessions")
			}
		}
	}
}
