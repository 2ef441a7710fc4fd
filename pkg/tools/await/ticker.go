package await

import (
	"context"
	"time"
)

type tickerAwaiter struct {
	*time.Ticker
}

func Tick(interval time.Duration) Awaiter {
	return &tickerAwaiter{time.NewTicker(interval)}
}

func (t *tickerAwaiter) Await(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		t.Stop()
		return false
	case <-t.Ticker.C:
		return true
	}
}
