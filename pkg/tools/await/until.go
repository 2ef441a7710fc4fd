package await

import (
	"context"
	"sync"
	"time"
)

var timerPool = sync.Pool{
	New: func() any { return time.NewTimer(0) },
}

type timerAwaiter struct {
	*time.Timer
}

// Until waits until ts. Timestamps closer than minWaitingTime
// are considered already reached.
func Until(ts time.Time, minWaitingTime time.Duration) Awaiter {
	waitTime := time.Until(ts)
	if waitTime < minWaitingTime {
		return noAwaiter{}
	}
	timer := timerPool.Get().(*time.Timer)
	timer.Reset(waitTime)
	return &timerAwaiter{timer}
}

func (t *timerAwaiter) Await(ctx context.Context) bool {
	defer func() {
		t.Stop()
		timerPool.Put(t.Timer)
	}()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
