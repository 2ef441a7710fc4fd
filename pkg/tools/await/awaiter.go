package await

import (
	"context"
)

type Awaiter interface {
	Await(ctx context.Context) (waited bool)
}

type noAwaiter struct{}

func (noAwaiter) Await(ctx context.Context) bool {
	return true
}
