package handlers

import (
	"context"
	"sync"
)

// Inflight runs message handling off the update loop so a slow request never
// delays other chats, and lets shutdown wait for running requests.
type Inflight struct {
	wg sync.WaitGroup
}

// Go runs fn in its own goroutine with a context that is not cancelled when
// the update loop stops. A nil Inflight runs fn inline.
func (i *Inflight) Go(ctx context.Context, fn func(ctx context.Context)) {
	if i == nil {
		fn(ctx)
		return
	}
	ctx = context.WithoutCancel(ctx)
	i.wg.Add(1)
	go func() {
		defer i.wg.Done()
		fn(ctx)
	}()
}

// Wait blocks until every started request has finished or ctx is done.
func (i *Inflight) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		i.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
