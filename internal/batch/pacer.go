package batch

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer keeps at least delay between the end of one enhancer call and the
// start of the next. A zero delay never blocks.
type Pacer struct {
	limit   rate.Limit
	limiter *rate.Limiter
}

// NewPacer creates a Pacer whose first Wait returns at once
func NewPacer(delay time.Duration) *Pacer {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &Pacer{limit: limit, limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the next call may start
func (p *Pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// Done marks the end of a call and restarts the interval. A fresh limiter
// starts with a full bucket, so taking its token at once leaves the next
// Wait a whole interval from now.
func (p *Pacer) Done() {
	p.limiter = rate.NewLimiter(p.limit, 1)
	p.limiter.Allow()
}
