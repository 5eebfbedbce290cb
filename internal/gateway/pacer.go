package gateway

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// pacer keeps at least delay between the end of one response and the next request.
// The first request goes out immediately.
type pacer struct {
	limiter *rate.Limiter
}

func newPacer(delay time.Duration) *pacer {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &pacer{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the next request may be sent or ctx is done.
func (p *pacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// Done marks the end of a response. The next Wait blocks for a full delay from now.
func (p *pacer) Done() {
	p.limiter = rate.NewLimiter(p.limiter.Limit(), 1)
	p.limiter.Allow()
}
