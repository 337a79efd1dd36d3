package worker

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle enforces a minimum interval between outbound calls.
// It is safe for concurrent use but only spaces calls within one process.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle creates a throttle with the given minimum delay.
// A non-positive delay disables throttling.
func NewThrottle(minDelay time.Duration) *Throttle {
	limit := rate.Inf
	if minDelay > 0 {
		limit = rate.Every(minDelay)
	}
	return &Throttle{limiter: rate.NewLimiter(limit, 1)}
}

// Wait blocks until the next call is allowed or ctx is done.
// A nil throttle never blocks.
func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil {
		return ctx.Err()
	}
	return t.limiter.Wait(ctx)
}

// WaitWithDelay waits for the throttle and then an additional delay,
// such as a robots.txt crawl delay
func (t *Throttle) WaitWithDelay(ctx context.Context, additionalDelay time.Duration) error {
	if err := t.Wait(ctx); err != nil {
		return err
	}

	if additionalDelay > 0 {
		timer := time.NewTimer(additionalDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return nil
}
