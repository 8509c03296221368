package limiter

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DynamicRateLimiter wraps rate.Limiter with runtime-adjustable
// parameters. Used to throttle outbound notification deliveries.
type DynamicRateLimiter struct {
	limiter *rate.Limiter
}

func NewDynamicRateLimiter(interval time.Duration, burst int) *DynamicRateLimiter {
	return &DynamicRateLimiter{
		limiter: rate.NewLimiter(rate.Every(interval), burst),
	}
}

// Wait blocks until the next event is allowed or ctx is done.
func (drl *DynamicRateLimiter) Wait(ctx context.Context) error {
	return drl.limiter.Wait(ctx)
}

func (drl *DynamicRateLimiter) Allow() bool {
	return drl.limiter.Allow()
}

// Update changes the rate and burst on the fly.
func (drl *DynamicRateLimiter) Update(interval time.Duration, burst int) {
	drl.limiter.SetLimit(rate.Every(interval))
	drl.limiter.SetBurst(burst)
}
