package commands

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// BucketType selects what a cooldown is keyed on.
type BucketType int

const (
	BucketDefault BucketType = iota
	BucketUser
	BucketGuild
	BucketChannel
)

// idle buckets are pruned once the map grows past this size
const maxIdleBuckets = 1024

// Cooldown allows Rate invocations per Per for each bucket.
type Cooldown struct {
	Rate   int
	Per    time.Duration
	Bucket BucketType

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewCooldown returns a cooldown of rate uses per duration keyed by bucket.
func NewCooldown(rateN int, per time.Duration, bucket BucketType) *Cooldown {
	return &Cooldown{Rate: rateN, Per: per, Bucket: bucket}
}

func (c *Cooldown) key(ctx *Context) string {
	switch c.Bucket {
	case BucketUser:
		return ctx.Author.ID
	case BucketGuild:
		if ctx.GuildID != "" {
			return ctx.GuildID
		}
		return ctx.Author.ID
	case BucketChannel:
		return ctx.ChannelID
	}
	return ""
}

// Update consumes one use from the bucket of ctx. It returns zero when the
// call is allowed, otherwise the time until the next use and consumes nothing.
func (c *Cooldown) Update(ctx *Context, now time.Time) time.Duration {
	if c.Rate <= 0 || c.Per <= 0 {
		return 0
	}
	lim := c.limiter(c.key(ctx), now)
	r := lim.ReserveN(now, 1)
	if !r.OK() {
		return c.Per
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return delay
	}
	return 0
}

// Reset refills the bucket of ctx.
func (c *Cooldown) Reset(ctx *Context) {
	c.mu.Lock()
	delete(c.limiters, c.key(ctx))
	c.mu.Unlock()
}

func (c *Cooldown) limiter(key string, now time.Time) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.limiters == nil {
		c.limiters = make(map[string]*rate.Limiter)
	}
	if lim, ok := c.limiters[key]; ok {
		return lim
	}
	if len(c.limiters) >= maxIdleBuckets {
		c.pruneLocked(now)
	}
	lim := rate.NewLimiter(rate.Every(c.Per/time.Duration(c.Rate)), c.Rate)
	c.limiters[key] = lim
	return lim
}

func (c *Cooldown) pruneLocked(now time.Time) {
	for k, lim := range c.limiters {
		if lim.TokensAt(now) >= float64(lim.Burst()) {
			delete(c.limiters, k)
		}
	}
}
