package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/unilink-app/unilink-api/utils/cache"
	"github.com/unilink-app/unilink-api/utils/response"
)

// attemptWindow is how long failed logins from one address are counted
// before the counter resets.
const attemptWindow = 15 * time.Minute

// lockoutTiers maps a failure count within the window to a lockout length.
// Checked top down; below the smallest tier no lockout applies yet.
var lockoutTiers = []struct {
	failures int64
	duration time.Duration
}{
	{25, 24 * time.Hour},
	{10, time.Hour},
	{5, 2 * time.Minute},
}

// LoginThrottle slows password guessing against the login endpoint. Counters
// live in Redis keyed by client IP; when Redis is unreachable logins proceed
// unthrottled rather than locking every student out.
type LoginThrottle struct {
	cache *cache.RedisCache
}

// NewLoginThrottle creates a throttle backed by the given Redis cache
func NewLoginThrottle(redisCache *cache.RedisCache) *LoginThrottle {
	return &LoginThrottle{cache: redisCache}
}

func attemptKey(ip string) string { return "login:attempts:" + ip }
func lockKey(ip string) string    { return "login:lock:" + ip }

// Gate is the middleware in front of the login route. A locked address gets
// a 429 with Retry-After; everyone else passes through.
func (l *LoginThrottle) Gate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ip := c.IP()

		locked, err := l.cache.Exists(c.Context(), lockKey(ip))
		if err != nil {
			return c.Next()
		}
		if !locked {
			return c.Next()
		}

		ttl, _ := l.cache.TTL(c.Context(), lockKey(ip))
		retryAfter := int(ttl.Seconds())
		if retryAfter < 0 {
			retryAfter = 60
		}
		c.Set("Retry-After", fmt.Sprintf("%d", retryAfter))
		return response.TooManyRequests(c,
			fmt.Sprintf("Too many failed login attempts. Try again in %d seconds", retryAfter))
	}
}

// RecordFailure counts a failed login and applies the lockout tier the
// address has reached. Errors are swallowed; throttling is best effort.
func (l *LoginThrottle) RecordFailure(c *fiber.Ctx, ip string) {
	ctx := c.Context()

	failures, err := l.cache.Increment(ctx, attemptKey(ip))
	if err != nil {
		return
	}
	if failures == 1 {
		l.cache.Expire(ctx, attemptKey(ip), attemptWindow)
	}

	for _, tier := range lockoutTiers {
		if failures >= tier.failures {
			l.cache.Set(ctx, lockKey(ip), "locked", tier.duration)
			return
		}
	}
}

// RecordSuccess clears the counter and any lock after a successful login
func (l *LoginThrottle) RecordSuccess(c *fiber.Ctx, ip string) {
	l.cache.Delete(c.Context(), attemptKey(ip), lockKey(ip))
}
