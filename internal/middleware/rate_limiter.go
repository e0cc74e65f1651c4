package middleware

import (
	"sync"
	"time"

	"care4pets/internal/apperrors"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// RateLimiter hands out one token bucket per client IP.
type RateLimiter struct {
	ips   map[string]*rate.Limiter
	mu    sync.Mutex
	rate  rate.Limit
	burst int
}

func NewRateLimiter(r rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{
		ips:   make(map[string]*rate.Limiter),
		rate:  r,
		burst: burst,
	}
}

func (rl *RateLimiter) Limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if limiter, ok := rl.ips[ip]; ok {
		return limiter
	}
	limiter := rate.NewLimiter(rl.rate, rl.burst)
	rl.ips[ip] = limiter
	return limiter
}

// RateLimit allows perMinute requests per IP, all of which may arrive at once.
func RateLimit(perMinute int) fiber.Handler {
	if perMinute <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	rl := NewRateLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	return func(c *fiber.Ctx) error {
		if !rl.Limiter(c.IP()).Allow() {
			return apperrors.New(fiber.StatusTooManyRequests, "Too many requests, please try again later", nil)
		}
		return c.Next()
	}
}
