package middleware

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

type rateLimiter struct {
	bucket    map[string]*rate.Limiter
	rate      rate.Limit
	burstSize int
	mutex     sync.Mutex
}

func newRateLimiter(reqRate rate.Limit, burstSize int) *rateLimiter {
	return &rateLimiter{
		bucket:    make(map[string]*rate.Limiter),
		rate:      reqRate,
		burstSize: burstSize,
	}
}

func (r *rateLimiter) GetLimiterFrom(ip string) *rate.Limiter {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	limiter, exist := r.bucket[ip]
	if !exist {
		limiter = rate.NewLimiter(r.rate, r.burstSize)
		r.bucket[ip] = limiter
	}

	return limiter
}

func (m *middleware) NewRateLimiter(ctx *fiber.Ctx) error {
	return m.limit(ctx, m.rateLimitter)
}

func (m *middleware) NewStrictRateLimiter(ctx *fiber.Ctx) error {
	return m.limit(ctx, m.strictRateLimitter)
}

func (m *middleware) limit(ctx *fiber.Ctx, r *rateLimiter) error {
	clientIP := ctx.IP()

	if !r.GetLimiterFrom(clientIP).Allow() {
		m.log.Warnf("too many requests for IP %s on %s", clientIP, ctx.Path())
		return ctx.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "Too many requests",
		})
	}

	return ctx.Next()
}
