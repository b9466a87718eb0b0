package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"portfolio/pkg/redis"
	"portfolio/pkg/session"
)

type Middleware interface {
	NewRateLimiter(ctx *fiber.Ctx) error
	NewStrictRateLimiter(ctx *fiber.Ctx) error
	NewTokenMiddleware(ctx *fiber.Ctx) error
	NewRequestIDMiddleware() fiber.Handler
	GetRequestID(ctx *fiber.Ctx) string
	Close()
}

type middleware struct {
	token               *tokenMiddleware
	rateLimitter        *rateLimiter
	strictRateLimitter  *rateLimiter
	requestIDMiddleware fiber.Handler
	log                 *logrus.Logger
}

func New(logger *logrus.Logger, sessions redis.IRedis, hub *session.Hub) Middleware {
	return &middleware{
		token:        newTokenMiddleware(sessions, hub),
		rateLimitter: newRateLimiter(50, 100),
		// login attempts and contact submissions: 5 at once, then one every 12s
		strictRateLimitter:  newRateLimiter(rate.Every(12*time.Second), 5),
		requestIDMiddleware: NewRequestIDMiddleware(),
		log:                 logger,
	}
}

func (m *middleware) GetRequestID(ctx *fiber.Ctx) string {
	requestID, ok := ctx.Locals(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

func (m *middleware) NewRequestIDMiddleware() fiber.Handler {
	return m.requestIDMiddleware
}

// Close detaches the session cache from the hub.
func (m *middleware) Close() {
	m.token.close()
}
