package middleware

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"portfolio/internal/entity"
	jwtPkg "portfolio/pkg/jwt"
	"portfolio/pkg/redis"
	"portfolio/pkg/session"
)

const unauthorizedMessage = "Unauthorized, access token invalid or expired"

var errSessionMismatch = errors.New("session does not belong to token subject")

// tokenMiddleware keeps the sessions it has already resolved. The hub tells it
// when one of them ends, on this instance or any other.
type tokenMiddleware struct {
	sessions    redis.IRedis
	mu          sync.RWMutex
	cache       map[string]entity.Session
	unsubscribe func()
}

func newTokenMiddleware(sessions redis.IRedis, hub *session.Hub) *tokenMiddleware {
	t := &tokenMiddleware{
		sessions:    sessions,
		cache:       make(map[string]entity.Session),
		unsubscribe: func() {},
	}

	if hub != nil {
		t.unsubscribe = hub.Subscribe(t.onSessionEvent)
	}

	return t
}

func (t *tokenMiddleware) onSessionEvent(e session.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch e.Type {
	case session.SignedOut:
		delete(t.cache, e.Session.ID)
	case session.SignedIn:
		t.pruneLocked(time.Now())
		t.cache[e.Session.ID] = e.Session
	}
}

// pruneLocked drops sessions that lapsed without a sign-out. Callers hold mu.
func (t *tokenMiddleware) pruneLocked(now time.Time) {
	for id, s := range t.cache {
		if s.Expired(now) {
			delete(t.cache, id)
		}
	}
}

func (t *tokenMiddleware) close() {
	t.unsubscribe()
}

func (t *tokenMiddleware) resolve(ctx context.Context, id string) (entity.Session, error) {
	now := time.Now()

	t.mu.RLock()
	cached, ok := t.cache[id]
	t.mu.RUnlock()
	if ok {
		if !cached.Expired(now) {
			return cached, nil
		}
		t.mu.Lock()
		delete(t.cache, id)
		t.mu.Unlock()
	}

	if t.sessions == nil {
		return entity.Session{}, redis.ErrSessionNotFound
	}

	s, err := t.sessions.GetSession(ctx, id)
	if err != nil {
		return entity.Session{}, err
	}
	if s.Expired(now) {
		return entity.Session{}, redis.ErrSessionNotFound
	}

	t.mu.Lock()
	t.pruneLocked(now)
	t.cache[id] = s
	t.mu.Unlock()

	return s, nil
}

// NewTokenMiddleware admits a request only with a valid token whose session is
// still live. Every failure, including an unreachable session store, is a 401.
func (m *middleware) NewTokenMiddleware(ctx *fiber.Ctx) error {
	fields := logrus.Fields{
		"request_id": m.GetRequestID(ctx),
		"path":       ctx.Path(),
		"method":     ctx.Method(),
		"client_ip":  ctx.IP(),
	}

	token, err := jwtPkg.VerifyTokenHeader(ctx, jwtPkg.SecretEnvKey)
	if err != nil {
		m.log.WithFields(fields).WithField("error", err.Error()).Warn("Token verification failed")
		return m.unauthorized(ctx)
	}

	admin, err := jwtPkg.LoginData(token)
	if err != nil {
		m.log.WithFields(fields).WithField("error", err.Error()).Warn("Token claims check")
		return m.unauthorized(ctx)
	}

	c, cancel := context.WithTimeout(ctx.UserContext(), 3*time.Second)
	defer cancel()

	s, err := m.token.resolve(c, admin.SessionID)
	if err == nil && s.AdminID != admin.ID {
		err = errSessionMismatch
	}
	if err != nil {
		m.log.WithFields(fields).WithFields(logrus.Fields{
			"session_id": admin.SessionID,
			"error":      err.Error(),
		}).Warn("Session check failed")
		return m.unauthorized(ctx)
	}

	ctx.Locals(jwtPkg.LocalsKey, admin)

	m.log.WithFields(fields).WithField("admin_id", admin.ID).Debug("Authentication successful")
	return ctx.Next()
}

func (m *middleware) unauthorized(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"error": unauthorizedMessage,
	})
}
