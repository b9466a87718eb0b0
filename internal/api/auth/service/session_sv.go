package authService

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"portfolio/internal/api/auth"
	"portfolio/internal/entity"
	contextPkg "portfolio/pkg/context"
	"portfolio/pkg/redis"
	"portfolio/pkg/session"
)

// CurrentSession answers from the hub when this instance has seen the sign-in,
// and from Redis otherwise.
func (s *authService) CurrentSession(c context.Context, admin entity.AdminLoginData) (auth.CurrentSessionResponse, error) {
	if e, ok := s.hub.Current(admin.SessionID); ok && e.Session.AdminID == admin.ID {
		return auth.CurrentSessionResponse{
			Authenticated: true,
			Session:       auth.MakeSessionResponse(e.Session),
		}, nil
	}

	sess, err := s.sessions.GetSession(c, admin.SessionID)
	if err != nil {
		if errors.Is(err, redis.ErrSessionNotFound) {
			return auth.CurrentSessionResponse{}, auth.ErrSessionNotFound
		}
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(c),
			"error":      err.Error(),
		}).Error("Failed to read session")
		return auth.CurrentSessionResponse{}, auth.ErrSessionUnavailable
	}

	return auth.CurrentSessionResponse{
		Authenticated: true,
		Session:       auth.MakeSessionResponse(sess),
	}, nil
}

// Subscribe delivers session events that concern admin's own account.
func (s *authService) Subscribe(admin entity.AdminLoginData, listener session.Listener) func() {
	return s.hub.Subscribe(func(e session.Event) {
		if e.Session.AdminID != admin.ID {
			return
		}
		listener(e)
	})
}

// broadcast notifies local listeners, then other instances through Redis.
func (s *authService) broadcast(c context.Context, e session.Event) {
	e.Origin = s.hub.Origin()
	e.At = time.Now().UTC()
	s.hub.Notify(e)

	payload, err := session.Encode(e)
	if err != nil {
		return
	}

	pctx, cancel := context.WithTimeout(context.WithoutCancel(c), 3*time.Second)
	defer cancel()

	if err := s.sessions.Publish(pctx, session.Channel, payload); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(c),
			"event":      e.Type,
			"error":      err.Error(),
		}).Warn("Failed to publish session event")
	}
}
