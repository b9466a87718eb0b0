package authHandler

import (
	"context"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"

	"portfolio/internal/api/auth"
	"portfolio/internal/entity"
	jwtPkg "portfolio/pkg/jwt"
	"portfolio/pkg/session"
)

const (
	sessionEventBuffer = 16
	pingInterval       = 30 * time.Second
	writeTimeout       = 10 * time.Second
)

// handleSessionEvents sends the current session first, then one frame per
// sign-in or sign-out of the same admin. The stream ends when the socket's own
// session signs out or the client goes away.
func (h *AuthHandler) handleSessionEvents(c *websocket.Conn) {
	admin, ok := c.Locals(jwtPkg.LocalsKey).(entity.AdminLoginData)
	if !ok {
		_ = c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "unauthorized"))
		return
	}

	log := h.log.WithFields(logrus.Fields{
		"admin_id":   admin.ID,
		"session_id": admin.SessionID,
	})
	log.Info("Session event stream connected")
	defer log.Info("Session event stream disconnected")

	events := make(chan session.Event, sessionEventBuffer)
	unsubscribe := h.authService.Subscribe(admin, func(e session.Event) {
		select {
		case events <- e:
		default:
			log.WithField("event", e.Type).Warn("Session event dropped, slow consumer")
		}
	})
	defer unsubscribe()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	current, err := h.authService.CurrentSession(ctx, admin)
	cancel()
	if err != nil {
		log.WithField("error", err.Error()).Warn("Session vanished before stream start")
		_ = h.writeFrame(c, auth.SessionEventMessage{Event: string(session.SignedOut), At: time.Now().UTC()})
		return
	}

	if err := h.writeFrame(c, auth.SessionEventMessage{
		Event:   auth.InitialSessionEvent,
		Session: &current.Session,
		At:      time.Now().UTC(),
	}); err != nil {
		return
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.WithField("error", err.Error()).Warn("Session event stream read error")
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-ticker.C:
			if err := c.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		case e := <-events:
			resp := auth.MakeSessionResponse(e.Session)
			if err := h.writeFrame(c, auth.SessionEventMessage{Event: string(e.Type), Session: &resp, At: e.At}); err != nil {
				return
			}
			if e.Type == session.SignedOut && e.Session.ID == admin.SessionID {
				_ = c.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "signed out"),
					time.Now().Add(writeTimeout))
				return
			}
		}
	}
}

func (h *AuthHandler) writeFrame(c *websocket.Conn, msg auth.SessionEventMessage) error {
	if err := c.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	if err := c.WriteJSON(msg); err != nil {
		h.log.Errorf("Error writing session event: %v", err)
		return err
	}
	return nil
}
