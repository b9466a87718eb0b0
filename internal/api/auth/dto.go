package auth

import (
	"time"

	"portfolio/internal/entity"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
}

type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresAt   int64           `json:"expires_at"`
	Session     SessionResponse `json:"session"`
}

type SessionResponse struct {
	ID        string    `json:"id"`
	AdminID   string    `json:"admin_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type CurrentSessionResponse struct {
	Authenticated bool            `json:"authenticated"`
	Session       SessionResponse `json:"session"`
}

// SessionEventMessage is one websocket frame on the session event stream.
type SessionEventMessage struct {
	Event   string           `json:"event"`
	Session *SessionResponse `json:"session,omitempty"`
	At      time.Time        `json:"at"`
}

const InitialSessionEvent = "INITIAL_SESSION"

func MakeSessionResponse(s entity.Session) SessionResponse {
	return SessionResponse{
		ID:        s.ID,
		AdminID:   s.AdminID,
		Email:     s.Email,
		CreatedAt: s.CreatedAt,
		ExpiresAt: s.ExpiresAt,
	}
}
