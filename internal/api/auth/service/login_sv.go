package authService

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"portfolio/internal/api/auth"
	"portfolio/internal/entity"
	contextPkg "portfolio/pkg/context"
	jwtPkg "portfolio/pkg/jwt"
	"portfolio/pkg/session"
)

func (s *authService) Login(c context.Context, req auth.LoginRequest) (auth.LoginResponse, error) {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return auth.LoginResponse{}, err
	}

	admin, err := repo.Admins.GetByEmail(c, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, auth.ErrAdminNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
			}).Warn("Login with unknown email")
			return auth.LoginResponse{}, auth.ErrInvalidEmailOrPassword
		}
		return auth.LoginResponse{}, err
	}

	if err := s.bcryptUtils.ComparePassword(admin.PasswordHash, req.Password); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"admin_id":   admin.ID,
		}).Warn("Password comparison failed")
		return auth.LoginResponse{}, auth.ErrInvalidEmailOrPassword
	}

	now := time.Now().UTC()
	ttl := jwtPkg.AccessTokenTTL()

	sessionID, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		return auth.LoginResponse{}, err
	}

	sess := entity.Session{
		ID:        sessionID,
		AdminID:   admin.ID,
		Email:     admin.Email,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	token, expiresAt, err := jwtPkg.Sign(MakeTokenClaims(admin, sessionID), ttl)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to sign token")
		return auth.LoginResponse{}, err
	}

	if err := s.sessions.SetSession(c, sess, ttl); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to store session")
		return auth.LoginResponse{}, auth.ErrSessionUnavailable
	}

	s.broadcast(c, session.Event{Type: session.SignedIn, Session: sess})

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"admin_id":   admin.ID,
		"session_id": sessionID,
	}).Info("Admin signed in")

	return auth.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		Session:     auth.MakeSessionResponse(sess),
	}, nil
}

func (s *authService) Logout(c context.Context, admin entity.AdminLoginData) error {
	requestID := contextPkg.GetRequestID(c)

	sess, err := s.sessions.GetSession(c, admin.SessionID)
	if err != nil {
		// the token was valid a moment ago; announce the end anyway
		sess = entity.Session{ID: admin.SessionID, AdminID: admin.ID, Email: admin.Email}
	}

	if err := s.sessions.DeleteSession(c, admin.SessionID); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to delete session")
		return auth.ErrSessionUnavailable
	}

	s.broadcast(c, session.Event{Type: session.SignedOut, Session: sess})

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"admin_id":   admin.ID,
		"session_id": admin.SessionID,
	}).Info("Admin signed out")

	return nil
}

// EnsureAdmin creates the bootstrap administrator unless one with that email exists.
func (s *authService) EnsureAdmin(c context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		return err
	}

	_, err = repo.Admins.GetByEmail(c, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, auth.ErrAdminNotFound) {
		return err
	}

	hash, err := s.bcryptUtils.HashPassword(password)
	if err != nil {
		return err
	}

	id, err := s.utils.NewULIDFromTimestamp(time.Now())
	if err != nil {
		return err
	}

	if err := repo.Admins.CreateAdmin(c, entity.Admin{ID: id, Email: email, PasswordHash: hash}); err != nil {
		if errors.Is(err, auth.ErrEmailAlreadyExists) {
			return nil
		}
		return err
	}

	s.log.WithField("email", email).Info("Bootstrap admin created")
	return nil
}
