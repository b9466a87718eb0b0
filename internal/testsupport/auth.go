package testsupport

import (
	"context"
	"testing"
	"time"

	"portfolio/internal/entity"
	jwtPkg "portfolio/pkg/jwt"
)

const TestSecret = "test-secret"

// SignIn stores a live session for a synthetic admin and returns the value for
// an Authorization header.
func SignIn(t *testing.T, sessions *Redis) string {
	t.Helper()
	t.Setenv(jwtPkg.SecretEnvKey, TestSecret)

	now := time.Now().UTC()
	s := entity.Session{
		ID:        "session-" + now.Format("150405.000000000"),
		AdminID:   "admin-1",
		Email:     "admin@example.com",
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
	if err := sessions.SetSession(context.Background(), s, time.Hour); err != nil {
		t.Fatalf("store session: %v", err)
	}

	token, _, err := jwtPkg.Sign(map[string]interface{}{
		"id":         s.AdminID,
		"email":      s.Email,
		"session_id": s.ID,
	}, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	return "Bearer " + token
}
