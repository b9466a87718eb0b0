package authService

import (
	"strings"

	"portfolio/internal/entity"
)

func MakeTokenClaims(admin entity.Admin, sessionID string) map[string]interface{} {
	return map[string]interface{}{
		"id":         admin.ID,
		"email":      admin.Email,
		"session_id": sessionID,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
