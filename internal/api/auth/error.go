package auth

import (
	"net/http"

	"portfolio/pkg/response"
)

var (
	ErrInvalidEmailOrPassword = response.NewError(http.StatusUnauthorized, "email or password is wrong")
	ErrAdminNotFound          = response.NewError(http.StatusNotFound, "admin not found")
	ErrEmailAlreadyExists     = response.NewError(http.StatusConflict, "email already exists")
	ErrSessionNotFound        = response.NewError(http.StatusUnauthorized, "session expired or signed out")
	ErrSessionUnavailable     = response.NewError(http.StatusServiceUnavailable, "session store unavailable")
)
