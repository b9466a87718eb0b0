package contact

import (
	"net/http"

	"portfolio/pkg/response"
)

var (
	ErrMessageNotFound = response.NewError(http.StatusNotFound, "contact message not found")
	ErrCreateMessage   = response.NewError(http.StatusInternalServerError, "failed to send message")
	ErrDeleteMessage   = response.NewError(http.StatusInternalServerError, "failed to delete message")
)
