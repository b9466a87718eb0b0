package cv

import (
	"net/http"

	"portfolio/pkg/response"
)

var (
	ErrCVNotFound         = response.NewError(http.StatusNotFound, "cv not found")
	ErrNoActiveCV         = response.NewError(http.StatusNotFound, "no active cv")
	ErrCVFileNotFound     = response.NewError(http.StatusNotFound, "cv file not found")
	ErrActivationConflict = response.NewError(http.StatusConflict, "another cv was activated at the same time, retry")
	ErrCreateCV           = response.NewError(http.StatusInternalServerError, "failed to save cv")
	ErrActivateCV         = response.NewError(http.StatusInternalServerError, "failed to activate cv")
	ErrDeleteCV           = response.NewError(http.StatusInternalServerError, "failed to delete cv")
)
