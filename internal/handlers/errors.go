package handlers

import (
	"errors"
	"net/http"

	"github.com/filmdesk/backend/internal/services"
	"github.com/gin-gonic/gin"
)

// respondError maps the service failure taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrStoreNotReady):
		status = http.StatusServiceUnavailable
	case errors.Is(err, services.ErrFrameNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrCameraAccess):
		status = http.StatusConflict
	case errors.Is(err, services.ErrNoActiveFolder),
		errors.Is(err, services.ErrEmptyFolder),
		errors.Is(err, services.ErrEmptyUpload),
		errors.Is(err, services.ErrReadFailure),
		errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInvalidTransition):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
