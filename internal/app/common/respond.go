package common

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ngandinhtk/tripwise/internal/app/models"
)

// ErrorResponse maps domain sentinel errors onto HTTP statuses and writes a
// JSON error body.
func ErrorResponse(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, models.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, models.ErrBadRequest), errors.Is(err, models.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		status = http.StatusForbidden
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// BindError writes a 400 for request binding/validation failures.
func BindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
}
