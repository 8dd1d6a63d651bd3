package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/01moynul/mtd-portal/internal/auth"
	"github.com/01moynul/mtd-portal/internal/forms"
	"github.com/01moynul/mtd-portal/internal/middleware"
	"github.com/01moynul/mtd-portal/internal/models"
	"github.com/gin-gonic/gin"
)

// respondError maps domain and access errors onto HTTP statuses. Anything else is
// logged and answered with a generic 500 so driver details never reach the client.
func (h *Handlers) respondError(c *gin.Context, err error) {
	switch {
	case models.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, auth.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	case errors.Is(err, auth.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case models.IsConflict(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, forms.ErrNotConfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Form service is not configured"})
	default:
		h.Log.Error("request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("request_id", middleware.GetRequestID(c)),
			slog.Any("error", err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// caller returns the signed-in identity. Routes using it sit behind middleware.Require.
func caller(c *gin.Context) *auth.Identity {
	return middleware.Identity(c)
}
