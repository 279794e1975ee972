package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tugasku/backend/internal/services"
	"tugasku/backend/internal/validation"
)

// respondError maps the service error taxonomy onto HTTP responses.
// Unexpected errors are logged with context and never leak internals.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	var validationErr *validation.Error
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": validationErr.Errors})
		return
	}

	var conflictErr *services.ConflictError
	if errors.As(err, &conflictErr) {
		c.JSON(http.StatusConflict, gin.H{"error": conflictErr.Message})
		return
	}

	var referenceErr *services.ReferenceError
	if errors.As(err, &referenceErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": referenceErr.Message})
		return
	}

	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials", "message": "Invalid username or password"})
	case errors.Is(err, services.ErrExpiredToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "expired_token", "message": "Token has expired"})
	case errors.Is(err, services.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_token", "message": "Token validation failed"})
	default:
		log.Error("unhandled error",
			zap.Error(err),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.String("request_id", c.GetString("request_id")),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func bindJSONMap(c *gin.Context) (map[string]any, bool) {
	var data map[string]any
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request", "message": "Invalid request format"})
		return nil, false
	}
	return data, true
}

func stringValue(data map[string]any, key string) string {
	s, _ := data[key].(string)
	return s
}

func stringPtr(data map[string]any, key string) *string {
	value, present := data[key]
	if !present {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return nil
	}
	return &s
}

// uintFromAny converts a JSON number to a uint id. JSON decoding into `any`
// yields float64 for numbers.
func uintFromAny(value any) (uint, bool) {
	switch v := value.(type) {
	case float64:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	default:
		return 0, false
	}
}
