package handlers

import (
	"errors"
	"net/http"

	"github.com/budgetms/budget_management_app/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// respondError maps a service error to the HTTP status and error code of the
// response taxonomy. Unrecognized errors are reported as a generic operation
// failure and never leak internals to the caller; the service layer has
// already logged them.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHENTICATED", "error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"code": "FORBIDDEN", "error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": "NOT_FOUND", "error": err.Error()})
	case errors.Is(err, apperrors.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"code": "INVALID_STATE", "error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"code": "INTERNAL", "error": "operation failed"})
	}
}

// respondBindError reports a malformed request body or query string.
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"code": "VALIDATION_ERROR", "error": "Invalid request format: " + err.Error()})
}
