package handler

import (
	"errors"
	"net/http"

	"github.com/ayberk/groupora/internal/service"
	"github.com/gin-gonic/gin"
)

// respondError maps service sentinel errors to the HTTP status table. Unknown
// errors are internal failures and never leak detail to the caller.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrWrongToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidPassword):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUserNotFound), errors.Is(err, service.ErrMessageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmailAlreadyExists),
		errors.Is(err, service.ErrUsernameAlreadyExists),
		errors.Is(err, service.ErrAlreadyLiked),
		errors.Is(err, service.ErrAlreadyDisliked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
