package handler

import (
	"net/http"

	"github.com/ayberk/groupora/internal/middleware"
	"github.com/ayberk/groupora/internal/service"
	"github.com/ayberk/groupora/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminHandler struct {
	authService *service.AuthService
}

func NewAdminHandler(authService *service.AuthService) *AdminHandler {
	return &AdminHandler{
		authService: authService,
	}
}

// GetAllUsers returns every registered account
// GET /api/admin/users
func (h *AdminHandler) GetAllUsers(c *gin.Context) {
	logger.Log.Info("Admin fetching all users",
		zap.Int64("admin_id", middleware.ActorID(c)),
	)

	users, err := h.authService.GetAllUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to fetch users",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
	})
}
