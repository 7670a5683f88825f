package handler

import (
	"net/http"
	"strconv"

	"github.com/ayberk/groupora/internal/middleware"
	"github.com/ayberk/groupora/internal/service"
	"github.com/ayberk/groupora/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type MessageHandler struct {
	messageService *service.MessageService
}

func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
	}
}

type CreateMessageRequest struct {
	Title      string `json:"title" binding:"required"`
	Content    string `json:"content" binding:"required"`
	Attachment string `json:"attachment"`
}

// POST /api/messages
func (h *MessageHandler) Create(c *gin.Context) {
	var req CreateMessageRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "missing parameters",
		})
		return
	}

	message, err := h.messageService.CreateMessage(middleware.ActorID(c), req.Title, req.Content, req.Attachment)
	if err != nil {
		respondError(c, err)
		return
	}

	logger.Log.Info("Message posted",
		zap.Uint("message_id", message.ID),
		zap.String("ip", c.ClientIP()),
	)

	c.JSON(http.StatusCreated, message)
}

// GET /api/messages?fields=&limit=&offset=&order=field:dir
func (h *MessageHandler) List(c *gin.Context) {
	opts := service.ListOptions{
		Fields: c.Query("fields"),
		Limit:  intQuery(c, "limit", -1),
		Offset: intQuery(c, "offset", 0),
		Order:  c.Query("order"),
	}

	messages, err := h.messageService.ListMessages(opts)
	if err != nil {
		// Bad field/order specs surface as 500, same as the reference API
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "invalid fields",
		})
		return
	}

	c.JSON(http.StatusOK, messages)
}

// intQuery parses an integer query parameter; unparseable values fall back to
// the default, mirroring the reference's NaN handling.
func intQuery(c *gin.Context, key string, defaultVal int) int {
	valStr := c.Query(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return defaultVal
	}
	return val
}
