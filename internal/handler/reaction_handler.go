package handler

import (
	"net/http"
	"strconv"

	"github.com/ayberk/groupora/internal/middleware"
	"github.com/ayberk/groupora/internal/models"
	"github.com/ayberk/groupora/internal/service"
	"github.com/gin-gonic/gin"
)

type ReactionHandler struct {
	reactionService *service.ReactionService
}

func NewReactionHandler(reactionService *service.ReactionService) *ReactionHandler {
	return &ReactionHandler{
		reactionService: reactionService,
	}
}

// POST /api/messages/:messageId/like
func (h *ReactionHandler) Like(c *gin.Context) {
	h.react(c, models.ReactionLiked)
}

// POST /api/messages/:messageId/dislike
func (h *ReactionHandler) Dislike(c *gin.Context) {
	h.react(c, models.ReactionDisliked)
}

func (h *ReactionHandler) react(c *gin.Context, desired models.ReactionState) {
	messageID, err := strconv.ParseUint(c.Param("messageId"), 10, 32)
	if err != nil || messageID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid parameters",
		})
		return
	}

	message, err := h.reactionService.ApplyReaction(middleware.ActorID(c), uint(messageID), desired)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, message)
}
