package service

import (
	"github.com/ayberk/groupora/internal/models"
	"github.com/ayberk/groupora/internal/repository"
	"github.com/ayberk/groupora/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CounterMaintainer owns the denormalized like counter on Message. Only the
// reaction flow may call it, at most once per applied transition, inside the
// same transaction as the reaction write.
type CounterMaintainer struct {
	messageRepo *repository.MessageRepository
}

func NewCounterMaintainer(messageRepo *repository.MessageRepository) *CounterMaintainer {
	return &CounterMaintainer{messageRepo: messageRepo}
}

// Adjust applies a signed delta to the message's like counter and mirrors it
// on the in-memory entity so callers can return the updated message without
// re-reading it. A zero delta is a no-op.
func (m *CounterMaintainer) Adjust(tx *gorm.DB, message *models.Message, delta int) error {
	if delta == 0 {
		return nil
	}

	if err := m.messageRepo.AdjustLikes(tx, message.ID, delta); err != nil {
		logger.Log.Error("Failed to adjust like counter",
			zap.Uint("message_id", message.ID),
			zap.Int("delta", delta),
			zap.Error(err),
		)
		return err
	}

	message.Likes += delta
	return nil
}
