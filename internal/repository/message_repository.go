package repository

import (
	"errors"

	"github.com/ayberk/groupora/internal/models"
	"gorm.io/gorm"
)

// ListQuery describes a validated message listing. Fields and OrderField must
// already be checked against the column allow-list by the caller.
type ListQuery struct {
	Fields     []string
	Limit      int // < 0 means no limit
	Offset     int
	OrderField string
	OrderDesc  bool
}

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) CreateMessage(message *models.Message) error {
	return r.db.Create(message).Error
}

// GetMessageByID retrieves a message with its owner preloaded
func (r *MessageRepository) GetMessageByID(id uint) (*models.Message, error) {
	var message models.Message
	err := r.db.Preload("User").First(&message, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}

// List runs a message listing with projection, pagination and ordering.
// The owner is always preloaded so listings can show the author's username.
func (r *MessageRepository) List(q ListQuery) ([]models.Message, error) {
	messages := make([]models.Message, 0)

	tx := r.db.Preload("User")

	if len(q.Fields) > 0 {
		tx = tx.Select(q.Fields)
	}

	order := q.OrderField
	if q.OrderDesc {
		order += " DESC"
	} else {
		order += " ASC"
	}
	tx = tx.Order(order)

	if q.Limit >= 0 {
		tx = tx.Limit(q.Limit)
	}
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}

	err := tx.Find(&messages).Error
	return messages, err
}

// AdjustLikes applies a relative update to the like counter. The expression
// runs store-side, so concurrent adjustments never lose an increment.
func (r *MessageRepository) AdjustLikes(tx *gorm.DB, messageID uint, delta int) error {
	return tx.Model(&models.Message{}).
		Where("id = ?", messageID).
		UpdateColumn("likes", gorm.Expr("likes + ?", delta)).Error
}

// CountLikedReactions counts reaction rows in liked state for one message.
// Used by tests and reconciliation to check the counter invariant.
func (r *MessageRepository) CountLikedReactions(messageID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Reaction{}).
		Where("message_id = ? AND state = ?", messageID, models.ReactionLiked).
		Count(&count).Error
	return count, err
}
