package repository

import (
	"errors"

	"github.com/ayberk/groupora/internal/models"
	"gorm.io/gorm"
)

type ReactionRepository struct {
	db *gorm.DB
}

func NewReactionRepository(db *gorm.DB) *ReactionRepository {
	return &ReactionRepository{db: db}
}

// Get loads the reaction row for one (user, message) pair, nil when absent.
// Runs on tx so the read is part of the caller's transaction.
func (r *ReactionRepository) Get(tx *gorm.DB, userID, messageID uint) (*models.Reaction, error) {
	var reaction models.Reaction
	err := tx.Where("user_id = ? AND message_id = ?", userID, messageID).First(&reaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reaction, nil
}

// Create inserts the first reaction row for a pair. The composite primary key
// turns a concurrent duplicate insert into gorm.ErrDuplicatedKey.
func (r *ReactionRepository) Create(tx *gorm.DB, reaction *models.Reaction) error {
	return tx.Create(reaction).Error
}

// UpdateState flips a reaction from one state to another. The previous state
// is part of the WHERE clause: if a concurrent request already changed the
// row, zero rows match and the caller must treat the transition as conflicted.
func (r *ReactionRepository) UpdateState(tx *gorm.DB, userID, messageID uint, from, to models.ReactionState) (bool, error) {
	res := tx.Model(&models.Reaction{}).
		Where("user_id = ? AND message_id = ? AND state = ?", userID, messageID, from).
		Update("state", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
