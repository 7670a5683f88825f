package models

import "time"

type ReactionState string

const (
	ReactionLiked    ReactionState = "liked"
	ReactionDisliked ReactionState = "disliked"
)

// Reaction is a user's stored stance on one message. The composite primary
// key makes the store reject a second row for the same (user, message) pair.
// A neutral stance is the absence of the row; rows are never deleted.
type Reaction struct {
	UserID    uint          `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	MessageID uint          `gorm:"primaryKey;autoIncrement:false" json:"message_id"`
	State     ReactionState `gorm:"type:varchar(10);not null" json:"state"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
