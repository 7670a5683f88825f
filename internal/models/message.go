package models

import "time"

type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	Title      string    `gorm:"type:varchar(255);not null" json:"title"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Attachment string    `gorm:"type:varchar(255)" json:"attachment,omitempty"`
	Likes      int       `gorm:"not null;default:0" json:"likes"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	// Foreign key relationship (owner's username is always joined on listing)
	User User `gorm:"foreignKey:UserID" json:"user"`
}
