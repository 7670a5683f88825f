package testutil

import (
	"github.com/ayberk/groupora/internal/models"
	"github.com/ayberk/groupora/internal/utils"
)

// CreateTestUser builds a user with a real argon2id hash over password
func CreateTestUser(username, email, password string, isAdmin bool) (*models.User, error) {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		IsAdmin:      isAdmin,
	}, nil
}

// CreateTestMessage builds a message owned by userID with a zero counter
func CreateTestMessage(userID uint, title, content string) *models.Message {
	return &models.Message{
		UserID:  userID,
		Title:   title,
		Content: content,
		Likes:   0,
	}
}

// DefaultTestUser returns a regular user with a password that satisfies the
// registration policy (4-8 chars, contains a digit)
func DefaultTestUser() (*models.User, error) {
	return CreateTestUser("testuser", "test@example.com", "test123", false)
}

// DefaultAdminUser returns an admin user
func DefaultAdminUser() (*models.User, error) {
	return CreateTestUser("admin", "admin@example.com", "admin123", true)
}
