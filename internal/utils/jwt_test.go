package utils

import (
	"testing"
	"time"

	"github.com/ayberk/groupora/internal/models"
)

const testSecret = "test-secret-key"

func testUser() *models.User {
	return &models.User{
		ID:       42,
		Email:    "alice@example.com",
		Username: "alice77",
		IsAdmin:  true,
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken(testUser(), testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}
	if token == "" {
		t.Fatal("Expected non-empty token")
	}

	claims, err := ValidateToken(token, testSecret)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("Expected user id 42, got %d", claims.UserID)
	}
	if !claims.IsAdmin {
		t.Fatal("Expected admin claim to be preserved")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(testUser(), testSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := ValidateToken(token, "other-secret"); err == nil {
		t.Fatal("Expected validation to fail with wrong secret")
	}
}

func TestValidateTokenExpired(t *testing.T) {
	token, err := GenerateToken(testUser(), testSecret, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	if _, err := ValidateToken(token, testSecret); err == nil {
		t.Fatal("Expected validation to fail for expired token")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := ValidateToken(token, testSecret); err == nil {
			t.Fatalf("Expected validation to fail for %q", token)
		}
	}
}
