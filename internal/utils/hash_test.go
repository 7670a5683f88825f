package utils

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("pass1234")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Fatalf("Expected argon2id format, got %s", hash)
	}

	// Hashing is salted: same password, different hash
	other, err := HashPassword("pass1234")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == other {
		t.Fatal("Expected different hashes for the same password")
	}
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("pass1234")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"correct password", "pass1234", true},
		{"wrong password", "wrong123", false},
		{"empty password", "", false},
		{"case sensitive", "Pass1234", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := VerifyPassword(tt.password, hash)
			if err != nil {
				t.Fatalf("VerifyPassword failed: %v", err)
			}
			if got != tt.want {
				t.Fatalf("VerifyPassword(%q) = %v, want %v", tt.password, got, tt.want)
			}
		})
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	malformed := []string{
		"",
		"not-a-hash",
		"$argon2id$v=19$m=65536,t=1,p=4$onlyfourparts",
	}

	for _, hash := range malformed {
		if _, err := VerifyPassword("pass1234", hash); err == nil {
			t.Fatalf("Expected error for malformed hash %q", hash)
		}
	}
}
