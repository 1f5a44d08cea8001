package auth

import (
	"strings"
	"testing"
)

func TestHashPassword_VerifyRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if !strings.HasPrefix(hash, "$argon2id$") {
		t.Errorf("hash = %q, want $argon2id$ prefix", hash)
	}

	if !VerifyPassword("correct horse battery staple", hash) {
		t.Error("VerifyPassword() = false for correct password")
	}
	if VerifyPassword("wrong password", hash) {
		t.Error("VerifyPassword() = true for wrong password")
	}
}

func TestHashPassword_UniqueSalts(t *testing.T) {
	h1, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	h2, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password are identical, salt not applied")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"not argon2", "$2a$10$abcdefghijklmnopqrstuv"},
		{"truncated", "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA"},
		{"bad base64 salt", "$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA"},
		{"garbage", "not a hash at all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if VerifyPassword("anything", tt.hash) {
				t.Errorf("VerifyPassword() = true for malformed hash %q", tt.hash)
			}
		})
	}
}
