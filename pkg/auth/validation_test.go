package auth

import (
	"errors"
	"testing"

	"github.com/eduvoice/eduvoice-backend/pkg/domain"
)

func TestValidateEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid", "student1@test.com", false},
		{"valid with plus", "kid+school@example.org", false},
		{"uppercase normalized", "Student@Test.COM", false},
		{"empty", "", true},
		{"no at sign", "studenttest.com", true},
		{"no domain", "student@", true},
		{"display name form", "Student <student@test.com>", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEmail(tt.email)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", tt.email, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrInvalidEmail) {
				t.Errorf("error %v does not wrap ErrInvalidEmail", err)
			}
		})
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Student1@Test.COM "); got != "student1@test.com" {
		t.Errorf("NormalizeEmail() = %q, want %q", got, "student1@test.com")
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Jane Doe", "Jane Doe"},
		{"trimmed", "  Jane Doe  ", "Jane Doe"},
		{"html escaped", "Jane <script>", "Jane &lt;script&gt;"},
		{"control chars removed", "Jane\x00Doe", "JaneDoe"},
		{"newline to space", "Jane\nDoe", "Jane Doe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeName(tt.input); got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
