package auth

import (
	"fmt"
	"html"
	"net/mail"
	"strings"
	"unicode"

	"github.com/eduvoice/eduvoice-backend/pkg/domain"
)

const maxEmailLength = 254 // RFC 5321

// ValidateEmail validates an email address for format and length.
func ValidateEmail(email string) error {
	if email == "" {
		return domain.ErrInvalidEmail
	}
	if len(email) > maxEmailLength {
		return fmt.Errorf("%w: too long (max %d characters)", domain.ErrInvalidEmail, maxEmailLength)
	}

	addr, err := mail.ParseAddress(NormalizeEmail(email))
	if err != nil {
		return domain.ErrInvalidEmail
	}
	// Reject "Name <addr>" forms; only a bare address is acceptable input.
	if addr.Address != NormalizeEmail(email) {
		return domain.ErrInvalidEmail
	}
	return nil
}

// NormalizeEmail normalizes an email address by lowercasing and trimming.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SanitizeName trims, strips control characters, and HTML-escapes a
// display-name field.
func SanitizeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return ' '
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	return html.EscapeString(name)
}
