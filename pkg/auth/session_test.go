package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/eduvoice/eduvoice-backend/pkg/domain"
)

func testSessionService() *SessionService {
	return NewSessionService(SessionConfig{
		JWTSecret: []byte("test-secret-key-of-at-least-32-chars!"),
		Issuer:    "eduvoice-test",
	}, nil, nil)
}

func TestSessionService_SignAndValidateAccessToken(t *testing.T) {
	svc := testSessionService()
	name := "Test Student"
	user := &domain.User{
		ID:           uuid.New(),
		Email:        "student1@test.com",
		Name:         &name,
		AuthProvider: domain.ProviderNative,
	}

	pair, err := svc.signTokenPair(user, uuid.New(), "refresh-token", time.Now())
	if err != nil {
		t.Fatalf("signTokenPair() error = %v", err)
	}

	if pair.TokenType != "Bearer" {
		t.Errorf("TokenType = %q, want Bearer", pair.TokenType)
	}
	if pair.ExpiresIn != int(DefaultAccessTokenTTL.Seconds()) {
		t.Errorf("ExpiresIn = %d, want %d", pair.ExpiresIn, int(DefaultAccessTokenTTL.Seconds()))
	}

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	if err != nil {
		t.Fatalf("ValidateAccessToken() error = %v", err)
	}
	if claims.Subject != user.ID.String() {
		t.Errorf("Subject = %q, want %q", claims.Subject, user.ID)
	}
	if claims.Email != user.Email {
		t.Errorf("Email = %q, want %q", claims.Email, user.Email)
	}
	if claims.AuthProvider != domain.ProviderNative {
		t.Errorf("AuthProvider = %q, want %q", claims.AuthProvider, domain.ProviderNative)
	}
}

func TestSessionService_ValidateAccessToken_Invalid(t *testing.T) {
	svc := testSessionService()

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	expiredToken, _ := expired.SignedString([]byte("test-secret-key-of-at-least-32-chars!"))

	wrongKey := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	wrongKeyToken, _ := wrongKey.SignedString([]byte("a-completely-different-signing-key!!"))

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.jwt"},
		{"expired", expiredToken},
		{"wrong signing key", wrongKeyToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.ValidateAccessToken(tt.token); err == nil {
				t.Error("ValidateAccessToken() = nil error, want ErrInvalidToken")
			}
		})
	}
}

func TestGenerateToken_HashToken(t *testing.T) {
	t1, err := GenerateToken(32)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	t2, err := GenerateToken(32)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	if t1 == t2 {
		t.Error("two generated tokens are identical")
	}
	if HashToken(t1) == HashToken(t2) {
		t.Error("hashes of distinct tokens collide")
	}
	if HashToken(t1) != HashToken(t1) {
		t.Error("HashToken is not deterministic")
	}
	if len(HashToken(t1)) != 64 {
		t.Errorf("HashToken length = %d, want 64 hex chars", len(HashToken(t1)))
	}
}
