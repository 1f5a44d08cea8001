package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/eduvoice/eduvoice-backend/pkg/domain"
	"github.com/eduvoice/eduvoice-backend/pkg/repository"
)

const (
	refreshTokenLen = 32

	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 7 * 24 * time.Hour
)

// SessionConfig holds session configuration.
type SessionConfig struct {
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	JWTSecret       []byte
	Issuer          string
}

// SessionService issues and validates sessions. All auth methods (password,
// Google) go through IssueSession.
type SessionService struct {
	config   SessionConfig
	sessions *repository.SessionsRepository
	users    *repository.UsersRepository
}

// NewSessionService creates a new session service.
func NewSessionService(config SessionConfig, sessions *repository.SessionsRepository, users *repository.UsersRepository) *SessionService {
	if config.AccessTokenTTL == 0 {
		config.AccessTokenTTL = DefaultAccessTokenTTL
	}
	if config.RefreshTokenTTL == 0 {
		config.RefreshTokenTTL = DefaultRefreshTokenTTL
	}
	return &SessionService{
		config:   config,
		sessions: sessions,
		users:    users,
	}
}

// AccessTokenTTL returns the access token TTL.
func (s *SessionService) AccessTokenTTL() time.Duration {
	return s.config.AccessTokenTTL
}

// RefreshTokenTTL returns the refresh token TTL.
func (s *SessionService) RefreshTokenTTL() time.Duration {
	return s.config.RefreshTokenTTL
}

// IssueSessionOpts holds optional request context for session issuance.
type IssueSessionOpts struct {
	IP        string
	UserAgent string
}

// AccessTokenClaims represents the claims in an access token.
type AccessTokenClaims struct {
	jwt.RegisteredClaims
	Email        string `json:"email,omitempty"`
	Name         string `json:"name,omitempty"`
	AuthProvider string `json:"auth_provider,omitempty"`
}

// IssueSession creates a new session and returns access/refresh tokens.
func (s *SessionService) IssueSession(ctx context.Context, userID uuid.UUID, opts IssueSessionOpts) (*domain.TokenPair, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	// Refresh token is opaque and stored hashed.
	refreshToken, err := GenerateToken(refreshTokenLen)
	if err != nil {
		return nil, err
	}

	sessionID := uuid.New()
	session := &domain.Session{
		ID:        sessionID,
		UserID:    userID,
		TokenHash: HashToken(refreshToken),
		CreatedAt: now,
		ExpiresAt: now.Add(s.config.RefreshTokenTTL),
	}

	if opts.IP != "" || opts.UserAgent != "" {
		metadata, _ := json.Marshal(domain.SessionMetadata{
			IP:        opts.IP,
			UserAgent: opts.UserAgent,
		})
		session.Metadata = metadata
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	return s.signTokenPair(user, sessionID, refreshToken, now)
}

// RefreshSession rotates a refresh token and returns a new token pair.
func (s *SessionService) RefreshSession(ctx context.Context, refreshToken string, opts IssueSessionOpts) (*domain.TokenPair, error) {
	session, err := s.sessions.GetByTokenHash(ctx, HashToken(refreshToken))
	if err != nil {
		return nil, err
	}

	if !session.IsValid() {
		if session.RevokedAt != nil {
			return nil, domain.ErrSessionRevoked
		}
		return nil, domain.ErrSessionExpired
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	newRefreshToken, err := GenerateToken(refreshTokenLen)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.RotateToken(ctx, session.ID, HashToken(newRefreshToken), now.Add(s.config.RefreshTokenTTL)); err != nil {
		return nil, err
	}

	return s.signTokenPair(user, session.ID, newRefreshToken, now)
}

// RevokeSession revokes the session backing a refresh token (sign-out).
func (s *SessionService) RevokeSession(ctx context.Context, refreshToken string) error {
	session, err := s.sessions.GetByTokenHash(ctx, HashToken(refreshToken))
	if err != nil {
		return err
	}
	return s.sessions.Revoke(ctx, session.ID)
}

// RevokeAllSessions revokes every active session for a user.
func (s *SessionService) RevokeAllSessions(ctx context.Context, userID uuid.UUID) error {
	return s.sessions.RevokeAllForUser(ctx, userID)
}

// ValidateAccessToken parses and validates a JWT access token.
func (s *SessionService) ValidateAccessToken(tokenString string) (*AccessTokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessTokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return s.config.JWTSecret, nil
	})
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*AccessTokenClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrInvalidToken
	}
	return claims, nil
}

func (s *SessionService) signTokenPair(user *domain.User, sessionID uuid.UUID, refreshToken string, now time.Time) (*domain.TokenPair, error) {
	expiresAt := now.Add(s.config.AccessTokenTTL)
	name := ""
	if user.Name != nil {
		name = *user.Name
	}
	claims := AccessTokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			Issuer:    s.config.Issuer,
			ID:        sessionID.String(),
		},
		Email:        user.Email,
		Name:         name,
		AuthProvider: user.AuthProvider,
	}

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.config.JWTSecret)
	if err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.config.AccessTokenTTL.Seconds()),
		ExpiresAt:    expiresAt,
	}, nil
}
