package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/eduvoice/eduvoice-backend/pkg/domain"
	"github.com/eduvoice/eduvoice-backend/pkg/repository"
)

const (
	googleAuthURL   = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL  = "https://oauth2.googleapis.com/token"
	googleIssuer    = "https://accounts.google.com"
	googleIssuerAlt = "accounts.google.com"
)

// GoogleConfig holds Google OAuth configuration.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// GoogleClaims represents the claims from a Google ID token.
type GoogleClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleService handles Google OAuth sign-in. This is the external
// identity-provider collaborator: it yields a verified email and display
// name, and the account is found or created from those.
type GoogleService struct {
	config     GoogleConfig
	db         *sql.DB
	users      *repository.UsersRepository
	identities *repository.IdentitiesRepository
	httpClient *http.Client
}

// NewGoogleService creates a new Google service.
func NewGoogleService(
	config GoogleConfig,
	db *sql.DB,
	users *repository.UsersRepository,
	identities *repository.IdentitiesRepository,
) *GoogleService {
	return &GoogleService{
		config:     config,
		db:         db,
		users:      users,
		identities: identities,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// GenerateAuthURL generates the Google OAuth authorization URL.
func (s *GoogleService) GenerateAuthURL(state, nonce string) string {
	params := url.Values{
		"client_id":     {s.config.ClientID},
		"redirect_uri":  {s.config.RedirectURI},
		"response_type": {"code"},
		"scope":         {"openid email profile"},
		"state":         {state},
		"nonce":         {nonce},
	}
	return googleAuthURL + "?" + params.Encode()
}

// GoogleTokenResponse represents the response from Google's token endpoint.
type GoogleTokenResponse struct {
	AccessToken string `json:"access_token"`
	IDToken     string `json:"id_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// ExchangeCode exchanges an authorization code for tokens.
func (s *GoogleService) ExchangeCode(ctx context.Context, code string) (*GoogleTokenResponse, error) {
	data := url.Values{
		"code":          {code},
		"client_id":     {s.config.ClientID},
		"client_secret": {s.config.ClientSecret},
		"redirect_uri":  {s.config.RedirectURI},
		"grant_type":    {"authorization_code"},
	}

	req, err := http.NewRequestWithContext(ctx, "POST", googleTokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("token exchange failed: %s", string(body))
	}

	var tokenResp GoogleTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, err
	}
	return &tokenResp, nil
}

// ValidateIDToken validates a Google ID token and extracts claims.
// Note: For production, verify the signature against Google's JWKS.
func (s *GoogleService) ValidateIDToken(ctx context.Context, idToken, expectedNonce string) (*GoogleClaims, error) {
	token, _, err := jwt.NewParser().ParseUnverified(idToken, &GoogleClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse ID token: %w", err)
	}

	claims, ok := token.Claims.(*GoogleClaims)
	if !ok {
		return nil, errors.New("invalid claims type")
	}

	if claims.Issuer != googleIssuer && claims.Issuer != googleIssuerAlt {
		return nil, fmt.Errorf("invalid issuer: %s", claims.Issuer)
	}

	if len(claims.Audience) == 0 || claims.Audience[0] != s.config.ClientID {
		return nil, errors.New("invalid audience")
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(time.Now()) {
		return nil, errors.New("token expired")
	}

	return claims, nil
}

// Authenticate resolves Google claims to a user ID, finding the linked
// identity, auto-linking by verified email, or creating a new account.
func (s *GoogleService) Authenticate(ctx context.Context, claims *GoogleClaims) (uuid.UUID, error) {
	identity, err := s.identities.GetByProviderSubject(ctx, domain.ProviderGoogle, claims.Subject)
	if err == nil {
		return identity.UserID, nil
	}
	if !errors.Is(err, domain.ErrIdentityNotFound) {
		return uuid.Nil, err
	}

	email := NormalizeEmail(claims.Email)

	user, err := s.users.GetByEmail(ctx, email)
	if err == nil && claims.EmailVerified {
		// Existing account with verified Google email: link identity.
		identity := &domain.UserIdentity{
			ID:              uuid.New(),
			UserID:          user.ID,
			Provider:        domain.ProviderGoogle,
			ProviderSubject: claims.Subject,
			Email:           &email,
			CreatedAt:       time.Now(),
		}
		if err := s.identities.Create(ctx, identity); err != nil {
			return uuid.Nil, err
		}
		return user.ID, nil
	}
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return uuid.Nil, err
	}

	now := time.Now()
	name := SanitizeName(claims.Name)
	newUser := &domain.User{
		ID:            uuid.New(),
		Email:         email,
		Name:          &name,
		AuthProvider:  domain.ProviderGoogle,
		EmailVerified: claims.EmailVerified,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if claims.Picture != "" {
		picture := claims.Picture
		newUser.ProfilePicture = &picture
	}

	newIdentity := &domain.UserIdentity{
		ID:              uuid.New(),
		UserID:          newUser.ID,
		Provider:        domain.ProviderGoogle,
		ProviderSubject: claims.Subject,
		Email:           &email,
		CreatedAt:       now,
	}

	err = repository.Tx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.users.CreateTx(ctx, tx, newUser); err != nil {
			return err
		}
		return s.identities.CreateTx(ctx, tx, newIdentity)
	})
	if err != nil {
		return uuid.Nil, err
	}

	return newUser.ID, nil
}
