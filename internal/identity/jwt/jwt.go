// Package jwt implements the identity.Authenticator using signed JWT
// access tokens and database-persisted refresh sessions.
package jwt

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/vkazarin/clinicdesk/internal/domain"
	"github.com/vkazarin/clinicdesk/internal/identity"
)

// Config contains token settings.
type Config struct {
	Secret              string
	AccessTokenDuration time.Duration
	SessionDuration     time.Duration
}

// Authenticator issues HMAC-signed access tokens and rotates refresh
// sessions stored through the identity repository.
type Authenticator struct {
	cfg  Config
	repo identity.Repository
	now  func() time.Time
}

// NewAuthenticator creates a new JWT authenticator.
func NewAuthenticator(cfg Config, repo identity.Repository) *Authenticator {
	return &Authenticator{cfg: cfg, repo: repo, now: time.Now}
}

type accessClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// GenerateTokens issues a new access token and persists a refresh session.
func (a *Authenticator) GenerateTokens(ctx context.Context, user *domain.User) (*identity.TokenPair, error) {
	accessToken, err := a.signAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := generateSessionToken()
	if err != nil {
		return nil, err
	}

	session := &domain.Session{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: a.now().Add(a.cfg.SessionDuration),
	}
	if err := a.repo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	return &identity.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// ValidateAccessToken parses and verifies an access token.
func (a *Authenticator) ValidateAccessToken(_ context.Context, token string) (string, domain.Role, error) {
	var claims accessClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(a.cfg.Secret), nil
	}, jwt.WithTimeFunc(a.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", identity.ErrSessionExpired
		}
		return "", "", identity.ErrInvalidToken
	}
	if !parsed.Valid {
		return "", "", identity.ErrInvalidToken
	}

	role := domain.Role(claims.Role)
	if claims.Subject == "" || !role.IsValid() {
		return "", "", identity.ErrInvalidToken
	}

	return claims.Subject, role, nil
}

// RefreshTokens rotates a refresh session and issues a new token pair.
// The user is re-read so deactivation invalidates outstanding sessions.
func (a *Authenticator) RefreshTokens(ctx context.Context, refreshToken string) (*identity.TokenPair, error) {
	session, err := a.repo.GetSession(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	if session.IsExpired(a.now()) {
		_ = a.repo.DeleteSession(ctx, session.Token)
		return nil, identity.ErrSessionExpired
	}

	user, err := a.repo.GetUserByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("get session user: %w", err)
	}
	if !user.Active {
		_ = a.repo.DeleteUserSessions(ctx, user.ID)
		return nil, identity.ErrAccountInactive
	}

	if err := a.repo.DeleteSession(ctx, session.Token); err != nil {
		return nil, fmt.Errorf("rotate session: %w", err)
	}

	return a.GenerateTokens(ctx, user)
}

// RevokeRefreshToken deletes the refresh session.
func (a *Authenticator) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	return a.repo.DeleteSession(ctx, refreshToken)
}

func (a *Authenticator) signAccessToken(user *domain.User) (string, error) {
	now := a.now()
	claims := accessClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.cfg.AccessTokenDuration)),
			ID:        uuid.NewString(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(a.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign access token: %w", err)
	}
	return signed, nil
}

// generateSessionToken returns a 256-bit random token.
func generateSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
