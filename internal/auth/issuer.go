package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/harmless95/auth-project/internal/domain"
)

// Issuer builds access and refresh token payloads for an authenticated user
// and delegates signing to the codec.
type Issuer struct {
	codec      *Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewIssuer creates an issuer with the configured token lifetimes.
func NewIssuer(codec *Codec, accessTTL, refreshTTL time.Duration) *Issuer {
	return NewIssuerWithClock(codec, accessTTL, refreshTTL, time.Now)
}

// NewIssuerWithClock is like NewIssuer but with an injectable clock.
func NewIssuerWithClock(codec *Codec, accessTTL, refreshTTL time.Duration, now func() time.Time) *Issuer {
	return &Issuer{
		codec:      codec,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        now,
	}
}

// IssueAccessToken mints a short-lived access token carrying the user's
// email, name, and login timestamp.
func (i *Issuer) IssueAccessToken(user *domain.User) (string, error) {
	claims := Claims{
		TokenType:  TokenTypeAccess,
		Email:      user.Email,
		Name:       user.Name,
		LoggedInAt: i.now().UTC().Format(time.RFC3339),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: user.Email,
		},
	}

	token, err := i.codec.Encode(claims, i.accessTTL)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return token, nil
}

// IssueRefreshToken mints a long-lived refresh token carrying only the subject.
func (i *Issuer) IssueRefreshToken(user *domain.User) (string, error) {
	claims := Claims{
		TokenType: TokenTypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: user.Email,
		},
	}

	token, err := i.codec.Encode(claims, i.refreshTTL)
	if err != nil {
		return "", fmt.Errorf("issue refresh token: %w", err)
	}
	return token, nil
}
