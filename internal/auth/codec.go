package auth

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token type claim values. The "type" claim distinguishes short-lived access
// tokens from long-lived refresh tokens; type enforcement happens in the
// session resolver, not here.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Decode failure modes. The codec reports why a token was rejected; callers
// decide how much of that to expose.
var (
	ErrTokenExpired          = errors.New("token expired")
	ErrTokenInvalidSignature = errors.New("token signature invalid")
	ErrTokenMalformed        = errors.New("token malformed")
)

// Claims is the signed payload carried by every token. Access tokens fill
// Email, Name and LoggedInAt; refresh tokens carry only the registered claims
// plus TokenType. Subject holds the user's email.
type Claims struct {
	TokenType  string `json:"type"`
	Email      string `json:"email,omitempty"`
	Name       string `json:"name,omitempty"`
	LoggedInAt string `json:"logged_in_at,omitempty"`
	jwt.RegisteredClaims
}

// Codec encodes and decodes RS256-signed tokens. Only the holder of the
// private key can mint tokens; any holder of the public key can verify them.
// The codec applies no application policy: type checking and user lookup are
// layered above it.
type Codec struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	now        func() time.Time
}

// NewCodec creates a codec signing with privateKey and verifying with publicKey.
func NewCodec(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey) *Codec {
	return NewCodecWithClock(privateKey, publicKey, time.Now)
}

// NewCodecWithClock is like NewCodec but with an injectable clock, used by
// tests to control expiry without sleeping.
func NewCodecWithClock(privateKey *rsa.PrivateKey, publicKey *rsa.PublicKey, now func() time.Time) *Codec {
	return &Codec{
		privateKey: privateKey,
		publicKey:  publicKey,
		now:        now,
	}
}

// Encode stamps exp/iat/jti on the claims and returns the compact signed token.
// A zero or negative ttl produces an already-expired token.
func (c *Codec) Encode(claims Claims, ttl time.Duration) (string, error) {
	now := c.now().UTC()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	claims.ID = uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, &claims)
	signed, err := token.SignedString(c.privateKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Decode verifies the signature and expiry of a compact token and returns its
// claims. Failures map to ErrTokenExpired, ErrTokenInvalidSignature, or
// ErrTokenMalformed; all time comparisons use the codec clock in UTC.
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return c.now().UTC() }),
		jwt.WithExpirationRequired(),
	)

	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		return c.publicKey, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: %v", ErrTokenExpired, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("%w: %v", ErrTokenInvalidSignature, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		}
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
