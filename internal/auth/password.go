package auth

import (
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the cost factor used for password hashing when none is
// configured. bcrypt embeds a fresh random salt in every digest, so hashing
// the same password twice yields different digests.
const DefaultBcryptCost = 12

// ErrMalformedDigest indicates a stored password digest that cannot be
// decoded. Valid stored data never triggers it; it signals a corrupted row or
// a write from an incompatible version.
var ErrMalformedDigest = errors.New("malformed password digest")

// Hasher performs one-way password hashing and constant-time verification.
// Digests are stored as hex-encoded bcrypt output, which keeps the column
// plain text and matches the historical storage format.
type Hasher struct {
	cost int
}

// NewHasher creates a Hasher with the given bcrypt cost. Costs outside
// bcrypt's supported range fall back to DefaultBcryptCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &Hasher{cost: cost}
}

// Hash derives a salted one-way digest of the password, returned hex-encoded.
func (h *Hasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hex.EncodeToString(digest), nil
}

// Verify reports whether password matches the stored digest. A mismatch
// returns (false, nil); only a digest that cannot be decoded returns
// ErrMalformedDigest. The underlying comparison is constant-time.
func (h *Hasher) Verify(password, storedDigest string) (bool, error) {
	raw, err := hex.DecodeString(storedDigest)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedDigest, err)
	}

	err = bcrypt.CompareHashAndPassword(raw, []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		// Not a mismatch: the decoded bytes are not a bcrypt digest.
		return false, fmt.Errorf("%w: %v", ErrMalformedDigest, err)
	}
}
