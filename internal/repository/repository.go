package repository

import (
	"context"

	"github.com/harmless95/auth-project/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user into the store. A duplicate email surfaces
	// as an already-exists error.
	Create(ctx context.Context, user *domain.User) error

	// GetByEmail retrieves a user by their email address.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
