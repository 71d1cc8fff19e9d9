package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/harmless95/auth-project/internal/auth"
	"github.com/harmless95/auth-project/internal/domain"
	"github.com/harmless95/auth-project/internal/repository"
	apperrors "github.com/harmless95/auth-project/pkg/errors"
	"github.com/harmless95/auth-project/pkg/logger"
)

// bearerTokenType is the token_type value returned with every token pair.
const bearerTokenType = "Bearer"

// errInvalidCredentials is returned for both unknown email and wrong
// password. Callers must never learn which check failed.
func errInvalidCredentials() *apperrors.AppError {
	return apperrors.Unauthorized("invalid email or password")
}

// errUnauthorizedToken covers every token rejection: expired, malformed, bad
// signature, wrong type, unknown subject. The cause is logged server-side only.
func errUnauthorizedToken() *apperrors.AppError {
	return apperrors.Unauthorized("invalid or expired token")
}

// AuthService implements registration, credential verification, and session
// resolution on top of the identity store, the password hasher, and the token
// codec/issuer.
type AuthService struct {
	users  repository.UserRepository
	hasher *auth.Hasher
	codec  *auth.Codec
	issuer *auth.Issuer
	logger *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	users repository.UserRepository,
	hasher *auth.Hasher,
	codec *auth.Codec,
	issuer *auth.Issuer,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		codec:  codec,
		issuer: issuer,
		logger: logger,
	}
}

// log prefers the request-scoped logger stored in context (enriched with
// correlation_id, user_id, and trace context by the HTTP middleware) and falls
// back to the service logger outside a request.
func (s *AuthService) log(ctx context.Context) *slog.Logger {
	if l := logger.FromContext(ctx); l != slog.Default() {
		return l
	}
	return s.logger
}

// RegisterInput holds the parameters for registering a new user.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// Register creates a new user account with a hashed password. The
// lookup-before-insert check and the store's unique constraint both map a
// duplicate email to the same already-exists error, so a concurrent
// registration racing past the lookup is handled identically.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if input.Email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if input.Password == "" {
		return nil, apperrors.InvalidInput("password is required")
	}
	if input.Name == "" {
		return nil, apperrors.InvalidInput("name is required")
	}

	_, err := s.users.GetByEmail(ctx, input.Email)
	switch {
	case err == nil:
		return nil, apperrors.AlreadyExists("user", "email", input.Email)
	case !errors.Is(err, apperrors.ErrNotFound):
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	digest, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: digest,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.log(ctx).InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// Login verifies the email/password pair and returns the matching user.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, errInvalidCredentials()
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, errInvalidCredentials()
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		// A digest that cannot be decoded is stored-data corruption, not a
		// credential failure.
		return nil, apperrors.Internal(fmt.Errorf("verify password: %w", err))
	}
	if !ok {
		return nil, errInvalidCredentials()
	}

	s.log(ctx).InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// IssueTokens mints a fresh access/refresh token pair for the user.
func (s *AuthService) IssueTokens(user *domain.User) (*domain.TokenPair, error) {
	accessToken, err := s.issuer.IssueAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refreshToken, err := s.issuer.IssueRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    bearerTokenType,
	}, nil
}

// Resolve turns a bearer token into an authenticated user and its claims.
// It enforces the expected token type and re-queries the store on every call;
// nothing is cached. All failures surface as the same unauthorized error so
// clients cannot tell token state from account existence.
func (s *AuthService) Resolve(ctx context.Context, token, expectedType string) (*domain.User, *auth.Claims, error) {
	claims, err := s.codec.Decode(token)
	if err != nil {
		s.log(ctx).DebugContext(ctx, "token rejected", slog.String("reason", err.Error()))
		return nil, nil, errUnauthorizedToken()
	}

	if claims.Subject == "" {
		s.log(ctx).DebugContext(ctx, "token rejected", slog.String("reason", "missing sub claim"))
		return nil, nil, errUnauthorizedToken()
	}

	if claims.TokenType != expectedType {
		s.log(ctx).DebugContext(ctx, "token type mismatch",
			slog.String("got", claims.TokenType),
			slog.String("expected", expectedType),
		)
		return nil, nil, errUnauthorizedToken()
	}

	user, err := s.users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.log(ctx).DebugContext(ctx, "token subject not found",
				slog.String("sub", claims.Subject),
			)
			return nil, nil, errUnauthorizedToken()
		}
		return nil, nil, fmt.Errorf("look up token subject: %w", err)
	}

	return user, claims, nil
}

// Refresh validates a refresh token and mints a new token pair. Previously
// issued access tokens stay valid until their own expiry; there is no
// revocation or rotation tracking.
func (s *AuthService) Refresh(ctx context.Context, token string) (*domain.TokenPair, error) {
	user, _, err := s.Resolve(ctx, token, auth.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	tokens, err := s.IssueTokens(user)
	if err != nil {
		return nil, err
	}

	s.log(ctx).InfoContext(ctx, "tokens refreshed",
		slog.String("user_id", user.ID),
	)

	return tokens, nil
}
