package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/harmless95/auth-project/internal/service"
	"github.com/harmless95/auth-project/pkg/validator"
)

// AuthHandler handles HTTP requests for the auth endpoints.
type AuthHandler struct {
	service *service.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates a new auth HTTP handler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{service: svc, logger: logger}
}

// --- Request DTOs ---

// RegisterRequest is the JSON request body for user registration.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=1,max=100"`
}

// --- Response DTOs ---

// UserResponse is the public view of a registered account.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// MeResponse describes the identity behind a valid access token.
type MeResponse struct {
	Email      string `json:"email"`
	Name       string `json:"name"`
	LoggedInAt string `json:"logged_in_at"`
}

// --- Handlers ---

// Register handles POST /auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid request body: "+err.Error())
		return
	}

	if err := validator.Validate(req); err != nil {
		writeValidationError(w, err)
		return
	}

	user, err := h.service.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	})
}

// Login handles POST /auth/login. The request body is form-encoded; the
// account email arrives in the "email" field, with "username" accepted as an
// alias for OAuth2 password-flow clients.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB limit

	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "invalid form body: "+err.Error())
		return
	}

	email := r.PostFormValue("email")
	if email == "" {
		email = r.PostFormValue("username")
	}
	password := r.PostFormValue("password")

	if email == "" || password == "" {
		writeError(w, http.StatusBadRequest, "INVALID_INPUT", "email and password are required")
		return
	}

	user, err := h.service.Login(r.Context(), email, password)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	tokens, err := h.service.IssueTokens(user)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokens)
}

// Me handles GET /auth/me. The Authenticate middleware has already verified
// the access token and resolved the account.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := IdentityFromContext(r.Context())
	claims := ClaimsFromContext(r.Context())
	if user == nil || claims == nil {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "user not authenticated")
		return
	}

	writeJSON(w, http.StatusOK, MeResponse{
		Email:      user.Email,
		Name:       user.Name,
		LoggedInAt: claims.LoggedInAt,
	})
}

// Refresh handles POST /auth/refresh. The bearer credential must be a refresh
// token; a fresh pair is minted for its account. Previously issued tokens
// remain valid until they expire on their own.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or malformed authorization header")
		return
	}

	tokens, err := h.service.Refresh(r.Context(), token)
	if err != nil {
		writeAppError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tokens)
}
