package domain

import "time"

// User represents a registered user in the system. Email is unique and
// case-sensitive as stored; PasswordHash holds the hex-encoded bcrypt digest
// and never appears in JSON output. Users are created at registration and
// never mutated afterwards.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// TokenPair holds an access and refresh token pair as returned to the client.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}
