package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the credential record: one registered identity plus its single
// live session. PasswordHash and RefreshTokenHash never leave the backend.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Name             string    `json:"name"`
	PasswordHash     string    `json:"-"`
	Role             string    `json:"role"`
	RefreshTokenHash *string   `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// AuthUser is the authenticated principal attached to a request context.
type AuthUser struct {
	ID   string
	Role string
}

// TokenPair is one issuance: both tokens name the same subject and instant.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type SignupRequest struct {
	Email    string `json:"email" binding:"required,email,min=5,max=255"`
	Password string `json:"password" binding:"required,min=6,max=100"`
	Name     string `json:"name" binding:"omitempty,min=2,max=50"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,min=5,max=255"`
	Password string `json:"password" binding:"required,min=6,max=100"`
}

// AuthData is the success payload for signup and login: safe user fields
// plus the access token string (the pair is also set as cookies).
type AuthData struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
