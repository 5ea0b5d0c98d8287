package model

import "time"

type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterResponse struct {
	Detail          string `json:"detail"`
	ConfirmationURL string `json:"confirmation_url"`
}

// TokenRequest is the OAuth2 password form; Username carries the email.
type TokenRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	Confirmed    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UserResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Confirmed bool   `json:"confirmed"`
}

func NewUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Confirmed: u.Confirmed,
	}
}
