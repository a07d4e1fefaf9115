// Package dto defines request and response shapes for the HTTP API.
package dto

import "github.com/linkstash/linkstash/internal/model"

// RegisterRequest is the payload for POST /api/v1/auth/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse carries a session token and the authenticated user.
type AuthResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}
