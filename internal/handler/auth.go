package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/linkstash/linkstash/internal/auth"
	"github.com/linkstash/linkstash/internal/handler/dto"
	"github.com/linkstash/linkstash/internal/service"
)

// AuthHandler handles registration, login, and account deletion.
type AuthHandler struct {
	users       *service.UserService
	logger      *slog.Logger
	jwtSecret   []byte
	jwtLifetime time.Duration
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(users *service.UserService, logger *slog.Logger, jwtSecret []byte, jwtLifetime time.Duration) *AuthHandler {
	return &AuthHandler{
		users:       users,
		logger:      logger,
		jwtSecret:   jwtSecret,
		jwtLifetime: jwtLifetime,
	}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	user, err := h.users.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	token, err := auth.GenerateToken(user.ID, h.jwtSecret, h.jwtLifetime)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("user_registered", "user_id", user.ID)

	writeJSON(w, http.StatusCreated, dto.AuthResponse{Token: token, User: user})
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	user, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	token, err := auth.GenerateToken(user.ID, h.jwtSecret, h.jwtLifetime)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AuthResponse{Token: token, User: user})
}

// Me handles GET /api/v1/users/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	user, err := h.users.Get(r.Context(), userID)
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// DeleteAccount handles DELETE /api/v1/users/me.
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return
	}

	if err := h.users.Delete(r.Context(), userID); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("user_deleted", "user_id", userID)

	w.WriteHeader(http.StatusNoContent)
}
