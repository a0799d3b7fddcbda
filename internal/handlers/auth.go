package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"buyers-backend/internal/store"
	"buyers-backend/pkg/api"
)

// AuthHandler handles sign-in against Supabase auth.
type AuthHandler struct {
	client *store.Client
	logger *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(client *store.Client, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{client: client, logger: logger}
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.client.SignIn(req.Email, req.Password)
	if err != nil {
		h.logger.Warn("sign in failed", zap.String("email", req.Email), zap.Error(err))
		api.Error(w, http.StatusUnauthorized, "Sign in failed")
		return
	}

	api.Success(w, http.StatusOK, api.LoginResponse{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		Email:        req.Email,
	})
}
