package handler

import (
	"encoding/json"
	"net/http"

	"wastenot-api/internal/model"
	"wastenot-api/internal/service"
	"wastenot-api/pkg/apierror"
	"wastenot-api/pkg/response"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	tokenService *service.TokenService
	userService  *service.UserService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(tokenService *service.TokenService, userService *service.UserService) *AuthHandler {
	return &AuthHandler{
		tokenService: tokenService,
		userService:  userService,
	}
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if req.Username == "" {
		response.Error(w, apierror.BadRequest("username is required"))
		return
	}
	if req.Email == "" {
		response.Error(w, apierror.BadRequest("email is required"))
		return
	}

	profile, err := h.userService.Register(r.Context(), req.Username, req.Email)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, profile)
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email string `json:"email"`
}

// TokenResponse represents the response for token generation.
type TokenResponse struct {
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	ExpiresIn int    `json:"expires_in"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if req.Email == "" {
		response.Error(w, apierror.BadRequest("email is required"))
		return
	}

	profile, err := h.userService.GetProfileByEmail(r.Context(), req.Email)
	if err != nil {
		response.Error(w, err)
		return
	}

	token, err := h.tokenService.GenerateToken(r.Context(), model.TokenData{
		UserID: profile.ID,
		Email:  profile.Email,
	})
	if err != nil {
		response.Error(w, apierror.InternalError("failed to generate token"))
		return
	}

	response.OK(w, TokenResponse{
		Token:     token,
		UserID:    profile.ID,
		ExpiresIn: int(service.TokenTTL.Seconds()),
	})
}

// RevokeToken handles POST /api/v1/auth/revoke
func (h *AuthHandler) RevokeToken(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Token")
	if token == "" {
		response.Error(w, apierror.BadRequest("X-Token header required"))
		return
	}

	if err := h.tokenService.RevokeToken(r.Context(), token); err != nil {
		response.Error(w, apierror.InternalError("failed to revoke token"))
		return
	}

	response.OK(w, map[string]string{"status": "revoked"})
}
