package handler

import (
	"encoding/json"
	"net/http"

	"wastenot-api/internal/middleware"
	"wastenot-api/internal/service"
	"wastenot-api/pkg/apierror"
	"wastenot-api/pkg/response"
)

// UserHandler handles user-profile HTTP requests.
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// GetProfile handles GET /user/profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	profile, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, profile)
}

// UpdateProfileRequest represents the request body for profile updates.
// Nil fields are left untouched.
type UpdateProfileRequest struct {
	Username *string `json:"username,omitempty"`
	FCMToken *string `json:"fcm_token,omitempty"`
}

// UpdateProfile handles PUT /user/profile
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if req.Username == nil && req.FCMToken == nil {
		response.Error(w, apierror.BadRequest("nothing to update"))
		return
	}

	if err := h.userService.UpdateProfile(r.Context(), userID, req.Username, req.FCMToken); err != nil {
		response.Error(w, err)
		return
	}

	profile, err := h.userService.GetProfile(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, profile)
}
