package handler

import (
	"encoding/json"
	"net/http"

	"wastenot-api/internal/middleware"
	"wastenot-api/internal/service"
	"wastenot-api/pkg/apierror"
	"wastenot-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// InvitationHandler handles invitation HTTP requests.
type InvitationHandler struct {
	invitationService *service.InvitationService
}

// NewInvitationHandler creates a new invitation handler.
func NewInvitationHandler(invitationService *service.InvitationService) *InvitationHandler {
	return &InvitationHandler{
		invitationService: invitationService,
	}
}

// InviteRequest represents the request body for inviting a user by email.
type InviteRequest struct {
	Email       string `json:"email"`
	InventoryID string `json:"inventory_id"`
}

// Invite handles POST /api/v1/invitations and
// POST /api/v1/inventories/{inventoryID}/invitations. On the nested route the
// inventory comes from the path; the body's inventory_id is the fallback.
func (h *InvitationHandler) Invite(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if id := chi.URLParam(r, "inventoryID"); id != "" {
		req.InventoryID = id
	}

	if req.Email == "" {
		response.Error(w, apierror.BadRequest("email is required"))
		return
	}
	if req.InventoryID == "" {
		response.Error(w, apierror.BadRequest("inventory_id is required"))
		return
	}

	invitation, err := h.invitationService.InviteByEmail(r.Context(), userID, req.InventoryID, req.Email)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, invitation)
}

// ListPending handles GET /api/v1/invitations
func (h *InvitationHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	invitations, err := h.invitationService.FetchPendingInvitations(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"invitations": invitations,
	})
}

// Accept handles POST /api/v1/invitations/{id}/accept
func (h *InvitationHandler) Accept(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	invitationID := chi.URLParam(r, "id")
	if invitationID == "" {
		response.Error(w, apierror.BadRequest("invitation id is required"))
		return
	}

	if err := h.invitationService.Accept(r.Context(), invitationID, userID); err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]string{"status": "accepted", "id": invitationID})
}

// Decline handles POST /api/v1/invitations/{id}/decline
func (h *InvitationHandler) Decline(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	invitationID := chi.URLParam(r, "id")
	if invitationID == "" {
		response.Error(w, apierror.BadRequest("invitation id is required"))
		return
	}

	if err := h.invitationService.Decline(r.Context(), invitationID, userID); err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]string{"status": "declined", "id": invitationID})
}
