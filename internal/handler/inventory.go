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

// InventoryHandler handles shared-inventory HTTP requests.
type InventoryHandler struct {
	inventoryService *service.InventoryService
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
	}
}

// CreateInventoryRequest represents the request body for inventory creation.
type CreateInventoryRequest struct {
	Name string `json:"name"`
}

// CreateInventory handles POST /api/v1/inventories
func (h *InventoryHandler) CreateInventory(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req CreateInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	inventory, err := h.inventoryService.CreateInventory(r.Context(), userID, req.Name)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, inventory)
}

// ListInventories handles GET /api/v1/inventories
func (h *InventoryHandler) ListInventories(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	inventories, err := h.inventoryService.ListInventories(r.Context(), userID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"inventories": inventories,
	})
}

// RenameInventoryRequest represents the request body for renaming.
type RenameInventoryRequest struct {
	Name string `json:"name"`
}

// RenameInventory handles PUT /api/v1/inventories/{inventoryID}
func (h *InventoryHandler) RenameInventory(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	inventoryID := chi.URLParam(r, "inventoryID")

	var req RenameInventoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	if err := h.inventoryService.Rename(r.Context(), userID, inventoryID, req.Name); err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]string{"status": "renamed", "id": inventoryID})
}

// MemberResponse is one entry in the member listing.
type MemberResponse struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
}

// ListMembers handles GET /api/v1/inventories/{inventoryID}/members
func (h *InventoryHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	inventoryID := chi.URLParam(r, "inventoryID")

	members, err := h.inventoryService.ListMembers(r.Context(), userID, inventoryID)
	if err != nil {
		response.Error(w, err)
		return
	}

	names := h.inventoryService.ResolveDisplayNames(r.Context(), members)

	resp := make([]MemberResponse, 0, len(members))
	for _, uid := range members {
		resp = append(resp, MemberResponse{
			UserID:      uid,
			DisplayName: names[uid],
		})
	}

	response.OK(w, map[string]interface{}{
		"members": resp,
	})
}
