package handler

import (
	"encoding/json"
	"net/http"

	"wastenot-api/internal/middleware"
	"wastenot-api/internal/model"
	"wastenot-api/internal/service"
	"wastenot-api/pkg/apierror"
	"wastenot-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// ItemHandler handles item-related HTTP requests.
//
// The flat /inventory routes pick the inventory from the X-Inventory-ID
// header; when it is absent the caller's current selection is resolved
// server-side (first membership, or an auto-created default on writes).
type ItemHandler struct {
	itemService *service.ItemService
}

// NewItemHandler creates a new item handler.
func NewItemHandler(itemService *service.ItemService) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
	}
}

// selectedInventory returns the inventory the request targets. An empty
// string means "no explicit selection".
func selectedInventory(r *http.Request) string {
	if id := chi.URLParam(r, "inventoryID"); id != "" {
		return id
	}
	return r.Header.Get("X-Inventory-ID")
}

// CreateItem handles POST /inventory and POST /api/v1/inventories/{inventoryID}/items
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var item model.InventoryItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	created, err := h.itemService.AddItem(r.Context(), userID, selectedInventory(r), &item)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, created)
}

// ListItems handles GET /inventory and GET /api/v1/inventories/{inventoryID}/items
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	items, err := h.itemService.ListItems(r.Context(), userID, selectedInventory(r))
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]interface{}{
		"items": items,
	})
}

// GetItem handles GET /inventory/{id} and GET /api/v1/inventories/{inventoryID}/items/{id}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		response.Error(w, apierror.BadRequest("item id is required"))
		return
	}

	item, err := h.itemService.GetItem(r.Context(), userID, selectedInventory(r), itemID)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, item)
}

// UpdateItem handles PUT /inventory/{id} and PUT /api/v1/inventories/{inventoryID}/items/{id}
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		response.Error(w, apierror.BadRequest("item id is required"))
		return
	}

	var patch model.ItemPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}
	defer r.Body.Close()

	updated, err := h.itemService.UpdateItem(r.Context(), userID, selectedInventory(r), itemID, &patch)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, updated)
}

// DeleteItem handles DELETE /inventory/{id} and DELETE /api/v1/inventories/{inventoryID}/items/{id}
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	itemID := chi.URLParam(r, "id")
	if itemID == "" {
		response.Error(w, apierror.BadRequest("item id is required"))
		return
	}

	if err := h.itemService.DeleteItem(r.Context(), userID, selectedInventory(r), itemID); err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, map[string]string{"status": "deleted", "id": itemID})
}
