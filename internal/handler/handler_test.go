package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wastenot-api/internal/handler"
	"wastenot-api/internal/middleware"
	"wastenot-api/internal/model"
	"wastenot-api/internal/repository"
	"wastenot-api/internal/router"
	"wastenot-api/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router http.Handler
	store  *repository.MemoryStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := repository.NewMemoryStore()

	inventoryService := service.NewInventoryService(store, store, nil)
	invitationService := service.NewInvitationService(store, store, store)
	itemService := service.NewItemService(store, store, nil, true)
	userService := service.NewUserService(store)

	r := router.New(router.Config{
		Handler:           handler.New(),
		ItemHandler:       handler.NewItemHandler(itemService),
		InventoryHandler:  handler.NewInventoryHandler(inventoryService),
		InvitationHandler: handler.NewInvitationHandler(invitationService),
		UserHandler:       handler.NewUserHandler(userService),
		AdminHandler:      handler.NewAdminHandler(store, "memory"),
		AuthMiddleware:    middleware.NewAuthMiddleware(middleware.AuthConfig{}),
	})

	return &testServer{router: r, store: store}
}

// do sends a request as the given user and decodes the response envelope.
func (ts *testServer) do(t *testing.T, method, path, userID string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if len(rec.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec.Code, decoded
}

func payload(t *testing.T, resp map[string]interface{}) map[string]interface{} {
	t.Helper()
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok, "expected data object, got %v", resp)
	return data
}

func TestItemEndpoints_RequireIdentity(t *testing.T) {
	ts := newTestServer(t)

	status, resp := ts.do(t, http.MethodGet, "/inventory", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, false, resp["success"])
}

func TestItemFlow_FlatRoutes(t *testing.T) {
	ts := newTestServer(t)

	// First write auto-creates a personal inventory.
	status, resp := ts.do(t, http.MethodPost, "/inventory", "alice", map[string]interface{}{
		"item_name": "Milk",
		"quantity":  2,
		"barcode":   "123456",
	})
	require.Equal(t, http.StatusCreated, status)
	created := payload(t, resp)
	itemID, _ := created["id"].(string)
	require.NotEmpty(t, itemID)
	assert.Equal(t, "alice", created["created_by"])

	status, resp = ts.do(t, http.MethodGet, "/inventory", "alice", nil)
	require.Equal(t, http.StatusOK, status)
	items, ok := payload(t, resp)["items"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)

	status, resp = ts.do(t, http.MethodGet, "/inventory/"+itemID, "alice", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Milk", payload(t, resp)["item_name"])

	status, resp = ts.do(t, http.MethodPut, "/inventory/"+itemID, "alice", map[string]interface{}{
		"quantity": 0,
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, float64(0), payload(t, resp)["quantity"])

	status, _ = ts.do(t, http.MethodDelete, "/inventory/"+itemID, "alice", nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = ts.do(t, http.MethodGet, "/inventory/"+itemID, "alice", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestItemList_ReadWithNoInventoryIsNoSelection(t *testing.T) {
	ts := newTestServer(t)

	status, resp := ts.do(t, http.MethodGet, "/inventory", "alice", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	errObj, ok := resp["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "NO_SELECTION", errObj["code"])
}

func TestInvitationFlow_EndToEnd(t *testing.T) {
	ts := newTestServer(t)
	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()

	seedProfile := func(id, username, email string) {
		require.NoError(t, ts.store.CreateUser(ctx, &model.UserProfile{
			ID: id, Username: username, Email: email, CreatedAt: time.Now().UTC(),
		}))
	}
	seedProfile("alice", "Alice", "alice@example.com")
	seedProfile("bob", "Bob", "bob@example.com")

	// Alice creates a shared inventory.
	status, resp := ts.do(t, http.MethodPost, "/api/v1/inventories", "alice", map[string]interface{}{
		"name": "Kitchen",
	})
	require.Equal(t, http.StatusCreated, status)
	inventoryID, _ := payload(t, resp)["id"].(string)
	require.NotEmpty(t, inventoryID)

	// Alice invites Bob by email.
	status, resp = ts.do(t, http.MethodPost, "/api/v1/invitations", "alice", map[string]interface{}{
		"email":        "bob@example.com",
		"inventory_id": inventoryID,
	})
	require.Equal(t, http.StatusCreated, status)
	invitationID, _ := payload(t, resp)["id"].(string)
	require.NotEmpty(t, invitationID)

	// A duplicate invite conflicts.
	status, _ = ts.do(t, http.MethodPost, "/api/v1/invitations", "alice", map[string]interface{}{
		"email":        "bob@example.com",
		"inventory_id": inventoryID,
	})
	assert.Equal(t, http.StatusConflict, status)

	// Bob sees it pending and accepts.
	status, resp = ts.do(t, http.MethodGet, "/api/v1/invitations", "bob", nil)
	require.Equal(t, http.StatusOK, status)
	pending, ok := payload(t, resp)["invitations"].([]interface{})
	require.True(t, ok)
	require.Len(t, pending, 1)

	status, _ = ts.do(t, http.MethodPost, "/api/v1/invitations/"+invitationID+"/accept", "bob", nil)
	require.Equal(t, http.StatusOK, status)

	// Membership now shows both users with resolved display names.
	status, resp = ts.do(t, http.MethodGet, "/api/v1/inventories/"+inventoryID+"/members", "bob", nil)
	require.Equal(t, http.StatusOK, status)
	members, ok := payload(t, resp)["members"].([]interface{})
	require.True(t, ok)
	require.Len(t, members, 2)

	names := make(map[string]string)
	for _, m := range members {
		entry := m.(map[string]interface{})
		names[entry["user_id"].(string)] = entry["display_name"].(string)
	}
	assert.Equal(t, "Alice", names["alice"])
	assert.Equal(t, "Bob", names["bob"])

	// Bob can now write items into the shared inventory via the header.
	req := httptest.NewRequest(http.MethodPost, "/inventory",
		bytes.NewReader([]byte(`{"item_name":"Eggs","quantity":12}`)))
	req.Header.Set("X-User-ID", "bob")
	req.Header.Set("X-Inventory-ID", inventoryID)
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestInvitationDecline_KeepsOutsiderOut(t *testing.T) {
	ts := newTestServer(t)
	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()

	require.NoError(t, ts.store.CreateUser(ctx, &model.UserProfile{
		ID: "bob", Username: "Bob", Email: "bob@example.com", CreatedAt: time.Now().UTC(),
	}))

	status, resp := ts.do(t, http.MethodPost, "/api/v1/inventories", "alice", map[string]interface{}{
		"name": "Kitchen",
	})
	require.Equal(t, http.StatusCreated, status)
	inventoryID, _ := payload(t, resp)["id"].(string)

	status, resp = ts.do(t, http.MethodPost, "/api/v1/invitations", "alice", map[string]interface{}{
		"email":        "bob@example.com",
		"inventory_id": inventoryID,
	})
	require.Equal(t, http.StatusCreated, status)
	invitationID, _ := payload(t, resp)["id"].(string)

	status, _ = ts.do(t, http.MethodPost, "/api/v1/invitations/"+invitationID+"/decline", "bob", nil)
	require.Equal(t, http.StatusOK, status)

	// Bob never became a member, so the inventory stays invisible to him.
	status, _ = ts.do(t, http.MethodGet, "/api/v1/inventories/"+inventoryID+"/members", "bob", nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestUserProfileEndpoints(t *testing.T) {
	ts := newTestServer(t)
	ctx := httptest.NewRequest(http.MethodGet, "/", nil).Context()

	require.NoError(t, ts.store.CreateUser(ctx, &model.UserProfile{
		ID: "alice", Username: "Alice", Email: "alice@example.com", CreatedAt: time.Now().UTC(),
	}))

	status, resp := ts.do(t, http.MethodGet, "/user/profile", "alice", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Alice", payload(t, resp)["username"])

	status, resp = ts.do(t, http.MethodPut, "/user/profile", "alice", map[string]interface{}{
		"username": "Alicia",
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Alicia", payload(t, resp)["username"])

	// Empty patch is rejected.
	status, _ = ts.do(t, http.MethodPut, "/user/profile", "alice", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, status)

	// Unknown identity claims get a 404, not a crash.
	status, _ = ts.do(t, http.MethodGet, "/user/profile", "ghost", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestHealthAndStatusArePublic(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/api/v1/health", "/api/v1/ready", "/api/status"} {
		status, resp := ts.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, status, path)
		assert.Equal(t, true, resp["success"], path)
	}
}

func TestAdminStats(t *testing.T) {
	ts := newTestServer(t)

	status, resp := ts.do(t, http.MethodGet, "/api/v1/admin/stats", "admin", nil)
	require.Equal(t, http.StatusOK, status)
	data := payload(t, resp)
	assert.Equal(t, "memory", data["store_type"])

	store, ok := data["store"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "connected", store["status"])
}
