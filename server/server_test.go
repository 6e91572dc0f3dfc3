package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercemesh/commercemesh/classifier"
	"github.com/commercemesh/commercemesh/commerce"
	"github.com/commercemesh/commercemesh/conversation"
	"github.com/commercemesh/commercemesh/core"
	"github.com/commercemesh/commercemesh/orchestrator"
	"github.com/commercemesh/commercemesh/specialist"
)

func testServer(t *testing.T) (*Server, conversation.Store) {
	t.Helper()
	data := commerce.NewDemoDataset()
	deps := specialist.Deps{
		Customers: data.Customers,
		Orders:    data.Orders,
		Products:  data.Products,
		Returns:   commerce.NewReturns(data.Orders),
	}
	slice1 := core.BackendInfo{ID: "model1", Model: "m1", Slice: "Slice 1"}
	slice2 := core.BackendInfo{ID: "model2", Model: "m2", Slice: "Slice 2"}

	store := conversation.NewInMemoryStore()
	engine := orchestrator.New(
		classifier.NewKeyword(),
		slice1,
		specialist.NewScriptedOrderTracker(deps, slice2),
		specialist.NewScriptedReturns(deps, slice2),
		specialist.NewScriptedProductAdvisor(deps, slice1),
		store,
	)
	models := map[string]ModelDescriptor{
		"model1": {Name: "m1", Endpoint: "http://localhost:8081/v1", Slice: "Slice 1"},
		"model2": {Name: "m2", Endpoint: "http://localhost:8082/v1", Slice: "Slice 2"},
	}
	return New(engine, store, data.Customers, models, true), store
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	var decoded map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded))
	}
	return w, decoded
}

func TestHealth(t *testing.T) {
	s, _ := testServer(t)
	w, body := doJSON(t, s.Router(), http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, true, body["scripted"])
	models := body["models"].(map[string]any)
	assert.Contains(t, models, "model1")
	assert.Contains(t, models, "model2")
}

func TestChat(t *testing.T) {
	s, store := testServer(t)
	w, body := doJSON(t, s.Router(), http.MethodPost, "/chat", map[string]any{
		"message":         "Where is my order ORD-2026-1001?",
		"customer_id":     "C-1001",
		"conversation_id": "conv-1",
	})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "conv-1", body["conversation_id"])
	assert.Equal(t, "order_tracker", body["agent"])
	assert.Contains(t, body["response"], "ORD-2026-1001")
	assert.NotEmpty(t, body["events"])

	cl := body["classification"].(map[string]any)
	assert.Equal(t, "ORDER_STATUS", cl["category"])

	history, err := store.History(httptest.NewRequest("GET", "/", nil).Context(), "conv-1")
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestChatDefaults(t *testing.T) {
	s, _ := testServer(t)
	w, body := doJSON(t, s.Router(), http.MethodPost, "/chat", map[string]any{
		"message": "hello",
	})

	require.Equal(t, http.StatusOK, w.Code)
	// A fresh conversation id is generated when the client sends none.
	assert.NotEmpty(t, body["conversation_id"])
	assert.Equal(t, "router", body["agent"])
}

func TestChatBadBody(t *testing.T) {
	s, _ := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/chat", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCustomers(t *testing.T) {
	s, _ := testServer(t)
	w, body := doJSON(t, s.Router(), http.MethodGet, "/customers", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	customers := body["customers"].([]any)
	assert.Len(t, customers, 3)
}

func TestGetCustomer(t *testing.T) {
	s, _ := testServer(t)

	w, body := doJSON(t, s.Router(), http.MethodGet, "/customers/C-1001", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Maria Ionescu", body["name"])
	assert.Equal(t, true, body["is_premium"])

	w, _ = doJSON(t, s.Router(), http.MethodGet, "/customers/C-9999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScenarios(t *testing.T) {
	s, _ := testServer(t)
	w, body := doJSON(t, s.Router(), http.MethodGet, "/scenarios", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	scenarios := body["scenarios"].([]any)
	assert.NotEmpty(t, scenarios)
	first := scenarios[0].(map[string]any)
	assert.NotEmpty(t, first["message"])
	assert.NotEmpty(t, first["customer_id"])
}

func TestClearConversation(t *testing.T) {
	s, store := testServer(t)
	ctx := httptest.NewRequest("GET", "/", nil).Context()
	require.NoError(t, store.Append(ctx, "conv-1", core.UserMessage("hi")))

	w, body := doJSON(t, s.Router(), http.MethodDelete, "/conversations/conv-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cleared", body["status"])

	history, err := store.History(ctx, "conv-1")
	require.NoError(t, err)
	assert.Empty(t, history)

	// Clearing an unknown conversation is not an error.
	w, _ = doJSON(t, s.Router(), http.MethodDelete, "/conversations/ghost", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	s, _ := testServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
