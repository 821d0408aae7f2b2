// Package credentials exposes the hosted-mode credential management
// endpoint. Gateway-authenticated users store or remove their monday.com
// API token here; the MCP endpoint itself never writes credentials.
package credentials

import (
	"encoding/json"
	"net/http"
	"strings"

	"mondaymcp/server/internal/middleware"
	"mondaymcp/server/internal/observability"
)

// Store writes credentials for a user.
type Store interface {
	Upsert(userID, token string) error
	Delete(userID string) error
}

// Invalidator drops a user's cached token after a credential change.
type Invalidator interface {
	Invalidate(userID string)
}

// Handler serves PUT and DELETE on the credentials endpoint.
type Handler struct {
	store Store
	cache Invalidator
}

// NewHandler creates a credential management handler.
func NewHandler(store Store, cache Invalidator) *Handler {
	return &Handler{store: store, cache: cache}
}

type putRequest struct {
	Token string `json:"token"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	authCtx, ok := r.Context().Value(middleware.AuthContextKey).(*middleware.AuthContext)
	if !ok || authCtx == nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
		return
	}
	requestID, _ := r.Context().Value(middleware.RequestIDKey).(string)

	switch r.Method {
	case http.MethodPut:
		h.put(w, r, authCtx.UserID, requestID)
	case http.MethodDelete:
		h.delete(w, r, authCtx.UserID, requestID)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	}
}

func (h *Handler) put(w http.ResponseWriter, r *http.Request, userID, requestID string) {
	var req putRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "token is required"})
		return
	}

	if err := h.store.Upsert(userID, req.Token); err != nil {
		observability.LogError("credential_store", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Failed to store credential"})
		return
	}
	h.cache.Invalidate(userID)
	observability.LogSecurityEvent(requestID, userID, "credential_stored", nil)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) delete(w http.ResponseWriter, _ *http.Request, userID, requestID string) {
	if err := h.store.Delete(userID); err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Credential not found"})
		return
	}
	h.cache.Invalidate(userID)
	observability.LogSecurityEvent(requestID, userID, "credential_deleted", nil)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
