package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"mondaymcp/server/internal/auth"
	"mondaymcp/server/internal/observability"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// AuthContextKey is the context key for auth context
	AuthContextKey ContextKey = "authContext"
	// RequestIDKey is the context key for request tracing ID
	RequestIDKey ContextKey = "requestID"
)

// AuthContext contains user authentication info for the request
type AuthContext struct {
	UserID   string
	AuthType string // "gateway" or "local"
}

// Authorizer handles authorization checks. When gatewayVerifier is nil the
// server runs in single-user mode and every request is attributed to the
// "local" user.
type Authorizer struct {
	gatewayVerifier *auth.GatewayVerifier
}

// NewAuthorizer creates a new authorizer.
func NewAuthorizer(gatewayVerifier *auth.GatewayVerifier) *Authorizer {
	return &Authorizer{gatewayVerifier: gatewayVerifier}
}

// Authorize is HTTP middleware that checks authorization
func (a *Authorizer) Authorize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authCtx, err := a.ValidateRequest(r)
		if err != nil {
			a.writeErrorResponse(w, err)
			return
		}

		// Generate or propagate request ID for tracing
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = generateRequestID()
		}

		ctx := context.WithValue(r.Context(), AuthContextKey, authCtx)
		ctx = context.WithValue(ctx, RequestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ValidateRequest validates the request and returns auth context
func (a *Authorizer) ValidateRequest(r *http.Request) (*AuthContext, error) {
	if a.gatewayVerifier == nil {
		return &AuthContext{UserID: "local", AuthType: "local"}, nil
	}

	token := r.Header.Get("X-Gateway-Token")
	if token == "" {
		observability.LogSecurityEvent("", "", "missing_gateway_token", map[string]any{
			"remote_addr": r.RemoteAddr,
		})
		return nil, &AuthError{
			Code:    "MISSING_GATEWAY_TOKEN",
			Message: "Missing gateway token",
			Status:  http.StatusUnauthorized,
		}
	}

	claims, err := a.gatewayVerifier.VerifyToken(token)
	if err != nil {
		observability.LogSecurityEvent("", "", "invalid_gateway_token", map[string]any{
			"remote_addr": r.RemoteAddr,
			"error":       err.Error(),
		})
		return nil, &AuthError{
			Code:    "INVALID_GATEWAY_TOKEN",
			Message: "Invalid gateway token",
			Status:  http.StatusUnauthorized,
		}
	}

	if claims.UserID == "" {
		return nil, &AuthError{
			Code:    "MISSING_USER_ID",
			Message: "Missing user identity in gateway token",
			Status:  http.StatusUnauthorized,
		}
	}

	return &AuthContext{UserID: claims.UserID, AuthType: "gateway"}, nil
}

// AuthError represents an authorization error
type AuthError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

func (e *AuthError) Error() string {
	return e.Message
}

// writeErrorResponse writes an authorization error response
func (a *Authorizer) writeErrorResponse(w http.ResponseWriter, err error) {
	authErr, ok := err.(*AuthError)
	if !ok {
		authErr = &AuthError{
			Code:    "AUTHORIZATION_ERROR",
			Message: err.Error(),
			Status:  http.StatusInternalServerError,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(authErr.Status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   authErr.Code,
		"message": authErr.Message,
	})
}

// GetAuthContext extracts auth context from request context
func GetAuthContext(ctx context.Context) *AuthContext {
	authCtx, _ := ctx.Value(AuthContextKey).(*AuthContext)
	return authCtx
}

// GetRequestID extracts request ID from context
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}

// generateRequestID creates a random 16-byte hex request ID
func generateRequestID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("fallback-%d", os.Getpid())
	}
	return hex.EncodeToString(b)
}
