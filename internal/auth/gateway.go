package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GatewayClaims represents the claims in a gateway JWT.
type GatewayClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id,omitempty"`
}

// GatewayVerifier verifies HS256 gateway JWTs minted by the edge gateway
// with a shared secret.
type GatewayVerifier struct {
	secret []byte
}

// NewGatewayVerifier creates a verifier for the given shared secret.
func NewGatewayVerifier(secret string) *GatewayVerifier {
	return &GatewayVerifier{secret: []byte(secret)}
}

// VerifyToken verifies a gateway JWT and returns the claims.
func (v *GatewayVerifier) VerifyToken(tokenString string) (*GatewayClaims, error) {
	claims := &GatewayClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithLeeway(5*time.Second))
	if err != nil {
		return nil, fmt.Errorf("token verification failed: %w", err)
	}

	return claims, nil
}
