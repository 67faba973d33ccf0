package token

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// RoleType set operator role
type RoleType string

const (
	// RoleAdmin pod administrator, may manage follow relationships
	RoleAdmin RoleType = "admin"
	// RoleService internal collaborator service
	RoleService RoleType = "service"
	// RoleGuest unauthenticated caller
	RoleGuest RoleType = "guest"
)

// Claims structure for custom claims in JWT
type Claims struct {
	AccountID string `json:"account_id"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// JWTSecret Secret Key for JWT validation.
// token 由上游的認證服務簽發，這裡只負責驗證。
var JWTSecret = []byte("secure_secret_key")

// ParseJWT parses a JWT and extracts the Claims
func ParseJWT(tokenStr string) (*Claims, error) {
	// Parse the token and extract the claims
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Check if the signing method is HMAC
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return JWTSecret, nil
	})

	if err != nil {
		// Handle other parsing errors (e.g. invalid signature, claims invalid, etc.)
		return nil, err
	}

	// Extract claims from the token
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
