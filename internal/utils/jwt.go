package utils

import (
	"time" // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// JWT Claims; the registered ID claim carries the session id
type Claims struct {
	PrincipalID          uint `json:"principal_id"` // Custom claim for principal ID
	jwt.RegisteredClaims      // Standard JWT claims
}

// GenerateJWT creates a signed token binding a session to a principal
func GenerateJWT(principalID uint, sessionID string, issuedAt time.Time, ttl time.Duration, secret string) (string, error) {
	// Set token claims
	claims := Claims{
		PrincipalID: principalID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,                             // Session id (jti)
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)), // Session expiry
			IssuedAt:  jwt.NewNumericDate(issuedAt),          // Issued at login time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	return token.SignedString([]byte(secret))                  // Sign the token with the secret
}

// ParseJWT parses and validates a JWT token string
func ParseJWT(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	// Check for parsing errors
	if err != nil {
		return nil, err // Return error if parsing fails
	}
	// Validate token and extract claims
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil // Return claims if valid
	}
	// Return error if token is invalid
	return nil, jwt.ErrSignatureInvalid
}
