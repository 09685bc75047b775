package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims represents the claims in a JWT token. The subject carries the
// user id; UserID duplicates it for clients that read the payload.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}
