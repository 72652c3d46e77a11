package auth

import (
	"errors"
	"slices"

	jwt "github.com/golang-jwt/jwt/v5"
)

// TokenVerifier validates bearer tokens issued by an external identity
// provider. This service never signs tokens.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier builds a verifier for HS256 tokens signed with secret.
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// Claims describes the JWT payload the verifier understands.
type Claims struct {
	Capabilities []Capability `json:"capabilities"`
	jwt.RegisteredClaims
}

// Has reports whether the claims grant capability.
func (c *Claims) Has(capability Capability) bool {
	return slices.Contains(c.Capabilities, capability)
}

// ParseToken validates signature and expiry and returns claims.
func (v *TokenVerifier) ParseToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
