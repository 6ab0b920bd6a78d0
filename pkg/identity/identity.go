// Package identity derives the gateway's notion of "who is logged in" from
// the stored credential. The backend token is a JWT; its claims are read
// without signature verification, since the token is only used locally to
// reconcile the stored email with what the backend issued.
package identity

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims holds the claims the gateway cares about.
type TokenClaims struct {
	Subject string
	Email   string
	Name    string
}

// ParseToken reads claims from a bearer token without verifying the
// signature. A "Bearer " prefix is tolerated.
func ParseToken(tokenString string) (*TokenClaims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token string is empty")
	}

	tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	tokenString = strings.TrimSpace(tokenString)

	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	token, _, err := parser.ParseUnverified(tokenString, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("failed to extract claims from token")
	}

	result := &TokenClaims{}
	if sub, ok := claims["sub"].(string); ok {
		result.Subject = sub
	}
	if email, ok := claims["email"].(string); ok {
		result.Email = email
	}
	if name, ok := claims["name"].(string); ok {
		result.Name = name
	}

	return result, nil
}

// EmailFromToken returns the email claim of a token, or "" when the token
// cannot be parsed or carries no email. Used to cross-check the stored
// email against the token that accompanies it.
func EmailFromToken(tokenString string) string {
	claims, err := ParseToken(tokenString)
	if err != nil {
		return ""
	}
	return claims.Email
}
