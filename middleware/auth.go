// middleware/auth.go

package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	logger "github.com/ascending-llc/mcp-gateway-registry-sub004/logging"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// IdentityClaims are the claims the gateway cares about. Scopes and groups
// are merged into one identity scope list: group names participate in the
// rule set's group indirection by name, so the resolver does not need to
// tell them apart.
type IdentityClaims struct {
	jwt.RegisteredClaims
	Scopes []string `json:"scopes"`
	Groups []string `json:"groups"`
	// Scope holds the space-delimited OAuth form some identity providers
	// emit instead of a list.
	Scope string `json:"scope"`
}

// IdentityScopes flattens the claim set into the resolver's input list.
func (c *IdentityClaims) IdentityScopes() []string {
	scopes := make([]string, 0, len(c.Scopes)+len(c.Groups))
	scopes = append(scopes, c.Scopes...)
	if c.Scope != "" {
		scopes = append(scopes, strings.Fields(c.Scope)...)
	}
	scopes = append(scopes, c.Groups...)
	return scopes
}

// ParseIdentityToken verifies an HS256 token and extracts identity claims.
func ParseIdentityToken(tokenString string, secret []byte) (*IdentityClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Auth authenticates requests with a bearer token and attaches the
// identity's scope list to the context for downstream access checks.
func Auth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims, err := ParseIdentityToken(tokenString, secret)
		if err != nil {
			logger.Warn("Rejected bearer token", zap.Error(err), zap.String("ip", c.ClientIP()))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		c.Set("userID", claims.Subject)
		c.Set("identityScopes", claims.IdentityScopes())

		c.Next()
	}
}
