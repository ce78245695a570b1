// util/http_util.go
package util

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	logger "github.com/ascending-llc/mcp-gateway-registry-sub004/logging"
)

func RespondWithError(c *gin.Context, code int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method))
	c.JSON(code, gin.H{"error": message})
}

// GetIdentityScopes returns the scope list the auth middleware attached to
// the request context. Missing means an unauthenticated route; callers
// fail closed on the empty list.
func GetIdentityScopes(c *gin.Context) []string {
	val, exists := c.Get("identityScopes")
	if !exists {
		return nil
	}
	scopes, ok := val.([]string)
	if !ok {
		return nil
	}
	return scopes
}

// GetUserIDFromContext returns the authenticated subject, if any.
func GetUserIDFromContext(c *gin.Context) string {
	userID, exists := c.Get("userID")
	if !exists {
		return ""
	}
	id, _ := userID.(string)
	return id
}
