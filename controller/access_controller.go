// controller/access_controller.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	gw_errors "github.com/ascending-llc/mcp-gateway-registry-sub004/errors"
	"github.com/ascending-llc/mcp-gateway-registry-sub004/service"
	"github.com/ascending-llc/mcp-gateway-registry-sub004/util"
)

type AccessController struct {
	accessService service.IAccessService
}

func NewAccessController(accessService service.IAccessService) *AccessController {
	return &AccessController{
		accessService: accessService,
	}
}

// RegisterRoutes registers the API routes
func (ac *AccessController) RegisterRoutes(r *gin.RouterGroup) {
	access := r.Group("/access")
	{
		access.GET("/evaluate", ac.Evaluate)
		access.POST("/reload", ac.Reload)
		access.GET("/cache", ac.CacheSource)
		access.DELETE("/cache", ac.ClearCache)
		access.GET("/scopes", ac.VisibleScopes)
	}
}

// Evaluate endpoint: may the calling identity invoke (server, tool)?
func (ac *AccessController) Evaluate(c *gin.Context) {
	server := c.Query("server")
	tool := c.Query("tool")
	if server == "" || tool == "" {
		util.RespondWithError(c, http.StatusBadRequest, "server and tool are required", gw_errors.ErrInvalidAccessQuery)
		return
	}

	identityScopes := util.GetIdentityScopes(c)
	userID := util.GetUserIDFromContext(c)

	decision, err := ac.accessService.CheckAccess(c, userID, server, tool, identityScopes)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to evaluate access", err)
		return
	}

	c.JSON(http.StatusOK, decision)
}

// Reload endpoint invalidates both cache tiers; the next check reloads
// the scopes file.
func (ac *AccessController) Reload(c *gin.Context) {
	ac.accessService.Reload(c)
	c.JSON(http.StatusOK, gin.H{"message": "Scope configuration reload triggered"})
}

// CacheSource endpoint reports which cache tier would answer next.
func (ac *AccessController) CacheSource(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"source": ac.accessService.CacheSource(c)})
}

// ClearCache endpoint drops the in-process copy only; the distributed
// tier keeps serving other processes.
func (ac *AccessController) ClearCache(c *gin.Context) {
	ac.accessService.ClearMemory()
	c.Status(http.StatusNoContent)
}

// VisibleScopes endpoint lists the scope names the caller resolves to.
func (ac *AccessController) VisibleScopes(c *gin.Context) {
	identityScopes := util.GetIdentityScopes(c)

	visible, err := ac.accessService.VisibleScopes(c, identityScopes)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to resolve scopes", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"scopes": visible})
}
