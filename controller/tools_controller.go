// controller/tools_controller.go
package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	gw_errors "github.com/ascending-llc/mcp-gateway-registry-sub004/errors"
	"github.com/ascending-llc/mcp-gateway-registry-sub004/service"
	"github.com/ascending-llc/mcp-gateway-registry-sub004/util"
)

type ToolsController struct {
	accessService service.IAccessService
	proxyService  service.IProxyService
}

func NewToolsController(accessService service.IAccessService, proxyService service.IProxyService) *ToolsController {
	return &ToolsController{
		accessService: accessService,
		proxyService:  proxyService,
	}
}

// RegisterRoutes registers the API routes
func (tc *ToolsController) RegisterRoutes(r *gin.RouterGroup) {
	servers := r.Group("/servers")
	{
		servers.POST("/:server/tools/:tool/invoke", tc.InvokeTool)
	}
}

// InvokeTool endpoint: checks tool access for the caller, then forwards
// the payload to the registry. Deny means 403, never an upstream call.
func (tc *ToolsController) InvokeTool(c *gin.Context) {
	server := c.Param("server")
	tool := c.Param("tool")

	identityScopes := util.GetIdentityScopes(c)
	userID := util.GetUserIDFromContext(c)

	decision, err := tc.accessService.CheckAccess(c, userID, server, tool, identityScopes)
	if err != nil {
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to evaluate access", err)
		return
	}
	if !decision.Allowed {
		util.RespondWithError(c, http.StatusForbidden, "Access to tool denied", gw_errors.ErrForbidden)
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		util.RespondWithError(c, http.StatusBadRequest, "Failed to read request body", err)
		return
	}

	resp, err := tc.proxyService.InvokeTool(c, server, tool, body)
	if err != nil {
		if errors.Is(err, gw_errors.ErrRegistryUnavailable) {
			util.RespondWithError(c, http.StatusBadGateway, "Registry unavailable", err)
		} else {
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to invoke tool", err)
		}
		return
	}

	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	c.Data(resp.StatusCode, contentType, resp.Body)
}
