// controller/controllers.go
package controller

import (
	"github.com/ascending-llc/mcp-gateway-registry-sub004/service"
)

type Controllers struct {
	Access *AccessController
	Tools  *ToolsController
}

func NewControllers(accessService service.IAccessService, proxyService service.IProxyService) *Controllers {
	return &Controllers{
		Access: NewAccessController(accessService),
		Tools:  NewToolsController(accessService, proxyService),
	}
}
