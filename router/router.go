// router/router.go

package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ascending-llc/mcp-gateway-registry-sub004/controller"
	"github.com/ascending-llc/mcp-gateway-registry-sub004/db"
	"github.com/ascending-llc/mcp-gateway-registry-sub004/middleware"
)

// Options controls the middleware stack around the API routes.
type Options struct {
	JWTSecret         []byte
	RateLimitRequests int
	RateLimitDuration time.Duration
	RateLimitEnabled  bool
}

func SetupRouter(controllers *controller.Controllers, opts Options) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	if opts.RateLimitEnabled {
		router.Use(middleware.RateLimiter(opts.RateLimitRequests, opts.RateLimitDuration))
	}

	router.GET("/healthz", healthz())

	api := router.Group("/api/v1")
	api.Use(middleware.Auth(opts.JWTSecret))

	controllers.Access.RegisterRoutes(api)
	controllers.Tools.RegisterRoutes(api)

	return router
}

func healthz() gin.HandlerFunc {
	return func(c *gin.Context) {
		redisUp := db.Ping(c) == nil
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"redis":  redisUp,
		})
	}
}
