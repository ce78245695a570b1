package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ascending-llc/mcp-gateway-registry-sub004/audit"
	"github.com/ascending-llc/mcp-gateway-registry-sub004/config"
	"github.com/ascending-llc/mcp-gateway-registry-sub004/controller"
	"github.com/ascending-llc/mcp-gateway-registry-sub004/db"
	logger "github.com/ascending-llc/mcp-gateway-registry-sub004/logging"
	"github.com/ascending-llc/mcp-gateway-registry-sub004/router"
	"github.com/ascending-llc/mcp-gateway-registry-sub004/scopes"
	"github.com/ascending-llc/mcp-gateway-registry-sub004/service"
	"github.com/ascending-llc/mcp-gateway-registry-sub004/util"
)

func main() {
	// Initialize configuration
	if err := config.InitConfig(); err != nil {
		log.Fatalf("Failed to initialize config: %v", err)
	}

	// Initialize logger
	logger.InitLogger(config.GetString("log.dir"))
	defer logger.Sync()

	// Initialize Redis. The distributed cache tier is optional: without it
	// every process simply loads the scopes file itself.
	var store scopes.Store
	rateLimitEnabled := false
	if err := db.InitRedis(); err != nil {
		logger.Warn("Redis unavailable, running with in-process cache only", zap.Error(err))
	} else {
		defer db.CloseRedis()
		store = scopes.NewRedisStore(db.RedisClient)
		rateLimitEnabled = true
	}

	// Initialize EventBus
	eventBus := util.NewEventBus()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eventBus.Start(ctx)

	// Audit sink is optional as well.
	var auditRepo audit.Repository
	if esURL := config.GetString("elasticsearch.url"); esURL != "" {
		repo, err := audit.NewElasticsearchRepository(esURL)
		if err != nil {
			logger.Warn("Audit sink unavailable, decisions will not be indexed", zap.Error(err))
		} else {
			auditRepo = repo
		}
	}
	auditService := audit.NewService(auditRepo)

	// Scope cache: file loader behind memory + Redis tiers.
	loader := scopes.FileLoader(config.GetString("scopes.path"))
	scopeCache := scopes.NewScopeCache(
		loader,
		store,
		config.GetString("scopes.cacheKey"),
		viper.GetDuration("scopes.cacheTTL"),
	)

	// Initialize services
	accessService := service.NewAccessService(scopeCache, auditService, eventBus)
	proxyService := service.NewProxyService(config.GetString("registry.url"))

	// Initialize controllers
	controllers := controller.NewControllers(accessService, proxyService)

	// Warm up: prime the scope cache and probe the registry concurrently.
	warmCtx, warmCancel := context.WithTimeout(ctx, 10*time.Second)
	g, gctx := errgroup.WithContext(warmCtx)
	g.Go(func() error { return accessService.WarmUp(gctx) })
	g.Go(func() error {
		if err := proxyService.Ping(gctx); err != nil {
			logger.Warn("Registry not reachable at startup", zap.Error(err))
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		logger.Warn("Warm-up incomplete", zap.Error(err))
	}
	warmCancel()

	// Set up Gin
	gin.SetMode(gin.ReleaseMode)
	engine := router.SetupRouter(controllers, router.Options{
		JWTSecret:         []byte(config.GetString("auth.jwtSecret")),
		RateLimitRequests: config.GetInt("ratelimit.requests"),
		RateLimitDuration: viper.GetDuration("ratelimit.window"),
		RateLimitEnabled:  rateLimitEnabled,
	})

	// Set up the server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", config.GetString("server.port")),
		Handler: engine,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("Starting server", zap.String("port", config.GetString("server.port")))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
