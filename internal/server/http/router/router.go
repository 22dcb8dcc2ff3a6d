package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/server/http/handlers"
	"github.com/caovinhphuc/mia-logistics-manager-sub000/internal/server/http/middleware"
)

// AlertStreamPath serves server-sent alerts and is never compressed.
const AlertStreamPath = "/api/alerts/stream"

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.Facade, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.Actor())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.DecompressRequest())
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{AlertStreamPath})))

	orderHandler := handlers.NewOrderHandler(facade)
	dashboardHandler := handlers.NewDashboardHandler(facade)
	alertHandler := handlers.NewAlertHandler(facade)

	api := engine.Group("/api")

	orders := api.Group("/orders")
	orders.GET("", orderHandler.List)
	orders.POST("/bulk", orderHandler.Bulk)
	orders.GET("/:id", orderHandler.Get)
	orders.PATCH("/:id", orderHandler.Patch)
	orders.POST("/:id/assign", orderHandler.Assign)
	orders.POST("/:id/complete", orderHandler.Complete)

	api.GET("/metrics", dashboardHandler.Metrics)
	api.GET("/view", dashboardHandler.View)
	api.PUT("/view", dashboardHandler.SetView)
	api.GET("/sync", dashboardHandler.Sync)
	api.POST("/sync", dashboardHandler.Reload)
	api.GET("/priorities", dashboardHandler.Priorities)

	api.GET("/alerts", alertHandler.List)
	api.GET("/alerts/stream", alertHandler.Stream)

	return engine
}
