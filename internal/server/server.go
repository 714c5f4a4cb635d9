package server

import (
	"time"

	"github.com/anmicius0/rule-bulk-actions/internal/config"
	"github.com/anmicius0/rule-bulk-actions/internal/service"
	"github.com/anmicius0/rule-bulk-actions/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// NewRouter builds the Gin router with the configured API handlers.
func NewRouter(cfg *config.Config, store *config.ActionStore, manager *service.BulkActionManager) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	handler := newHandler(cfg, store, manager)
	router.GET(HealthEndpoint, handler.health)
	router.GET(MetricsEndpoint, gin.WrapH(promhttp.Handler()))
	router.POST(BulkActionPath, authMiddleware(cfg.APIToken), handler.performBulkAction)
	router.GET(BulkActionPath+"/:id", authMiddleware(cfg.APIToken), handler.getBulkAction)
	return router
}

// requestLogger logs every request through the shared zap logger.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		utils.Logger.Info("HTTP request",
			zap.String(utils.FieldMethod, c.Request.Method),
			zap.String(utils.FieldPath, c.Request.URL.Path),
			zap.Int(utils.FieldStatusCode, c.Writer.Status()),
			zap.Duration("duration", time.Since(start)))
	}
}
