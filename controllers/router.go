package controllers

import (
	"catalog-keeper/internal/config"
	"catalog-keeper/internal/middleware"
	"catalog-keeper/services"

	"github.com/gin-gonic/gin"
)

/**
 * Build the HTTP router serving the catalog
 * @param {*services.Server} server - Server wrapping the loaded store
 * @param {*config.AppConfig} cfg - Application configuration
 * @returns {*gin.Engine} Router with recovery, request-id and metrics middleware
 */
func NewRouter(server *services.Server, cfg *config.AppConfig) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router := gin.New()
	// 按原始路径路由, 使 %2F 留在 :id 参数内
	router.UseRawPath = true
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.MetricsMiddleware())

	NewComponentController(server.Store()).RegisterRoutes(router)
	NewAPIController(server, cfg.Metrics).RegisterRoutes(router)
	return router
}
