package controllers

import (
	"net/http"

	"catalog-keeper/internal/config"
	"catalog-keeper/internal/logger"
	"catalog-keeper/internal/models"
	"catalog-keeper/services"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type APIController struct {
	server  *services.Server
	metrics config.MetricsConfig
}

/**
 * Create new API controller instance
 * @param {*services.Server} server - Server exposing health and check data
 * @param {config.MetricsConfig} metrics - Whether and where to expose prometheus metrics
 * @returns {*APIController} New API controller instance
 */
func NewAPIController(server *services.Server, metrics config.MetricsConfig) *APIController {
	return &APIController{
		server:  server,
		metrics: metrics,
	}
}

/**
 * Register all API routes to Gin engine
 * @param {*gin.Engine} r - Gin router instance
 * @description
 * - Registers routes for:
 *   - Configuration reload
 *   - Catalog verification
 *   - Health report
 *   - Prometheus metrics (when enabled)
 */
func (a *APIController) RegisterRoutes(r *gin.Engine) {
	r.POST("/api/v1/reload", a.ReloadConfig)
	r.GET("/api/v1/check", a.Check)
	r.GET("/healthz", a.Healthz)
	if a.metrics.Enabled && a.metrics.Path != "" {
		r.GET(a.metrics.Path, gin.WrapH(promhttp.Handler()))
	}
}

// @Summary 重新加载配置
// @Description 重新加载应用配置文件，并应用新的日志级别
// @Tags Config
// @Success 200 {object} models.StatusResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/reload [post]
func (a *APIController) ReloadConfig(c *gin.Context) {
	if err := config.ReloadConfig(); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Code:  "config.reload_failed",
			Error: "Failed to reload configuration: " + err.Error(),
		})
		return
	}
	logger.SetLevel(config.Config.Log.Level)

	c.JSON(http.StatusOK, models.StatusResponse{
		Status:  "success",
		Message: "Configuration reloaded successfully",
	})
}

// @Summary 校验组件目录
// @Description 对整个目录重新执行所有校验规则，返回全部违规项
// @Tags System
// @Produce json
// @Success 200 {object} models.CheckResponse
// @Router /api/v1/check [get]
func (a *APIController) Check(c *gin.Context) {
	c.JSON(http.StatusOK, a.server.Check())
}

// @Summary 业务就绪探针
// @Description 返回服务版本、启动时间、健康状态和关键指标统计结果
// @Tags System
// @Produce json
// @Success 200 {object} models.HealthResponse
// @Router /healthz [get]
func (a *APIController) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, a.server.GetHealthz())
}
