package controllers

import (
	"errors"
	"net/http"

	"catalog-keeper/internal/logger"
	"catalog-keeper/internal/models"
	"catalog-keeper/services"

	"github.com/gin-gonic/gin"
)

type ComponentController struct {
	store *services.ComponentStore
}

/**
 * Create new Component controller instance
 * @param {*services.ComponentStore} store - Catalog store the handlers read and mutate
 * @returns {*ComponentController} New Component controller instance
 * @example
 * store, _ := services.LoadComponentStore("components_metadata.json")
 * controller := controllers.NewComponentController(store)
 */
func NewComponentController(store *services.ComponentStore) *ComponentController {
	return &ComponentController{
		store: store,
	}
}

/**
 * Register all component API routes to Gin engine
 * @param {*gin.Engine} r - Gin router instance
 * @description
 * - Registers routes for:
 *   - Component management (list/get/create/update/delete)
 */
func (c *ComponentController) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	api.GET("/components", c.ListComponents)
	api.GET("/components/:id", c.GetComponent)
	api.POST("/components/:id", c.CreateComponent)
	api.PUT("/components/:id", c.UpdateComponent)
	api.DELETE("/components/:id", c.DeleteComponent)
}

// @Summary 获取组件列表
// @Description 返回完整的组件目录（id -> 组件定义）
// @Tags Components
// @Produce json
// @Success 200 {object} models.Catalog
// @Router /api/v1/components [get]
func (c *ComponentController) ListComponents(g *gin.Context) {
	g.JSON(http.StatusOK, c.store.GetAll())
}

// @Summary 获取组件
// @Tags Components
// @Param id path string true "组件id"
// @Success 200 {object} models.Component
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/components/{id} [get]
func (c *ComponentController) GetComponent(g *gin.Context) {
	id := g.Param("id")
	comp, ok := c.store.Get(id)
	if !ok {
		g.JSON(http.StatusNotFound, models.ErrorResponse{
			Code:  "component.not_found",
			Error: "Component '" + id + "' not found.",
		})
		return
	}
	g.JSON(http.StatusOK, comp)
}

// @Summary 新增组件
// @Description 校验组件id、UI端口唯一性、UI字段、反向代理唯一性及名称后写入目录
// @Tags Components
// @Accept json
// @Produce json
// @Param id path string true "组件id"
// @Success 201 {object} models.Component
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/components/{id} [post]
func (c *ComponentController) CreateComponent(g *gin.Context) {
	id := g.Param("id")
	var comp models.Component
	if !bindComponent(g, &comp) {
		return
	}
	if err := c.store.Create(id, comp); err != nil {
		logger.Warnf("Error adding component '%s': %v", id, err)
		writeStoreError(g, err)
		return
	}
	created, _ := c.store.Get(id)
	g.JSON(http.StatusCreated, created)
}

// @Summary 更新组件
// @Description 整体替换已有组件定义
// @Tags Components
// @Accept json
// @Produce json
// @Param id path string true "组件id"
// @Success 200 {object} models.Component
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/v1/components/{id} [put]
func (c *ComponentController) UpdateComponent(g *gin.Context) {
	id := g.Param("id")
	var comp models.Component
	if !bindComponent(g, &comp) {
		return
	}
	if err := c.store.Update(id, comp); err != nil {
		logger.Warnf("Error updating component '%s': %v", id, err)
		writeStoreError(g, err)
		return
	}
	updated, _ := c.store.Get(id)
	g.JSON(http.StatusOK, updated)
}

// @Summary 删除组件
// @Tags Components
// @Param id path string true "组件id"
// @Success 200 {object} models.StatusResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/v1/components/{id} [delete]
func (c *ComponentController) DeleteComponent(g *gin.Context) {
	id := g.Param("id")
	if err := c.store.Delete(id); err != nil {
		logger.Warnf("Error deleting component '%s': %v", id, err)
		writeStoreError(g, err)
		return
	}
	g.JSON(http.StatusOK, models.StatusResponse{Status: "success"})
}

func bindComponent(g *gin.Context, comp *models.Component) bool {
	if err := g.ShouldBindJSON(comp); err != nil {
		g.JSON(http.StatusBadRequest, models.ErrorResponse{
			Code:  "request.invalid_body",
			Error: "Invalid component body: " + err.Error(),
		})
		return false
	}
	return true
}

// writeStoreError maps store errors to HTTP responses, passing the message through verbatim.
func writeStoreError(g *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.Is(err, services.ErrNotFound):
		g.JSON(http.StatusNotFound, models.ErrorResponse{Code: "component.not_found", Error: err.Error()})
	case errors.As(err, &verr):
		g.JSON(http.StatusBadRequest, models.ErrorResponse{Code: "component.invalid", Error: verr.Message})
	case services.IsPersistError(err):
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Code: "component.persist_failed", Error: err.Error()})
	default:
		g.JSON(http.StatusInternalServerError, models.ErrorResponse{Code: "component.internal_error", Error: err.Error()})
	}
}
