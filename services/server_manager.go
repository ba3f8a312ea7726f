package services

import (
	"time"

	"catalog-keeper/internal/env"
	"catalog-keeper/internal/models"
)

type Server struct {
	store     *ComponentStore
	startTime time.Time
}

/**
 * Create new server instance around a loaded store
 * @param {*ComponentStore} store - Catalog store served by this process
 * @returns {Server} Returns new server instance
 */
func NewServer(store *ComponentStore) *Server {
	return &Server{
		store:     store,
		startTime: time.Now(),
	}
}

// Store returns the catalog store served by this process.
func (s *Server) Store() *ComponentStore {
	return s.store
}

/**
 * Verify the whole catalog
 * @returns {models.CheckResponse} Every rule violation found in the loaded catalog
 * @description
 * - Runs ComponentStore.Verify and converts the result to the API shape
 * - Valid is true only when no violation is found
 */
func (s *Server) Check() models.CheckResponse {
	return BuildCheckResponse(s.store)
}

// BuildCheckResponse verifies store and converts the result to the API shape.
func BuildCheckResponse(store *ComponentStore) models.CheckResponse {
	violations := store.Verify()
	response := models.CheckResponse{
		Timestamp:  time.Now().Format(time.RFC3339),
		Path:       store.Path(),
		Components: store.Stats().Components,
		Valid:      len(violations) == 0,
		Violations: make([]models.Violation, 0, len(violations)),
	}
	for _, v := range violations {
		response.Violations = append(response.Violations, models.Violation{
			ID:      v.ID,
			Rule:    v.Rule,
			Field:   v.Field,
			Message: v.Message,
		})
	}
	return response
}

/**
* Get health check response with service status and metrics
* @returns {models.HealthResponse} Returns health check response
* @description
* - Calculates server uptime from start time
* - Collects catalog counters from the store
* - Includes request totals recorded by the metrics middleware
 */
func (s *Server) GetHealthz() models.HealthResponse {
	uptime := time.Since(s.startTime)
	stats := s.store.Stats()

	return models.HealthResponse{
		Version:   env.Version,
		StartTime: s.startTime.Format(time.RFC3339),
		Status:    "UP",
		Uptime:    uptime.Truncate(time.Second).String(),
		Store:     s.store.Path(),
		Catalog: models.CatalogSummary{
			Components:   stats.Components,
			UIComponents: stats.UIComponents,
			ReverseProxy: stats.ReverseProxy,
		},
		Requests: models.RequestSummary{
			Total:  GetTotalRequestCount(),
			Errors: GetTotalErrorCount(),
		},
	}
}
