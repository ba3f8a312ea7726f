package models

/**
 * Health report payload
 * @property {string} store - Path of the catalog document served
 * @property {CatalogSummary} catalog - Counters of the loaded catalog
 * @property {RequestSummary} requests - HTTP request totals since start
 */
type HealthResponse struct {
	Version   string         `json:"version" example:"1.0.0"`
	StartTime string         `json:"startTime" example:"2024-01-01T10:00:00Z"`
	Status    string         `json:"status" example:"UP"`
	Uptime    string         `json:"uptime" example:"1h30m45s"`
	Store     string         `json:"store" example:"components_metadata.json"`
	Catalog   CatalogSummary `json:"catalog"`
	Requests  RequestSummary `json:"requests"`
}

// CatalogSummary 组件目录统计
type CatalogSummary struct {
	Components   int    `json:"components" example:"12"`
	UIComponents int    `json:"uiComponents" example:"7"`
	ReverseProxy string `json:"reverseProxy,omitempty" example:"traefik"`
}

// RequestSummary 请求统计
type RequestSummary struct {
	Total  int64 `json:"total" example:"1000"`
	Errors int64 `json:"errors" example:"5"`
}
