package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"catalog-keeper/internal/config"
	"catalog-keeper/internal/middleware"
	"catalog-keeper/internal/models"
	"catalog-keeper/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const nginxBody = `{
	"name": "Nginx",
	"has_ui": true,
	"ui_port": 80,
	"protocol": "http",
	"icon": "hl-nginx",
	"dashy_tile_section": "Network",
	"dashy_tile_url_suffix": ""
}`

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// newTestRouter 基于临时目录中的空目录创建路由
func newTestRouter(t *testing.T) (*gin.Engine, *services.ComponentStore) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "components_metadata.json")
	_, err := services.EnsureDocument(path)
	require.NoError(t, err)
	store, err := services.LoadComponentStore(path)
	require.NoError(t, err)

	cfg := &config.AppConfig{
		Server:  config.ServerConfig{Mode: gin.TestMode},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
	return NewRouter(services.NewServer(store), cfg), store
}

func doRequest(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) models.ErrorResponse {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestComponentCRUD(t *testing.T) {
	r, store := newTestRouter(t)

	w := doRequest(r, http.MethodPost, "/api/v1/components/nginx", nginxBody)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created models.Component
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "Nginx", created.Name)
	assert.Equal(t, 80, created.UI.PortValue())

	w = doRequest(r, http.MethodGet, "/api/v1/components/nginx", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{
		"name": "Nginx", "description": "", "default_selected": false, "has_ui": true,
		"is_reverse_proxy": false, "ui_port": 80, "protocol": "http", "icon": "hl-nginx",
		"dashy_tile_section": "Network", "dashy_tile_url_suffix": "", "status_check": false
	}`, w.Body.String())

	w = doRequest(r, http.MethodPut, "/api/v1/components/nginx", `{"name": "Nginx", "description": "no ui"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	got, ok := store.Get("nginx")
	require.True(t, ok)
	assert.False(t, got.HasUI())
	assert.Equal(t, "no ui", got.Description)

	w = doRequest(r, http.MethodGet, "/api/v1/components", "")
	require.Equal(t, http.StatusOK, w.Code)
	var catalog models.Catalog
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &catalog))
	assert.Len(t, catalog, 1)

	w = doRequest(r, http.MethodDelete, "/api/v1/components/nginx", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status": "success"}`, w.Body.String())
	assert.Empty(t, store.GetAll())
}

func TestComponentErrors(t *testing.T) {
	r, _ := newTestRouter(t)
	require.Equal(t, http.StatusCreated, doRequest(r, http.MethodPost, "/api/v1/components/nginx", nginxBody).Code)

	cases := []struct {
		name    string
		method  string
		path    string
		body    string
		status  int
		code    string
		message string
	}{
		{"unknown get", http.MethodGet, "/api/v1/components/ghost", "", http.StatusNotFound,
			"component.not_found", "Component 'ghost' not found."},
		{"unknown update", http.MethodPut, "/api/v1/components/ghost", `{"name": "G"}`, http.StatusNotFound,
			"component.not_found", "Component ID 'ghost' does not exist."},
		{"unknown delete", http.MethodDelete, "/api/v1/components/ghost", "", http.StatusNotFound,
			"component.not_found", "Component ID 'ghost' not found for deletion."},
		{"duplicate", http.MethodPost, "/api/v1/components/nginx", nginxBody, http.StatusBadRequest,
			"component.invalid", "Component ID 'nginx' already exists."},
		{"bad id", http.MethodPost, "/api/v1/components/Caddy", `{"name": "Caddy"}`, http.StatusBadRequest,
			"component.invalid", "Component ID can only contain lowercase letters, numbers, and hyphens."},
		{"port conflict", http.MethodPost, "/api/v1/components/caddy", strings.Replace(nginxBody, "Nginx", "Caddy", 1),
			http.StatusBadRequest, "component.invalid",
			"UI port 80 is already in use by component 'nginx'. Ports must be unique."},
		{"mistyped port", http.MethodPost, "/api/v1/components/caddy",
			strings.Replace(strings.Replace(nginxBody, "Nginx", "Caddy", 1), `"ui_port": 80`, `"ui_port": "81"`, 1),
			http.StatusBadRequest, "component.invalid", "UI Port must be an integer between 1 and 65535."},
		{"missing name", http.MethodPost, "/api/v1/components/caddy", `{"description": "x"}`, http.StatusBadRequest,
			"component.invalid", "Component name is required."},
		{"malformed body", http.MethodPost, "/api/v1/components/caddy", `{"name": `, http.StatusBadRequest,
			"request.invalid_body", ""},
		{"body not object", http.MethodPost, "/api/v1/components/caddy", `[1]`, http.StatusBadRequest,
			"request.invalid_body", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(r, tc.method, tc.path, tc.body)
			require.Equal(t, tc.status, w.Code, w.Body.String())
			resp := decodeError(t, w)
			assert.Equal(t, tc.code, resp.Code)
			if tc.message != "" {
				assert.Equal(t, tc.message, resp.Error)
			}
		})
	}
}

func TestEscapedSlashStaysInID(t *testing.T) {
	r, store := newTestRouter(t)
	require.NoError(t, store.Create("nginx", models.Component{Name: "Nginx"}))

	w := doRequest(r, http.MethodDelete, "/api/v1/components/ghost%2F..%2Fnginx", "")
	require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	assert.Equal(t, "Component ID 'ghost/../nginx' not found for deletion.", decodeError(t, w).Error)

	w = doRequest(r, http.MethodPost, "/api/v1/components/a%2Fb", `{"name": "AB"}`)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, "component.invalid", decodeError(t, w).Code)

	_, ok := store.Get("nginx")
	assert.True(t, ok)
}

func TestCheckEndpoint(t *testing.T) {
	r, store := newTestRouter(t)
	require.NoError(t, store.Create("nginx", models.Component{Name: "Nginx"}))

	w := doRequest(r, http.MethodGet, "/api/v1/check", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.CheckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.Equal(t, 1, resp.Components)
	assert.Empty(t, resp.Violations)
	assert.Equal(t, store.Path(), resp.Path)
}

func TestHealthzAndMetrics(t *testing.T) {
	r, store := newTestRouter(t)
	proxy := models.Component{Name: "Traefik", IsReverseProxy: true}
	require.NoError(t, store.Create("traefik", proxy))

	w := doRequest(r, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, w.Code)
	var health models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "UP", health.Status)
	assert.Equal(t, 1, health.Catalog.Components)
	assert.Equal(t, "traefik", health.Catalog.ReverseProxy)

	w = doRequest(r, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "catalog_http_requests_total")
	assert.Contains(t, w.Body.String(), "catalog_store_components")
}

func TestRequestIDHeader(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/api/v1/components", "")
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/components", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-42", w.Header().Get(middleware.RequestIDHeader))
}
