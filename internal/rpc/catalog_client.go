package rpc

import (
	"fmt"
	"net/url"

	"catalog-keeper/internal/models"
)

// APIError is an error answered by the catalog server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// CatalogClient calls the catalog REST API.
type CatalogClient struct {
	http HTTPClient
}

func NewCatalogClient(client HTTPClient) *CatalogClient {
	return &CatalogClient{http: client}
}

// componentPath escapes id as a single path segment.
func componentPath(id string) string {
	return "/api/v1/components/" + url.PathEscape(id)
}

func check(resp *HTTPResponse, err error) (*HTTPResponse, error) {
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, &APIError{StatusCode: resp.StatusCode, Code: resp.Code, Message: resp.Error}
	}
	return resp, nil
}

// ListComponents returns the whole catalog.
func (c *CatalogClient) ListComponents() (models.Catalog, error) {
	resp, err := check(c.http.Get("/api/v1/components", nil))
	if err != nil {
		return nil, err
	}
	catalog := models.Catalog{}
	if err := resp.Decode(&catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

// GetComponent returns one component; an unknown id yields an *APIError with code component.not_found.
func (c *CatalogClient) GetComponent(id string) (models.Component, error) {
	var comp models.Component
	resp, err := check(c.http.Get(componentPath(id), nil))
	if err != nil {
		return comp, err
	}
	err = resp.Decode(&comp)
	return comp, err
}

func (c *CatalogClient) CreateComponent(id string, comp models.Component) error {
	_, err := check(c.http.Post(componentPath(id), comp))
	return err
}

func (c *CatalogClient) UpdateComponent(id string, comp models.Component) error {
	_, err := check(c.http.Put(componentPath(id), comp))
	return err
}

func (c *CatalogClient) DeleteComponent(id string) error {
	_, err := check(c.http.Delete(componentPath(id), nil))
	return err
}

// Check runs a full verification on the server.
func (c *CatalogClient) Check() (models.CheckResponse, error) {
	var result models.CheckResponse
	resp, err := check(c.http.Get("/api/v1/check", nil))
	if err != nil {
		return result, err
	}
	if err := resp.Decode(&result); err != nil {
		return result, fmt.Errorf("check: %w", err)
	}
	return result, nil
}

// Health returns the server health report.
func (c *CatalogClient) Health() (models.HealthResponse, error) {
	var result models.HealthResponse
	resp, err := check(c.http.Get("/healthz", nil))
	if err != nil {
		return result, err
	}
	err = resp.Decode(&result)
	return result, err
}

// Reload asks the server to re-read its configuration file.
func (c *CatalogClient) Reload() error {
	_, err := check(c.http.Post("/api/v1/reload", nil))
	return err
}

// Close releases idle connections.
func (c *CatalogClient) Close() error {
	return c.http.Close()
}
