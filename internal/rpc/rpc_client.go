package rpc

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"catalog-keeper/internal/logger"
)

// httpClient HTTP客户端实现
type httpClient struct {
	config    *HTTPConfig
	client    *http.Client
	transport *http.Transport
	connected bool
	mu        sync.Mutex
}

/**
 * Create new HTTP client for the catalog server
 * @param {HTTPConfig} config - HTTP client configuration, nil for DefaultHTTPConfig
 * @returns {HTTPClient} HTTP client interface
 * @description
 * - Dials the unix socket or tcp address from config for every request
 * - The connection is established lazily on the first request
 * @example
 * client := NewHTTPClient(nil)
 * defer client.Close()
 * resp, err := client.Get("/api/v1/components", nil)
 */
func NewHTTPClient(config *HTTPConfig) HTTPClient {
	if config == nil {
		config = DefaultHTTPConfig()
	}

	client := &httpClient{
		config:    config,
		transport: &http.Transport{},
	}
	client.client = &http.Client{
		Transport: client.transport,
		Timeout:   config.Timeout,
	}
	return client
}

// Get 发送GET请求
func (c *httpClient) Get(path string, params map[string]interface{}) (*HTTPResponse, error) {
	return c.do(http.MethodGet, path, params, nil)
}

// Post 发送POST请求
func (c *httpClient) Post(path string, data interface{}) (*HTTPResponse, error) {
	return c.do(http.MethodPost, path, nil, data)
}

// Put 发送PUT请求
func (c *httpClient) Put(path string, data interface{}) (*HTTPResponse, error) {
	return c.do(http.MethodPut, path, nil, data)
}

// Delete 发送DELETE请求
func (c *httpClient) Delete(path string, params map[string]interface{}) (*HTTPResponse, error) {
	return c.do(http.MethodDelete, path, params, nil)
}

/**
 * Send one request and decode the response envelope
 * @param {string} method - HTTP method
 * @param {string} path - API endpoint path
 * @param {map[string]interface{}} params - Query parameters
 * @param {interface{}} data - Request body, serialized as JSON when not nil
 * @returns {*HTTPResponse} Response with status, body and decoded error message
 * @returns {error} Transport level failure; API errors are reported in HTTPResponse.Error
 */
func (c *httpClient) do(method, path string, params map[string]interface{}, data interface{}) (*HTTPResponse, error) {
	if err := c.ensureConnected(); err != nil {
		return nil, err
	}

	url, err := buildURL(c.config.BaseURL, path, params)
	if err != nil {
		return nil, fmt.Errorf("failed to build URL: %w", err)
	}

	body, err := encodeBody(data)
	if err != nil {
		return nil, err
	}

	logger.Debugf("Sending %s request to %s", method, url)

	ctx, cancel := context.WithTimeout(context.Background(), c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	httpResp, err := readResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize response: %w", err)
	}
	return httpResp, nil
}

// Close 关闭客户端空闲连接
func (c *httpClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.client != nil {
		c.client.CloseIdleConnections()
	}
	c.connected = false
	return nil
}

// IsConnected 检查客户端是否已连接
func (c *httpClient) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

/**
 * Configure the transport to dial the configured server address
 * @returns {error} Error if the network type is unsupported
 */
func (c *httpClient) ensureConnected() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.connected {
		return nil
	}

	network, address := c.config.Network, c.config.Address
	switch network {
	case "unix", "tcp":
	default:
		return fmt.Errorf("unsupported network '%s'", network)
	}

	var dialer net.Dialer
	c.transport.DialContext = func(ctx context.Context, _, _ string) (net.Conn, error) {
		return dialer.DialContext(ctx, network, address)
	}
	c.connected = true

	logger.Debugf("Connected to catalog server at %s://%s", network, address)
	return nil
}
