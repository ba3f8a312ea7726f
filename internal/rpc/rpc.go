package rpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"catalog-keeper/internal/config"
	"catalog-keeper/internal/models"
)

const defaultTimeout = 5 * time.Second

// HTTPClient 目录服务的HTTP访问接口
type HTTPClient interface {
	Get(path string, params map[string]interface{}) (*HTTPResponse, error)
	Post(path string, data interface{}) (*HTTPResponse, error)
	Put(path string, data interface{}) (*HTTPResponse, error)
	Delete(path string, params map[string]interface{}) (*HTTPResponse, error)
	Close() error
}

/**
 * Connection settings of the catalog server
 * @property {string} Address - Socket path for unix, host:port for tcp
 * @property {string} Network - unix or tcp
 * @property {time.Duration} Timeout - Per request timeout
 * @property {string} BaseURL - Scheme and host put in request URLs; the dialer ignores the host
 */
type HTTPConfig struct {
	Address string
	Network string
	Timeout time.Duration
	BaseURL string
}

// DefaultHTTPConfig targets the server of the loaded configuration.
func DefaultHTTPConfig() *HTTPConfig {
	return ConfigFor(&config.Config.Server)
}

/**
 * Choose how to reach a server
 * @param {*config.ServerConfig} server - Listen settings of the server
 * @returns {*HTTPConfig} Unix socket when its file exists, the tcp address otherwise
 */
func ConfigFor(server *config.ServerConfig) *HTTPConfig {
	if server.Socket != "" {
		if _, err := os.Stat(server.Socket); err == nil {
			return &HTTPConfig{
				Address: server.Socket,
				Network: "unix",
				Timeout: defaultTimeout,
				BaseURL: "http://localhost",
			}
		}
	}
	addr := server.Address
	if addr == "" {
		addr = "127.0.0.1:8999"
	}
	return &HTTPConfig{
		Address: addr,
		Network: "tcp",
		Timeout: defaultTimeout,
		BaseURL: "http://" + addr,
	}
}

// HTTPResponse 服务端响应，非2xx时Code/Error取自models.ErrorResponse
type HTTPResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	Code       string
	Error      string
}

func (r *HTTPResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the response body into v.
func (r *HTTPResponse) Decode(v interface{}) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// buildURL joins baseURL and the already escaped path p and encodes params as the query string.
// The path is not cleaned, so escaped separators and dot segments reach the server as sent.
func buildURL(baseURL, p string, params map[string]interface{}) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base URL: %w", err)
	}
	escaped := strings.TrimSuffix(u.EscapedPath(), "/") + "/" + strings.TrimPrefix(p, "/")
	unescaped, err := url.PathUnescape(escaped)
	if err != nil {
		return "", fmt.Errorf("invalid request path: %w", err)
	}
	u.Path, u.RawPath = unescaped, escaped

	if len(params) > 0 {
		q := u.Query()
		for key, value := range params {
			q.Set(key, fmt.Sprint(value))
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func encodeBody(data interface{}) (io.Reader, error) {
	if data == nil {
		return nil, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize data: %w", err)
	}
	return bytes.NewReader(raw), nil
}

// readResponse drains resp and extracts the error envelope of failed calls.
func readResponse(resp *http.Response) (*HTTPResponse, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	out := &HTTPResponse{StatusCode: resp.StatusCode, Headers: resp.Header, Body: body}
	if out.OK() {
		return out, nil
	}

	var envelope models.ErrorResponse
	switch {
	case len(body) == 0:
		out.Error = resp.Status
	case json.Unmarshal(body, &envelope) == nil && envelope.Error != "":
		out.Code, out.Error = envelope.Code, envelope.Error
	default:
		out.Error = string(body)
	}
	return out, nil
}
