// service/proxy_service.go
package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	gw_errors "github.com/ascending-llc/mcp-gateway-registry-sub004/errors"
)

// IProxyService forwards permitted tool invocations to the registry.
type IProxyService interface {
	InvokeTool(ctx context.Context, server, tool string, body []byte) (*ProxyResponse, error)
	Ping(ctx context.Context) error
}

// ProxyResponse carries the registry's reply back to the caller verbatim.
type ProxyResponse struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// ProxyService is a thin HTTP shim in front of the MCP registry. Access
// control happens before this layer; the proxy only forwards.
type ProxyService struct {
	baseURL    string
	httpClient *http.Client
}

func NewProxyService(baseURL string) *ProxyService {
	return &ProxyService{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// InvokeTool forwards the JSON-RPC payload to the registry's tool endpoint.
func (s *ProxyService) InvokeTool(ctx context.Context, server, tool string, body []byte) (*ProxyResponse, error) {
	endpoint := fmt.Sprintf("%s/servers/%s/tools/%s/invoke",
		s.baseURL, url.PathEscape(server), url.PathEscape(tool))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build registry request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", gw_errors.ErrRegistryUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry response: %w", err)
	}

	return &ProxyResponse{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        respBody,
	}, nil
}

// Ping probes the registry's health endpoint.
func (s *ProxyService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", gw_errors.ErrRegistryUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: registry health returned %d", gw_errors.ErrRegistryUnavailable, resp.StatusCode)
	}
	return nil
}
