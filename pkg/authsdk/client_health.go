package authsdk

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// GetLiveness reports whether the service process is up.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.probe(ctx, "/livez")
}

// GetReadiness reports whether the service can reach its credential store.
// A degraded service still yields its report alongside an *APIError with
// status 503, so callers can inspect Checks.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.probe(ctx, "/readyz")
}

func (c *Client) probe(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusServiceUnavailable:
	default:
		return nil, NewAPIError(resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var report HealthResponse
	if err := unmarshal(body, &report); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &report, NewAPIError(resp.StatusCode, report.Status)
	}
	return &report, nil
}
