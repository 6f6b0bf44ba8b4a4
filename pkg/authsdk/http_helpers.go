package authsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// url builds a complete URL by appending the path to the base URL.
func (c *Client) url(path string) string {
	return c.BaseURL + path
}

// doRequest performs an HTTP request with the Client's HTTP client.
func (c *Client) doRequest(
	ctx context.Context,
	method, path string,
	body io.Reader,
	headers map[string]string,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	return resp, nil
}

// decodeEnvelope reads a response, returning *APIError for anything other
// than expectedStatus and otherwise unwrapping the envelope's data into target.
func decodeEnvelope[T any](resp *http.Response, expectedStatus int) (Response[T], error) {
	defer resp.Body.Close()

	var env Response[T]

	// Read body once for both error parsing and success decoding
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return env, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		if apiErr := parseErrorResponse(resp, body); apiErr != nil {
			return env, apiErr
		}
		return env, NewAPIError(resp.StatusCode, "unexpected status")
	}

	if err := unmarshal(body, &env); err != nil {
		return env, fmt.Errorf("failed to decode response: %w", err)
	}

	return env, nil
}

func unmarshal(body []byte, v any) error {
	return json.Unmarshal(body, v)
}
