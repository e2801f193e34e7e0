package notesdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// url builds a complete URL by appending the path to the base URL.
func (c *SDKClient) url(path string) string {
	return c.BaseURL + path
}

// doRequest performs an HTTP request with the SDKClient's HTTP client. A
// non-nil body is sent as JSON.
func (c *SDKClient) doRequest(
	ctx context.Context,
	method, path string,
	body any,
	headers map[string]string,
) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Set custom headers
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	return resp, nil
}

// doAuthRequest performs a request carrying the session's bearer token.
// Unsafe methods also carry the CSRF header; when the server rejects the
// CSRF token the client fetches a fresh one and retries once.
func (s *Session) doAuthRequest(
	ctx context.Context,
	method, path string,
	body any,
	target any,
	expectedStatus int,
) error {
	err := s.tryAuthRequest(ctx, method, path, body, target, expectedStatus)
	if !isUnsafe(method) || !IsErrorCode(err, ErrorCodeInvalidCSRF) {
		return err
	}

	s.client.forgetCSRF()
	return s.tryAuthRequest(ctx, method, path, body, target, expectedStatus)
}

func (s *Session) tryAuthRequest(
	ctx context.Context,
	method, path string,
	body any,
	target any,
	expectedStatus int,
) error {
	headers := map[string]string{
		"Authorization": "Bearer " + s.Token(),
	}
	if isUnsafe(method) {
		csrf, err := s.client.csrf(ctx)
		if err != nil {
			return fmt.Errorf("failed to obtain csrf token: %w", err)
		}
		headers[CSRFHeader] = csrf
	}

	resp, err := s.client.doRequest(ctx, method, path, body, headers)
	if err != nil {
		return err
	}
	return decodeJSON(resp, target, expectedStatus)
}

// decodeJSON decodes a JSON response into the target interface.
// Returns an *httpx.APIError if the status is not the expected one.
func decodeJSON(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	// Read body once for both error parsing and success decoding
	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, bodyBytes)
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(bodyBytes, target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func isUnsafe(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	}
	return true
}
