package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	http "github.com/bogdanfinn/fhttp"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	apierrors "github.com/ragchat/ragchat/internal/errors"
	"github.com/ragchat/ragchat/internal/models"
)

// response is a fully read backend reply
type response struct {
	StatusCode int
	Body       []byte
}

func (r *response) ok() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// do performs a single request against the backend. Transport failures come
// back as *errors.NetworkError; HTTP status handling is left to the caller.
func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string) (*response, error) {
	if c.IsClosed() {
		return nil, fmt.Errorf("client is closed")
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range models.DefaultHeaders(c.version) {
		req.Header.Set(key, value)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			"method", method, "path", path, "request_id", requestID, "error", err)
		return nil, apierrors.NewNetworkError(path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierrors.NewNetworkError(path, fmt.Errorf("failed to read response: %w", err))
	}

	c.logger.Debug("request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", requestID,
		"duration", time.Since(start),
		"bytes", len(data))

	return &response{StatusCode: resp.StatusCode, Body: data}, nil
}

// getJSON performs a GET and decodes a 2xx body into out
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return err
	}
	if !resp.ok() {
		return statusError(path, resp)
	}
	return decode(path, resp.Body, out)
}

// postJSON encodes payload, POSTs it and returns the raw reply
func (c *Client) postJSON(ctx context.Context, path string, payload interface{}) (*response, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(data), "application/json")
}

func decode(path string, body []byte, out interface{}) error {
	if err := json.Unmarshal(body, out); err != nil {
		return apierrors.NewParseError(err.Error(), path)
	}
	return nil
}

// errorField returns the "error" member of a JSON body, or ""
func errorField(body []byte) string {
	if !gjson.ValidBytes(body) {
		return ""
	}
	return gjson.GetBytes(body, "error").String()
}

// statusError converts a non-2xx reply into an *errors.APIError, preferring
// the backend's own error text over the status line.
func statusError(path string, resp *response) error {
	msg := errorField(resp.Body)
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return apierrors.NewAPIError(resp.StatusCode, path, msg).WithBody(truncate(string(resp.Body), 512))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
