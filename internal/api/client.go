// Package api provides the HTTP gateway to the remote AgriNote API. Every
// call is normalized into a Response envelope: transport errors, timeouts
// and non-2xx statuses surface as Success=false, never as a returned error,
// so callers branch on the envelope instead of unwinding.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/enzomar/agrinote/internal/storage"
	"github.com/enzomar/agrinote/pkg/logger"
)

const authTokenKey = "auth_token"

// Response is the normalized result of one API call
type Response struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data,omitempty"`
	Error     string          `json:"error,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// Decode unmarshals the envelope's data into target. A decode failure turns
// the response into a failure in place and returns false.
func (r *Response) Decode(target interface{}) bool {
	if !r.Success {
		return false
	}
	if err := json.Unmarshal(r.Data, target); err != nil {
		r.Success = false
		r.Error = fmt.Sprintf("decode response: %v", err)
		return false
	}
	return true
}

// Client is the authenticated HTTP client for the remote farm API. It is
// safe for concurrent use; the token may be replaced while requests are in
// flight.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      storage.Storage

	mu        sync.RWMutex
	authToken string
}

// NewClient creates a client against baseURL. A previously persisted auth
// token is restored from store if present.
func NewClient(baseURL string, timeout time.Duration, store storage.Storage) *Client {
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		store:      store,
	}

	if token, err := store.Get(authTokenKey); err == nil {
		c.authToken = string(token)
	}

	return c
}

// SetAuthToken sets the bearer token and persists it for the next session
func (c *Client) SetAuthToken(token string) error {
	c.mu.Lock()
	c.authToken = token
	c.mu.Unlock()
	return c.store.Set(authTokenKey, []byte(token))
}

func (c *Client) token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.authToken
}

// Request executes one API call and returns the normalized envelope
func (c *Client) Request(ctx context.Context, method, endpoint string, body interface{}) *Response {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return failure(fmt.Sprintf("marshal request body: %v", err))
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, bodyReader)
	if err != nil {
		return failure(fmt.Sprintf("create request: %v", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.GetLogger().Debug("API request failed",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Error(err))
		return failure(err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure(fmt.Sprintf("read response body: %v", err))
	}

	if resp.StatusCode >= 400 {
		logger.GetLogger().Debug("API request returned error status",
			zap.String("method", method),
			zap.String("endpoint", endpoint),
			zap.Int("status", resp.StatusCode))
		return failure(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode)))
	}

	return &Response{
		Success:   true,
		Data:      respBody,
		Timestamp: time.Now(),
	}
}

// Get performs a GET request
func (c *Client) Get(ctx context.Context, endpoint string) *Response {
	return c.Request(ctx, http.MethodGet, endpoint, nil)
}

// Post performs a POST request with a JSON body
func (c *Client) Post(ctx context.Context, endpoint string, body interface{}) *Response {
	return c.Request(ctx, http.MethodPost, endpoint, body)
}

// Put performs a PUT request with a JSON body
func (c *Client) Put(ctx context.Context, endpoint string, body interface{}) *Response {
	return c.Request(ctx, http.MethodPut, endpoint, body)
}

// Delete performs a DELETE request
func (c *Client) Delete(ctx context.Context, endpoint string) *Response {
	return c.Request(ctx, http.MethodDelete, endpoint, nil)
}

func failure(message string) *Response {
	return &Response{
		Success:   false,
		Error:     message,
		Timestamp: time.Now(),
	}
}
