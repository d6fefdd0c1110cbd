// Package pathstore talks to a pathstore key/value service and implements
// store.Store on top of it.
package pathstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// ErrNodeNotFound is returned by GetNode when the key does not exist.
var ErrNodeNotFound = errors.New("pathstore: node not found")

// RetryableError indicates a transient failure (429 or 5xx) that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable pathstore error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// Client communicates with the pathstore HTTP API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NodeRequest is the body for PUT /kv/{key}.
type NodeRequest struct {
	Value     any    `json:"value"`
	MergeMode string `json:"merge_mode,omitempty"`
	Source    string `json:"source,omitempty"`
}

// Node is a single stored value, as returned by GET /kv/{key} and prefix scans.
type Node struct {
	Key   string `json:"key_path"`
	Value any    `json:"value"`
}

// Decode re-marshals the node's generic JSON value into out.
func (n *Node) Decode(out any) error {
	raw, err := json.Marshal(n.Value)
	if err != nil {
		return fmt.Errorf("re-encode %s: %w", n.Key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", n.Key, err)
	}
	return nil
}

// do sends one request and returns the response for a status in ok. Any
// other status is turned into an error and the body is closed.
func (c *Client) do(ctx context.Context, method, path string, body any, ok ...int) (*http.Response, error) {
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		rdr = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	for _, code := range ok {
		if resp.StatusCode == code {
			return resp, nil
		}
	}
	defer resp.Body.Close()
	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNodeNotFound
	}
	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, &RetryableError{StatusCode: resp.StatusCode, Message: string(msg)}
	}
	return nil, fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, string(msg))
}

// PutNode stores or replaces the node at key.
func (c *Client) PutNode(ctx context.Context, key string, req NodeRequest) error {
	resp, err := c.do(ctx, http.MethodPut, "/kv/"+key, req, http.StatusOK, http.StatusCreated)
	if err != nil {
		return fmt.Errorf("put node %s: %w", key, err)
	}
	resp.Body.Close()
	return nil
}

// GetNode retrieves a node by key. Missing keys yield ErrNodeNotFound.
func (c *Client) GetNode(ctx context.Context, key string) (*Node, error) {
	resp, err := c.do(ctx, http.MethodGet, "/kv/"+key, nil, http.StatusOK)
	if err != nil {
		return nil, fmt.Errorf("get node %s: %w", key, err)
	}
	defer resp.Body.Close()

	var node Node
	if err := json.NewDecoder(resp.Body).Decode(&node); err != nil {
		return nil, fmt.Errorf("decode node %s: %w", key, err)
	}
	return &node, nil
}

// DeleteNode deletes a node and optionally its children.
func (c *Client) DeleteNode(ctx context.Context, key string, recursive bool) error {
	path := "/kv/" + key
	if recursive {
		path += "?children=true"
	}
	resp, err := c.do(ctx, http.MethodDelete, path, nil, http.StatusOK, http.StatusNoContent)
	if err != nil {
		return fmt.Errorf("delete node %s: %w", key, err)
	}
	resp.Body.Close()
	return nil
}

// ListChildren does a prefix scan under key.
func (c *Client) ListChildren(ctx context.Context, key string, limit int) ([]Node, error) {
	path := "/kv/" + key + "/*"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	resp, err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK)
	if errors.Is(err, ErrNodeNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list children %s: %w", key, err)
	}
	defer resp.Body.Close()

	var result struct {
		Nodes []Node `json:"nodes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode children %s: %w", key, err)
	}
	return result.Nodes, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
