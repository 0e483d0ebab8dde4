package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jmylchreest/toastui/internal/store"
	"github.com/jmylchreest/toastui/internal/toast"
)

// APIError is a non-success response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Client calls the JSON API of a running server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for addr, given either as host:port or as a
// full base URL.
func NewClient(addr string) *Client {
	base := strings.TrimRight(addr, "/")
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// List returns every attached toast.
func (c *Client) List(ctx context.Context) ([]toast.Snapshot, error) {
	var out []toast.Snapshot
	if err := c.do(ctx, http.MethodGet, "/api/toasts", nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Show displays a toast.
func (c *Client) Show(ctx context.Context, req ShowRequest) (toast.Snapshot, error) {
	var out toast.Snapshot
	err := c.do(ctx, http.MethodPost, "/api/toasts", req, http.StatusCreated, &out)
	return out, err
}

// Remove starts removal of the toast with id.
func (c *Client) Remove(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/toasts/"+url.PathEscape(id), nil, http.StatusAccepted, nil)
}

// History returns removed toasts, most recent first. A limit of zero returns
// every record.
func (c *Client) History(ctx context.Context, limit int) ([]store.Record, error) {
	path := "/api/history"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out []store.Record
	if err := c.do(ctx, http.MethodGet, path, nil, http.StatusOK, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PruneHistory drops history records removed more than olderThan ago, or
// every record when olderThan is zero. It returns how many were dropped.
func (c *Client) PruneHistory(ctx context.Context, olderThan time.Duration) (int, error) {
	path := "/api/history"
	if olderThan > 0 {
		path += "?older_than=" + url.QueryEscape(olderThan.String())
	}
	var out pruneResponse
	if err := c.do(ctx, http.MethodDelete, path, nil, http.StatusOK, &out); err != nil {
		return 0, err
	}
	return out.Removed, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, want int, out any) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		var e errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
