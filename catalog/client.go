// Package catalog is a client for The Dog API breed catalog and vote service.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/dogfinder/dogfinder/types"
	"github.com/dogfinder/dogfinder/utils"
)

const (
	DefaultBaseURL   = "https://api.thedogapi.com/v1"
	DefaultTimeout   = 10 * time.Second
	DefaultCacheSize = 256

	apiKeyHeader = "x-api-key"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breeds     *lru.Cache[int, types.Breed]
}

type Option func(*Client)

// WithBaseURL points the client at another catalog, e.g. a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithCacheSize sets how many breeds are kept for GetBreed lookups.
func WithCacheSize(size int) Option {
	return func(c *Client) {
		if size <= 0 {
			return
		}
		if cache, err := lru.New[int, types.Breed](size); err == nil {
			c.breeds = cache
		}
	}
}

func NewClient(apiKey string, opts ...Option) *Client {
	cache, _ := lru.New[int, types.Breed](DefaultCacheSize)

	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		breeds: cache,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the catalog root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) get(ctx context.Context, op, endpoint string, out interface{}) error {
	return c.do(ctx, op, http.MethodGet, endpoint, nil, out)
}

func (c *Client) post(ctx context.Context, op, endpoint string, data, out interface{}) error {
	return c.do(ctx, op, http.MethodPost, endpoint, data, out)
}

func (c *Client) do(ctx context.Context, op, method, endpoint string, data, out interface{}) error {
	url := fmt.Sprintf("%s/%s", c.baseURL, strings.TrimPrefix(endpoint, "/"))

	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to marshal data: %w", err)
		}
		body = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	utils.Verbose("catalog %s %s", method, url)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("error reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			Op:     op,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(respBody)),
		}
	}

	if out == nil {
		return nil
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("invalid JSON response: %w", err)
	}
	return nil
}
