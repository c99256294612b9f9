// Package quotes proxies a motivational quote provider, shielded by a
// circuit breaker and an optional Redis cache.
package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const apiNinjasURL = "https://api.api-ninjas.com/v1/quotes"

// Quote is a single quote returned by the provider.
type Quote struct {
	Quote    string `json:"quote"`
	Author   string `json:"author"`
	Category string `json:"category,omitempty"`
}

// Client fetches quotes from the API Ninjas quotes endpoint.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a provider client with the given API key.
func NewClient(apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    apiNinjasURL,
		apiKey:     apiKey,
	}
}

// WithBaseURL overrides the provider URL, for tests.
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = url
	return c
}

// Fetch retrieves one random quote from the provider.
func (c *Client) Fetch(ctx context.Context) (*Quote, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build quote request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("quote provider returned %d: %s", resp.StatusCode, string(body))
	}

	var quotes []Quote
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return nil, fmt.Errorf("failed to decode quote response: %w", err)
	}
	if len(quotes) == 0 {
		return nil, fmt.Errorf("quote provider returned an empty result")
	}
	return &quotes[0], nil
}
