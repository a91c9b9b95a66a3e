// Package client implements the HTTP clients the services use to reach one
// another through the gateway. Every call is bounded by the caller's context
// plus the configured client timeout; failures decode the shared error
// envelope back into domain errors.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/GabScalon/parkaccess/internal/domain"
	"github.com/GabScalon/parkaccess/internal/wire"
)

type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client rooted at baseURL (normally the gateway).
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %v", domain.ErrUpstream, path, err)
	}
	return resp, nil
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: POST %s: %v", domain.ErrUpstream, path, err)
	}
	return resp, nil
}

// errorFromResponse turns a non-2xx response into a domain error. Responses
// from this repository's services carry the wire envelope; anything else
// falls back to notFound for 404s and ErrUpstream otherwise.
func errorFromResponse(resp *http.Response, notFound error) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var envelope wire.ErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Code != "" {
		return wire.ErrorFor(envelope.Code)
	}
	if resp.StatusCode == http.StatusNotFound {
		return notFound
	}
	return fmt.Errorf("%w: unexpected status %d", domain.ErrUpstream, resp.StatusCode)
}
