// Package backend holds the HTTP clients for the marketplace collaborators:
// catalog, identity, payment, recommendation, and admin ingestion. The
// storefront never owns server-side state; everything durable lives behind
// these clients.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"stockfront/internal/domain"
)

// Client is the shared transport for all collaborator clients.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *log.Logger
}

// NewClient parses the collaborator base URL and wraps the supplied
// http.Client (a default one is used when nil).
func NewClient(baseURL string, httpClient *http.Client, logger *log.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend base url %q: %w", baseURL, err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: u, http: httpClient, logger: logger}, nil
}

type apiError struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

func (e apiError) text() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Message
}

// do sends a JSON request and decodes a JSON response into out (when non-nil).
// Transport failures map to domain.ErrUnavailable, 401 to domain.ErrUnauthorized
// and 404 to domain.ErrNotFound so callers can branch with errors.Is.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, token string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, query, token, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.statusError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, token string, body io.Reader) (*http.Request, error) {
	rel := &url.URL{Path: path}
	if query != nil {
		rel.RawQuery = query.Encode()
	}
	u := c.baseURL.ResolveReference(rel)

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) statusError(resp *http.Response) error {
	var payload apiError
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(data, &payload)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusNotFound:
		return domain.ErrNotFound
	}
	msg := payload.text()
	if msg == "" {
		msg = resp.Status
	}
	return fmt.Errorf("backend responded %d: %s", resp.StatusCode, msg)
}

// IsRetryable reports whether the failure is worth surfacing as a retryable
// network condition rather than a rejection.
func IsRetryable(err error) bool {
	return errors.Is(err, domain.ErrUnavailable)
}
