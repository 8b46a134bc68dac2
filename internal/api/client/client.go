// Package client talks to a running dasdcalc API server.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	v1 "github.com/tphakala/dasdcalc/internal/api/v1"
	"github.com/tphakala/dasdcalc/internal/errors"
	"github.com/tphakala/dasdcalc/internal/history"
)

// DefaultTimeout bounds every request made by the client.
const DefaultTimeout = 10 * time.Second

// Client is a minimal API client for the history endpoints.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// New returns a client for the server at baseURL. A bare host:port is
// treated as http.
func New(baseURL string) (*Client, error) {
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.New(err).
			Component("api").
			Category(errors.CategoryValidation).
			Context("url", baseURL).
			Build()
	}
	return &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}, nil
}

// History fetches recorded calculations, newest first.
func (c *Client) History(ctx context.Context, limit int, kind history.Kind) (*v1.HistoryResponse, error) {
	query := url.Values{}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if kind != "" {
		query.Set("kind", string(kind))
	}

	var resp v1.HistoryResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/history", query, http.StatusOK, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ClearHistory removes all recorded calculations.
func (c *Client) ClearHistory(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/history", nil, http.StatusNoContent, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, wantStatus int, out any) error {
	u := c.baseURL.JoinPath(path)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, method, u.String(), http.NoBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.New(err).
			Component("api").
			Category(errors.CategoryHTTP).
			Context("url", u.String()).
			Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != wantStatus {
		var errResp v1.ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr == nil && errResp.Message != "" {
			return errors.Newf("%s (status %d, correlation id %s)", errResp.Message, resp.StatusCode, errResp.CorrelationID).
				Component("api").
				Category(errors.CategoryHTTP).
				Context("status", resp.StatusCode).
				Build()
		}
		return errors.Newf("unexpected status %d", resp.StatusCode).
			Component("api").
			Category(errors.CategoryHTTP).
			Context("status", resp.StatusCode).
			Build()
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}
