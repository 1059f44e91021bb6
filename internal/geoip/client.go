// PL Dashboard API - Football Data Service and Visit Analytics
// Copyright 2026 The PL Dashboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pldashboard/api

package geoip

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// maxResponseBytes caps the lookup payload read from the service.
const maxResponseBytes = 64 << 10

// Lookuper fetches enrichment for one address from an external service.
type Lookuper interface {
	Lookup(ctx context.Context, ip string) (Record, error)
}

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("geo lookup returned status %d", e.StatusCode)
}

// ErrDecode wraps malformed lookup payloads.
var ErrDecode = errors.New("geo lookup: malformed response")

// Client calls GET {baseURL}/lookup?ip=<addr>.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a lookup client with a hard per-call timeout. A nil
// httpClient gets a dedicated one.
func NewClient(baseURL string, timeout time.Duration, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	hc := *httpClient
	hc.Timeout = timeout
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &hc,
	}
}

// Lookup queries the service and normalizes the response.
func (c *Client) Lookup(ctx context.Context, ip string) (Record, error) {
	endpoint := c.baseURL + "/lookup?" + url.Values{"ip": {ip}}.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return Record{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Record{}, fmt.Errorf("failed to query geo service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		return Record{}, &StatusError{StatusCode: resp.StatusCode}
	}

	var raw map[string]interface{}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&raw); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if raw == nil {
		return Record{}, fmt.Errorf("%w: null body", ErrDecode)
	}

	return normalize(raw), nil
}

// errorReason classifies a lookup error for the geo_lookup_errors_total
// metric.
func errorReason(err error) string {
	var statusErr *StatusError
	var netErr net.Error
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrCircuitOpen):
		return "circuit_open"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &netErr) && netErr.Timeout():
		return "timeout"
	case errors.As(err, &statusErr):
		return "status"
	case errors.Is(err, ErrDecode):
		return "decode"
	default:
		return "transport"
	}
}
