// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package revalidate notifies the site frontend that content changed so it
// drops its cached responses.
package revalidate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Request is the webhook body. Empty collection and slug revalidate
// everything.
type Request struct {
	Secret     string `json:"secret"`
	Collection string `json:"collection,omitempty"`
	Slug       string `json:"slug,omitempty"`
}

// Client posts revalidation webhooks.
type Client struct {
	baseURL string
	secret  string
	http    *http.Client
}

// New creates a client for the frontend at baseURL.
func New(baseURL, secret string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		secret:  secret,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Enabled reports whether both URL and secret are configured.
func (c *Client) Enabled() bool {
	return c.baseURL != "" && c.secret != ""
}

// Trigger asks the frontend to revalidate a collection, a single slug, or
// everything. It is a no-op with a warning when not configured.
func (c *Client) Trigger(ctx context.Context, collection, slug string) error {
	if c.baseURL == "" {
		slog.Warn("REVALIDATE_URL not set, skipping revalidation")
		return nil
	}
	if c.secret == "" {
		slog.Warn("REVALIDATE_SECRET not set, skipping revalidation")
		return nil
	}

	body, err := json.Marshal(Request{Secret: c.secret, Collection: collection, Slug: slug})
	if err != nil {
		return fmt.Errorf("encode revalidation request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/revalidate", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create revalidation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("revalidation request: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("revalidation failed: %s", resp.Status)
	}

	target := collection
	if target == "" {
		target = "all"
	}
	slog.Info("revalidation triggered", "collection", target, "slug", slug)
	return nil
}
