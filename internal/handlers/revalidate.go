// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"menscircle/internal/revalidate"
)

// RevalidationLogger records handled webhook calls.
type RevalidationLogger interface {
	Log(collection, slug string, keysRemoved int, remoteAddr string)
}

// Revalidate receives the CMS content-change webhook and drops the cached
// responses of the changed collection.
type Revalidate struct {
	secret string
	cache  ResponseCache
	log    RevalidationLogger
}

// revalidateResponse acknowledges a webhook call.
type revalidateResponse struct {
	Revalidated bool   `json:"revalidated"`
	Collection  string `json:"collection,omitempty"`
	Slug        string `json:"slug,omitempty"`
	KeysRemoved int    `json:"keysRemoved"`
	Message     string `json:"message"`
}

// NewRevalidate creates the webhook handler. rc and log may be nil.
func NewRevalidate(secret string, rc ResponseCache, log RevalidationLogger) *Revalidate {
	if rc == nil {
		rc = noCache{}
	}
	return &Revalidate{secret: secret, cache: rc, log: log}
}

// ServeHTTP handles POST /api/revalidate.
func (h *Revalidate) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req revalidate.Request
	if !decodeJSON(w, r, &req) {
		return
	}

	if h.secret == "" {
		writeError(w, http.StatusInternalServerError, "REVALIDATE_SECRET not configured")
		return
	}
	if subtle.ConstantTimeCompare([]byte(req.Secret), []byte(h.secret)) != 1 {
		slog.Warn("revalidation rejected", "remote", r.RemoteAddr)
		writeError(w, http.StatusUnauthorized, "Invalid secret")
		return
	}

	removed := h.cache.Invalidate(r.Context(), req.Collection, req.Slug)
	target := req.Collection
	if target == "" {
		target = "all"
	}
	slog.Info("revalidation triggered", "collection", target, "slug", req.Slug, "keys_removed", removed)
	if h.log != nil {
		h.log.Log(req.Collection, req.Slug, removed, r.RemoteAddr)
	}

	writeJSON(w, http.StatusOK, revalidateResponse{
		Revalidated: true,
		Collection:  req.Collection,
		Slug:        req.Slug,
		KeysRemoved: removed,
		Message:     "Revalidation acknowledged. Cached responses will be rebuilt on the next request.",
	})
}
