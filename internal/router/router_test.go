// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint.
package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"menscircle/internal/handlers"
	"menscircle/internal/mail"
	"menscircle/internal/memstore"
	"menscircle/internal/middleware"
	"menscircle/internal/service"
)

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("content-type: got %q, want %q", ct, "application/json")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

// newTestRouter wires the full route table to an in-memory store.
func newTestRouter(t *testing.T, limit int) chi.Router {
	t.Helper()
	s := memstore.New()
	m := mail.LogMailer{}
	composer := mail.NewComposer("https://mens-circle.de", "https://cms.mens-circle.de")
	newsletters := service.NewNewsletters(s.Participants(), s.Subscriptions(), s.Newsletters(), m, composer)

	hash, err := bcrypt.GenerateFromPassword([]byte("admin-token"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash token: %v", err)
	}
	limiter := middleware.NewRateLimiter(limit, time.Minute)
	t.Cleanup(limiter.Stop)

	return New(Deps{
		Forms: handlers.NewForms(
			service.NewRegistrations(s.Events(), s.Participants(), s.Registrations(), m, composer, ""),
			newsletters,
			service.NewTestimonials(s.Testimonials()),
			nil,
		),
		Content:        handlers.NewContent(s.Events(), s.Registrations(), s.Pages(), s.Testimonials(), s.Settings(), nil),
		Revalidate:     handlers.NewRevalidate("geheim", nil, nil),
		Admin:          handlers.NewAdmin(newsletters),
		FormLimiter:    limiter,
		AdminTokenHash: string(hash),
		AllowedOrigins: []string{"https://mens-circle.de"},
	})
}

func TestRoutes(t *testing.T) {
	r := newTestRouter(t, 100)

	want := []string{
		"GET /health",
		"GET /api/events",
		"GET /api/events/{slug}",
		"GET /api/pages/{slug}",
		"GET /api/testimonials",
		"GET /api/settings",
		"GET /api/newsletter/confirm/{token}",
		"GET /api/newsletter/unsubscribe/{token}",
		"POST /api/register",
		"POST /api/newsletter/subscribe",
		"POST /api/testimonials",
		"POST /api/revalidate",
		"POST /api/admin/newsletters/{id}/send",
	}

	registered := map[string]bool{}
	err := chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		registered[method+" "+strings.TrimSuffix(route, "/")] = true
		return nil
	})
	if err != nil {
		t.Fatalf("walk routes: %v", err)
	}
	for _, route := range want {
		if !registered[route] {
			t.Errorf("route %s is not registered", route)
		}
	}
}

func TestRequests(t *testing.T) {
	r := newTestRouter(t, 100)

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		auth       string
		wantStatus int
	}{
		{"health", http.MethodGet, "/health", "", "", http.StatusOK},
		{"events", http.MethodGet, "/api/events", "", "", http.StatusOK},
		{"missing page", http.MethodGet, "/api/pages/nirgends", "", "", http.StatusNotFound},
		{"settings", http.MethodGet, "/api/settings", "", "", http.StatusOK},
		{"register invalid", http.MethodPost, "/api/register", `{}`, "", http.StatusBadRequest},
		{"subscribe", http.MethodPost, "/api/newsletter/subscribe", `{"email":"neu@example.com"}`, "", http.StatusOK},
		{"revalidate wrong secret", http.MethodPost, "/api/revalidate", `{"secret":"nein"}`, "", http.StatusUnauthorized},
		{"revalidate", http.MethodPost, "/api/revalidate", `{"secret":"geheim"}`, "", http.StatusOK},
		{"admin without token", http.MethodPost, "/api/admin/newsletters/1/send", "", "", http.StatusUnauthorized},
		{"admin with token", http.MethodPost, "/api/admin/newsletters/1/send", "", "Bearer admin-token", http.StatusNotFound},
		{"wrong method", http.MethodDelete, "/api/events", "", "", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status: got %d, want %d (body %s)", rr.Code, tt.wantStatus, rr.Body.String())
			}
			if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
				t.Errorf("security headers missing: X-Content-Type-Options = %q", got)
			}
		})
	}
}

func TestFormsAreRateLimited(t *testing.T) {
	r := newTestRouter(t, 2)

	post := func(target string) int {
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(`{}`))
		req.RemoteAddr = "203.0.113.7:4711"
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		return rr.Code
	}

	post("/api/register")
	post("/api/testimonials")
	if got := post("/api/newsletter/subscribe"); got != http.StatusTooManyRequests {
		t.Errorf("third form post: got %d, want 429", got)
	}

	// Reads are not rate limited.
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.RemoteAddr = "203.0.113.7:4711"
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("read after limit: got %d, want 200", rr.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := newTestRouter(t, 100)

	req := httptest.NewRequest(http.MethodOptions, "/api/register", nil)
	req.Header.Set("Origin", "https://mens-circle.de")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("status: got %d, want 204", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://mens-circle.de" {
		t.Errorf("Allow-Origin = %q", got)
	}
}
