// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up the HTTP routes and middleware chains of the API
// server: the cached read API, the rate-limited public forms, the
// revalidation webhook and the token-guarded admin endpoints.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"menscircle/internal/handlers"
	"menscircle/internal/middleware"
)

// Deps carries everything the routes need.
type Deps struct {
	Forms      *handlers.Forms
	Content    *handlers.Content
	Revalidate *handlers.Revalidate
	Admin      *handlers.Admin

	// FormLimiter throttles the public POST endpoints. May be nil.
	FormLimiter *middleware.RateLimiter

	AdminTokenHash string
	AllowedOrigins []string
}

// New creates the configured chi router.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CORS(d.AllowedOrigins...))

		// Read API for the frontend.
		r.Get("/events", d.Content.Events)
		r.Get("/events/{slug}", d.Content.Event)
		r.Get("/pages/{slug}", d.Content.Page)
		r.Get("/testimonials", d.Content.Testimonials)
		r.Get("/settings", d.Content.Settings)

		// Newsletter links from mails.
		r.Get("/newsletter/confirm/{token}", d.Forms.Confirm)
		r.Get("/newsletter/unsubscribe/{token}", d.Forms.Unsubscribe)

		// Public forms.
		r.Group(func(r chi.Router) {
			if d.FormLimiter != nil {
				r.Use(d.FormLimiter.Middleware)
			}
			r.Post("/register", d.Forms.Register)
			r.Post("/newsletter/subscribe", d.Forms.Subscribe)
			r.Post("/testimonials", d.Forms.SubmitTestimonial)
		})

		// CMS webhook, authenticated by its shared secret.
		r.Method(http.MethodPost, "/revalidate", d.Revalidate)

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireAdminToken(d.AdminTokenHash))
			r.Post("/newsletters/{id}/send", d.Admin.SendNewsletter)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
