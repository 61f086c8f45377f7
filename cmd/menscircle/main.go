// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the Men's Circle API server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"menscircle/internal/cache"
	"menscircle/internal/config"
	"menscircle/internal/database"
	"menscircle/internal/handlers"
	"menscircle/internal/mail"
	"menscircle/internal/middleware"
	"menscircle/internal/router"
	"menscircle/internal/service"
	"menscircle/internal/store"
)

// Public form submissions allowed per client IP and window.
const (
	formLimit  = 10
	formWindow = time.Minute
)

func main() {
	level := slog.LevelInfo
	if os.Getenv("APP_ENV") == "development" || os.Getenv("APP_ENV") == "" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	if err := database.Seed(db); err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}

	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()
	responseCache := cache.NewResponseCache(valkeyClient, cache.DefaultTTL)

	eventStore := store.NewEventStore(db)
	participantStore := store.NewParticipantStore(db)
	registrationStore := store.NewRegistrationStore(db)
	subscriptionStore := store.NewSubscriptionStore(db)
	newsletterStore := store.NewNewsletterStore(db)
	testimonialStore := store.NewTestimonialStore(db)
	pageStore := store.NewPageStore(db)
	settingsStore := store.NewSiteSettingsStore(db)
	revalidationLog := store.NewRevalidationLogStore(db)

	mailer := mail.New(cfg.SMTPAddr(), cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
	if cfg.SMTPAddr() == "" {
		slog.Warn("smtp not configured, mails are logged instead of sent")
	}
	composer := mail.NewComposer(cfg.SiteURL, cfg.CMSURL)

	registrations := service.NewRegistrations(eventStore, participantStore, registrationStore, mailer, composer, cfg.AdminEmail)
	newsletters := service.NewNewsletters(participantStore, subscriptionStore, newsletterStore, mailer, composer)
	testimonials := service.NewTestimonials(testimonialStore)

	if cfg.RevalidateSecret == "" {
		slog.Warn("REVALIDATE_SECRET not set, revalidation webhook will refuse all calls")
	}
	if cfg.AdminTokenHash == "" {
		slog.Warn("ADMIN_TOKEN_HASH not set, admin endpoints are disabled")
	}

	formLimiter := middleware.NewRateLimiter(formLimit, formWindow)
	defer formLimiter.Stop()

	r := router.New(router.Deps{
		Forms:          handlers.NewForms(registrations, newsletters, testimonials, responseCache),
		Content:        handlers.NewContent(eventStore, registrationStore, pageStore, testimonialStore, settingsStore, responseCache),
		Revalidate:     handlers.NewRevalidate(cfg.RevalidateSecret, responseCache, revalidationLog),
		Admin:          handlers.NewAdmin(newsletters),
		FormLimiter:    formLimiter,
		AdminTokenHash: cfg.AdminTokenHash,
		AllowedOrigins: []string{cfg.SiteURL},
	})

	// WriteTimeout must cover a full newsletter broadcast, which the admin
	// send endpoint runs inside the request.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
