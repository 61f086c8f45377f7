// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"menscircle/internal/cache"
	"menscircle/internal/models"
)

// Collection names shared by the cache namespaces and the revalidation
// webhook.
const (
	CollectionEvents       = "events"
	CollectionPages        = "pages"
	CollectionTestimonials = "testimonials"
	CollectionSettings     = "site-settings"
)

// ResponseCache stores encoded responses per collection.
type ResponseCache interface {
	Get(ctx context.Context, collection, key string) ([]byte, bool)
	Set(ctx context.Context, collection, key string, body []byte)
	Invalidate(ctx context.Context, collection, slug string) int
}

// noCache is used when no Valkey client is available.
type noCache struct{}

func (noCache) Get(context.Context, string, string) ([]byte, bool) { return nil, false }
func (noCache) Set(context.Context, string, string, []byte)        {}
func (noCache) Invalidate(context.Context, string, string) int     { return 0 }

// Readers used by the content endpoints. Lookups return (nil, nil) when
// nothing matches.
type (
	EventReader interface {
		ListUpcoming(today time.Time) ([]models.EventSummary, error)
		FindPublishedBySlug(slug string) (*models.Event, error)
	}
	RegistrationCounter interface {
		CountConfirmed(eventID int64) (int, error)
	}
	PageReader interface {
		FindPublishedBySlug(slug string) (*models.Page, error)
	}
	TestimonialReader interface {
		ListPublished() ([]models.Testimonial, error)
	}
	SettingsReader interface {
		Get() (*models.SiteSettings, error)
	}
)

// Content serves the read API for the frontend. Responses are cached per
// collection until they expire or the revalidation webhook drops them.
type Content struct {
	events        EventReader
	registrations RegistrationCounter
	pages         PageReader
	testimonials  TestimonialReader
	settings      SettingsReader
	cache         ResponseCache
	now           func() time.Time
}

// NewContent creates the read API handler group. rc may be nil to disable
// caching.
func NewContent(events EventReader, registrations RegistrationCounter, pages PageReader,
	testimonials TestimonialReader, settings SettingsReader, rc ResponseCache) *Content {
	if rc == nil {
		rc = noCache{}
	}
	return &Content{
		events:        events,
		registrations: registrations,
		pages:         pages,
		testimonials:  testimonials,
		settings:      settings,
		cache:         rc,
		now:           time.Now,
	}
}

// Events lists published upcoming events with their free spots.
func (c *Content) Events(w http.ResponseWriter, r *http.Request) {
	c.serve(w, r, CollectionEvents, cache.ListKey, func() (any, error) {
		items, err := c.events.ListUpcoming(c.now())
		if items == nil {
			items = []models.EventSummary{}
		}
		return items, err
	})
}

// Event returns one published event by slug.
func (c *Content) Event(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	c.serve(w, r, CollectionEvents, slug, func() (any, error) {
		e, err := c.events.FindPublishedBySlug(slug)
		if err != nil || e == nil {
			return nil, err
		}
		confirmed, err := c.registrations.CountConfirmed(e.ID)
		if err != nil {
			return nil, err
		}
		return models.NewEventSummary(*e, confirmed), nil
	})
}

// Page returns one published page with its content blocks.
func (c *Content) Page(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	c.serve(w, r, CollectionPages, slug, func() (any, error) {
		p, err := c.pages.FindPublishedBySlug(slug)
		if err != nil || p == nil {
			return nil, err
		}
		return p, nil
	})
}

// Testimonials lists published testimonials in display order.
func (c *Content) Testimonials(w http.ResponseWriter, r *http.Request) {
	c.serve(w, r, CollectionTestimonials, cache.ListKey, func() (any, error) {
		items, err := c.testimonials.ListPublished()
		if items == nil {
			items = []models.Testimonial{}
		}
		return items, err
	})
}

// Settings returns the site settings.
func (c *Content) Settings(w http.ResponseWriter, r *http.Request) {
	c.serve(w, r, CollectionSettings, cache.ListKey, func() (any, error) {
		st, err := c.settings.Get()
		if err != nil || st == nil {
			return nil, err
		}
		return st, nil
	})
}

// serve answers from the cache or loads, encodes and caches the value.
// A nil value without error is a 404 and is not cached.
func (c *Content) serve(w http.ResponseWriter, r *http.Request, collection, key string, load func() (any, error)) {
	ctx := r.Context()
	if cached, ok := c.cache.Get(ctx, collection, key); ok {
		writeRaw(w, cached)
		return
	}

	v, err := load()
	if err != nil {
		slog.Error("load content failed", "error", err, "collection", collection, "key", key)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if v == nil {
		writeError(w, http.StatusNotFound, "Nicht gefunden.")
		return
	}

	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("encode content failed", "error", err, "collection", collection, "key", key)
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	c.cache.Set(ctx, collection, key, body)
	writeRaw(w, body)
}
