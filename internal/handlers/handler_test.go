// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for the handler
// tests. Handlers run against the in-memory store with a recording mailer
// and a map-backed response cache.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"menscircle/internal/mail"
	"menscircle/internal/memstore"
	"menscircle/internal/models"
	"menscircle/internal/service"
)

// recordingMailer captures every sent message.
type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func (m *recordingMailer) last() mail.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[len(m.sent)-1]
}

// mapCache is an in-memory ResponseCache with the same invalidation rules
// as the Valkey cache.
type mapCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	sets    int
}

func newMapCache() *mapCache { return &mapCache{entries: map[string][]byte{}} }

func (c *mapCache) Get(_ context.Context, collection, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.entries[collection+":"+key]
	return b, ok
}

func (c *mapCache) Set(_ context.Context, collection, key string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[collection+":"+key] = body
	c.sets++
}

func (c *mapCache) Invalidate(_ context.Context, collection, slug string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for k := range c.entries {
		col, key, _ := strings.Cut(k, ":")
		if collection == "" || (col == collection && (slug == "" || key == slug || key == "_list")) {
			delete(c.entries, k)
			removed++
		}
	}
	return removed
}

type logEntry struct {
	collection, slug string
	keysRemoved      int
}

// recordingLog captures revalidation log entries.
type recordingLog struct {
	entries []logEntry
}

func (l *recordingLog) Log(collection, slug string, keysRemoved int, _ string) {
	l.entries = append(l.entries, logEntry{collection, slug, keysRemoved})
}

// testEnv wires the handler groups to an in-memory store.
type testEnv struct {
	store   *memstore.Store
	mailer  *recordingMailer
	cache   *mapCache
	forms   *Forms
	content *Content
	admin   *Admin
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	s := memstore.New()
	m := &recordingMailer{}
	c := newMapCache()
	composer := mail.NewComposer("https://mens-circle.de", "https://cms.mens-circle.de")

	newsletters := service.NewNewsletters(s.Participants(), s.Subscriptions(), s.Newsletters(), m, composer)
	return &testEnv{
		store:  s,
		mailer: m,
		cache:  c,
		forms: NewForms(
			service.NewRegistrations(s.Events(), s.Participants(), s.Registrations(), m, composer, "orga@mens-circle.de"),
			newsletters,
			service.NewTestimonials(s.Testimonials()),
			c,
		),
		content: NewContent(s.Events(), s.Registrations(), s.Pages(), s.Testimonials(), s.Settings(), c),
		admin:   NewAdmin(newsletters),
	}
}

// createEvent stores a published event one month ahead.
func (e *testEnv) createEvent(t *testing.T, slug string, capacity int) *models.Event {
	t.Helper()
	ev, err := e.store.Events().Create(&models.Event{
		Title:           "Männerkreis " + slug,
		Slug:            slug,
		EventDate:       time.Now().AddDate(0, 1, 0).Truncate(24 * time.Hour),
		StartTime:       "19:00",
		EndTime:         "21:30",
		Location:        "Straubing",
		MaxParticipants: capacity,
		CostBasis:       "Auf Spendenbasis",
		Published:       true,
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	return ev
}

// jsonRequest builds a request with v encoded as the body.
func jsonRequest(t *testing.T, method, target string, v any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if v != nil {
		if err := json.NewEncoder(&buf).Encode(v); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// withChiURLParam adds a chi URL parameter to the request context,
// simulating what chi's router does when matching a route pattern.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// decodeBody decodes a JSON response body into a generic map.
func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
	return body
}
