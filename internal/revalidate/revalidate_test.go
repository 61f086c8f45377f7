package revalidate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTriggerPostsRequest(t *testing.T) {
	var got Request
	var path, contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		contentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte(`{"revalidated":true}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "s3cret")
	if err := c.Trigger(context.Background(), "pages", "start"); err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if path != "/api/revalidate" {
		t.Errorf("path = %q", path)
	}
	if contentType != "application/json" {
		t.Errorf("Content-Type = %q", contentType)
	}
	if got != (Request{Secret: "s3cret", Collection: "pages", Slug: "start"}) {
		t.Errorf("body = %+v", got)
	}
}

func TestTriggerOmitsEmptyFields(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
	}))
	defer srv.Close()

	if err := New(srv.URL, "x").Trigger(context.Background(), "", ""); err != nil {
		t.Fatalf("Trigger: %v", err)
	}
	if _, ok := raw["collection"]; ok {
		t.Error("collection should be omitted")
	}
	if _, ok := raw["slug"]; ok {
		t.Error("slug should be omitted")
	}
}

func TestTriggerErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Invalid secret"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	if err := New(srv.URL, "wrong").Trigger(context.Background(), "", ""); err == nil {
		t.Error("expected error for 401 response")
	}
}

func TestTriggerNotConfigured(t *testing.T) {
	tests := []struct {
		name, url, secret string
	}{
		{"no url", "", "secret"},
		{"no secret", "http://127.0.0.1:1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.url, tt.secret)
			if c.Enabled() {
				t.Error("Enabled() = true")
			}
			if err := c.Trigger(context.Background(), "", ""); err != nil {
				t.Errorf("Trigger: %v", err)
			}
		})
	}
}
