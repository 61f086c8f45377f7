// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package storage

import "testing"

func TestNew_NotConfigured(t *testing.T) {
	c, err := New("", "fsn1", "", "", "exports")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c != nil {
		t.Error("expected nil client without endpoint and credentials")
	}
}

func TestNew_RequiresBucket(t *testing.T) {
	if _, err := New("https://s3.example.com", "fsn1", "key", "secret", ""); err == nil {
		t.Error("expected error for empty bucket")
	}
}

func TestNew_Configured(t *testing.T) {
	c, err := New("https://s3.example.com/", "fsn1", "key", "secret", "exports")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c == nil || c.Bucket() != "exports" {
		t.Fatalf("client = %+v", c)
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		prefix, name, want string
	}{
		{"", "events.json", "events.json"},
		{"exports/2026", "events.json", "exports/2026/events.json"},
		{"/exports/", "events.json", "exports/events.json"},
	}
	for _, tt := range tests {
		if got := Key(tt.prefix, tt.name); got != tt.want {
			t.Errorf("Key(%q, %q) = %q, want %q", tt.prefix, tt.name, got, tt.want)
		}
	}
}
