// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// revalidation_log.go records revalidation webhook calls in the database
// for audit and debugging purposes. Each entry captures what was
// invalidated, how many cached responses were dropped, and who asked.
package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// RevalidationLogStore handles revalidation log operations.
type RevalidationLogStore struct {
	db *sql.DB
}

// NewRevalidationLogStore creates a new RevalidationLogStore.
func NewRevalidationLogStore(db *sql.DB) *RevalidationLogStore {
	return &RevalidationLogStore{db: db}
}

// Log records a revalidation request. Empty collection or slug are stored
// as NULL, meaning "all".
func (s *RevalidationLogStore) Log(collection, slug string, keysRemoved int, remoteAddr string) {
	_, err := s.db.Exec(`
		INSERT INTO revalidation_log (collection, slug, keys_removed, remote_addr)
		VALUES ($1, $2, $3, $4)
	`, nullString(collection), nullString(slug), keysRemoved, remoteAddr)
	if err != nil {
		// Best-effort: the cache has already been invalidated.
		slog.Warn("failed to log revalidation",
			"collection", collection,
			"slug", slug,
			"error", err,
		)
		return
	}
	slog.Debug("revalidation logged", "collection", collection, "slug", slug, "keys_removed", keysRemoved)
}

// RecentEntries returns the most recent revalidation requests, newest first.
func (s *RevalidationLogStore) RecentEntries(limit int) ([]RevalidationLogEntry, error) {
	rows, err := s.db.Query(`
		SELECT id, COALESCE(collection, ''), COALESCE(slug, ''), keys_removed, remote_addr, requested_at
		FROM revalidation_log
		ORDER BY requested_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query revalidation log: %w", err)
	}
	defer rows.Close()

	var entries []RevalidationLogEntry
	for rows.Next() {
		var e RevalidationLogEntry
		if err := rows.Scan(&e.ID, &e.Collection, &e.Slug, &e.KeysRemoved, &e.RemoteAddr, &e.RequestedAt); err != nil {
			return nil, fmt.Errorf("scan revalidation log: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// RevalidationLogEntry represents a single revalidation request.
type RevalidationLogEntry struct {
	ID          int64
	Collection  string
	Slug        string
	KeysRemoved int
	RemoteAddr  string
	RequestedAt time.Time
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
