// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"menscircle/internal/models"
)

// EventStore handles event database operations.
type EventStore struct {
	db *sql.DB
}

// NewEventStore creates a new EventStore with the given database connection.
func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

const eventColumns = `id, title, slug, description, event_date, start_time, end_time,
	location, street, zip, city, max_participants, cost_basis, published,
	created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }, e *models.Event) error {
	return row.Scan(
		&e.ID, &e.Title, &e.Slug, &e.Description, &e.EventDate, &e.StartTime, &e.EndTime,
		&e.Location, &e.Street, &e.Zip, &e.City, &e.MaxParticipants, &e.CostBasis, &e.Published,
		&e.CreatedAt, &e.UpdatedAt,
	)
}

// Create inserts a new event and returns it with the generated ID.
func (s *EventStore) Create(e *models.Event) (*models.Event, error) {
	result := &models.Event{}
	err := scanEvent(s.db.QueryRow(`
		INSERT INTO events (title, slug, description, event_date, start_time, end_time,
		                    location, street, zip, city, max_participants, cost_basis, published)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING `+eventColumns,
		e.Title, e.Slug, e.Description, e.EventDate, e.StartTime, e.EndTime,
		e.Location, e.Street, e.Zip, e.City, e.MaxParticipants, e.CostBasis, e.Published,
	), result)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return result, nil
}

// FindByID retrieves an event by ID regardless of its published state.
// Returns nil if not found.
func (s *EventStore) FindByID(id int64) (*models.Event, error) {
	e := &models.Event{}
	err := scanEvent(s.db.QueryRow(`SELECT `+eventColumns+` FROM events WHERE id = $1`, id), e)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find event by id: %w", err)
	}
	return e, nil
}

// FindPublishedBySlug retrieves a published event by slug. Returns nil if
// not found.
func (s *EventStore) FindPublishedBySlug(slug string) (*models.Event, error) {
	e := &models.Event{}
	err := scanEvent(s.db.QueryRow(`
		SELECT `+eventColumns+` FROM events WHERE slug = $1 AND published
	`, slug), e)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find event by slug: %w", err)
	}
	return e, nil
}

// ListUpcoming returns published events dated on or after the given day,
// soonest first, together with their confirmed registration counts.
func (s *EventStore) ListUpcoming(today time.Time) ([]models.EventSummary, error) {
	rows, err := s.db.Query(`
		SELECT `+eventColumns+`,
		       (SELECT COUNT(*) FROM registrations r
		        WHERE r.event_id = events.id AND r.status = 'confirmed')
		FROM events
		WHERE published AND event_date >= $1
		ORDER BY event_date, start_time
	`, today.Format(time.DateOnly))
	if err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	defer rows.Close()

	var items []models.EventSummary
	for rows.Next() {
		var e models.Event
		var confirmed int
		if err := rows.Scan(
			&e.ID, &e.Title, &e.Slug, &e.Description, &e.EventDate, &e.StartTime, &e.EndTime,
			&e.Location, &e.Street, &e.Zip, &e.City, &e.MaxParticipants, &e.CostBasis, &e.Published,
			&e.CreatedAt, &e.UpdatedAt, &confirmed,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		items = append(items, models.NewEventSummary(e, confirmed))
	}
	return items, rows.Err()
}
