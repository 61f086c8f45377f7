// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"menscircle/internal/models"
)

// RegistrationStore handles event registration database operations.
type RegistrationStore struct {
	db *sql.DB
}

// NewRegistrationStore creates a new RegistrationStore.
func NewRegistrationStore(db *sql.DB) *RegistrationStore {
	return &RegistrationStore{db: db}
}

// Create inserts a new registration and returns it with the generated ID.
func (s *RegistrationStore) Create(r *models.Registration) (*models.Registration, error) {
	result := &models.Registration{}
	err := s.db.QueryRow(`
		INSERT INTO registrations (event_id, participant_id, status, note, consent_timestamp)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, event_id, participant_id, status, note, consent_timestamp, created_at
	`, r.EventID, r.ParticipantID, r.Status, r.Note, r.ConsentTimestamp).Scan(
		&result.ID, &result.EventID, &result.ParticipantID, &result.Status,
		&result.Note, &result.ConsentTimestamp, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create registration: %w", err)
	}
	return result, nil
}

// FindActive returns the participant's non-cancelled registration for an
// event. Returns nil if there is none.
func (s *RegistrationStore) FindActive(eventID, participantID int64) (*models.Registration, error) {
	r := &models.Registration{}
	err := s.db.QueryRow(`
		SELECT id, event_id, participant_id, status, note, consent_timestamp, created_at
		FROM registrations
		WHERE event_id = $1 AND participant_id = $2 AND status <> 'cancelled'
		ORDER BY created_at DESC
		LIMIT 1
	`, eventID, participantID).Scan(
		&r.ID, &r.EventID, &r.ParticipantID, &r.Status, &r.Note, &r.ConsentTimestamp, &r.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active registration: %w", err)
	}
	return r, nil
}

// CountConfirmed returns the number of confirmed registrations for an event.
func (s *RegistrationStore) CountConfirmed(eventID int64) (int, error) {
	var n int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM registrations WHERE event_id = $1 AND status = 'confirmed'
	`, eventID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count confirmed registrations: %w", err)
	}
	return n, nil
}
