// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"menscircle/internal/models"
)

// ParticipantStore handles participant database operations.
type ParticipantStore struct {
	db *sql.DB
}

// NewParticipantStore creates a new ParticipantStore.
func NewParticipantStore(db *sql.DB) *ParticipantStore {
	return &ParticipantStore{db: db}
}

// Create inserts a new participant and returns it with the generated ID.
func (s *ParticipantStore) Create(p *models.Participant) (*models.Participant, error) {
	result := &models.Participant{}
	err := s.db.QueryRow(`
		INSERT INTO participants (first_name, last_name, email, phone)
		VALUES ($1, $2, $3, $4)
		RETURNING id, first_name, last_name, email, phone, created_at, updated_at
	`, p.FirstName, p.LastName, p.Email, p.Phone).Scan(
		&result.ID, &result.FirstName, &result.LastName, &result.Email, &result.Phone,
		&result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create participant: %w", err)
	}
	return result, nil
}

// FindByID retrieves a participant by ID. Returns nil if not found.
func (s *ParticipantStore) FindByID(id int64) (*models.Participant, error) {
	return s.findOne(`WHERE id = $1`, id)
}

// FindByEmail retrieves a participant by email address. Emails are stored
// normalized, so the lookup is exact. Returns nil if not found.
func (s *ParticipantStore) FindByEmail(email string) (*models.Participant, error) {
	return s.findOne(`WHERE email = $1`, email)
}

func (s *ParticipantStore) findOne(where string, arg any) (*models.Participant, error) {
	p := &models.Participant{}
	err := s.db.QueryRow(`
		SELECT id, first_name, last_name, email, phone, created_at, updated_at
		FROM participants `+where, arg).Scan(
		&p.ID, &p.FirstName, &p.LastName, &p.Email, &p.Phone, &p.CreatedAt, &p.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find participant: %w", err)
	}
	return p, nil
}

// Update modifies a participant's name and phone.
func (s *ParticipantStore) Update(p *models.Participant) error {
	_, err := s.db.Exec(`
		UPDATE participants
		SET first_name = $1, last_name = $2, phone = $3, updated_at = NOW()
		WHERE id = $4
	`, p.FirstName, p.LastName, p.Phone, p.ID)
	if err != nil {
		return fmt.Errorf("update participant: %w", err)
	}
	return nil
}
