// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"menscircle/internal/models"
)

// NewsletterStore handles newsletter issue database operations.
type NewsletterStore struct {
	db *sql.DB
}

// NewNewsletterStore creates a new NewsletterStore.
func NewNewsletterStore(db *sql.DB) *NewsletterStore {
	return &NewsletterStore{db: db}
}

// Create inserts a newsletter issue. Drafts default to the draft status.
func (s *NewsletterStore) Create(n *models.Newsletter) (*models.Newsletter, error) {
	content, err := json.Marshal(n.Content)
	if err != nil {
		return nil, fmt.Errorf("encode newsletter content: %w", err)
	}
	status := n.Status
	if status == "" {
		status = models.NewsletterDraft
	}

	result := &models.Newsletter{}
	var raw []byte
	err = s.db.QueryRow(`
		INSERT INTO newsletters (subject, preheader, content, status, sent_at, recipients_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, subject, preheader, content, status, sent_at, recipients_count, created_at
	`, n.Subject, n.Preheader, content, status, n.SentAt, n.RecipientsCount).Scan(
		&result.ID, &result.Subject, &result.Preheader, &raw, &result.Status,
		&result.SentAt, &result.RecipientsCount, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create newsletter: %w", err)
	}
	if err := json.Unmarshal(raw, &result.Content); err != nil {
		return nil, fmt.Errorf("decode newsletter content: %w", err)
	}
	return result, nil
}

// FindByID retrieves a newsletter by ID. Returns nil if not found.
func (s *NewsletterStore) FindByID(id int64) (*models.Newsletter, error) {
	n := &models.Newsletter{}
	var raw []byte
	err := s.db.QueryRow(`
		SELECT id, subject, preheader, content, status, sent_at, recipients_count, created_at
		FROM newsletters WHERE id = $1
	`, id).Scan(
		&n.ID, &n.Subject, &n.Preheader, &raw, &n.Status, &n.SentAt, &n.RecipientsCount, &n.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find newsletter by id: %w", err)
	}
	if err := json.Unmarshal(raw, &n.Content); err != nil {
		return nil, fmt.Errorf("decode newsletter content: %w", err)
	}
	return n, nil
}

// BeginSending moves a draft newsletter to the sending status. It reports
// false when the newsletter was no longer a draft, so two concurrent
// broadcasts cannot both start.
func (s *NewsletterStore) BeginSending(id int64) (bool, error) {
	res, err := s.db.Exec(`
		UPDATE newsletters SET status = 'sending' WHERE id = $1 AND status = 'draft'
	`, id)
	if err != nil {
		return false, fmt.Errorf("begin sending newsletter: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("begin sending newsletter: %w", err)
	}
	return n == 1, nil
}

// ResetSending returns a newsletter stuck in sending to draft so the
// broadcast can be retried.
func (s *NewsletterStore) ResetSending(id int64) error {
	_, err := s.db.Exec(`
		UPDATE newsletters SET status = 'draft' WHERE id = $1 AND status = 'sending'
	`, id)
	if err != nil {
		return fmt.Errorf("reset newsletter sending: %w", err)
	}
	return nil
}

// MarkSent records the completion of a broadcast.
func (s *NewsletterStore) MarkSent(id int64, sentAt time.Time, recipients int) error {
	_, err := s.db.Exec(`
		UPDATE newsletters SET status = 'sent', sent_at = $1, recipients_count = $2 WHERE id = $3
	`, sentAt, recipients, id)
	if err != nil {
		return fmt.Errorf("mark newsletter sent: %w", err)
	}
	return nil
}
