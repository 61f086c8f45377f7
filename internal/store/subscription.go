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

// SubscriptionStore handles newsletter subscription database operations.
type SubscriptionStore struct {
	db *sql.DB
}

// NewSubscriptionStore creates a new SubscriptionStore.
func NewSubscriptionStore(db *sql.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

const subscriptionColumns = `id, participant_id, status, token, confirm_token,
	requested_at, confirmed_at, unsubscribed_at, created_at`

func scanSubscription(row interface{ Scan(...any) error }, sub *models.NewsletterSubscription) error {
	return row.Scan(
		&sub.ID, &sub.ParticipantID, &sub.Status, &sub.Token, &sub.ConfirmToken,
		&sub.RequestedAt, &sub.ConfirmedAt, &sub.UnsubscribedAt, &sub.CreatedAt,
	)
}

// Create inserts a new subscription. Missing tokens are generated.
func (s *SubscriptionStore) Create(sub *models.NewsletterSubscription) (*models.NewsletterSubscription, error) {
	token, confirmToken := sub.Token, sub.ConfirmToken
	if token == "" {
		token = models.NewToken()
	}
	if confirmToken == "" {
		confirmToken = models.NewToken()
	}

	result := &models.NewsletterSubscription{}
	err := scanSubscription(s.db.QueryRow(`
		INSERT INTO newsletter_subscriptions (participant_id, status, token, confirm_token,
		                                      requested_at, confirmed_at, unsubscribed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+subscriptionColumns,
		sub.ParticipantID, sub.Status, token, confirmToken,
		sub.RequestedAt, sub.ConfirmedAt, sub.UnsubscribedAt,
	), result)
	if err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}
	return result, nil
}

// FindByParticipant returns the participant's most recent subscription in
// the given status. Returns nil if there is none.
func (s *SubscriptionStore) FindByParticipant(participantID int64, status models.SubscriptionStatus) (*models.NewsletterSubscription, error) {
	return s.findOne(`WHERE participant_id = $1 AND status = $2 ORDER BY created_at DESC LIMIT 1`,
		participantID, status)
}

// FindByToken returns the subscription identified by its unsubscribe token.
func (s *SubscriptionStore) FindByToken(token string) (*models.NewsletterSubscription, error) {
	return s.findOne(`WHERE token = $1`, token)
}

// FindByConfirmToken returns the subscription identified by its double
// opt-in token.
func (s *SubscriptionStore) FindByConfirmToken(token string) (*models.NewsletterSubscription, error) {
	return s.findOne(`WHERE confirm_token = $1`, token)
}

func (s *SubscriptionStore) findOne(where string, args ...any) (*models.NewsletterSubscription, error) {
	sub := &models.NewsletterSubscription{}
	err := scanSubscription(s.db.QueryRow(`SELECT `+subscriptionColumns+` FROM newsletter_subscriptions `+where, args...), sub)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subscription: %w", err)
	}
	return sub, nil
}

// UpdateStatus moves a subscription to a new status and stamps the
// matching lifecycle timestamp.
func (s *SubscriptionStore) UpdateStatus(id int64, status models.SubscriptionStatus, at time.Time) error {
	var query string
	switch status {
	case models.SubscriptionConfirmed:
		query = `UPDATE newsletter_subscriptions SET status = $1, confirmed_at = $2 WHERE id = $3`
	case models.SubscriptionUnsubscribed:
		query = `UPDATE newsletter_subscriptions SET status = $1, unsubscribed_at = $2 WHERE id = $3`
	default:
		query = `UPDATE newsletter_subscriptions SET status = $1, requested_at = $2 WHERE id = $3`
	}
	if _, err := s.db.Exec(query, status, at, id); err != nil {
		return fmt.Errorf("update subscription status: %w", err)
	}
	return nil
}

// ListConfirmedRecipients returns every confirmed subscriber with the
// participant's address, oldest subscription first.
func (s *SubscriptionStore) ListConfirmedRecipients() ([]models.Recipient, error) {
	rows, err := s.db.Query(`
		SELECT ns.id, p.email, p.first_name, ns.token
		FROM newsletter_subscriptions ns
		JOIN participants p ON p.id = ns.participant_id
		WHERE ns.status = 'confirmed'
		ORDER BY ns.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list confirmed recipients: %w", err)
	}
	defer rows.Close()

	var items []models.Recipient
	for rows.Next() {
		var r models.Recipient
		if err := rows.Scan(&r.SubscriptionID, &r.Email, &r.FirstName, &r.Token); err != nil {
			return nil, fmt.Errorf("scan recipient: %w", err)
		}
		items = append(items, r)
	}
	return items, rows.Err()
}
