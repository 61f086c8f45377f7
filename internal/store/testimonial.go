// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"fmt"

	"menscircle/internal/models"
)

// TestimonialStore handles testimonial database operations.
type TestimonialStore struct {
	db *sql.DB
}

// NewTestimonialStore creates a new TestimonialStore.
func NewTestimonialStore(db *sql.DB) *TestimonialStore {
	return &TestimonialStore{db: db}
}

// Create inserts a testimonial and returns it with the generated ID.
func (s *TestimonialStore) Create(t *models.Testimonial) (*models.Testimonial, error) {
	result := &models.Testimonial{}
	err := s.db.QueryRow(`
		INSERT INTO testimonials (content, author_name, author_role, email, published, published_at, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, content, author_name, author_role, email, published, published_at, sort_order, created_at
	`, t.Content, t.AuthorName, t.AuthorRole, t.Email, t.Published, t.PublishedAt, t.SortOrder).Scan(
		&result.ID, &result.Content, &result.AuthorName, &result.AuthorRole, &result.Email,
		&result.Published, &result.PublishedAt, &result.SortOrder, &result.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create testimonial: %w", err)
	}
	return result, nil
}

// ListPublished returns published testimonials in display order.
func (s *TestimonialStore) ListPublished() ([]models.Testimonial, error) {
	rows, err := s.db.Query(`
		SELECT id, content, author_name, author_role, email, published, published_at, sort_order, created_at
		FROM testimonials
		WHERE published
		ORDER BY sort_order, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list published testimonials: %w", err)
	}
	defer rows.Close()

	var items []models.Testimonial
	for rows.Next() {
		var t models.Testimonial
		if err := rows.Scan(
			&t.ID, &t.Content, &t.AuthorName, &t.AuthorRole, &t.Email,
			&t.Published, &t.PublishedAt, &t.SortOrder, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan testimonial: %w", err)
		}
		items = append(items, t)
	}
	return items, rows.Err()
}
