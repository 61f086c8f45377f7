// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"menscircle/internal/models"
)

// PageStore handles page database operations. Blocks are stored as a JSONB
// array of discriminated block objects.
type PageStore struct {
	db *sql.DB
}

// NewPageStore creates a new PageStore.
func NewPageStore(db *sql.DB) *PageStore {
	return &PageStore{db: db}
}

const pageColumns = `id, title, slug, blocks, meta_title, meta_description, published, created_at, updated_at`

func scanPage(row interface{ Scan(...any) error }) (*models.Page, error) {
	p := &models.Page{}
	var raw []byte
	if err := row.Scan(
		&p.ID, &p.Title, &p.Slug, &raw, &p.MetaTitle, &p.MetaDescription,
		&p.Published, &p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &p.Blocks); err != nil {
		return nil, fmt.Errorf("decode page blocks: %w", err)
	}
	return p, nil
}

// Create inserts a page and returns it with the generated ID.
func (s *PageStore) Create(p *models.Page) (*models.Page, error) {
	blocks := p.Blocks
	if blocks == nil {
		blocks = models.BlockList{}
	}
	raw, err := json.Marshal(blocks)
	if err != nil {
		return nil, fmt.Errorf("encode page blocks: %w", err)
	}

	result, err := scanPage(s.db.QueryRow(`
		INSERT INTO pages (title, slug, blocks, meta_title, meta_description, published)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+pageColumns,
		p.Title, p.Slug, raw, p.MetaTitle, p.MetaDescription, p.Published,
	))
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	return result, nil
}

// FindByID retrieves a page by ID. Returns nil if not found.
func (s *PageStore) FindByID(id int64) (*models.Page, error) {
	p, err := scanPage(s.db.QueryRow(`SELECT `+pageColumns+` FROM pages WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find page by id: %w", err)
	}
	return p, nil
}

// FindPublishedBySlug retrieves a published page by slug. Returns nil if
// not found.
func (s *PageStore) FindPublishedBySlug(slug string) (*models.Page, error) {
	p, err := scanPage(s.db.QueryRow(`
		SELECT `+pageColumns+` FROM pages WHERE slug = $1 AND published
	`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find page by slug: %w", err)
	}
	return p, nil
}
