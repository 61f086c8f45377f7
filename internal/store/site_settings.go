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

// SiteSettingsStore manages the site settings singleton row.
type SiteSettingsStore struct {
	db *sql.DB
}

// NewSiteSettingsStore returns a new SiteSettingsStore backed by the given database.
func NewSiteSettingsStore(db *sql.DB) *SiteSettingsStore {
	return &SiteSettingsStore{db: db}
}

// Get returns the site settings. A missing row yields the defaults.
func (s *SiteSettingsStore) Get() (*models.SiteSettings, error) {
	st := &models.SiteSettings{}
	var links []byte
	err := s.db.QueryRow(`
		SELECT site_name, site_description, contact_email, contact_phone, footer_text,
		       social_links, homepage_id, updated_at
		FROM site_settings WHERE id = 1
	`).Scan(
		&st.SiteName, &st.SiteDescription, &st.ContactEmail, &st.ContactPhone, &st.FooterText,
		&links, &st.HomepageID, &st.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return &models.SiteSettings{SiteName: models.DefaultSiteName, SocialLinks: []models.SocialLink{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get site settings: %w", err)
	}
	if err := json.Unmarshal(links, &st.SocialLinks); err != nil {
		return nil, fmt.Errorf("decode social links: %w", err)
	}
	return st, nil
}

// Save upserts the settings singleton.
func (s *SiteSettingsStore) Save(st *models.SiteSettings) error {
	links := st.SocialLinks
	if links == nil {
		links = []models.SocialLink{}
	}
	raw, err := json.Marshal(links)
	if err != nil {
		return fmt.Errorf("encode social links: %w", err)
	}
	name := st.SiteName
	if name == "" {
		name = models.DefaultSiteName
	}

	_, err = s.db.Exec(`
		INSERT INTO site_settings (id, site_name, site_description, contact_email, contact_phone,
		                           footer_text, social_links, homepage_id, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (id) DO UPDATE SET
			site_name = EXCLUDED.site_name,
			site_description = EXCLUDED.site_description,
			contact_email = EXCLUDED.contact_email,
			contact_phone = EXCLUDED.contact_phone,
			footer_text = EXCLUDED.footer_text,
			social_links = EXCLUDED.social_links,
			homepage_id = EXCLUDED.homepage_id,
			updated_at = NOW()
	`, name, st.SiteDescription, st.ContactEmail, st.ContactPhone, st.FooterText, raw, st.HomepageID)
	if err != nil {
		return fmt.Errorf("save site settings: %w", err)
	}
	return nil
}
