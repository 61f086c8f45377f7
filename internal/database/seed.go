// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"menscircle/internal/models"
)

// Seed makes sure the site settings singleton row exists so reads never
// have to deal with a missing configuration. Existing settings are left
// untouched.
func Seed(db *sql.DB) error {
	res, err := db.Exec(`
		INSERT INTO site_settings (id, site_name)
		VALUES (1, $1)
		ON CONFLICT (id) DO NOTHING
	`, models.DefaultSiteName)
	if err != nil {
		return fmt.Errorf("seed site settings: %w", err)
	}

	if n, _ := res.RowsAffected(); n > 0 {
		slog.Info("database seeded with default site settings", "site_name", models.DefaultSiteName)
	} else {
		slog.Info("database already seeded, skipping")
	}
	return nil
}
