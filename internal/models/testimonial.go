// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Testimonial is a participant's experience report. Submissions from the
// public site start unpublished.
type Testimonial struct {
	ID          int64      `json:"id"`
	Content     string     `json:"content"`
	AuthorName  *string    `json:"authorName,omitempty"`
	AuthorRole  *string    `json:"authorRole,omitempty"`
	Email       string     `json:"-"`
	Published   bool       `json:"published"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	SortOrder   int        `json:"sortOrder"`
	CreatedAt   time.Time  `json:"createdAt"`
}
