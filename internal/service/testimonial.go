// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"menscircle/internal/models"
)

// TestimonialInput is a testimonial submitted through the site.
type TestimonialInput struct {
	Content    string `json:"content"`
	AuthorName string `json:"authorName"`
	AuthorRole string `json:"authorRole"`
	Email      string `json:"email"`
}

// Testimonials accepts testimonial submissions for moderation.
type Testimonials struct {
	repo TestimonialRepository
}

// NewTestimonials creates the testimonial service.
func NewTestimonials(repo TestimonialRepository) *Testimonials {
	return &Testimonials{repo: repo}
}

// Submit stores a testimonial as unpublished.
func (s *Testimonials) Submit(_ context.Context, in TestimonialInput) (*models.Testimonial, error) {
	content := strings.TrimSpace(in.Content)
	if content == "" || strings.TrimSpace(in.Email) == "" {
		return nil, invalid(MsgTestimonialFields)
	}
	if !ValidEmail(strings.TrimSpace(in.Email)) {
		return nil, invalid(MsgInvalidEmail)
	}

	t, err := s.repo.Create(&models.Testimonial{
		Content:    content,
		AuthorName: trimmedOrNil(in.AuthorName),
		AuthorRole: trimmedOrNil(in.AuthorRole),
		Email:      NormalizeEmail(in.Email),
		Published:  false,
		SortOrder:  0,
	})
	if err != nil {
		return nil, fmt.Errorf("create testimonial: %w", err)
	}
	slog.Info("testimonial submitted", "testimonial", t.ID)
	return t, nil
}

func trimmedOrNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
