// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"time"

	"menscircle/internal/models"
)

// Lookups return (nil, nil) when nothing matches.

type EventRepository interface {
	FindByID(id int64) (*models.Event, error)
}

type ParticipantRepository interface {
	FindByID(id int64) (*models.Participant, error)
	FindByEmail(email string) (*models.Participant, error)
	Create(p *models.Participant) (*models.Participant, error)
	Update(p *models.Participant) error
}

type RegistrationRepository interface {
	FindActive(eventID, participantID int64) (*models.Registration, error)
	CountConfirmed(eventID int64) (int, error)
	Create(r *models.Registration) (*models.Registration, error)
}

type SubscriptionRepository interface {
	Create(sub *models.NewsletterSubscription) (*models.NewsletterSubscription, error)
	FindByParticipant(participantID int64, status models.SubscriptionStatus) (*models.NewsletterSubscription, error)
	FindByToken(token string) (*models.NewsletterSubscription, error)
	FindByConfirmToken(token string) (*models.NewsletterSubscription, error)
	UpdateStatus(id int64, status models.SubscriptionStatus, at time.Time) error
	ListConfirmedRecipients() ([]models.Recipient, error)
}

type NewsletterRepository interface {
	FindByID(id int64) (*models.Newsletter, error)
	BeginSending(id int64) (bool, error)
	ResetSending(id int64) error
	MarkSent(id int64, sentAt time.Time, recipients int) error
}

type TestimonialRepository interface {
	Create(t *models.Testimonial) (*models.Testimonial, error)
}
