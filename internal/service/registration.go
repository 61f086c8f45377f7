// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"menscircle/internal/mail"
	"menscircle/internal/models"
)

// RegisterInput is a sign-up request for an event.
type RegisterInput struct {
	EventID   int64  `json:"eventId"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Note      string `json:"note"`
}

// Registrations signs participants up for events.
type Registrations struct {
	events        EventRepository
	participants  ParticipantRepository
	registrations RegistrationRepository
	mailer        mail.Mailer
	composer      *mail.Composer
	adminEmail    string
	now           func() time.Time

	// mu serializes the capacity check with the insert.
	mu sync.Mutex
}

// NewRegistrations creates the registration service. adminEmail may be
// empty to skip organizer notifications.
func NewRegistrations(events EventRepository, participants ParticipantRepository, registrations RegistrationRepository,
	mailer mail.Mailer, composer *mail.Composer, adminEmail string) *Registrations {
	return &Registrations{
		events:        events,
		participants:  participants,
		registrations: registrations,
		mailer:        mailer,
		composer:      composer,
		adminEmail:    adminEmail,
		now:           time.Now,
	}
}

// Register signs a participant up for an event and sends the confirmation
// mails. The participant is matched by email and created when unknown.
func (s *Registrations) Register(ctx context.Context, in RegisterInput) (*models.Registration, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.FirstName == "" || in.LastName == "" || strings.TrimSpace(in.Email) == "" || in.Phone == "" || in.EventID <= 0 {
		return nil, invalid(MsgRequiredFields)
	}
	if !ValidEmail(strings.TrimSpace(in.Email)) {
		return nil, invalid(MsgInvalidEmail)
	}
	email := NormalizeEmail(in.Email)

	event, err := s.events.FindByID(in.EventID)
	if err != nil {
		return nil, fmt.Errorf("load event: %w", err)
	}
	if event == nil {
		return nil, notFound(MsgEventNotFound)
	}
	if !event.Published {
		return nil, invalid(MsgEventUnavailable)
	}
	if event.IsPast(s.now()) {
		return nil, invalid(MsgEventPast)
	}

	participant, err := s.upsertParticipant(email, in)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	reg, spotsUsed, err := s.book(event, participant, in.Note)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	slog.Info("registration created", "event", event.ID, "participant", participant.ID, "registration", reg.ID)
	s.notify(ctx, event, participant, reg, spotsUsed)
	return reg, nil
}

func (s *Registrations) upsertParticipant(email string, in RegisterInput) (*models.Participant, error) {
	p, err := s.participants.FindByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("find participant: %w", err)
	}
	phone := in.Phone
	if p != nil {
		p.FirstName, p.LastName, p.Phone = in.FirstName, in.LastName, &phone
		if err := s.participants.Update(p); err != nil {
			return nil, fmt.Errorf("update participant: %w", err)
		}
		return p, nil
	}
	p, err = s.participants.Create(&models.Participant{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Email:     email,
		Phone:     &phone,
	})
	if err != nil {
		return nil, fmt.Errorf("create participant: %w", err)
	}
	return p, nil
}

// book checks for a duplicate and for free capacity, then inserts the
// registration. It returns the number of confirmed spots including the new
// one. Callers hold s.mu.
func (s *Registrations) book(event *models.Event, p *models.Participant, note string) (*models.Registration, int, error) {
	existing, err := s.registrations.FindActive(event.ID, p.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("find registration: %w", err)
	}
	if existing != nil {
		return nil, 0, conflict(MsgAlreadyRegistered)
	}

	used, err := s.registrations.CountConfirmed(event.ID)
	if err != nil {
		return nil, 0, fmt.Errorf("count registrations: %w", err)
	}
	if used >= event.MaxParticipants {
		return nil, 0, conflict(MsgEventFull)
	}

	consent := s.now()
	var notePtr *string
	if n := strings.TrimSpace(note); n != "" {
		notePtr = &n
	}
	reg, err := s.registrations.Create(&models.Registration{
		EventID:          event.ID,
		ParticipantID:    p.ID,
		Status:           models.RegistrationConfirmed,
		Note:             notePtr,
		ConsentTimestamp: &consent,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("create registration: %w", err)
	}
	return reg, used + 1, nil
}

// notify sends the participant confirmation and the organizer notice.
// Failures are logged; the registration stands either way.
func (s *Registrations) notify(ctx context.Context, event *models.Event, p *models.Participant, reg *models.Registration, spotsUsed int) {
	msg, err := s.composer.RegistrationConfirmation(event, p)
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		slog.Error("send registration confirmation failed", "registration", reg.ID, "error", err)
	}

	if s.adminEmail == "" {
		return
	}
	msg, err = s.composer.AdminNotification(s.adminEmail, event, p, reg, spotsUsed)
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		slog.Error("send admin notification failed", "registration", reg.ID, "error", err)
	}
}
