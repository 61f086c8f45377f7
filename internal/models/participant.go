// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Participant is a person known by email address. Registrations and
// newsletter subscriptions both point at a participant.
type Participant struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FullName joins first and last name.
func (p *Participant) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// RegistrationStatus is the state of an event registration.
type RegistrationStatus string

const (
	RegistrationConfirmed RegistrationStatus = "confirmed"
	RegistrationCancelled RegistrationStatus = "cancelled"
)

// Registration links a participant to an event.
type Registration struct {
	ID               int64              `json:"id"`
	EventID          int64              `json:"event"`
	ParticipantID    int64              `json:"participant"`
	Status           RegistrationStatus `json:"status"`
	Note             *string            `json:"note,omitempty"`
	ConsentTimestamp *time.Time         `json:"consentTimestamp,omitempty"`
	CreatedAt        time.Time          `json:"createdAt"`
}

// IsActive reports whether the registration still holds a seat.
func (r *Registration) IsActive() bool {
	return r.Status != RegistrationCancelled
}
