// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Event is a scheduled circle meeting participants can register for.
type Event struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Description     string    `json:"description"`
	EventDate       time.Time `json:"eventDate"`
	StartTime       string    `json:"startTime"` // "HH:MM"
	EndTime         string    `json:"endTime"`   // "HH:MM"
	Location        string    `json:"location"`
	Street          *string   `json:"street,omitempty"`
	Zip             *string   `json:"zip,omitempty"`
	City            *string   `json:"city,omitempty"`
	MaxParticipants int       `json:"maxParticipants"`
	CostBasis       string    `json:"costBasis"`
	Published       bool      `json:"published"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// IsPast reports whether the event's calendar day lies before the calendar
// day of now. Events taking place today are not past.
func (e *Event) IsPast(now time.Time) bool {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	ey, em, ed := e.EventDate.Date()
	day := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	return day.Before(today)
}

// EventSummary is an event together with its current seat usage, as served
// to the public site.
type EventSummary struct {
	Event
	SpotsTaken int  `json:"spotsTaken"`
	SpotsLeft  int  `json:"spotsLeft"`
	IsFull     bool `json:"isFull"`
}

// NewEventSummary computes seat usage for an event.
func NewEventSummary(e Event, confirmed int) EventSummary {
	left := e.MaxParticipants - confirmed
	if left < 0 {
		left = 0
	}
	return EventSummary{Event: e, SpotsTaken: confirmed, SpotsLeft: left, IsFull: left == 0}
}
