// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"menscircle/internal/richtext"
)

// SubscriptionStatus is the double opt-in state of a newsletter subscription.
type SubscriptionStatus string

const (
	SubscriptionPending      SubscriptionStatus = "pending"
	SubscriptionConfirmed    SubscriptionStatus = "confirmed"
	SubscriptionUnsubscribed SubscriptionStatus = "unsubscribed"
)

// DeriveSubscriptionStatus computes a status from the lifecycle timestamps.
// An unsubscribe always wins over a confirmation.
func DeriveSubscriptionStatus(confirmedAt, unsubscribedAt *time.Time) SubscriptionStatus {
	switch {
	case unsubscribedAt != nil:
		return SubscriptionUnsubscribed
	case confirmedAt != nil:
		return SubscriptionConfirmed
	}
	return SubscriptionPending
}

// NewsletterSubscription is a participant's newsletter subscription. Token
// identifies the subscription in unsubscribe links, ConfirmToken in the
// double opt-in link.
type NewsletterSubscription struct {
	ID             int64              `json:"id"`
	ParticipantID  int64              `json:"participant"`
	Status         SubscriptionStatus `json:"status"`
	Token          string             `json:"token"`
	ConfirmToken   string             `json:"confirmToken"`
	RequestedAt    *time.Time         `json:"requestedAt,omitempty"`
	ConfirmedAt    *time.Time         `json:"confirmedAt,omitempty"`
	UnsubscribedAt *time.Time         `json:"unsubscribedAt,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
}

// NewToken returns 32 random bytes hex-encoded, used for subscription and
// confirmation tokens.
func NewToken() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand: " + err.Error())
	}
	return hex.EncodeToString(b)
}

// Recipient is a confirmed subscriber resolved to an address.
type Recipient struct {
	SubscriptionID int64
	Email          string
	FirstName      string
	Token          string
}

// NewsletterStatus is the sending state of a newsletter issue.
type NewsletterStatus string

const (
	NewsletterDraft   NewsletterStatus = "draft"
	NewsletterSending NewsletterStatus = "sending"
	NewsletterSent    NewsletterStatus = "sent"
)

// Newsletter is a single newsletter issue.
type Newsletter struct {
	ID              int64             `json:"id"`
	Subject         string            `json:"subject"`
	Preheader       *string           `json:"preheader,omitempty"`
	Content         richtext.Document `json:"content"`
	Status          NewsletterStatus  `json:"status"`
	SentAt          *time.Time        `json:"sentAt,omitempty"`
	RecipientsCount int               `json:"recipientsCount"`
	CreatedAt       time.Time         `json:"createdAt"`
}
