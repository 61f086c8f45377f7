// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package service implements the transactional flows behind the public API:
// event registration, the newsletter double opt-in lifecycle, newsletter
// broadcast and testimonial submission. Rule violations are returned as
// *Error with a user-facing message; anything else is an internal failure.
package service

import (
	"errors"
	"regexp"
	"strings"
)

// Kind classifies a rule violation.
type Kind int

const (
	KindInvalid Kind = iota + 1
	KindNotFound
	KindConflict
	KindGone
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	case KindGone:
		return "gone"
	case KindUnauthorized:
		return "unauthorized"
	}
	return "unknown"
}

// Error is a business rule violation. Message is shown to the user.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Kind.String() + ": " + e.Message
}

// KindOf returns the kind of a service error, or 0 for other errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func invalid(msg string) error  { return &Error{Kind: KindInvalid, Message: msg} }
func notFound(msg string) error { return &Error{Kind: KindNotFound, Message: msg} }
func conflict(msg string) error { return &Error{Kind: KindConflict, Message: msg} }
func gone(msg string) error     { return &Error{Kind: KindGone, Message: msg} }

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// NormalizeEmail trims and lowercases an address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
