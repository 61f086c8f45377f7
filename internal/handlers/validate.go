package handlers

import (
	"unicode/utf8"
)

// Length limits for form inputs.
const (
	maxNameLen        = 100
	maxEmailLen       = 254
	maxPhoneLen       = 50
	maxNoteLen        = 2_000
	maxTestimonialLen = 5_000
	maxAuthorLen      = 150
)

type lengthRule struct {
	value string
	max   int
	msg   string
}

// firstTooLong returns the message of the first rule whose value exceeds
// its limit, or "" when all fit.
func firstTooLong(rules ...lengthRule) string {
	for _, r := range rules {
		if utf8.RuneCountInString(r.value) > r.max {
			return r.msg
		}
	}
	return ""
}

// validateRegistration checks registration form lengths. Required fields
// are checked by the service.
func validateRegistration(firstName, lastName, email, phone, note string) string {
	return firstTooLong(
		lengthRule{firstName, maxNameLen, "Vorname ist zu lang (max. 100 Zeichen)."},
		lengthRule{lastName, maxNameLen, "Nachname ist zu lang (max. 100 Zeichen)."},
		lengthRule{email, maxEmailLen, "E-Mail-Adresse ist zu lang."},
		lengthRule{phone, maxPhoneLen, "Telefonnummer ist zu lang (max. 50 Zeichen)."},
		lengthRule{note, maxNoteLen, "Anmerkung ist zu lang (max. 2.000 Zeichen)."},
	)
}

// validateSubscription checks newsletter form lengths.
func validateSubscription(email, firstName, lastName string) string {
	return firstTooLong(
		lengthRule{email, maxEmailLen, "E-Mail-Adresse ist zu lang."},
		lengthRule{firstName, maxNameLen, "Vorname ist zu lang (max. 100 Zeichen)."},
		lengthRule{lastName, maxNameLen, "Nachname ist zu lang (max. 100 Zeichen)."},
	)
}

// validateTestimonial checks testimonial form lengths.
func validateTestimonial(content, authorName, authorRole, email string) string {
	return firstTooLong(
		lengthRule{content, maxTestimonialLen, "Erfahrungsbericht ist zu lang (max. 5.000 Zeichen)."},
		lengthRule{authorName, maxAuthorLen, "Name ist zu lang (max. 150 Zeichen)."},
		lengthRule{authorRole, maxAuthorLen, "Rolle ist zu lang (max. 150 Zeichen)."},
		lengthRule{email, maxEmailLen, "E-Mail-Adresse ist zu lang."},
	)
}
