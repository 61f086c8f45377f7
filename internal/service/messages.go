// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

// User-facing messages. The site is German-language.
const (
	MsgRequiredFields      = "Bitte fülle alle Pflichtfelder aus."
	MsgInvalidEmail        = "Bitte gib eine gültige E-Mail-Adresse an."
	MsgEventNotFound       = "Veranstaltung nicht gefunden."
	MsgEventUnavailable    = "Diese Veranstaltung ist nicht verfügbar."
	MsgEventPast           = "Diese Veranstaltung liegt in der Vergangenheit."
	MsgAlreadyRegistered   = "Du bist bereits für diese Veranstaltung angemeldet."
	MsgEventFull           = "Diese Veranstaltung ist leider ausgebucht. Melde dich für unseren Newsletter an, um über neue Termine informiert zu werden."
	MsgRegistered          = "Deine Anmeldung war erfolgreich! Du erhältst eine Bestätigung per E-Mail."
	MsgEmailRequired       = "Bitte gib deine E-Mail-Adresse an."
	MsgAlreadySubscribed   = "Du bist bereits für den Newsletter angemeldet."
	MsgSubscribed          = "Bitte bestätige deine Anmeldung über den Link in der E-Mail, die wir dir geschickt haben."
	MsgInvalidConfirmLink  = "Ungültiger Bestätigungslink."
	MsgConfirmLinkUnknown  = "Bestätigungslink ungültig oder bereits verwendet."
	MsgAlreadyConfirmed    = "Deine Anmeldung wurde bereits bestätigt."
	MsgSubscriptionRevoked = "Dieses Abonnement wurde abgemeldet."
	MsgConfirmed           = "Deine Newsletter-Anmeldung wurde erfolgreich bestätigt!"
	MsgInvalidLink         = "Ungültiger Link."
	MsgSubscriptionUnknown = "Abonnement nicht gefunden."
	MsgAlreadyUnsubscribed = "Du bist bereits abgemeldet."
	MsgUnsubscribed        = "Du wurdest erfolgreich vom Newsletter abgemeldet."
	MsgNewsletterIDMissing = "Newsletter ID fehlt."
	MsgNewsletterNotFound  = "Newsletter nicht gefunden."
	MsgNewsletterSent      = "Newsletter wurde bereits gesendet."
	MsgTestimonialFields   = "Bitte fülle alle Pflichtfelder aus (Erfahrungsbericht und E-Mail)."
	MsgTestimonialReceived = "Vielen Dank für deinen Erfahrungsbericht! Er wird nach Prüfung veröffentlicht."
)
