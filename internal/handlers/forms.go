// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"menscircle/internal/service"
)

// Forms groups the handlers behind the public site's forms.
type Forms struct {
	registrations *service.Registrations
	newsletters   *service.Newsletters
	testimonials  *service.Testimonials
	cache         ResponseCache
}

// NewForms creates the form handler group. rc holds the cached event
// responses that a registration makes stale; it may be nil.
func NewForms(registrations *service.Registrations, newsletters *service.Newsletters, testimonials *service.Testimonials,
	rc ResponseCache) *Forms {
	if rc == nil {
		rc = noCache{}
	}
	return &Forms{
		registrations: registrations,
		newsletters:   newsletters,
		testimonials:  testimonials,
		cache:         rc,
	}
}

// Register signs a participant up for an event.
func (f *Forms) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if msg := validateRegistration(in.FirstName, in.LastName, in.Email, in.Phone, in.Note); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if _, err := f.registrations.Register(r.Context(), in); err != nil {
		writeServiceError(w, r, err)
		return
	}
	// Free spots changed.
	f.cache.Invalidate(r.Context(), CollectionEvents, "")
	writeSuccess(w, http.StatusOK, service.MsgRegistered)
}

// Subscribe starts the newsletter double opt-in.
func (f *Forms) Subscribe(w http.ResponseWriter, r *http.Request) {
	var in service.SubscribeInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if msg := validateSubscription(in.Email, in.FirstName, in.LastName); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if err := f.newsletters.Subscribe(r.Context(), in); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, service.MsgSubscribed)
}

// Confirm completes a subscription from the link in the opt-in mail.
func (f *Forms) Confirm(w http.ResponseWriter, r *http.Request) {
	msg, err := f.newsletters.Confirm(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, msg)
}

// Unsubscribe ends a subscription from the link in a newsletter footer.
func (f *Forms) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	msg, err := f.newsletters.Unsubscribe(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, msg)
}

// SubmitTestimonial stores a testimonial for review.
func (f *Forms) SubmitTestimonial(w http.ResponseWriter, r *http.Request) {
	var in service.TestimonialInput
	if !decodeJSON(w, r, &in) {
		return
	}
	if msg := validateTestimonial(in.Content, in.AuthorName, in.AuthorRole, in.Email); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	if _, err := f.testimonials.Submit(r.Context(), in); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeSuccess(w, http.StatusOK, service.MsgTestimonialReceived)
}
