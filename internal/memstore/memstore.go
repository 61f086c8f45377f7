// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package memstore is an in-memory implementation of the store interfaces.
// The migration command uses it for dry runs and the service tests use it
// in place of PostgreSQL. Unique constraints of the database schema are
// enforced so that a dry run fails where the real import would.
package memstore

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"menscircle/internal/models"
)

// Store holds every collection behind one mutex. Each collection is
// reached through its accessor so method names do not collide.
type Store struct {
	mu  sync.Mutex
	now func() time.Time

	events        []models.Event
	participants  []models.Participant
	registrations []models.Registration
	subscriptions []models.NewsletterSubscription
	newsletters   []models.Newsletter
	testimonials  []models.Testimonial
	pages         []models.Page
	settings      *models.SiteSettings
}

// New creates an empty store.
func New() *Store {
	return &Store{now: time.Now}
}

func (s *Store) Events() *Events               { return &Events{s} }
func (s *Store) Participants() *Participants   { return &Participants{s} }
func (s *Store) Registrations() *Registrations { return &Registrations{s} }
func (s *Store) Subscriptions() *Subscriptions { return &Subscriptions{s} }
func (s *Store) Newsletters() *Newsletters     { return &Newsletters{s} }
func (s *Store) Testimonials() *Testimonials   { return &Testimonials{s} }
func (s *Store) Pages() *Pages                 { return &Pages{s} }
func (s *Store) Settings() *Settings           { return &Settings{s} }

// Counts reports the number of records per collection.
func (s *Store) Counts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	if s.settings != nil {
		n = 1
	}
	return map[string]int{
		"events":        len(s.events),
		"participants":  len(s.participants),
		"registrations": len(s.registrations),
		"subscriptions": len(s.subscriptions),
		"newsletters":   len(s.newsletters),
		"testimonials":  len(s.testimonials),
		"pages":         len(s.pages),
		"settings":      n,
	}
}

// Events is the event collection.
type Events struct{ s *Store }

func (t *Events) Create(e *models.Event) (*models.Event, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for _, x := range t.s.events {
		if x.Slug == e.Slug {
			return nil, fmt.Errorf("create event: duplicate slug %q", e.Slug)
		}
	}
	c := *e
	c.ID = int64(len(t.s.events) + 1)
	c.CreatedAt, c.UpdatedAt = t.s.now(), t.s.now()
	t.s.events = append(t.s.events, c)
	return &c, nil
}

func (t *Events) FindByID(id int64) (*models.Event, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for _, e := range t.s.events {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, nil
}

func (t *Events) FindPublishedBySlug(slug string) (*models.Event, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for _, e := range t.s.events {
		if e.Slug == slug && e.Published {
			return &e, nil
		}
	}
	return nil, nil
}

func (t *Events) ListUpcoming(today time.Time) ([]models.EventSummary, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	var items []models.EventSummary
	for _, e := range t.s.events {
		if !e.Published || e.IsPast(today) {
			continue
		}
		items = append(items, models.NewEventSummary(e, t.s.countConfirmed(e.ID)))
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if !a.EventDate.Equal(b.EventDate) {
			return a.EventDate.Before(b.EventDate)
		}
		return a.StartTime < b.StartTime
	})
	return items, nil
}

// Participants is the participant collection.
type Participants struct{ s *Store }

func (t *Participants) Create(p *models.Participant) (*models.Participant, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for _, x := range t.s.participants {
		if x.Email == p.Email {
			return nil, fmt.Errorf("create participant: duplicate email %q", p.Email)
		}
	}
	c := *p
	c.ID = int64(len(t.s.participants) + 1)
	c.CreatedAt, c.UpdatedAt = t.s.now(), t.s.now()
	t.s.participants = append(t.s.participants, c)
	return &c, nil
}

func (t *Participants) FindByID(id int64) (*models.Participant, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for _, p := range t.s.participants {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (t *Participants) FindByEmail(email string) (*models.Participant, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for _, p := range t.s.participants {
		if p.Email == email {
			return &p, nil
		}
	}
	return nil, nil
}

func (t *Participants) Update(p *models.Participant) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for i := range t.s.participants {
		x := &t.s.participants[i]
		if x.ID == p.ID {
			x.FirstName, x.LastName, x.Phone = p.FirstName, p.LastName, p.Phone
			x.UpdatedAt = t.s.now()
			return nil
		}
	}
	return fmt.Errorf("update participant: %d not found", p.ID)
}

// Registrations is the registration collection.
type Registrations struct{ s *Store }

func (t *Registrations) Create(r *models.Registration) (*models.Registration, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	c := *r
	c.ID = int64(len(t.s.registrations) + 1)
	c.CreatedAt = t.s.now()
	t.s.registrations = append(t.s.registrations, c)
	return &c, nil
}

func (t *Registrations) FindActive(eventID, participantID int64) (*models.Registration, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for i := len(t.s.registrations) - 1; i >= 0; i-- {
		r := t.s.registrations[i]
		if r.EventID == eventID && r.ParticipantID == participantID && r.IsActive() {
			return &r, nil
		}
	}
	return nil, nil
}

func (t *Registrations) CountConfirmed(eventID int64) (int, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return t.s.countConfirmed(eventID), nil
}

// All returns every registration in insertion order.
func (t *Registrations) All() []models.Registration {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return append([]models.Registration(nil), t.s.registrations...)
}

func (s *Store) countConfirmed(eventID int64) int {
	n := 0
	for _, r := range s.registrations {
		if r.EventID == eventID && r.Status == models.RegistrationConfirmed {
			n++
		}
	}
	return n
}

// Subscriptions is the newsletter subscription collection.
type Subscriptions struct{ s *Store }

func (t *Subscriptions) Create(sub *models.NewsletterSubscription) (*models.NewsletterSubscription, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	c := *sub
	if c.Token == "" {
		c.Token = models.NewToken()
	}
	if c.ConfirmToken == "" {
		c.ConfirmToken = models.NewToken()
	}
	for _, x := range t.s.subscriptions {
		if x.Token == c.Token || x.ConfirmToken == c.ConfirmToken {
			return nil, fmt.Errorf("create subscription: duplicate token")
		}
	}
	c.ID = int64(len(t.s.subscriptions) + 1)
	c.CreatedAt = t.s.now()
	t.s.subscriptions = append(t.s.subscriptions, c)
	return &c, nil
}

func (t *Subscriptions) FindByParticipant(participantID int64, status models.SubscriptionStatus) (*models.NewsletterSubscription, error) {
	return t.find(func(x *models.NewsletterSubscription) bool {
		return x.ParticipantID == participantID && x.Status == status
	})
}

func (t *Subscriptions) FindByToken(token string) (*models.NewsletterSubscription, error) {
	return t.find(func(x *models.NewsletterSubscription) bool { return x.Token == token })
}

func (t *Subscriptions) FindByConfirmToken(token string) (*models.NewsletterSubscription, error) {
	return t.find(func(x *models.NewsletterSubscription) bool { return x.ConfirmToken == token })
}

func (t *Subscriptions) find(match func(*models.NewsletterSubscription) bool) (*models.NewsletterSubscription, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for i := len(t.s.subscriptions) - 1; i >= 0; i-- {
		if x := t.s.subscriptions[i]; match(&x) {
			return &x, nil
		}
	}
	return nil, nil
}

func (t *Subscriptions) UpdateStatus(id int64, status models.SubscriptionStatus, at time.Time) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for i := range t.s.subscriptions {
		x := &t.s.subscriptions[i]
		if x.ID != id {
			continue
		}
		x.Status = status
		switch status {
		case models.SubscriptionConfirmed:
			x.ConfirmedAt = &at
		case models.SubscriptionUnsubscribed:
			x.UnsubscribedAt = &at
		default:
			x.RequestedAt = &at
		}
		return nil
	}
	return fmt.Errorf("update subscription status: %d not found", id)
}

func (t *Subscriptions) ListConfirmedRecipients() ([]models.Recipient, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	var items []models.Recipient
	for _, sub := range t.s.subscriptions {
		if sub.Status != models.SubscriptionConfirmed {
			continue
		}
		for _, p := range t.s.participants {
			if p.ID == sub.ParticipantID {
				items = append(items, models.Recipient{
					SubscriptionID: sub.ID, Email: p.Email, FirstName: p.FirstName, Token: sub.Token,
				})
				break
			}
		}
	}
	return items, nil
}

// All returns every subscription in insertion order.
func (t *Subscriptions) All() []models.NewsletterSubscription {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return append([]models.NewsletterSubscription(nil), t.s.subscriptions...)
}

// Newsletters is the newsletter collection.
type Newsletters struct{ s *Store }

func (t *Newsletters) Create(n *models.Newsletter) (*models.Newsletter, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	c := *n
	if c.Status == "" {
		c.Status = models.NewsletterDraft
	}
	c.ID = int64(len(t.s.newsletters) + 1)
	c.CreatedAt = t.s.now()
	t.s.newsletters = append(t.s.newsletters, c)
	return &c, nil
}

func (t *Newsletters) FindByID(id int64) (*models.Newsletter, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for _, n := range t.s.newsletters {
		if n.ID == id {
			return &n, nil
		}
	}
	return nil, nil
}

func (t *Newsletters) BeginSending(id int64) (bool, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for i := range t.s.newsletters {
		n := &t.s.newsletters[i]
		if n.ID == id && n.Status == models.NewsletterDraft {
			n.Status = models.NewsletterSending
			return true, nil
		}
	}
	return false, nil
}

func (t *Newsletters) ResetSending(id int64) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for i := range t.s.newsletters {
		n := &t.s.newsletters[i]
		if n.ID == id && n.Status == models.NewsletterSending {
			n.Status = models.NewsletterDraft
		}
	}
	return nil
}

func (t *Newsletters) MarkSent(id int64, sentAt time.Time, recipients int) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for i := range t.s.newsletters {
		n := &t.s.newsletters[i]
		if n.ID == id {
			n.Status = models.NewsletterSent
			n.SentAt = &sentAt
			n.RecipientsCount = recipients
			return nil
		}
	}
	return fmt.Errorf("mark newsletter sent: %d not found", id)
}

// Testimonials is the testimonial collection.
type Testimonials struct{ s *Store }

func (t *Testimonials) Create(x *models.Testimonial) (*models.Testimonial, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	c := *x
	c.ID = int64(len(t.s.testimonials) + 1)
	c.CreatedAt = t.s.now()
	t.s.testimonials = append(t.s.testimonials, c)
	return &c, nil
}

func (t *Testimonials) ListPublished() ([]models.Testimonial, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	var items []models.Testimonial
	for _, x := range t.s.testimonials {
		if x.Published {
			items = append(items, x)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].SortOrder != items[j].SortOrder {
			return items[i].SortOrder < items[j].SortOrder
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

// Pages is the page collection.
type Pages struct{ s *Store }

func (t *Pages) Create(p *models.Page) (*models.Page, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for _, x := range t.s.pages {
		if x.Slug == p.Slug {
			return nil, fmt.Errorf("create page: duplicate slug %q", p.Slug)
		}
	}
	c := *p
	if c.Blocks == nil {
		c.Blocks = models.BlockList{}
	}
	c.ID = int64(len(t.s.pages) + 1)
	c.CreatedAt, c.UpdatedAt = t.s.now(), t.s.now()
	t.s.pages = append(t.s.pages, c)
	return &c, nil
}

func (t *Pages) FindByID(id int64) (*models.Page, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for _, p := range t.s.pages {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, nil
}

func (t *Pages) FindPublishedBySlug(slug string) (*models.Page, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	for _, p := range t.s.pages {
		if p.Published && p.Slug == slug {
			return &p, nil
		}
	}
	return nil, nil
}

// Settings is the site settings singleton.
type Settings struct{ s *Store }

// Get returns the saved settings, or defaults when nothing was saved.
func (t *Settings) Get() (*models.SiteSettings, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if t.s.settings == nil {
		return &models.SiteSettings{SiteName: models.DefaultSiteName, SocialLinks: []models.SocialLink{}}, nil
	}
	c := *t.s.settings
	return &c, nil
}

func (t *Settings) Save(st *models.SiteSettings) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	c := *st
	c.UpdatedAt = t.s.now()
	t.s.settings = &c
	return nil
}
