// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package migrate imports the legacy relational export into the new content
// model. Records are created one by one in dependency order; legacy integer
// keys are remapped to the destination IDs so later collections can refer
// to earlier ones. A failing record is logged and counted, never fatal.
package migrate

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"time"

	"menscircle/internal/models"
	"menscircle/internal/richtext"
	"menscircle/internal/slug"
)

const (
	// Placeholder for missing participant names.
	unknownName = "(unbekannt)"
	// Placeholder address for testimonials, which had no email column.
	unknownEmail = "unbekannt@mens-circle.de"
	// location_details value of events held online.
	onlineLocation = "Online-Veranstaltung"
	// Legacy ID of the home page.
	homepageLegacyID = 1
)

// addressPattern splits "Street 1, 94315 City" into its parts.
var addressPattern = regexp.MustCompile(`^(.+?),\s*(\d{5})\s+(.+)$`)

// Creator stores one new record and returns it with its destination ID.
type Creator[T any] interface {
	Create(*T) (*T, error)
}

// SettingsSaver replaces the site settings singleton.
type SettingsSaver interface {
	Save(*models.SiteSettings) error
}

// Destination receives the migrated records. Both the PostgreSQL stores and
// the in-memory store satisfy it.
type Destination struct {
	Events        Creator[models.Event]
	Participants  Creator[models.Participant]
	Registrations Creator[models.Registration]
	Subscriptions Creator[models.NewsletterSubscription]
	Newsletters   Creator[models.Newsletter]
	Testimonials  Creator[models.Testimonial]
	Pages         Creator[models.Page]
	Settings      SettingsSaver
}

// Engine runs a migration. The ID maps are filled during Run.
type Engine struct {
	dest Destination

	EventIDs       IDMap
	ParticipantIDs IDMap
	PageIDs        IDMap
}

// NewEngine creates an engine writing to dest.
func NewEngine(dest Destination) *Engine {
	return &Engine{
		dest:           dest,
		EventIDs:       IDMap{},
		ParticipantIDs: IDMap{},
		PageIDs:        IDMap{},
	}
}

type outcome int

const (
	created outcome = iota
	skipped
)

// stage migrates the n records of one collection.
type stage struct {
	entity Entity
	n      int
	fn     func(i int) (outcome, error)
}

// Run migrates the snapshot in dependency order. It stops early only when
// ctx is cancelled; the report then records the reason.
func (e *Engine) Run(ctx context.Context, snap *Snapshot) *Report {
	r := newReport()
	defer func() { r.FinishedAt = time.Now() }()

	blocksByPage := groupBlocks(snap.ContentBlocks)
	stages := []stage{
		{EntityEvents, len(snap.Events), func(i int) (outcome, error) { return e.migrateEvent(snap.Events[i]) }},
		{EntityParticipants, len(snap.Participants), func(i int) (outcome, error) { return e.migrateParticipant(snap.Participants[i]) }},
		{EntityRegistrations, len(snap.Registrations), func(i int) (outcome, error) { return e.migrateRegistration(snap.Registrations[i]) }},
		{EntitySubscriptions, len(snap.Subscriptions), func(i int) (outcome, error) { return e.migrateSubscription(snap.Subscriptions[i]) }},
		{EntityNewsletters, len(snap.Newsletters), func(i int) (outcome, error) { return e.migrateNewsletter(snap.Newsletters[i]) }},
		{EntityTestimonials, len(snap.Testimonials), func(i int) (outcome, error) { return e.migrateTestimonial(snap.Testimonials[i]) }},
		{EntityPages, len(snap.Pages), func(i int) (outcome, error) {
			return e.migratePage(snap.Pages[i], blocksByPage[snap.Pages[i].ID])
		}},
		{EntitySettings, 1, func(int) (outcome, error) { return e.migrateSettings(snap.Settings) }},
	}

	for _, st := range stages {
		slog.Info("migrating", "entity", st.entity, "records", st.n)
		stats := r.Entities[st.entity]
		stats.Total = st.n
		for i := 0; i < st.n; i++ {
			if err := ctx.Err(); err != nil {
				r.Aborted = err.Error()
				return r
			}
			res, err := st.fn(i)
			switch {
			case err != nil:
				stats.Failed++
				slog.Error("migrate record failed", "entity", st.entity, "error", err)
			case res == skipped:
				stats.Skipped++
			default:
				stats.Created++
			}
		}
	}
	return r
}

func (e *Engine) migrateEvent(src SourceEvent) (outcome, error) {
	date, err := eventDay(src.EventDate)
	if err != nil {
		return 0, fmt.Errorf("event %s: parse date: %w", src.Slug, err)
	}

	street, zip, city := deref(src.Street), deref(src.PostalCode), deref(src.City)
	if street == "" && src.LocationDetails != "" && src.LocationDetails != onlineLocation {
		if m := addressPattern.FindStringSubmatch(src.LocationDetails); m != nil {
			street, zip, city = m[1], m[2], m[3]
		}
	}

	eventSlug := src.Slug
	if eventSlug == "" {
		eventSlug = slug.Generate(src.Title)
	}

	ev, err := e.dest.Events.Create(&models.Event{
		Title:           src.Title,
		Slug:            eventSlug,
		Description:     src.Description,
		EventDate:       date,
		StartTime:       clockTime(src.StartTime),
		EndTime:         clockTime(src.EndTime),
		Location:        src.Location,
		Street:          optional(street),
		Zip:             optional(zip),
		City:            optional(city),
		MaxParticipants: src.MaxParticipants,
		CostBasis:       src.CostBasis,
		Published:       bool(src.IsPublished),
	})
	if err != nil {
		return 0, fmt.Errorf("event %s: %w", eventSlug, err)
	}
	e.EventIDs[src.ID] = ev.ID
	slog.Debug("event migrated", "slug", ev.Slug, "legacy_id", src.ID, "id", ev.ID)
	return created, nil
}

// eventDay reads the date part of "2024-05-19 00:00:00" or an RFC 3339
// timestamp.
func eventDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if len(s) > len(time.DateOnly) {
		s = s[:len(time.DateOnly)]
	}
	return time.Parse(time.DateOnly, s)
}

// clockTime cuts "19:00:00" to "19:00".
func clockTime(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 5 {
		return s[:5]
	}
	return s
}

func (e *Engine) migrateParticipant(src SourceParticipant) (outcome, error) {
	first, last := deref(src.FirstName), deref(src.LastName)
	if first == "" {
		first = unknownName
	}
	if last == "" {
		last = unknownName
	}
	p, err := e.dest.Participants.Create(&models.Participant{
		FirstName: first,
		LastName:  last,
		Email:     strings.ToLower(strings.TrimSpace(src.Email)),
		Phone:     optional(deref(src.Phone)),
	})
	if err != nil {
		return 0, fmt.Errorf("participant %s: %w", src.Email, err)
	}
	e.ParticipantIDs[src.ID] = p.ID
	slog.Debug("participant migrated", "email", p.Email, "legacy_id", src.ID, "id", p.ID)
	return created, nil
}

func (e *Engine) migrateRegistration(src SourceRegistration) (outcome, error) {
	eventID, ok := e.EventIDs.Lookup(src.EventID)
	if !ok {
		slog.Warn("registration skipped, event not migrated", "registration", src.ID, "event", src.EventID)
		return skipped, nil
	}
	participantID, ok := e.ParticipantIDs.Lookup(src.ParticipantID)
	if !ok {
		slog.Warn("registration skipped, participant not migrated", "registration", src.ID, "participant", src.ParticipantID)
		return skipped, nil
	}
	consent, err := parseTimestamp(src.RegisteredAt)
	if err != nil {
		return 0, fmt.Errorf("registration %d: %w", src.ID, err)
	}

	status := models.RegistrationConfirmed
	if src.Status == string(models.RegistrationCancelled) {
		status = models.RegistrationCancelled
	}
	if _, err := e.dest.Registrations.Create(&models.Registration{
		EventID:          eventID,
		ParticipantID:    participantID,
		Status:           status,
		ConsentTimestamp: consent,
	}); err != nil {
		return 0, fmt.Errorf("registration %d: %w", src.ID, err)
	}
	return created, nil
}

func (e *Engine) migrateSubscription(src SourceSubscription) (outcome, error) {
	participantID, ok := e.ParticipantIDs.Lookup(src.ParticipantID)
	if !ok {
		slog.Warn("subscription skipped, participant not migrated", "subscription", src.ID, "participant", src.ParticipantID)
		return skipped, nil
	}
	requested, err := firstTimestamp(src.SubscribedAt, src.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("subscription %d: %w", src.ID, err)
	}
	confirmed, err := parseTimestamp(src.ConfirmedAt)
	if err != nil {
		return 0, fmt.Errorf("subscription %d: %w", src.ID, err)
	}
	unsubscribed, err := parseTimestamp(src.UnsubscribedAt)
	if err != nil {
		return 0, fmt.Errorf("subscription %d: %w", src.ID, err)
	}

	status := models.DeriveSubscriptionStatus(confirmed, unsubscribed)
	if _, err := e.dest.Subscriptions.Create(&models.NewsletterSubscription{
		ParticipantID:  participantID,
		Status:         status,
		Token:          src.Token,
		RequestedAt:    requested,
		ConfirmedAt:    confirmed,
		UnsubscribedAt: unsubscribed,
	}); err != nil {
		return 0, fmt.Errorf("subscription %d: %w", src.ID, err)
	}
	slog.Debug("subscription migrated", "participant", src.ParticipantID, "status", status)
	return created, nil
}

func (e *Engine) migrateNewsletter(src SourceNewsletter) (outcome, error) {
	status := models.NewsletterStatus(src.Status)
	switch status {
	case models.NewsletterDraft, models.NewsletterSending, models.NewsletterSent:
	default:
		return 0, fmt.Errorf("newsletter %q: unknown status %q", src.Subject, src.Status)
	}
	sentAt, err := parseTimestamp(src.SentAt)
	if err != nil {
		return 0, fmt.Errorf("newsletter %q: %w", src.Subject, err)
	}
	if _, err := e.dest.Newsletters.Create(&models.Newsletter{
		Subject:         src.Subject,
		Content:         richtext.FromHTML(src.Content),
		Status:          status,
		SentAt:          sentAt,
		RecipientsCount: src.RecipientCount,
	}); err != nil {
		return 0, fmt.Errorf("newsletter %q: %w", src.Subject, err)
	}
	slog.Debug("newsletter migrated", "subject", src.Subject, "status", status)
	return created, nil
}

func (e *Engine) migrateTestimonial(src SourceTestimonial) (outcome, error) {
	if src.DeletedAt != nil {
		slog.Info("testimonial skipped, soft-deleted", "testimonial", src.ID)
		return skipped, nil
	}
	publishedAt, err := parseTimestamp(src.PublishedAt)
	if err != nil {
		return 0, fmt.Errorf("testimonial %d: %w", src.ID, err)
	}
	if _, err := e.dest.Testimonials.Create(&models.Testimonial{
		Content:     src.Quote,
		AuthorName:  optional(deref(src.AuthorName)),
		AuthorRole:  optional(deref(src.Role)),
		Email:       unknownEmail,
		Published:   bool(src.IsPublished),
		PublishedAt: publishedAt,
		SortOrder:   src.SortOrder,
	}); err != nil {
		return 0, fmt.Errorf("testimonial %d: %w", src.ID, err)
	}
	return created, nil
}

// groupBlocks indexes blocks by page, each list sorted by order. Blocks
// with equal order keep their export order.
func groupBlocks(blocks []SourceContentBlock) map[int64][]SourceContentBlock {
	byPage := make(map[int64][]SourceContentBlock)
	for _, b := range blocks {
		byPage[b.PageID] = append(byPage[b.PageID], b)
	}
	for _, list := range byPage {
		sort.SliceStable(list, func(i, j int) bool { return list[i].Order < list[j].Order })
	}
	return byPage
}

func (e *Engine) migratePage(src SourcePage, blocks []SourceContentBlock) (outcome, error) {
	var meta struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := src.Meta.decode(&meta, "{}"); err != nil {
		return 0, fmt.Errorf("page %q: decode meta: %w", src.Title, err)
	}

	content := models.BlockList{}
	for _, b := range blocks {
		content = append(content, ConvertBlock(b)...)
	}

	p, err := e.dest.Pages.Create(&models.Page{
		Title:           src.Title,
		Slug:            src.Slug,
		Blocks:          content,
		MetaTitle:       optional(meta.Title),
		MetaDescription: optional(meta.Description),
		Published:       bool(src.IsPublished),
	})
	if err != nil {
		return 0, fmt.Errorf("page %q: %w", src.Title, err)
	}
	e.PageIDs[src.ID] = p.ID
	slog.Debug("page migrated", "slug", p.Slug, "legacy_id", src.ID, "id", p.ID, "blocks", len(content))
	return created, nil
}

type legacySocialLink struct {
	Icon  string  `json:"icon"`
	Label *string `json:"label"`
	Value string  `json:"value"`
}

func (e *Engine) migrateSettings(src []SourceSetting) (outcome, error) {
	byName := make(map[string]SourceSetting, len(src))
	for _, s := range src {
		byName[s.Name] = s
	}

	text := func(name string) (*string, error) {
		s, ok := byName[name]
		if !ok {
			return nil, nil
		}
		var v flexText
		if err := s.Payload.decode(&v, "null"); err != nil {
			return nil, fmt.Errorf("settings: decode %s: %w", name, err)
		}
		return optional(string(v)), nil
	}

	var links []legacySocialLink
	if s, ok := byName["social_links"]; ok {
		if err := s.Payload.decode(&links, "[]"); err != nil {
			return 0, fmt.Errorf("settings: decode social_links: %w", err)
		}
	}
	social := make([]models.SocialLink, 0, len(links)+1)
	for _, l := range links {
		platform := models.PlatformWebsite
		if l.Icon == "envelope" || strings.Contains(deref(l.Label), "@") {
			platform = models.PlatformEmail
		}
		social = append(social, models.SocialLink{Platform: platform, URL: l.Value, Label: optional(deref(l.Label))})
	}

	whatsapp, err := text("whatsapp_community_link")
	if err != nil {
		return 0, err
	}
	if whatsapp != nil {
		label := "WhatsApp Community"
		social = append(social, models.SocialLink{Platform: models.PlatformWhatsApp, URL: *whatsapp, Label: &label})
	}

	st := &models.SiteSettings{SiteName: models.DefaultSiteName, SocialLinks: social}
	for name, dst := range map[string]**string{
		"site_description": &st.SiteDescription,
		"contact_email":    &st.ContactEmail,
		"contact_phone":    &st.ContactPhone,
		"footer_text":      &st.FooterText,
	} {
		if *dst, err = text(name); err != nil {
			return 0, err
		}
	}
	name, err := text("site_name")
	if err != nil {
		return 0, err
	}
	if name != nil {
		st.SiteName = *name
	}
	if id, ok := e.PageIDs.Lookup(homepageLegacyID); ok {
		st.HomepageID = &id
	}

	if err := e.dest.Settings.Save(st); err != nil {
		return 0, fmt.Errorf("settings: %w", err)
	}
	slog.Info("site settings migrated", "social_links", len(social))
	return created, nil
}
