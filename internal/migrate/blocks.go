// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package migrate

import (
	"log/slog"

	"github.com/google/uuid"

	"menscircle/internal/models"
	"menscircle/internal/richtext"
)

// Legacy block payloads. Only the fields that carry over are decoded.

type heroData struct {
	Label       string `json:"label"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ButtonText  string `json:"button_text"`
	ButtonLink  string `json:"button_link"`
}

type introData struct {
	Eyebrow string `json:"eyebrow"`
	Title   string `json:"title"`
	Text    string `json:"text"`
	Quote   string `json:"quote"`
	Values  []struct {
		Number      flexText `json:"number"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
	} `json:"values"`
}

type textSectionData struct {
	Eyebrow string `json:"eyebrow"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

type moderatorData struct {
	Name  string `json:"name"`
	Bio   string `json:"bio"`
	Quote string `json:"quote"`
}

type journeyStepsData struct {
	Eyebrow string `json:"eyebrow"`
	Title   string `json:"title"`
	Steps   []struct {
		Number      flexText `json:"number"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
	} `json:"steps"`
}

type faqData struct {
	Eyebrow string `json:"eyebrow"`
	Title   string `json:"title"`
	Items   []struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	} `json:"items"`
}

type sectionData struct {
	Eyebrow    string `json:"eyebrow"`
	Title      string `json:"title"`
	Text       string `json:"text"`
	ButtonText string `json:"button_text"`
	ButtonLink string `json:"button_link"`
}

// ConvertBlock maps one legacy content block to page blocks. An intro with
// values expands into an intro followed by a valueItems block. Unknown
// types and undecodable payloads yield no blocks and a warning.
func ConvertBlock(b SourceContentBlock) []models.Block {
	id := b.BlockID
	if id == "" {
		id = uuid.NewString()
	}

	switch b.Type {
	case "hero":
		var d heroData
		if !decodeBlock(b, &d) {
			return nil
		}
		return []models.Block{models.HeroBlock{
			ID:          id,
			Label:       optional(d.Label),
			Title:       d.Title,
			Description: optional(d.Description),
			CTAText:     optional(d.ButtonText),
			CTALink:     optional(d.ButtonLink),
		}}

	case "intro":
		var d introData
		if !decodeBlock(b, &d) {
			return nil
		}
		out := []models.Block{models.IntroBlock{
			ID:      id,
			Eyebrow: optional(d.Eyebrow),
			Title:   d.Title,
			Text:    d.Text,
			Quote:   optional(d.Quote),
		}}
		if len(d.Values) > 0 {
			items := make([]models.ValueItem, len(d.Values))
			for i, v := range d.Values {
				items[i] = models.ValueItem{
					Number: optional(string(v.Number)),
					Title:  v.Title,
					Text:   v.Description,
				}
			}
			out = append(out, models.ValueItemsBlock{ID: id + "-values", Items: items})
		}
		return out

	case "text_section":
		var d textSectionData
		if !decodeBlock(b, &d) {
			return nil
		}
		return []models.Block{models.TextSectionBlock{
			ID:      id,
			Eyebrow: optional(d.Eyebrow),
			Title:   optional(d.Title),
			Content: richtext.FromHTML(d.Content),
		}}

	case "testimonials":
		return []models.Block{models.TestimonialsBlock{ID: id}}

	case "moderator":
		var d moderatorData
		if !decodeBlock(b, &d) {
			return nil
		}
		return []models.Block{models.ModeratorBlock{
			ID:    id,
			Name:  d.Name,
			Bio:   d.Bio,
			Quote: optional(d.Quote),
		}}

	case "journey_steps":
		var d journeyStepsData
		if !decodeBlock(b, &d) {
			return nil
		}
		steps := make([]models.JourneyStep, len(d.Steps))
		for i, s := range d.Steps {
			steps[i] = models.JourneyStep{Number: string(s.Number), Title: s.Title, Text: s.Description}
		}
		return []models.Block{models.JourneyStepsBlock{
			ID:      id,
			Eyebrow: optional(d.Eyebrow),
			Title:   optional(d.Title),
			Steps:   steps,
		}}

	case "faq":
		var d faqData
		if !decodeBlock(b, &d) {
			return nil
		}
		items := make([]models.FAQItem, len(d.Items))
		for i, it := range d.Items {
			items[i] = models.FAQItem{Question: it.Question, Answer: it.Answer}
		}
		return []models.Block{models.FAQBlock{
			ID:      id,
			Eyebrow: optional(d.Eyebrow),
			Title:   optional(d.Title),
			Items:   items,
		}}

	case "newsletter":
		var d sectionData
		if !decodeBlock(b, &d) {
			return nil
		}
		return []models.Block{models.NewsletterBlock{
			ID:      id,
			Eyebrow: optional(d.Eyebrow),
			Title:   optional(d.Title),
			Text:    optional(d.Text),
		}}

	case "cta":
		var d sectionData
		if !decodeBlock(b, &d) {
			return nil
		}
		return []models.Block{models.CTABlock{
			ID:         id,
			Eyebrow:    optional(d.Eyebrow),
			Title:      d.Title,
			Text:       optional(d.Text),
			ButtonText: optional(d.ButtonText),
			ButtonLink: optional(d.ButtonLink),
		}}

	case "whatsapp_community":
		return []models.Block{models.WhatsAppCommunityBlock{ID: id}}
	}

	slog.Warn("unknown block type, skipped", "block", b.ID, "type", b.Type, "page", b.PageID)
	return nil
}

// decodeBlock decodes the block payload into v, logging a warning on
// failure.
func decodeBlock(b SourceContentBlock, v any) bool {
	if err := b.Data.decode(v, "{}"); err != nil {
		slog.Warn("malformed block payload, skipped", "block", b.ID, "type", b.Type, "page", b.PageID, "error", err)
		return false
	}
	return true
}
