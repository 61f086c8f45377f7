// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"menscircle/internal/richtext"
)

// Page is a content page assembled from an ordered list of blocks.
type Page struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Blocks          BlockList `json:"content"`
	MetaTitle       *string   `json:"metaTitle,omitempty"`
	MetaDescription *string   `json:"metaDescription,omitempty"`
	Published       bool      `json:"published"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// BlockType is the discriminator of a page block.
type BlockType string

const (
	BlockHero              BlockType = "hero"
	BlockIntro             BlockType = "intro"
	BlockValueItems        BlockType = "valueItems"
	BlockTextSection       BlockType = "textSection"
	BlockTestimonials      BlockType = "testimonials"
	BlockModerator         BlockType = "moderator"
	BlockJourneySteps      BlockType = "journeySteps"
	BlockFAQ               BlockType = "faq"
	BlockNewsletter        BlockType = "newsletter"
	BlockCTA               BlockType = "cta"
	BlockWhatsAppCommunity BlockType = "whatsappCommunity"
)

// Block is one variant of the page block union.
type Block interface {
	BlockType() BlockType
}

type HeroBlock struct {
	ID          string  `json:"id,omitempty"`
	Label       *string `json:"label"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	CTAText     *string `json:"ctaText"`
	CTALink     *string `json:"ctaLink"`
}

type IntroBlock struct {
	ID      string  `json:"id,omitempty"`
	Eyebrow *string `json:"eyebrow"`
	Title   string  `json:"title"`
	Text    string  `json:"text"`
	Quote   *string `json:"quote"`
}

type ValueItem struct {
	Number *string `json:"number"`
	Title  string  `json:"title"`
	Text   string  `json:"text"`
}

type ValueItemsBlock struct {
	ID    string      `json:"id,omitempty"`
	Items []ValueItem `json:"items"`
}

type TextSectionBlock struct {
	ID      string            `json:"id,omitempty"`
	Eyebrow *string           `json:"eyebrow"`
	Title   *string           `json:"title"`
	Content richtext.Document `json:"content"`
}

// TestimonialsBlock renders the published testimonials; it has no fields.
type TestimonialsBlock struct {
	ID string `json:"id,omitempty"`
}

type ModeratorBlock struct {
	ID    string  `json:"id,omitempty"`
	Name  string  `json:"name"`
	Bio   string  `json:"bio"`
	Quote *string `json:"quote"`
}

type JourneyStep struct {
	Number string `json:"number"`
	Title  string `json:"title"`
	Text   string `json:"text"`
}

type JourneyStepsBlock struct {
	ID      string        `json:"id,omitempty"`
	Eyebrow *string       `json:"eyebrow"`
	Title   *string       `json:"title"`
	Steps   []JourneyStep `json:"steps"`
}

type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type FAQBlock struct {
	ID      string    `json:"id,omitempty"`
	Eyebrow *string   `json:"eyebrow"`
	Title   *string   `json:"title"`
	Items   []FAQItem `json:"items"`
}

type NewsletterBlock struct {
	ID      string  `json:"id,omitempty"`
	Eyebrow *string `json:"eyebrow"`
	Title   *string `json:"title"`
	Text    *string `json:"text"`
}

type CTABlock struct {
	ID         string  `json:"id,omitempty"`
	Eyebrow    *string `json:"eyebrow"`
	Title      string  `json:"title"`
	Text       *string `json:"text"`
	ButtonText *string `json:"buttonText"`
	ButtonLink *string `json:"buttonLink"`
}

// WhatsAppCommunityBlock renders the community invite; it has no fields.
type WhatsAppCommunityBlock struct {
	ID string `json:"id,omitempty"`
}

func (HeroBlock) BlockType() BlockType              { return BlockHero }
func (IntroBlock) BlockType() BlockType             { return BlockIntro }
func (ValueItemsBlock) BlockType() BlockType        { return BlockValueItems }
func (TextSectionBlock) BlockType() BlockType       { return BlockTextSection }
func (TestimonialsBlock) BlockType() BlockType      { return BlockTestimonials }
func (ModeratorBlock) BlockType() BlockType         { return BlockModerator }
func (JourneyStepsBlock) BlockType() BlockType      { return BlockJourneySteps }
func (FAQBlock) BlockType() BlockType               { return BlockFAQ }
func (NewsletterBlock) BlockType() BlockType        { return BlockNewsletter }
func (CTABlock) BlockType() BlockType               { return BlockCTA }
func (WhatsAppCommunityBlock) BlockType() BlockType { return BlockWhatsAppCommunity }

// blockFactories maps a discriminator to a constructor for decoding.
var blockFactories = map[BlockType]func() Block{
	BlockHero:              func() Block { return &HeroBlock{} },
	BlockIntro:             func() Block { return &IntroBlock{} },
	BlockValueItems:        func() Block { return &ValueItemsBlock{} },
	BlockTextSection:       func() Block { return &TextSectionBlock{} },
	BlockTestimonials:      func() Block { return &TestimonialsBlock{} },
	BlockModerator:         func() Block { return &ModeratorBlock{} },
	BlockJourneySteps:      func() Block { return &JourneyStepsBlock{} },
	BlockFAQ:               func() Block { return &FAQBlock{} },
	BlockNewsletter:        func() Block { return &NewsletterBlock{} },
	BlockCTA:               func() Block { return &CTABlock{} },
	BlockWhatsAppCommunity: func() Block { return &WhatsAppCommunityBlock{} },
}

// BlockList is an ordered list of page blocks. Each block is serialized as
// its own fields plus a "blockType" discriminator.
type BlockList []Block

// MarshalJSON encodes every block with its discriminator.
func (l BlockList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, b := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		raw, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encode %s block: %w", b.BlockType(), err)
		}
		buf.WriteString(`{"blockType":"` + string(b.BlockType()) + `"`)
		if len(raw) > 2 {
			buf.WriteByte(',')
			buf.Write(raw[1:])
		} else {
			buf.WriteByte('}')
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes blocks by their discriminator. Unknown block types
// are an error.
func (l *BlockList) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return fmt.Errorf("decode blocks: %w", err)
	}
	out := make(BlockList, 0, len(raws))
	for _, raw := range raws {
		var head struct {
			BlockType BlockType `json:"blockType"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			return fmt.Errorf("decode block type: %w", err)
		}
		factory, ok := blockFactories[head.BlockType]
		if !ok {
			return fmt.Errorf("unknown block type %q", head.BlockType)
		}
		b := factory()
		if err := json.Unmarshal(raw, b); err != nil {
			return fmt.Errorf("decode %s block: %w", head.BlockType, err)
		}
		out = append(out, deref(b))
	}
	*l = out
	return nil
}

// deref returns the value form of a decoded block so decoded lists compare
// equal to lists built from value blocks.
func deref(b Block) Block {
	switch v := b.(type) {
	case *HeroBlock:
		return *v
	case *IntroBlock:
		return *v
	case *ValueItemsBlock:
		return *v
	case *TextSectionBlock:
		return *v
	case *TestimonialsBlock:
		return *v
	case *ModeratorBlock:
		return *v
	case *JourneyStepsBlock:
		return *v
	case *FAQBlock:
		return *v
	case *NewsletterBlock:
		return *v
	case *CTABlock:
		return *v
	case *WhatsAppCommunityBlock:
		return *v
	}
	return b
}
