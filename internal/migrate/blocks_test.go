package migrate

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menscircle/internal/models"
	"menscircle/internal/richtext"
)

func block(typ, id, data string) SourceContentBlock {
	return SourceContentBlock{ID: 1, Type: typ, BlockID: id, Data: jsonText(data), PageID: 1}
}

func TestConvertBlockHero(t *testing.T) {
	got := ConvertBlock(block("hero", "h1", `{"label":"","title":"Willkommen","description":"Text","button_text":"Mehr","button_link":"/events"}`))
	require.Len(t, got, 1)
	hero, ok := got[0].(models.HeroBlock)
	require.True(t, ok)
	assert.Equal(t, "h1", hero.ID)
	assert.Nil(t, hero.Label)
	assert.Equal(t, "Willkommen", hero.Title)
	assert.Equal(t, "Mehr", *hero.CTAText)
	assert.Equal(t, "/events", *hero.CTALink)
}

func TestConvertBlockIntroExpandsValues(t *testing.T) {
	got := ConvertBlock(block("intro", "i1", `{
		"title":"Was uns ausmacht","text":"...","quote":null,
		"values":[{"number":1,"title":"Ehrlichkeit","description":"offen"},{"number":null,"title":"Respekt","description":"zuhören"}]
	}`))
	require.Len(t, got, 2)
	assert.Equal(t, models.BlockIntro, got[0].BlockType())
	assert.Equal(t, models.BlockValueItems, got[1].BlockType())

	intro := got[0].(models.IntroBlock)
	assert.Nil(t, intro.Quote)
	assert.Nil(t, intro.Eyebrow)

	values := got[1].(models.ValueItemsBlock)
	assert.Equal(t, "i1-values", values.ID)
	require.Len(t, values.Items, 2)
	assert.Equal(t, "1", *values.Items[0].Number)
	assert.Equal(t, "offen", values.Items[0].Text)
	assert.Nil(t, values.Items[1].Number)
}

func TestConvertBlockIntroWithoutValues(t *testing.T) {
	for _, data := range []string{`{"title":"x"}`, `{"title":"x","values":[]}`} {
		got := ConvertBlock(block("intro", "i1", data))
		require.Len(t, got, 1, data)
		assert.Equal(t, models.BlockIntro, got[0].BlockType())
	}
}

func TestConvertBlockTextSection(t *testing.T) {
	got := ConvertBlock(block("text_section", "t1", `{"title":"Über uns","content":"<p>Hallo <strong>Welt</strong></p>"}`))
	require.Len(t, got, 1)
	ts := got[0].(models.TextSectionBlock)
	assert.Equal(t, "Über uns", *ts.Title)
	assert.Equal(t, richtext.FromHTML("<p>Hallo <strong>Welt</strong></p>"), ts.Content)

	got = ConvertBlock(block("text_section", "t2", `{}`))
	require.Len(t, got, 1)
	assert.Len(t, got[0].(models.TextSectionBlock).Content.Blocks(), 1)
}

func TestConvertBlockJourneyStepsAndFAQ(t *testing.T) {
	got := ConvertBlock(block("journey_steps", "j1", `{"steps":[{"number":2,"title":"Ankommen","description":"Tee"},{"number":"03","title":"Runde","description":"Teilen"}]}`))
	require.Len(t, got, 1)
	steps := got[0].(models.JourneyStepsBlock).Steps
	require.Len(t, steps, 2)
	assert.Equal(t, models.JourneyStep{Number: "2", Title: "Ankommen", Text: "Tee"}, steps[0])
	assert.Equal(t, "03", steps[1].Number)

	got = ConvertBlock(block("faq", "f1", `{"title":"Fragen","items":[{"question":"Kosten?","answer":"Spende"}]}`))
	require.Len(t, got, 1)
	faq := got[0].(models.FAQBlock)
	assert.Equal(t, []models.FAQItem{{Question: "Kosten?", Answer: "Spende"}}, faq.Items)
}

func TestConvertBlockSimpleTypes(t *testing.T) {
	tests := []struct {
		typ  string
		data string
		want models.Block
	}{
		{"testimonials", `{}`, models.TestimonialsBlock{ID: "x"}},
		{"whatsapp_community", `{}`, models.WhatsAppCommunityBlock{ID: "x"}},
		{"moderator", `{"name":"Markus","bio":"Coach"}`, models.ModeratorBlock{ID: "x", Name: "Markus", Bio: "Coach"}},
		{"newsletter", `{"title":"Bleib informiert"}`, models.NewsletterBlock{ID: "x", Title: ptr("Bleib informiert")}},
		{"cta", `{"title":"Komm vorbei","button_text":"Anmelden","button_link":"/events"}`,
			models.CTABlock{ID: "x", Title: "Komm vorbei", ButtonText: ptr("Anmelden"), ButtonLink: ptr("/events")}},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			got := ConvertBlock(block(tt.typ, "x", tt.data))
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0])
		})
	}
}

func TestConvertBlockUnknownAndMalformed(t *testing.T) {
	assert.Empty(t, ConvertBlock(block("carousel", "c1", `{}`)))
	assert.Empty(t, ConvertBlock(block("hero", "h1", `{"title":`)))
	assert.Empty(t, ConvertBlock(block("hero", "h1", `{"title":["not","a","string"]}`)))
}

func TestConvertBlockGeneratesID(t *testing.T) {
	got := ConvertBlock(block("testimonials", "", `{}`))
	require.Len(t, got, 1)
	_, err := uuid.Parse(got[0].(models.TestimonialsBlock).ID)
	assert.NoError(t, err)
}

func ptr(s string) *string { return &s }
