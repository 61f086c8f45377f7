package migrate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menscircle/internal/memstore"
	"menscircle/internal/models"
)

// mapSource serves export files from memory. Files not present read as an
// empty array.
type mapSource map[string]string

func (m mapSource) ReadFile(_ context.Context, name string) ([]byte, error) {
	if body, ok := m[name]; ok {
		return []byte(body), nil
	}
	return []byte(`[]`), nil
}

func loadSnapshot(t *testing.T, files mapSource) *Snapshot {
	t.Helper()
	snap, err := Load(context.Background(), files)
	require.NoError(t, err)
	return snap
}

func destination(s *memstore.Store) Destination {
	return Destination{
		Events:        s.Events(),
		Participants:  s.Participants(),
		Registrations: s.Registrations(),
		Subscriptions: s.Subscriptions(),
		Newsletters:   s.Newsletters(),
		Testimonials:  s.Testimonials(),
		Pages:         s.Pages(),
		Settings:      s.Settings(),
	}
}

func run(t *testing.T, files mapSource) (*memstore.Store, *Engine, *Report) {
	t.Helper()
	s := memstore.New()
	eng := NewEngine(destination(s))
	return s, eng, eng.Run(context.Background(), loadSnapshot(t, files))
}

const twoEvents = `[
	{"id":10,"title":"Mai-Kreis","slug":"mai-kreis","event_date":"2024-05-19 00:00:00","start_time":"19:00:00","end_time":"21:30:00",
	 "location":"Straubing","location_details":"Hauptstraße 5, 94315 Straubing","max_participants":12,"is_published":true,
	 "street":null,"postal_code":null,"city":null},
	{"id":11,"title":"Online-Kreis","slug":"","event_date":"2024-06-02 00:00:00","start_time":"20:00:00","end_time":"21:00:00",
	 "location":"Zoom","location_details":"Online-Veranstaltung","max_participants":20,"is_published":false}
]`

const twoParticipants = `[
	{"id":1,"first_name":"Max","last_name":"Muster","email":" Max@Example.com ","phone":"0170"},
	{"id":2,"first_name":null,"last_name":"","email":"anon@example.com","phone":null}
]`

func TestRunEvents(t *testing.T) {
	s, eng, rep := run(t, mapSource{FileEvents: twoEvents})
	assert.Equal(t, Stats{Total: 2, Created: 2}, rep.Stats(EntityEvents))

	ev, err := s.Events().FindByID(eng.EventIDs[10])
	require.NoError(t, err)
	require.NotNil(t, ev)
	assert.Equal(t, "2024-05-19", ev.EventDate.Format("2006-01-02"))
	assert.Equal(t, "19:00", ev.StartTime)
	assert.Equal(t, "21:30", ev.EndTime)
	assert.Equal(t, "Hauptstraße 5", *ev.Street)
	assert.Equal(t, "94315", *ev.Zip)
	assert.Equal(t, "Straubing", *ev.City)
	assert.True(t, ev.Published)

	online, _ := s.Events().FindByID(eng.EventIDs[11])
	require.NotNil(t, online)
	assert.Nil(t, online.Street)
	assert.Equal(t, "online-kreis", online.Slug)
}

func TestRunEventKeepsExplicitStreet(t *testing.T) {
	s, eng, _ := run(t, mapSource{FileEvents: `[{"id":1,"title":"A","slug":"a","event_date":"2024-01-01 00:00:00",
		"location_details":"Andere Str. 1, 12345 Ort","street":"Hauptstraße 5","postal_code":"94315","city":"Straubing"}]`})
	ev, _ := s.Events().FindByID(eng.EventIDs[1])
	require.NotNil(t, ev)
	assert.Equal(t, "Hauptstraße 5", *ev.Street)
	assert.Equal(t, "94315", *ev.Zip)
}

func TestRunParticipantsPlaceholders(t *testing.T) {
	s, eng, rep := run(t, mapSource{FileParticipants: twoParticipants})
	assert.Equal(t, Stats{Total: 2, Created: 2}, rep.Stats(EntityParticipants))

	p, _ := s.Participants().FindByID(eng.ParticipantIDs[1])
	require.NotNil(t, p)
	assert.Equal(t, "max@example.com", p.Email)
	assert.Equal(t, "0170", *p.Phone)

	anon, _ := s.Participants().FindByID(eng.ParticipantIDs[2])
	require.NotNil(t, anon)
	assert.Equal(t, unknownName, anon.FirstName)
	assert.Equal(t, unknownName, anon.LastName)
	assert.Nil(t, anon.Phone)
}

// A registration whose event is missing from the export is skipped and
// leaves every other collection's counts untouched.
func TestRunRegistrationMissingEventSkipped(t *testing.T) {
	files := mapSource{
		FileEvents:       twoEvents,
		FileParticipants: twoParticipants,
		FileRegistrations: `[
			{"id":1,"event_id":10,"participant_id":1,"status":"registered","registered_at":"2024-05-01 10:00:00"},
			{"id":2,"event_id":99,"participant_id":1,"status":"registered","registered_at":"2024-05-01 10:00:00"},
			{"id":3,"event_id":10,"participant_id":2,"status":"cancelled","registered_at":"2024-05-02 10:00:00"},
			{"id":4,"event_id":10,"participant_id":77,"status":"registered","registered_at":null}
		]`,
	}
	s, eng, rep := run(t, files)

	assert.Equal(t, Stats{Total: 4, Created: 2, Skipped: 2}, rep.Stats(EntityRegistrations))
	assert.Equal(t, Stats{Total: 2, Created: 2}, rep.Stats(EntityEvents))
	assert.Equal(t, Stats{Total: 2, Created: 2}, rep.Stats(EntityParticipants))

	regs := s.Registrations().All()
	require.Len(t, regs, 2)
	assert.Equal(t, eng.EventIDs[10], regs[0].EventID)
	assert.Equal(t, models.RegistrationConfirmed, regs[0].Status)
	require.NotNil(t, regs[0].ConsentTimestamp)
	assert.Equal(t, 10, regs[0].ConsentTimestamp.Hour())
	assert.Equal(t, models.RegistrationCancelled, regs[1].Status)
}

func TestRunSubscriptionStatus(t *testing.T) {
	files := mapSource{
		FileParticipants: twoParticipants,
		FileSubscriptions: `[
			{"id":1,"participant_id":1,"token":"t1","subscribed_at":"2024-01-01 00:00:00","confirmed_at":"2024-01-02 00:00:00","unsubscribed_at":"2024-03-01 00:00:00"},
			{"id":2,"participant_id":2,"token":"t2","subscribed_at":null,"created_at":"2024-02-01 00:00:00","confirmed_at":"2024-02-02 00:00:00","unsubscribed_at":null},
			{"id":3,"participant_id":1,"token":"t3","subscribed_at":"2024-04-01 00:00:00","confirmed_at":null,"unsubscribed_at":null},
			{"id":4,"participant_id":55,"token":"t4"}
		]`,
	}
	s, _, rep := run(t, files)
	assert.Equal(t, Stats{Total: 4, Created: 3, Skipped: 1}, rep.Stats(EntitySubscriptions))

	subs := s.Subscriptions().All()
	require.Len(t, subs, 3)
	assert.Equal(t, models.SubscriptionUnsubscribed, subs[0].Status)
	assert.Equal(t, "t1", subs[0].Token)
	assert.Equal(t, models.SubscriptionConfirmed, subs[1].Status)
	require.NotNil(t, subs[1].RequestedAt)
	assert.Equal(t, 2, int(subs[1].RequestedAt.Month()))
	assert.Equal(t, models.SubscriptionPending, subs[2].Status)
}

func TestRunNewsletters(t *testing.T) {
	files := mapSource{FileNewsletters: `[
		{"id":1,"subject":"Mai","content":"<p>Hallo</p>","sent_at":"2024-05-01 08:00:00","recipient_count":40,"status":"sent"},
		{"id":2,"subject":"Entwurf","content":"","sent_at":null,"recipient_count":0,"status":"draft"},
		{"id":3,"subject":"Kaputt","content":"","status":"archived"}
	]`}
	s, _, rep := run(t, files)
	assert.Equal(t, Stats{Total: 3, Created: 2, Failed: 1}, rep.Stats(EntityNewsletters))

	n, _ := s.Newsletters().FindByID(1)
	require.NotNil(t, n)
	assert.Equal(t, models.NewsletterSent, n.Status)
	assert.Equal(t, 40, n.RecipientsCount)
	assert.Equal(t, "Hallo", n.Content.PlainText())

	draft, _ := s.Newsletters().FindByID(2)
	require.NotNil(t, draft)
	assert.Len(t, draft.Content.Blocks(), 1)
}

// Soft-deleted testimonials are skipped without counting as failures.
func TestRunSoftDeletedTestimonial(t *testing.T) {
	files := mapSource{FileTestimonials: `[
		{"id":1,"quote":"Tut gut","author_name":"Max","role":null,"is_published":true,"sort_order":2,"deleted_at":null},
		{"id":2,"quote":"Gelöscht","author_name":"Tom","is_published":true,"sort_order":1,"deleted_at":"2024-01-01 00:00:00"}
	]`}
	s, _, rep := run(t, files)
	assert.Equal(t, Stats{Total: 2, Created: 1, Skipped: 1}, rep.Stats(EntityTestimonials))
	assert.Zero(t, rep.Failures())

	items, _ := s.Testimonials().ListPublished()
	require.Len(t, items, 1)
	assert.Equal(t, "Tut gut", items[0].Content)
	assert.Equal(t, unknownEmail, items[0].Email)
	assert.Nil(t, items[0].AuthorRole)
}

func TestRunPagesBlockOrder(t *testing.T) {
	files := mapSource{
		FilePages: `[
			{"id":1,"title":"Start","slug":"start","meta":"{\"title\":\"Männerkreis\",\"description\":\"\"}","is_published":true},
			{"id":2,"title":"Leer","slug":"leer","meta":null,"is_published":false},
			{"id":3,"title":"Kaputt","slug":"kaputt","meta":"{oops","is_published":true}
		]`,
		FileContentBlocks: `[
			{"id":1,"type":"cta","data":"{\"title\":\"Ende\"}","block_id":"c","order":3,"page_id":1},
			{"id":2,"type":"hero","data":"{\"title\":\"Anfang\"}","block_id":"h","order":1,"page_id":1},
			{"id":3,"type":"intro","data":"{\"title\":\"Mitte\",\"values\":[{\"title\":\"Wert\"}]}","block_id":"i","order":2,"page_id":1},
			{"id":4,"type":"carousel","data":"{}","block_id":"x","order":2,"page_id":1},
			{"id":5,"type":"faq","data":"{broken","block_id":"f","order":4,"page_id":1}
		]`,
	}
	s, eng, rep := run(t, files)
	assert.Equal(t, Stats{Total: 3, Created: 2, Failed: 1}, rep.Stats(EntityPages))

	p, _ := s.Pages().FindByID(eng.PageIDs[1])
	require.NotNil(t, p)
	var types []models.BlockType
	for _, b := range p.Blocks {
		types = append(types, b.BlockType())
	}
	assert.Equal(t, []models.BlockType{models.BlockHero, models.BlockIntro, models.BlockValueItems, models.BlockCTA}, types)
	assert.Equal(t, "Männerkreis", *p.MetaTitle)
	assert.Nil(t, p.MetaDescription)

	empty, _ := s.Pages().FindByID(eng.PageIDs[2])
	require.NotNil(t, empty)
	assert.Empty(t, empty.Blocks)
	assert.NotNil(t, empty.Blocks)
}

func TestRunSettings(t *testing.T) {
	files := mapSource{
		FilePages: `[{"id":1,"title":"Start","slug":"start","is_published":true}]`,
		FileSettings: `[
			{"id":1,"group":"general","name":"site_name","payload":"\"Männerkreis Straubing\""},
			{"id":2,"group":"general","name":"contact_email","payload":"\"hallo@mens-circle.de\""},
			{"id":3,"group":"general","name":"footer_text","payload":"\"\""},
			{"id":4,"group":"social","name":"social_links","payload":"[{\"icon\":\"envelope\",\"label\":\"Mail\",\"value\":\"mailto:hallo@mens-circle.de\"},{\"icon\":\"globe-alt\",\"label\":\"Web\",\"value\":\"https://mens-circle.de\"},{\"icon\":\"x\",\"label\":\"a@b.de\",\"value\":\"mailto:a@b.de\"}]"},
			{"id":5,"group":"social","name":"whatsapp_community_link","payload":"\"https://chat.whatsapp.com/abc\""}
		]`,
	}
	s, eng, rep := run(t, files)
	assert.Equal(t, Stats{Total: 1, Created: 1}, rep.Stats(EntitySettings))

	st, err := s.Settings().Get()
	require.NoError(t, err)
	assert.Equal(t, "Männerkreis Straubing", st.SiteName)
	assert.Equal(t, "hallo@mens-circle.de", *st.ContactEmail)
	assert.Nil(t, st.FooterText)
	require.NotNil(t, st.HomepageID)
	assert.Equal(t, eng.PageIDs[1], *st.HomepageID)

	platforms := make([]models.SocialPlatform, len(st.SocialLinks))
	for i, l := range st.SocialLinks {
		platforms[i] = l.Platform
	}
	assert.Equal(t, []models.SocialPlatform{
		models.PlatformEmail, models.PlatformWebsite, models.PlatformEmail, models.PlatformWhatsApp,
	}, platforms)
	wa, ok := st.Link(models.PlatformWhatsApp)
	require.True(t, ok)
	assert.Equal(t, "https://chat.whatsapp.com/abc", wa.URL)
	assert.Equal(t, "WhatsApp Community", *wa.Label)
}

func TestRunSettingsDefaults(t *testing.T) {
	s, _, rep := run(t, mapSource{})
	assert.Equal(t, Stats{Total: 1, Created: 1}, rep.Stats(EntitySettings))
	st, _ := s.Settings().Get()
	assert.Equal(t, models.DefaultSiteName, st.SiteName)
	assert.Nil(t, st.HomepageID)
	assert.Empty(t, st.SocialLinks)
}

type failingEvents struct{}

func (failingEvents) Create(e *models.Event) (*models.Event, error) {
	return nil, fmt.Errorf("insert %s: %w", e.Slug, errors.New("connection reset"))
}

func TestRunCreateFailureContinues(t *testing.T) {
	s := memstore.New()
	dest := destination(s)
	dest.Events = failingEvents{}
	snap := loadSnapshot(t, mapSource{
		FileEvents:        twoEvents,
		FileParticipants:  twoParticipants,
		FileRegistrations: `[{"id":1,"event_id":10,"participant_id":1,"status":"registered"}]`,
	})

	rep := NewEngine(dest).Run(context.Background(), snap)
	assert.Equal(t, Stats{Total: 2, Failed: 2}, rep.Stats(EntityEvents))
	assert.Equal(t, Stats{Total: 2, Created: 2}, rep.Stats(EntityParticipants))
	assert.Equal(t, Stats{Total: 1, Skipped: 1}, rep.Stats(EntityRegistrations))
	assert.Equal(t, 2, rep.Failures())
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := memstore.New()
	rep := NewEngine(destination(s)).Run(ctx, loadSnapshot(t, mapSource{FileEvents: twoEvents}))
	assert.NotEmpty(t, rep.Aborted)
	assert.Zero(t, s.Counts()["events"])
}

func TestReportWriteSummary(t *testing.T) {
	_, _, rep := run(t, mapSource{FileEvents: twoEvents})
	var buf bytes.Buffer
	require.NoError(t, rep.WriteSummary(&buf))
	out := buf.String()
	assert.Contains(t, out, "ENTITY")
	assert.Contains(t, out, "events")
	assert.Contains(t, out, "finished in")
}

func TestGroupBlocksStable(t *testing.T) {
	got := groupBlocks([]SourceContentBlock{
		{ID: 1, PageID: 1, Order: 2},
		{ID: 2, PageID: 2, Order: 1},
		{ID: 3, PageID: 1, Order: 1},
		{ID: 4, PageID: 1, Order: 2},
	})
	var ids []int64
	for _, b := range got[1] {
		ids = append(ids, b.ID)
	}
	assert.Equal(t, []int64{3, 1, 4}, ids)
	assert.Len(t, got[2], 1)
}

func TestRunPerRecordLogsAtDebug(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	for _, tc := range []struct {
		level slog.Level
		want  bool
	}{
		{slog.LevelInfo, false},
		{slog.LevelDebug, true},
	} {
		var buf bytes.Buffer
		slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: tc.level})))
		run(t, mapSource{FileEvents: twoEvents})

		assert.Equal(t, tc.want, bytes.Contains(buf.Bytes(), []byte("event migrated")), "level %v", tc.level)
		assert.Contains(t, buf.String(), "migrating", "level %v", tc.level)
	}
}
