// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package mail

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"
	"time"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"menscircle/internal/markdown"
	"menscircle/internal/models"
)

//go:embed templates/*.md
var templateFS embed.FS

var templates = template.Must(template.New("mail").Funcs(template.FuncMap{
	"md":   escapeMarkdown,
	"date": germanDate,
}).ParseFS(templateFS, "templates/*.md"))

// Composer builds the site's mails from the Markdown templates.
type Composer struct {
	siteURL string
	cmsURL  string
}

// NewComposer creates a Composer. Links in mails point at siteURL, admin
// links at cmsURL.
func NewComposer(siteURL, cmsURL string) *Composer {
	return &Composer{
		siteURL: strings.TrimRight(siteURL, "/"),
		cmsURL:  strings.TrimRight(cmsURL, "/"),
	}
}

// RegistrationConfirmation is sent to a participant after signing up.
func (c *Composer) RegistrationConfirmation(e *models.Event, p *models.Participant) (Message, error) {
	return c.render("registration_confirmation.md", p.Email, "Anmeldung bestätigt: "+e.Title, map[string]any{
		"Event":       e,
		"Participant": p,
	})
}

// AdminNotification tells the organizer about a new registration.
// spotsUsed includes the new registration.
func (c *Composer) AdminNotification(to string, e *models.Event, p *models.Participant, r *models.Registration, spotsUsed int) (Message, error) {
	return c.render("admin_notification.md", to, "Neue Anmeldung: "+e.Title, map[string]any{
		"Event":        e,
		"Participant":  p,
		"Registration": r,
		"SpotsUsed":    spotsUsed,
		"AdminURL":     fmt.Sprintf("%s/admin/collections/registrations/%d", c.cmsURL, r.ID),
	})
}

// DoubleOptIn asks a new subscriber to confirm the subscription.
func (c *Composer) DoubleOptIn(to string, sub *models.NewsletterSubscription) (Message, error) {
	return c.render("double_opt_in.md", to, "Bitte bestätige deine Newsletter-Anmeldung", map[string]any{
		"ConfirmURL": c.siteURL + "/newsletter/confirm/" + sub.ConfirmToken,
	})
}

// Welcome greets a subscriber after confirmation.
func (c *Composer) Welcome(to string, sub *models.NewsletterSubscription) (Message, error) {
	return c.render("welcome.md", to, "Willkommen beim Männerkreis Newsletter", map[string]any{
		"UnsubscribeURL": c.UnsubscribeURL(sub.Token),
	})
}

// NewsletterIssue renders a newsletter for one recipient. The body comes
// from the structured document as HTML, so the text part is converted back
// from the rendered HTML.
func (c *Composer) NewsletterIssue(n *models.Newsletter, r models.Recipient) (Message, error) {
	return c.renderWith("newsletter_issue.md", r.Email, n.Subject, true, map[string]any{
		"Newsletter":     n,
		"Recipient":      r,
		"Body":           n.Content.ToHTML(),
		"UnsubscribeURL": c.UnsubscribeURL(r.Token),
	})
}

// UnsubscribeURL returns the public unsubscribe link for a token.
func (c *Composer) UnsubscribeURL(token string) string {
	return c.siteURL + "/newsletter/unsubscribe/" + token
}

func (c *Composer) render(name, to, subject string, data map[string]any) (Message, error) {
	return c.renderWith(name, to, subject, false, data)
}

// renderWith executes a template. The Markdown source is the plain-text
// part unless textFromHTML is set.
func (c *Composer) renderWith(name, to, subject string, textFromHTML bool, data map[string]any) (Message, error) {
	data["SiteURL"] = c.siteURL
	var src bytes.Buffer
	if err := templates.ExecuteTemplate(&src, name, data); err != nil {
		return Message{}, fmt.Errorf("execute mail template %s: %w", name, err)
	}
	html, err := markdown.ToHTML(src.String())
	if err != nil {
		return Message{}, fmt.Errorf("render mail template %s: %w", name, err)
	}
	text := src.String()
	if textFromHTML {
		if text, err = htmltomarkdown.ConvertString(html); err != nil {
			return Message{}, fmt.Errorf("convert mail %s to text: %w", name, err)
		}
	}
	return Message{To: to, Subject: subject, Text: text, HTML: html}, nil
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, `*`, `\*`, `_`, `\_`, "`", "\\`",
	`[`, `\[`, `]`, `\]`, `<`, `&lt;`, `>`, `&gt;`, `|`, `\|`,
)

// escapeMarkdown neutralizes user input placed into Markdown templates.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

var germanWeekdays = [...]string{"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"}

// germanDate formats a day as "Montag, 19.05.2026".
func germanDate(t time.Time) string {
	return germanWeekdays[t.Weekday()] + ", " + t.Format("02.01.2006")
}
