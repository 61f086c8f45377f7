// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package mail sends transactional and newsletter mails. Bodies are
// authored in Markdown; the HTML part is rendered with goldmark and the
// Markdown source doubles as the plain-text part.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"
)

// Message is a single outgoing mail.
type Message struct {
	To      string
	Subject string
	Text    string // plain-text part
	HTML    string // HTML part
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPMailer delivers mail through an SMTP relay with PLAIN auth.
type SMTPMailer struct {
	addr string
	from string
	auth smtp.Auth
}

// NewSMTPMailer creates a mailer for the relay at addr (host:port). Auth is
// skipped when user is empty.
func NewSMTPMailer(addr, user, pass, from string) *SMTPMailer {
	m := &SMTPMailer{addr: addr, from: from}
	if user != "" {
		host, _, _ := net.SplitHostPort(addr)
		m.auth = smtp.PlainAuth("", user, pass, host)
	}
	return m
}

// Send delivers msg. net/smtp has no context support, so ctx is only
// checked before dialing.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	body, err := buildMIME(m.from, msg, time.Now())
	if err != nil {
		return fmt.Errorf("build mail: %w", err)
	}
	if err := smtp.SendMail(m.addr, m.auth, m.from, []string{msg.To}, body); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}

// LogMailer logs messages instead of sending them. Used when no SMTP relay
// is configured.
type LogMailer struct{}

// Send logs the message envelope.
func (LogMailer) Send(_ context.Context, msg Message) error {
	slog.Info("mail not sent, no SMTP relay configured", "to", msg.To, "subject", msg.Subject)
	return nil
}

// New returns an SMTP mailer when addr is set and a LogMailer otherwise.
func New(addr, user, pass, from string) Mailer {
	if addr == "" {
		return LogMailer{}
	}
	return NewSMTPMailer(addr, user, pass, from)
}

// buildMIME renders msg as a multipart/alternative RFC 5322 message.
func buildMIME(from string, msg Message, date time.Time) ([]byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := []string{
		"From: " + from,
		"To: " + msg.To,
		"Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject),
		"Date: " + date.Format(time.RFC1123Z),
		"MIME-Version: 1.0",
		`Content-Type: multipart/alternative; boundary="` + w.Boundary() + `"`,
	}
	var out bytes.Buffer
	out.WriteString(strings.Join(header, "\r\n"))
	out.WriteString("\r\n\r\n")

	for _, part := range []struct{ contentType, body string }{
		{"text/plain; charset=utf-8", msg.Text},
		{"text/html; charset=utf-8", msg.HTML},
	} {
		if part.body == "" {
			continue
		}
		pw, err := w.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {part.contentType},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		if err != nil {
			return nil, err
		}
		qp := quotedprintable.NewWriter(pw)
		if _, err := qp.Write([]byte(part.body)); err != nil {
			return nil, err
		}
		if err := qp.Close(); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	out.Write(buf.Bytes())
	return out.Bytes(), nil
}
