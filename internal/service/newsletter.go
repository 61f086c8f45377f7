// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"menscircle/internal/mail"
	"menscircle/internal/models"
)

// BroadcastBatchSize is the number of mails sent concurrently during a
// broadcast. Batches run one after another.
const BroadcastBatchSize = 50

// Defaults for subscribers who give no name.
const (
	defaultFirstName = "Newsletter"
	defaultLastName  = "Abonnent"
)

// SubscribeInput is a newsletter sign-up request.
type SubscribeInput struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// BroadcastResult counts the outcome of a newsletter broadcast.
type BroadcastResult struct {
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

// Newsletters manages subscriptions and sends newsletter issues.
type Newsletters struct {
	participants  ParticipantRepository
	subscriptions SubscriptionRepository
	newsletters   NewsletterRepository
	mailer        mail.Mailer
	composer      *mail.Composer
	now           func() time.Time
	batchSize     int
}

// NewNewsletters creates the newsletter service.
func NewNewsletters(participants ParticipantRepository, subscriptions SubscriptionRepository, newsletters NewsletterRepository,
	mailer mail.Mailer, composer *mail.Composer) *Newsletters {
	return &Newsletters{
		participants:  participants,
		subscriptions: subscriptions,
		newsletters:   newsletters,
		mailer:        mailer,
		composer:      composer,
		now:           time.Now,
		batchSize:     BroadcastBatchSize,
	}
}

// Subscribe starts the double opt-in: it finds or creates the participant,
// reuses a pending subscription or opens a new one, and mails the
// confirmation link.
func (s *Newsletters) Subscribe(ctx context.Context, in SubscribeInput) error {
	if strings.TrimSpace(in.Email) == "" {
		return invalid(MsgEmailRequired)
	}
	if !ValidEmail(strings.TrimSpace(in.Email)) {
		return invalid(MsgInvalidEmail)
	}
	email := NormalizeEmail(in.Email)

	p, err := s.participants.FindByEmail(email)
	if err != nil {
		return fmt.Errorf("find participant: %w", err)
	}
	if p == nil {
		first, last := strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName)
		if first == "" {
			first = defaultFirstName
		}
		if last == "" {
			last = defaultLastName
		}
		if p, err = s.participants.Create(&models.Participant{FirstName: first, LastName: last, Email: email}); err != nil {
			return fmt.Errorf("create participant: %w", err)
		}
	}

	confirmed, err := s.subscriptions.FindByParticipant(p.ID, models.SubscriptionConfirmed)
	if err != nil {
		return fmt.Errorf("find subscription: %w", err)
	}
	if confirmed != nil {
		return conflict(MsgAlreadySubscribed)
	}

	now := s.now()
	sub, err := s.subscriptions.FindByParticipant(p.ID, models.SubscriptionPending)
	if err != nil {
		return fmt.Errorf("find subscription: %w", err)
	}
	if sub != nil {
		if err := s.subscriptions.UpdateStatus(sub.ID, models.SubscriptionPending, now); err != nil {
			return err
		}
	} else {
		sub, err = s.subscriptions.Create(&models.NewsletterSubscription{
			ParticipantID: p.ID,
			Status:        models.SubscriptionPending,
			RequestedAt:   &now,
		})
		if err != nil {
			return fmt.Errorf("create subscription: %w", err)
		}
	}

	slog.Info("newsletter subscription requested", "subscription", sub.ID)
	msg, err := s.composer.DoubleOptIn(email, sub)
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		slog.Error("send double opt-in failed", "subscription", sub.ID, "error", err)
	}
	return nil
}

// Confirm completes the double opt-in for a confirm token and returns the
// message to show. A repeated confirmation succeeds without a second
// welcome mail.
func (s *Newsletters) Confirm(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", invalid(MsgInvalidConfirmLink)
	}
	sub, err := s.subscriptions.FindByConfirmToken(token)
	if err != nil {
		return "", fmt.Errorf("find subscription: %w", err)
	}
	if sub == nil {
		return "", notFound(MsgConfirmLinkUnknown)
	}
	switch sub.Status {
	case models.SubscriptionConfirmed:
		return MsgAlreadyConfirmed, nil
	case models.SubscriptionUnsubscribed:
		return "", gone(MsgSubscriptionRevoked)
	}

	if err := s.subscriptions.UpdateStatus(sub.ID, models.SubscriptionConfirmed, s.now()); err != nil {
		return "", err
	}
	slog.Info("newsletter subscription confirmed", "subscription", sub.ID)

	p, err := s.participants.FindByID(sub.ParticipantID)
	switch {
	case err != nil:
		slog.Error("load subscriber failed", "subscription", sub.ID, "error", err)
	case p != nil:
		msg, err := s.composer.Welcome(p.Email, sub)
		if err == nil {
			err = s.mailer.Send(ctx, msg)
		}
		if err != nil {
			slog.Error("send welcome mail failed", "subscription", sub.ID, "error", err)
		}
	}
	return MsgConfirmed, nil
}

// Unsubscribe ends a subscription by its unsubscribe token and returns the
// message to show.
func (s *Newsletters) Unsubscribe(_ context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", invalid(MsgInvalidLink)
	}
	sub, err := s.subscriptions.FindByToken(token)
	if err != nil {
		return "", fmt.Errorf("find subscription: %w", err)
	}
	if sub == nil {
		return "", notFound(MsgSubscriptionUnknown)
	}
	if sub.Status == models.SubscriptionUnsubscribed {
		return MsgAlreadyUnsubscribed, nil
	}
	if err := s.subscriptions.UpdateStatus(sub.ID, models.SubscriptionUnsubscribed, s.now()); err != nil {
		return "", err
	}
	slog.Info("newsletter unsubscribed", "subscription", sub.ID)
	return MsgUnsubscribed, nil
}

// Broadcast sends a draft newsletter to every confirmed subscriber. Only
// one broadcast can claim a draft. Mails go out in sequential batches with
// the sends of a batch running concurrently; a failed send is counted and
// never stops the run. Once claimed, the run ignores cancellation of ctx and
// finishes every recipient.
func (s *Newsletters) Broadcast(ctx context.Context, id int64) (BroadcastResult, error) {
	if id <= 0 {
		return BroadcastResult{}, invalid(MsgNewsletterIDMissing)
	}
	n, err := s.newsletters.FindByID(id)
	if err != nil {
		return BroadcastResult{}, fmt.Errorf("load newsletter: %w", err)
	}
	if n == nil {
		return BroadcastResult{}, notFound(MsgNewsletterNotFound)
	}
	if n.Status != models.NewsletterDraft {
		return BroadcastResult{}, conflict(MsgNewsletterSent)
	}
	claimed, err := s.newsletters.BeginSending(id)
	if err != nil {
		return BroadcastResult{}, fmt.Errorf("begin sending: %w", err)
	}
	if !claimed {
		return BroadcastResult{}, conflict(MsgNewsletterSent)
	}

	ctx = context.WithoutCancel(ctx)

	recipients, err := s.subscriptions.ListConfirmedRecipients()
	if err != nil {
		if rerr := s.newsletters.ResetSending(id); rerr != nil {
			slog.Error("reset newsletter to draft failed", "newsletter", id, "error", rerr)
		}
		return BroadcastResult{}, fmt.Errorf("list recipients: %w", err)
	}
	slog.Info("newsletter broadcast started", "newsletter", id, "recipients", len(recipients))

	var sent, failed atomic.Int64
	for start := 0; start < len(recipients); start += s.batchSize {
		end := min(start+s.batchSize, len(recipients))
		var g errgroup.Group
		for _, r := range recipients[start:end] {
			g.Go(func() error {
				if err := s.sendIssue(ctx, n, r); err != nil {
					failed.Add(1)
					slog.Warn("newsletter send failed", "newsletter", id, "subscription", r.SubscriptionID, "error", err)
					return nil
				}
				sent.Add(1)
				return nil
			})
		}
		_ = g.Wait()
	}

	res := BroadcastResult{Sent: int(sent.Load()), Failed: int(failed.Load())}
	if err := s.newsletters.MarkSent(id, s.now(), res.Sent); err != nil {
		return res, fmt.Errorf("mark newsletter sent: %w", err)
	}
	slog.Info("newsletter broadcast finished", "newsletter", id, "sent", res.Sent, "failed", res.Failed)
	return res, nil
}

func (s *Newsletters) sendIssue(ctx context.Context, n *models.Newsletter, r models.Recipient) error {
	msg, err := s.composer.NewsletterIssue(n, r)
	if err != nil {
		return err
	}
	return s.mailer.Send(ctx, msg)
}

// BroadcastMessage formats the admin summary of a broadcast.
func BroadcastMessage(res BroadcastResult) string {
	msg := fmt.Sprintf("Newsletter an %d Empfänger gesendet.", res.Sent)
	if res.Failed > 0 {
		msg += fmt.Sprintf(" %d fehlgeschlagen.", res.Failed)
	}
	return msg
}
