// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package migrate

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"menscircle/internal/storage"
)

// Export file names.
const (
	FileEvents        = "events.json"
	FileParticipants  = "participants.json"
	FileRegistrations = "registrations.json"
	FileSubscriptions = "newsletter_subscriptions.json"
	FileNewsletters   = "newsletters.json"
	FileTestimonials  = "testimonials.json"
	FilePages         = "pages.json"
	FileContentBlocks = "content_blocks.json"
	FileSettings      = "settings.json"
)

// Source provides the raw export files.
type Source interface {
	ReadFile(ctx context.Context, name string) ([]byte, error)
}

// DirSource reads exports from a local directory.
type DirSource struct {
	Dir string
}

// ReadFile reads name from the directory.
func (s DirSource) ReadFile(_ context.Context, name string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.Dir, name))
}

func (s DirSource) String() string { return s.Dir }

// Downloader fetches an object by key. Satisfied by *storage.Client.
type Downloader interface {
	Download(ctx context.Context, key string) ([]byte, error)
	Bucket() string
}

// S3Source reads exports from a bucket, below a key prefix.
type S3Source struct {
	client Downloader
	prefix string
}

// NewS3Source creates a source reading prefix/name objects.
func NewS3Source(client Downloader, prefix string) *S3Source {
	return &S3Source{client: client, prefix: prefix}
}

// ReadFile downloads the object for name.
func (s *S3Source) ReadFile(ctx context.Context, name string) ([]byte, error) {
	return s.client.Download(ctx, s.key(name))
}

func (s *S3Source) key(name string) string {
	return storage.Key(s.prefix, name)
}

func (s *S3Source) String() string {
	return "s3://" + storage.Key(s.client.Bucket(), s.prefix)
}

// Snapshot is the complete legacy export held in memory.
type Snapshot struct {
	Events        []SourceEvent
	Participants  []SourceParticipant
	Registrations []SourceRegistration
	Subscriptions []SourceSubscription
	Newsletters   []SourceNewsletter
	Testimonials  []SourceTestimonial
	Pages         []SourcePage
	ContentBlocks []SourceContentBlock
	Settings      []SourceSetting
}

// Load reads and decodes every export file. A missing or malformed file is
// an error; the migration does not start on a partial export.
func Load(ctx context.Context, src Source) (*Snapshot, error) {
	snap := &Snapshot{}
	files := []struct {
		name string
		dst  any
	}{
		{FileEvents, &snap.Events},
		{FileParticipants, &snap.Participants},
		{FileRegistrations, &snap.Registrations},
		{FileSubscriptions, &snap.Subscriptions},
		{FileNewsletters, &snap.Newsletters},
		{FileTestimonials, &snap.Testimonials},
		{FilePages, &snap.Pages},
		{FileContentBlocks, &snap.ContentBlocks},
		{FileSettings, &snap.Settings},
	}
	for _, f := range files {
		data, err := src.ReadFile(ctx, f.name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.name, err)
		}
		if err := json.Unmarshal(data, f.dst); err != nil {
			return nil, fmt.Errorf("decode %s: %w", f.name, err)
		}
	}
	return snap, nil
}
