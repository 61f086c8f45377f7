// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package migrate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Legacy export records. Keys are the snake_case column names of the old
// relational schema; nullable columns are pointers or tolerant types.

type SourceEvent struct {
	ID              int64    `json:"id"`
	Title           string   `json:"title"`
	Slug            string   `json:"slug"`
	Description     string   `json:"description"`
	EventDate       string   `json:"event_date"`
	StartTime       string   `json:"start_time"`
	EndTime         string   `json:"end_time"`
	Location        string   `json:"location"`
	LocationDetails string   `json:"location_details"`
	MaxParticipants int      `json:"max_participants"`
	CostBasis       string   `json:"cost_basis"`
	IsPublished     flexBool `json:"is_published"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
	DeletedAt       *string  `json:"deleted_at"`
	Image           *string  `json:"image"`
	Street          *string  `json:"street"`
	PostalCode      *string  `json:"postal_code"`
	City            *string  `json:"city"`
}

type SourceParticipant struct {
	ID        int64   `json:"id"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Email     string  `json:"email"`
	Phone     *string `json:"phone"`
}

type SourceRegistration struct {
	ID            int64   `json:"id"`
	EventID       int64   `json:"event_id"`
	ParticipantID int64   `json:"participant_id"`
	Status        string  `json:"status"`
	RegisteredAt  *string `json:"registered_at"`
	CancelledAt   *string `json:"cancelled_at"`
	DeletedAt     *string `json:"deleted_at"`
}

type SourceSubscription struct {
	ID             int64   `json:"id"`
	ParticipantID  int64   `json:"participant_id"`
	Token          string  `json:"token"`
	SubscribedAt   *string `json:"subscribed_at"`
	UnsubscribedAt *string `json:"unsubscribed_at"`
	ConfirmedAt    *string `json:"confirmed_at"`
	CreatedAt      *string `json:"created_at"`
	DeletedAt      *string `json:"deleted_at"`
}

type SourceNewsletter struct {
	ID             int64   `json:"id"`
	Subject        string  `json:"subject"`
	Content        string  `json:"content"`
	SentAt         *string `json:"sent_at"`
	RecipientCount int     `json:"recipient_count"`
	Status         string  `json:"status"`
}

type SourceTestimonial struct {
	ID          int64    `json:"id"`
	Quote       string   `json:"quote"`
	AuthorName  *string  `json:"author_name"`
	Role        *string  `json:"role"`
	IsPublished flexBool `json:"is_published"`
	PublishedAt *string  `json:"published_at"`
	SortOrder   int      `json:"sort_order"`
	DeletedAt   *string  `json:"deleted_at"`
}

type SourcePage struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Meta        jsonText `json:"meta"`
	IsPublished flexBool `json:"is_published"`
	DeletedAt   *string  `json:"deleted_at"`
}

type SourceContentBlock struct {
	ID      int64    `json:"id"`
	Type    string   `json:"type"`
	Data    jsonText `json:"data"`
	BlockID string   `json:"block_id"`
	Order   int      `json:"order"`
	PageID  int64    `json:"page_id"`
}

type SourceSetting struct {
	ID      int64    `json:"id"`
	Group   string   `json:"group"`
	Name    string   `json:"name"`
	Locked  flexBool `json:"locked"`
	Payload jsonText `json:"payload"`
}

// flexBool accepts JSON booleans as well as the 0/1 integers and strings
// some exporters write for boolean columns.
type flexBool bool

func (b *flexBool) UnmarshalJSON(data []byte) error {
	switch strings.Trim(string(data), `"`) {
	case "true", "1":
		*b = true
	case "false", "0", "", "null":
		*b = false
	default:
		return fmt.Errorf("invalid boolean %s", data)
	}
	return nil
}

// flexText accepts a JSON string, number or boolean and keeps its text.
// null decodes to "".
type flexText string

func (t *flexText) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = flexText(s)
		return nil
	}
	*t = flexText(data)
	return nil
}

// jsonText is a column holding serialized JSON. The export writes it either
// as a JSON string containing the document or as the embedded document
// itself; both decode to the raw document bytes. null and "" are empty.
type jsonText []byte

func (j *jsonText) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*j = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*j = jsonText(s)
		return nil
	}
	*j = append(jsonText(nil), data...)
	return nil
}

// decode unmarshals the document into v. An empty column decodes as fallback.
func (j jsonText) decode(v any, fallback string) error {
	src := bytes.TrimSpace(j)
	if len(src) == 0 {
		src = []byte(fallback)
	}
	return json.Unmarshal(src, v)
}

var timestampLayouts = []string{
	time.DateTime,
	time.RFC3339Nano,
	time.DateOnly,
}

// parseTimestamp reads a legacy timestamp. nil and blank values give nil.
func parseTimestamp(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	v := strings.TrimSpace(*s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized timestamp %q", v)
}

// firstTimestamp returns the first of the values that parses to a time.
func firstTimestamp(values ...*string) (*time.Time, error) {
	for _, v := range values {
		t, err := parseTimestamp(v)
		if err != nil {
			return nil, err
		}
		if t != nil {
			return t, nil
		}
	}
	return nil, nil
}

// deref returns the pointed-to string, or "" for nil.
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// optional returns nil for blank strings.
func optional(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
