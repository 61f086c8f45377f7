// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package migrate

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// Entity names a migrated collection.
type Entity string

const (
	EntityEvents        Entity = "events"
	EntityParticipants  Entity = "participants"
	EntityRegistrations Entity = "registrations"
	EntitySubscriptions Entity = "subscriptions"
	EntityNewsletters   Entity = "newsletters"
	EntityTestimonials  Entity = "testimonials"
	EntityPages         Entity = "pages"
	EntitySettings      Entity = "settings"
)

// Entities lists the collections in migration order.
var Entities = []Entity{
	EntityEvents, EntityParticipants, EntityRegistrations, EntitySubscriptions,
	EntityNewsletters, EntityTestimonials, EntityPages, EntitySettings,
}

// Stats counts the outcome of every record of one collection. Total equals
// Created + Skipped + Failed once a run completes.
type Stats struct {
	Total   int `json:"total"`
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

// Report summarizes a migration run.
type Report struct {
	StartedAt  time.Time         `json:"startedAt"`
	FinishedAt time.Time         `json:"finishedAt"`
	Entities   map[Entity]*Stats `json:"entities"`
	// Aborted is set when the run stopped early on context cancellation.
	Aborted string `json:"aborted,omitempty"`
}

func newReport() *Report {
	r := &Report{StartedAt: time.Now(), Entities: make(map[Entity]*Stats, len(Entities))}
	for _, e := range Entities {
		r.Entities[e] = &Stats{}
	}
	return r
}

// Stats returns the counters for one collection.
func (r *Report) Stats(e Entity) Stats {
	if s, ok := r.Entities[e]; ok {
		return *s
	}
	return Stats{}
}

// Failures returns the number of failed records across all collections.
func (r *Report) Failures() int {
	n := 0
	for _, s := range r.Entities {
		n += s.Failed
	}
	return n
}

// WriteSummary prints the per-collection table.
func (r *Report) WriteSummary(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "ENTITY\tTOTAL\tCREATED\tSKIPPED\tFAILED\t")
	for _, e := range Entities {
		s := r.Stats(e)
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t\n", e, s.Total, s.Created, s.Skipped, s.Failed)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if r.Aborted != "" {
		_, err := fmt.Fprintf(w, "aborted: %s\n", r.Aborted)
		return err
	}
	_, err := fmt.Fprintf(w, "finished in %s\n", r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
	return err
}

// IDMap maps legacy integer keys to destination IDs.
type IDMap map[int64]int64

// Lookup returns the destination ID for a legacy key.
func (m IDMap) Lookup(legacy int64) (int64, bool) {
	id, ok := m[legacy]
	return id, ok
}
