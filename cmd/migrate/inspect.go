// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"menscircle/internal/config"
	"menscircle/internal/migrate"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Load the export and print how many records each file holds",
	Long: `Inspect reads and decodes all export files without touching the
database. Use it to check an export before migrating it.`,
	Args: cobra.NoArgs,
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, _ []string) error {
	setupLogging()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	src, _, err := source(cfg)
	if err != nil {
		return err
	}
	snap, err := migrate.Load(cmd.Context(), src)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "source\t%s\n", src)
	rows := []struct {
		file string
		n    int
	}{
		{migrate.FileEvents, len(snap.Events)},
		{migrate.FileParticipants, len(snap.Participants)},
		{migrate.FileRegistrations, len(snap.Registrations)},
		{migrate.FileSubscriptions, len(snap.Subscriptions)},
		{migrate.FileNewsletters, len(snap.Newsletters)},
		{migrate.FileTestimonials, len(snap.Testimonials)},
		{migrate.FilePages, len(snap.Pages)},
		{migrate.FileContentBlocks, len(snap.ContentBlocks)},
		{migrate.FileSettings, len(snap.Settings)},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\n", r.file, r.n)
	}
	return tw.Flush()
}
