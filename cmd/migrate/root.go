// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"menscircle/internal/config"
	"menscircle/internal/database"
	"menscircle/internal/memstore"
	"menscircle/internal/migrate"
	"menscircle/internal/revalidate"
	"menscircle/internal/storage"
	"menscircle/internal/store"
)

// Flag variables.
var (
	flagDir        string
	flagS3Prefix   string
	flagDryRun     bool
	flagRevalidate bool
	flagStrict     bool
	flagVerbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the legacy export into the new database",
	Long: `Migrate reads the nine JSON export files of the legacy site, converts
every record and writes it to PostgreSQL. Records that fail are counted and
logged; the run continues with the next record.

Examples:
  migrate --dir ./data/migrate
  migrate --s3-prefix exports/2026-05 --revalidate
  migrate --dir ./data/migrate --dry-run`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runMigrate,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "Directory with the export files (default: MIGRATE_DIR)")
	rootCmd.PersistentFlags().StringVar(&flagS3Prefix, "s3-prefix", "", "Read exports from the S3 bucket below this key prefix")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log every migrated record")

	rootCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Migrate into memory only; nothing is written")
	rootCmd.Flags().BoolVar(&flagRevalidate, "revalidate", false, "Trigger the frontend revalidation webhook afterwards")
	rootCmd.Flags().BoolVar(&flagStrict, "strict", false, "Exit with an error when any record failed")

	rootCmd.AddCommand(inspectCmd)
}

// source picks the export location from the flags. The storage client is
// returned for S3 sources so the report can be archived next to the export.
func source(cfg *config.Config) (migrate.Source, *storage.Client, error) {
	if flagS3Prefix == "" {
		dir := flagDir
		if dir == "" {
			dir = cfg.MigrateDir
		}
		return migrate.DirSource{Dir: dir}, nil, nil
	}

	client, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket)
	if err != nil {
		return nil, nil, fmt.Errorf("connect s3: %w", err)
	}
	if client == nil {
		return nil, nil, fmt.Errorf("--s3-prefix needs S3_ENDPOINT, S3_ACCESS_KEY and S3_SECRET_KEY")
	}
	return migrate.NewS3Source(client, flagS3Prefix), client, nil
}

func setupLogging() {
	if flagVerbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	setupLogging()
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	src, s3Client, err := source(cfg)
	if err != nil {
		return err
	}
	slog.Info("loading export", "source", fmt.Sprint(src))
	snap, err := migrate.Load(ctx, src)
	if err != nil {
		return err
	}

	var dest migrate.Destination
	var mem *memstore.Store
	if flagDryRun {
		mem = memstore.New()
		dest = memoryDestination(mem)
		slog.Info("dry run, nothing will be written")
	} else {
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			return err
		}
		defer db.Close()
		if err := database.Migrate(db); err != nil {
			return err
		}
		dest = migrate.Destination{
			Events:        store.NewEventStore(db),
			Participants:  store.NewParticipantStore(db),
			Registrations: store.NewRegistrationStore(db),
			Subscriptions: store.NewSubscriptionStore(db),
			Newsletters:   store.NewNewsletterStore(db),
			Testimonials:  store.NewTestimonialStore(db),
			Pages:         store.NewPageStore(db),
			Settings:      store.NewSiteSettingsStore(db),
		}
	}

	report := migrate.NewEngine(dest).Run(ctx, snap)
	out := cmd.OutOrStdout()
	if err := report.WriteSummary(out); err != nil {
		return err
	}
	if mem != nil {
		writeCounts(out, mem.Counts())
	}

	if s3Client != nil && !flagDryRun {
		archiveReport(ctx, s3Client, report)
	}
	if flagRevalidate && !flagDryRun && report.Aborted == "" {
		// Trigger on a fresh context so an interrupt does not skip it.
		rctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := revalidate.New(cfg.RevalidateURL, cfg.RevalidateSecret).Trigger(rctx, "", ""); err != nil {
			slog.Error("revalidation failed", "error", err)
		}
	}

	if report.Aborted != "" {
		return fmt.Errorf("migration aborted: %s", report.Aborted)
	}
	if n := report.Failures(); n > 0 {
		slog.Warn("migration finished with failures", "failed", n)
		if flagStrict {
			return fmt.Errorf("%d records failed", n)
		}
	}
	return nil
}

// memoryDestination routes every collection to the in-memory store.
func memoryDestination(mem *memstore.Store) migrate.Destination {
	return migrate.Destination{
		Events:        mem.Events(),
		Participants:  mem.Participants(),
		Registrations: mem.Registrations(),
		Subscriptions: mem.Subscriptions(),
		Newsletters:   mem.Newsletters(),
		Testimonials:  mem.Testimonials(),
		Pages:         mem.Pages(),
		Settings:      mem.Settings(),
	}
}

// archiveReport uploads the JSON report next to the export. A failed
// upload is logged only.
func archiveReport(ctx context.Context, client *storage.Client, report *migrate.Report) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		slog.Error("encode migration report failed", "error", err)
		return
	}
	key := storage.Key(flagS3Prefix, "report-"+report.StartedAt.UTC().Format("20060102T150405Z")+".json")
	if err := client.Upload(context.WithoutCancel(ctx), key, "application/json", data); err != nil {
		slog.Error("upload migration report failed", "error", err)
		return
	}
	slog.Info("migration report archived", "bucket", client.Bucket(), "key", key)
}

// writeCounts prints the records held by the dry-run store.
func writeCounts(w io.Writer, counts map[string]int) {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(w, "\ndry run, records in memory:")
	for _, name := range names {
		fmt.Fprintf(w, "  %-14s %d\n", name, counts[name])
	}
}
