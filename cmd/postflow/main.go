package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"postflow/internal/api"
	"postflow/internal/config"
	"postflow/internal/content"
	"postflow/internal/publisher"
	"postflow/internal/scheduler"
	"postflow/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	var (
		addr         = flag.String("addr", cfg.Addr, "HTTP bind address")
		schedulePath = flag.String("schedule", cfg.SchedulePath, "schedule document path")
		backend      = flag.String("content-backend", cfg.ContentBackend, "content store backend (file|sqlite)")
		contentPath  = flag.String("content", cfg.ContentPath, "content queue document path (file backend)")
		contentDB    = flag.String("content-db", cfg.ContentDB, "content SQLite DB path (sqlite backend)")
		publisherURL = flag.String("publisher", cfg.PublisherURL, "publishing service endpoint")
		interval     = flag.Duration("interval", cfg.DispatchInterval, "due-post dispatch interval")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})

	var contentStore content.Store
	switch *backend {
	case "file":
		contentStore = content.NewFileStore(*contentPath)
	case "sqlite":
		dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=journal_mode(WAL)", *contentDB)
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			log.Fatal().Err(err).Msg("open content db")
		}
		defer db.Close()
		db.SetMaxOpenConns(1) // SQLite single writer
		if err := content.EnsureSchema(db); err != nil {
			log.Fatal().Err(err).Msg("ensure content schema")
		}
		contentStore = content.NewSQLiteStore(db)
	default:
		log.Fatal().Str("backend", *backend).Msg("unknown content backend")
	}

	pub := publisher.NewHTTP(*publisherURL, cfg.PublishTimeout)
	sched := scheduler.New(store.NewFileStore(*schedulePath), contentStore, pub)

	// Dispatch trigger: one cron tick at a time invokes the pass.
	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", *interval), func() {
		sum, err := sched.ProcessDue(context.Background())
		if err != nil {
			log.Error().Err(err).Msg("dispatch pass failed")
			return
		}
		if sum.Processed > 0 || sum.Errors > 0 {
			log.Info().Int("processed", sum.Processed).Int("errors", sum.Errors).Msg("dispatch pass complete")
		}
	}); err != nil {
		log.Fatal().Err(err).Msg("register dispatch trigger")
	}
	c.Start()
	defer c.Stop()

	srv := &http.Server{Addr: *addr, Handler: api.NewServer(sched)}
	go func() {
		log.Info().Str("addr", *addr).Msg("HTTP server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down")
	ctxTimeout, cancelTimeout := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelTimeout()
	_ = srv.Shutdown(ctxTimeout)
}
