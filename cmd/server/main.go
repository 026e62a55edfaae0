// Persona Engine - Privacy-Preserving Persona Intelligence & Targeting
// Copyright 2026 Vitrine Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/vitrine-labs/persona-engine

// Command server runs the persona engine HTTP API.
//
// It assembles the processing pipeline, the embedded reference and catalog
// stores, the gateway client, the metadata cache, and the admission rate
// limiter, then serves until SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/vitrine-labs/persona-engine/internal/api"
	"github.com/vitrine-labs/persona-engine/internal/cache"
	"github.com/vitrine-labs/persona-engine/internal/catalog"
	"github.com/vitrine-labs/persona-engine/internal/config"
	"github.com/vitrine-labs/persona-engine/internal/logging"
	"github.com/vitrine-labs/persona-engine/internal/persona"
	"github.com/vitrine-labs/persona-engine/internal/ratelimit"
	"github.com/vitrine-labs/persona-engine/internal/reference"
	"github.com/vitrine-labs/persona-engine/internal/storage"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "persona-engine: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("gateway", cfg.Gateway.URL).
		Msg("Starting persona engine")

	// One badger instance backs both the reference store and the catalog;
	// they use disjoint key prefixes.
	opts := badger.DefaultOptions(cfg.Store.Path).
		WithInMemory(cfg.Store.InMemory).
		WithLogger(nil)
	if cfg.Store.InMemory {
		opts = opts.WithDir("").WithValueDir("")
	}
	db, err := badger.Open(opts)
	if err != nil {
		return fmt.Errorf("open store at %s: %w", cfg.Store.Path, err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Err(err).Msg("Store close failed")
		}
	}()

	refs := reference.NewWithDB(db)
	cat := catalog.NewWithDB(db)

	gateway := storage.NewClient(&cfg.Gateway)
	metaCache := cache.New(cfg.Cache.TTL, cfg.Cache.MaxEntries)
	limiter := ratelimit.New(cfg.RateLimit.Requests, cfg.RateLimit.Window)

	stopPrune := make(chan struct{})
	go limiter.PruneLoop(cfg.RateLimit.Window, stopPrune)
	defer close(stopPrune)

	server := api.NewServer(cfg, metaCache, limiter, gateway, refs, cat, persona.NewRuleBased())

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", httpServer.Addr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logging.Info().Msg("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	logging.Info().Msg("Persona engine stopped")
	return nil
}
