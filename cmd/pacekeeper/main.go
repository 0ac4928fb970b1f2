// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tomtom215/pacekeeper/internal/config"
	"github.com/tomtom215/pacekeeper/internal/logging"
	"github.com/tomtom215/pacekeeper/internal/metrics"
	"github.com/tomtom215/pacekeeper/internal/storage"
	"github.com/tomtom215/pacekeeper/internal/sync"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "pacekeeper: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("version", version).
		Str("storage_backend", cfg.Storage.Backend).
		Bool("daemon", cfg.Server.Enabled).
		Msg("Starting Pacekeeper")

	store, err := storage.New(&cfg.Storage)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing storage")
		}
	}()

	client := sync.NewCircuitBreakerClient(sync.NewStravaClient(&cfg.Strava), cfg.Sync.DetailBreakerFailures)
	manager := sync.NewManager(store, client, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Server.Enabled {
		return runDaemon(ctx, cfg, store, manager)
	}
	return runOnce(ctx, cfg, manager)
}

// runOnce performs a single sync. The metrics textfile is written even when
// the run fails so the failure is visible to the collector.
func runOnce(ctx context.Context, cfg *config.Config, manager *sync.Manager) error {
	_, runErr := manager.RunOnce(ctx)

	if path := cfg.Metrics.TextfilePath; path != "" {
		if err := metrics.WriteTextfile(path); err != nil {
			logging.Error().Err(err).Msg("Failed to write metrics textfile")
		}
	}

	return runErr
}
