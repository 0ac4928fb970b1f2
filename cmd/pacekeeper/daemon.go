// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/pacekeeper/internal/api"
	"github.com/tomtom215/pacekeeper/internal/config"
	"github.com/tomtom215/pacekeeper/internal/logging"
	"github.com/tomtom215/pacekeeper/internal/storage"
	"github.com/tomtom215/pacekeeper/internal/supervisor"
	"github.com/tomtom215/pacekeeper/internal/supervisor/services"
	"github.com/tomtom215/pacekeeper/internal/sync"
)

// runDaemon serves the supervisor tree until ctx is canceled.
func runDaemon(ctx context.Context, cfg *config.Config, store storage.Store, manager *sync.Manager) error {
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	handler := api.NewHandler(store, manager, version)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromServer(&cfg.Server)))

	// No WriteTimeout: POST /api/v1/sync holds the connection for a whole run.
	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	tree.AddSyncService(services.NewSyncService(manager))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	logging.Info().
		Str("addr", server.Addr).
		Dur("interval", cfg.Sync.Interval).
		Msg("Supervisor tree starting")

	err = tree.Serve(ctx)

	if report, reportErr := tree.UnstoppedServiceReport(); reportErr == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within the shutdown timeout")
		}
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor tree: %w", err)
	}
	logging.Info().Msg("Pacekeeper stopped")
	return nil
}
