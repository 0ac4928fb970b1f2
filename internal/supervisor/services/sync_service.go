// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

// Package services adapts Pacekeeper's long-running components to
// suture.Service.
package services

import (
	"context"
	"fmt"

	"github.com/tomtom215/pacekeeper/internal/logging"
)

// StartStopManager is the lifecycle of *sync.Manager: Start spawns the
// periodic loop and returns, Stop waits for an in-flight run to finish.
type StartStopManager interface {
	Start(ctx context.Context) error
	Stop() error
}

// SyncService runs the sync schedule under a supervisor.
type SyncService struct {
	manager StartStopManager
	name    string
}

// NewSyncService wraps manager.
//
//	manager := sync.NewManager(store, client, cfg)
//	tree.AddSyncService(services.NewSyncService(manager))
func NewSyncService(manager StartStopManager) *SyncService {
	return &SyncService{
		manager: manager,
		name:    "sync-schedule",
	}
}

// Serve starts the manager, blocks until ctx is canceled, then stops it.
// A Start failure is returned so suture restarts the service with backoff.
func (s *SyncService) Serve(ctx context.Context) error {
	if err := s.manager.Start(ctx); err != nil {
		return fmt.Errorf("sync manager start failed: %w", err)
	}
	logging.Debug().Str("service", s.name).Msg("Sync schedule running")

	<-ctx.Done()

	if err := s.manager.Stop(); err != nil {
		return fmt.Errorf("sync manager stop failed: %w", err)
	}
	return ctx.Err()
}

// String names the service in supervisor events.
func (s *SyncService) String() string {
	return s.name
}
