// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package api

import (
	"context"
	"time"

	"github.com/tomtom215/pacekeeper/internal/models"
	syncpkg "github.com/tomtom215/pacekeeper/internal/sync"
)

// StateReader reads persisted run outputs. Satisfied by storage.Store.
type StateReader interface {
	LoadStats(ctx context.Context) (*models.StatsDocument, error)
	LoadSyncState(ctx context.Context) (*models.SyncState, error)
}

// SyncTrigger is the part of *sync.Manager the API drives.
type SyncTrigger interface {
	TriggerSync(ctx context.Context) (*syncpkg.RunResult, error)
	IsSyncing() bool
	LastSyncTime() time.Time
}

// Handler holds the dependencies of the API handlers.
//
// Handler methods are split across files:
//   - handlers_health.go: GET /api/v1/health
//   - handlers_stats.go: GET /api/v1/stats, GET /api/v1/sync/state
//   - handlers_sync.go: POST /api/v1/sync
type Handler struct {
	store     StateReader
	sync      SyncTrigger
	version   string
	startTime time.Time
}

// NewHandler creates a handler.
func NewHandler(store StateReader, sync SyncTrigger, version string) *Handler {
	return &Handler{
		store:     store,
		sync:      sync,
		version:   version,
		startTime: time.Now(),
	}
}
