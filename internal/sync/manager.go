// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

/*
manager.go - Sync Manager Lifecycle and Orchestration

The Manager owns one sync pipeline: credential exchange, lifetime totals,
paginated activity fetch, merge, detail backfill, watermark and stats, then
a single persistence write.

Lifecycle Methods:
  - NewManager(): wire store, Strava client and configuration
  - RunOnce(): one blocking run (one-shot mode)
  - Start()/Stop(): periodic runs every sync.interval (daemon mode)
  - TriggerSync(): manual run, rejected while another run is active

Thread Safety:
  - syncMu: serializes runs
  - mu: protects lastSync, lastResult, running and the callback
*/

//nolint:staticcheck // File documentation, not package doc
package sync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/pacekeeper/internal/config"
	"github.com/tomtom215/pacekeeper/internal/logging"
	"github.com/tomtom215/pacekeeper/internal/models"
)

// StateStore is the persistence a run reads at start and writes at the end.
type StateStore interface {
	// LoadBaseline returns the curated baseline. A missing document yields
	// an empty baseline, not an error.
	LoadBaseline(ctx context.Context) (*models.Baseline, error)
	LoadActivities(ctx context.Context) ([]models.ActivityRecord, error)
	// LoadSyncState returns nil when no watermark has been persisted.
	LoadSyncState(ctx context.Context) (*models.SyncState, error)
	// SaveRun persists all outputs of a run together.
	SaveRun(ctx context.Context, activities []models.ActivityRecord, state *models.SyncState, stats *models.StatsDocument) error
}

// Manager orchestrates activity synchronization from Strava.
type Manager struct {
	store           StateStore
	client          StravaClientInterface
	cfg             *config.Config
	now             func() time.Time
	lastSync        time.Time
	lastResult      *RunResult
	running         bool
	mu              sync.RWMutex
	syncMu          sync.Mutex // Serializes runs
	stopChan        chan struct{}
	wg              sync.WaitGroup
	onSyncCompleted func(result *RunResult) // Invoked after each successful run
}

// NewManager creates a sync manager. client is usually a
// CircuitBreakerClient wrapping a StravaClient.
func NewManager(store StateStore, client StravaClientInterface, cfg *config.Config) *Manager {
	m := &Manager{
		store:    store,
		client:   client,
		cfg:      cfg,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}

	logging.Info().
		Int64("after", cfg.Sync.After).
		Int("page_size", cfg.Sync.PageSize).
		Int("max_pages", cfg.Sync.MaxPages).
		Int("max_detail_lookups", cfg.Sync.MaxDetailLookups).
		Dur("interval", cfg.Sync.Interval).
		Msg("Sync manager config loaded")

	return m
}

// SetOnSyncCompleted sets the callback invoked after each successful run.
func (m *Manager) SetOnSyncCompleted(callback func(result *RunResult)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onSyncCompleted = callback
}

// RunOnce performs one run, waiting for any active run to finish first.
func (m *Manager) RunOnce(ctx context.Context) (*RunResult, error) {
	m.syncMu.Lock()
	defer m.syncMu.Unlock()

	return m.run(ctx)
}

// TriggerSync performs one run unless another is active, in which case it
// returns ErrSyncInProgress without waiting.
func (m *Manager) TriggerSync(ctx context.Context) (*RunResult, error) {
	if !m.syncMu.TryLock() {
		return nil, ErrSyncInProgress
	}
	defer m.syncMu.Unlock()

	return m.run(ctx)
}

// Start begins periodic runs. The first run starts immediately.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("sync manager is already running")
	}
	if m.cfg.Sync.Interval <= 0 {
		m.mu.Unlock()
		return fmt.Errorf("sync interval must be positive, got %s", m.cfg.Sync.Interval)
	}

	logging.Info().Msg("Starting sync manager...")

	m.running = true
	m.stopChan = make(chan struct{})
	m.mu.Unlock()

	m.wg.Add(1)
	go m.syncLoop(ctx)

	return nil
}

// Stop ends periodic runs and waits for an in-flight run to finish.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return fmt.Errorf("sync manager is not running")
	}
	m.running = false
	close(m.stopChan)
	m.mu.Unlock()

	logging.Info().Msg("Stopping sync manager...")
	m.wg.Wait()
	logging.Info().Msg("Sync manager stopped")

	return nil
}

// syncLoop runs immediately and then on every tick. Failed runs are logged
// and the loop keeps going.
func (m *Manager) syncLoop(ctx context.Context) {
	defer m.wg.Done()

	m.scheduledRun(ctx)

	ticker := time.NewTicker(m.cfg.Sync.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-m.stopChan:
			return
		case <-ticker.C:
			m.scheduledRun(ctx)
		}
	}
}

func (m *Manager) scheduledRun(ctx context.Context) {
	if _, err := m.RunOnce(ctx); err != nil {
		logging.Error().Err(err).Msg("Sync failed")
	}
}

// LastSyncTime returns the start time of the last successful run.
func (m *Manager) LastSyncTime() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastSync
}

// LastResult returns the summary of the last successful run, or nil.
func (m *Manager) LastResult() *RunResult {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastResult
}

// IsSyncing reports whether a run is in progress.
func (m *Manager) IsSyncing() bool {
	if m.syncMu.TryLock() {
		m.syncMu.Unlock()
		return false
	}
	return true
}
