// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

// Package storage persists the sync outputs: the activity cache, the
// watermark and the stats document. Two backends exist:
//
//   - file: one JSON document per output in storage.data_dir, each written
//     through a temp file and rename
//   - badger: the same documents as keys in an embedded BadgerDB, committed
//     in one transaction
//
// The curated baseline is always read from its JSON file and never written.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/tomtom215/pacekeeper/internal/config"
	"github.com/tomtom215/pacekeeper/internal/logging"
	"github.com/tomtom215/pacekeeper/internal/models"
	"github.com/tomtom215/pacekeeper/internal/validation"
)

// Store is the persistence surface used by the sync manager and the API.
type Store interface {
	LoadBaseline(ctx context.Context) (*models.Baseline, error)

	// LoadActivities returns the cached records, or an empty slice when
	// nothing has been persisted yet.
	LoadActivities(ctx context.Context) ([]models.ActivityRecord, error)

	// LoadSyncState returns nil when no watermark has been persisted.
	LoadSyncState(ctx context.Context) (*models.SyncState, error)

	// LoadStats returns nil when no stats document has been persisted.
	LoadStats(ctx context.Context) (*models.StatsDocument, error)

	// SaveRun writes the outputs of one successful run.
	SaveRun(ctx context.Context, activities []models.ActivityRecord, state *models.SyncState, stats *models.StatsDocument) error

	Close() error
}

// Document names, used as file names and badger keys.
const (
	docActivities = "activities"
	docSyncState  = "sync_state"
	docStats      = "stats"
)

// New opens the backend selected by cfg.Backend.
func New(cfg *config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case "", "file":
		return NewFileStore(cfg.DataDir, cfg.BaselinePath)
	case "badger":
		return OpenBadgerStore(cfg.BadgerPath, cfg.BaselinePath)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// loadBaselineFile reads and validates the baseline document. A missing
// file yields an empty baseline.
func loadBaselineFile(path string) (*models.Baseline, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logging.Warn().Str("path", path).Msg("Baseline file not found; continuing without baseline")
		return &models.Baseline{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read baseline: %w", err)
	}

	var baseline models.Baseline
	if err := json.Unmarshal(data, &baseline); err != nil {
		return nil, fmt.Errorf("decode baseline %s: %w", path, err)
	}
	if err := validation.ValidateStruct(&baseline); err != nil {
		return nil, fmt.Errorf("invalid baseline %s: %w", path, err)
	}
	return &baseline, nil
}

// encodeRun marshals the three run outputs in a fixed order.
func encodeRun(activities []models.ActivityRecord, state *models.SyncState, stats *models.StatsDocument) (map[string][]byte, error) {
	if activities == nil {
		activities = []models.ActivityRecord{}
	}
	docs := map[string]interface{}{
		docActivities: activities,
		docSyncState:  state,
		docStats:      stats,
	}

	encoded := make(map[string][]byte, len(docs))
	for name, v := range docs {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		encoded[name] = append(data, '\n')
	}
	return encoded, nil
}

// ErrClosed is returned by a store used after Close.
var ErrClosed = errors.New("store is closed")
