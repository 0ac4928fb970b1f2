// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/pacekeeper/internal/logging"
	"github.com/tomtom215/pacekeeper/internal/models"
)

// keyPrefix namespaces the run documents inside the database.
const keyPrefix = "pacekeeper:"

// BadgerStore keeps the run outputs in an embedded BadgerDB. SaveRun commits
// all three documents in one transaction.
type BadgerStore struct {
	db           *badger.DB
	baselinePath string

	mu     sync.RWMutex
	closed bool
}

// OpenBadgerStore opens (or creates) the database at path.
func OpenBadgerStore(path, baselinePath string) (*BadgerStore, error) {
	if path == "" {
		return nil, fmt.Errorf("badger store requires a path")
	}
	return openBadger(badger.DefaultOptions(path), baselinePath)
}

func openBadger(opts badger.Options, baselinePath string) (*BadgerStore, error) {
	opts.SyncWrites = true

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", opts.Dir).
		Bool("in_memory", opts.InMemory).
		Msg("Badger store opened")

	return &BadgerStore{db: db, baselinePath: baselinePath}, nil
}

func badgerKey(doc string) []byte {
	return []byte(keyPrefix + doc)
}

// LoadBaseline reads the curated baseline file.
func (s *BadgerStore) LoadBaseline(ctx context.Context) (*models.Baseline, error) {
	return loadBaselineFile(s.baselinePath)
}

// LoadActivities reads the activity cache.
func (s *BadgerStore) LoadActivities(ctx context.Context) ([]models.ActivityRecord, error) {
	var records []models.ActivityRecord
	found, err := s.get(docActivities, &records)
	if err != nil {
		return nil, err
	}
	if !found || records == nil {
		return []models.ActivityRecord{}, nil
	}
	return records, nil
}

// LoadSyncState reads the watermark.
func (s *BadgerStore) LoadSyncState(ctx context.Context) (*models.SyncState, error) {
	var state models.SyncState
	found, err := s.get(docSyncState, &state)
	if err != nil || !found {
		return nil, err
	}
	return &state, nil
}

// LoadStats reads the stats document.
func (s *BadgerStore) LoadStats(ctx context.Context) (*models.StatsDocument, error) {
	var doc models.StatsDocument
	found, err := s.get(docStats, &doc)
	if err != nil || !found {
		return nil, err
	}
	return &doc, nil
}

// SaveRun writes the three documents in a single transaction.
func (s *BadgerStore) SaveRun(ctx context.Context, activities []models.ActivityRecord, state *models.SyncState, stats *models.StatsDocument) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	encoded, err := encodeRun(activities, state, stats)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		for doc, data := range encoded {
			if err := txn.Set(badgerKey(doc), data); err != nil {
				return fmt.Errorf("set %s: %w", doc, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("commit run: %w", err)
	}

	logging.Ctx(ctx).Debug().
		Int("activities", len(activities)).
		Int64("watermark", state.LastSyncEpoch).
		Msg("Run saved to badger")
	return nil
}

// Close closes the database. Further calls return ErrClosed.
func (s *BadgerStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *BadgerStore) get(doc string, v interface{}) (found bool, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false, ErrClosed
	}

	var data []byte
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(doc))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", doc, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", doc, err)
	}
	return true, nil
}
