// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/tomtom215/pacekeeper/internal/logging"
	"github.com/tomtom215/pacekeeper/internal/models"
)

// FileStore keeps each output as a JSON document in one directory.
type FileStore struct {
	dir          string
	baselinePath string
}

// NewFileStore creates dir if needed.
func NewFileStore(dir, baselinePath string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("file store requires a data directory")
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{dir: dir, baselinePath: baselinePath}, nil
}

func (s *FileStore) path(doc string) string {
	return filepath.Join(s.dir, doc+".json")
}

// LoadBaseline reads the curated baseline file.
func (s *FileStore) LoadBaseline(ctx context.Context) (*models.Baseline, error) {
	return loadBaselineFile(s.baselinePath)
}

// LoadActivities reads activities.json.
func (s *FileStore) LoadActivities(ctx context.Context) ([]models.ActivityRecord, error) {
	var records []models.ActivityRecord
	found, err := s.readDoc(docActivities, &records)
	if err != nil {
		return nil, err
	}
	if !found || records == nil {
		return []models.ActivityRecord{}, nil
	}
	return records, nil
}

// LoadSyncState reads sync_state.json.
func (s *FileStore) LoadSyncState(ctx context.Context) (*models.SyncState, error) {
	var state models.SyncState
	found, err := s.readDoc(docSyncState, &state)
	if err != nil || !found {
		return nil, err
	}
	return &state, nil
}

// LoadStats reads stats.json.
func (s *FileStore) LoadStats(ctx context.Context) (*models.StatsDocument, error) {
	var doc models.StatsDocument
	found, err := s.readDoc(docStats, &doc)
	if err != nil || !found {
		return nil, err
	}
	return &doc, nil
}

// SaveRun replaces the three documents. Cancellation is honored only before
// the first write; once started, all three are written. The watermark is
// written last so a failed write never advances it past unsaved activities.
func (s *FileStore) SaveRun(ctx context.Context, activities []models.ActivityRecord, state *models.SyncState, stats *models.StatsDocument) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	encoded, err := encodeRun(activities, state, stats)
	if err != nil {
		return err
	}

	for _, doc := range []string{docActivities, docStats, docSyncState} {
		if err := writeFileAtomic(s.path(doc), encoded[doc]); err != nil {
			return fmt.Errorf("write %s: %w", doc, err)
		}
	}

	logging.Ctx(ctx).Debug().
		Str("dir", s.dir).
		Int("activities", len(activities)).
		Int64("watermark", state.LastSyncEpoch).
		Msg("Run saved to files")
	return nil
}

// Close is a no-op.
func (s *FileStore) Close() error {
	return nil
}

// readDoc decodes doc into v. found is false when the file does not exist.
func (s *FileStore) readDoc(doc string, v interface{}) (found bool, err error) {
	data, err := os.ReadFile(s.path(doc))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", doc, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", s.path(doc), err)
	}
	return true, nil
}

// writeFileAtomic writes data to a temp file in the target directory, syncs
// it and renames it over path.
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpName, 0o640); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
