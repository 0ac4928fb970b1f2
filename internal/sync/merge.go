// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package sync

import (
	"slices"

	"github.com/tomtom215/pacekeeper/internal/models"
)

// recordIndex is an insertion-ordered map of records keyed by id.
// A later Put for the same id replaces the value but keeps the slot.
type recordIndex struct {
	order []int64
	byID  map[int64]models.ActivityRecord
}

func newRecordIndex(capacity int) *recordIndex {
	return &recordIndex{
		order: make([]int64, 0, capacity),
		byID:  make(map[int64]models.ActivityRecord, capacity),
	}
}

// Put inserts or replaces rec. Records with id 0 are dropped.
func (idx *recordIndex) Put(rec models.ActivityRecord) {
	if rec.ID == 0 {
		return
	}
	if _, exists := idx.byID[rec.ID]; !exists {
		idx.order = append(idx.order, rec.ID)
	}
	idx.byID[rec.ID] = rec
}

// Values returns the records in insertion order.
func (idx *recordIndex) Values() []models.ActivityRecord {
	out := make([]models.ActivityRecord, 0, len(idx.order))
	for _, id := range idx.order {
		out = append(out, idx.byID[id])
	}
	return out
}

// Merge overlays fresh records on the cached set. A fresh record replaces
// the cached one with the same id wholesale. The result is stable-sorted by
// start_date, newest first.
func Merge(cached, fresh []models.ActivityRecord) []models.ActivityRecord {
	idx := newRecordIndex(len(cached) + len(fresh))
	for _, rec := range cached {
		idx.Put(rec)
	}
	for _, rec := range fresh {
		idx.Put(rec)
	}

	merged := idx.Values()
	sortNewestFirst(merged)
	return merged
}

func sortNewestFirst(records []models.ActivityRecord) {
	slices.SortStableFunc(records, func(a, b models.ActivityRecord) int {
		return b.StartDate.Compare(a.StartDate)
	})
}
