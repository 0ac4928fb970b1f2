// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package sync

import (
	"github.com/tomtom215/pacekeeper/internal/models"
)

// watermarkMargin is subtracted from the newest start time so an activity
// sharing that second, or uploaded late with a slightly older start, is
// fetched again next run. Merge makes the overlap harmless.
const watermarkMargin = 60

// NextWatermark returns the epoch-seconds lower bound for the next run.
// With no dated record the current watermark is kept.
func NextWatermark(merged []models.ActivityRecord, current int64) int64 {
	var newest int64
	found := false
	for i := range merged {
		if merged[i].StartDate.IsZero() {
			continue
		}
		epoch := merged[i].StartDate.Unix()
		if !found || epoch > newest {
			newest = epoch
			found = true
		}
	}
	if !found {
		return current
	}
	return newest - watermarkMargin
}
