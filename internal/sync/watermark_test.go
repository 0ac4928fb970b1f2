// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package sync

import (
	"testing"
	"time"

	"github.com/tomtom215/pacekeeper/internal/models"
)

func TestNextWatermark(t *testing.T) {
	newest := time.Date(2024, 6, 10, 6, 14, 20, 900_000_000, time.UTC)

	tests := []struct {
		name    string
		merged  []models.ActivityRecord
		current int64
		want    int64
	}{
		{
			name:    "empty keeps current",
			merged:  nil,
			current: 1700000000,
			want:    1700000000,
		},
		{
			name:    "newest minus margin, floored",
			merged:  []models.ActivityRecord{record(1, newest.Add(-time.Hour), "a"), record(2, newest, "b")},
			current: 0,
			want:    newest.Unix() - 60,
		},
		{
			name:    "undated records are ignored",
			merged:  []models.ActivityRecord{{ID: 1}},
			current: 42,
			want:    42,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkInt64Equal(t, "watermark", NextWatermark(tt.merged, tt.current), tt.want)
		})
	}
}

func TestNextWatermark_NeverAheadOfNewest(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 100; i++ {
		start := base.Add(time.Duration(i*7919) * time.Second)
		merged := []models.ActivityRecord{record(int64(i+1), start, "x")}
		if got := NextWatermark(merged, 0); got > start.Unix() {
			t.Fatalf("Watermark %d ahead of newest record %d", got, start.Unix())
		}
	}
}
