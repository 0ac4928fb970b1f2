// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package models

// SyncState is the persisted resumption watermark.
type SyncState struct {
	LastSyncEpoch int64  `json:"lastSyncEpoch"`
	UpdatedAt     string `json:"updatedAt"`
}

// LifetimeTotals are the all-time aggregates Strava reports for the athlete.
// A nil pointer means the remote did not report that sport.
type LifetimeTotals struct {
	AllRunTotals  *ActivityTotal `json:"all_run_totals,omitempty"`
	AllRideTotals *ActivityTotal `json:"all_ride_totals,omitempty"`
}

// ActivityTotal is one sport's lifetime aggregate.
type ActivityTotal struct {
	Count         int64   `json:"count"`
	Distance      float64 `json:"distance"`     // meters
	MovingTime    int64   `json:"moving_time"`  // seconds
	ElapsedTime   int64   `json:"elapsed_time"` // seconds
	ElevationGain float64 `json:"elevation_gain"`
}
