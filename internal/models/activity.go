// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

// Package models defines the storage-shaped documents Pacekeeper reads and
// writes: cached activity records, the curated baseline, lifetime totals,
// the sync watermark and the derived stats document.
package models

import (
	"time"
)

// ActivityRecord is the minimized, storage-shaped form of a Strava activity.
//
// Optional numerics are pointers: nil means the remote did not report the
// value, which is distinct from a reported zero. A record is created by the
// minimizer, patched in place by detail backfill and only ever superseded
// by a fresher fetch of the same ID.
type ActivityRecord struct {
	ID        int64  `json:"id"`
	SportType string `json:"sport_type"`
	Name      string `json:"name"`

	// StartDate is UTC. StartDateLocal is the athlete's wall-clock time,
	// carried with a zero offset exactly as Strava delivers it.
	StartDate      time.Time `json:"start_date"`
	StartDateLocal time.Time `json:"start_date_local"`

	Distance           float64 `json:"distance"`     // meters
	MovingTime         int64   `json:"moving_time"`  // seconds
	ElapsedTime        int64   `json:"elapsed_time"` // seconds
	TotalElevationGain float64 `json:"total_elevation_gain"`

	Calories         *float64 `json:"calories,omitempty"`
	Kilojoules       *float64 `json:"kilojoules,omitempty"`
	AverageSpeed     *float64 `json:"average_speed,omitempty"` // m/s
	MaxSpeed         *float64 `json:"max_speed,omitempty"`     // m/s
	AverageHeartrate *float64 `json:"average_heartrate,omitempty"`
	MaxHeartrate     *float64 `json:"max_heartrate,omitempty"`
	AverageWatts     *float64 `json:"average_watts,omitempty"`

	// DetailAttempted is set once a detail lookup has been tried for this
	// record, whatever its outcome. It is never cleared.
	DetailAttempted bool `json:"detail_attempted"`
}

// HasEnergy reports whether either energy field is present.
func (a *ActivityRecord) HasEnergy() bool {
	return a.Calories != nil || a.Kilojoules != nil
}

// DistanceKm returns the distance in kilometers.
func (a *ActivityRecord) DistanceKm() float64 {
	return a.Distance / 1000
}
