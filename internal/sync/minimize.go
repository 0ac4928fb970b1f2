// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package sync

import (
	"time"

	"github.com/tomtom215/pacekeeper/internal/models"
	"github.com/tomtom215/pacekeeper/internal/models/strava"
)

// Minimize reduces a raw summary or detail payload to the cached record
// shape. It never fails: absent numerics stay nil, unparseable timestamps
// become the zero time, and the sport falls back from sport_type to type.
//
// prior is the detail_attempted flag of the cached record this one
// supersedes, or nil for a first-seen activity.
func Minimize(raw strava.Activity, prior *bool) models.ActivityRecord {
	rec := models.ActivityRecord{
		ID:                 raw.ID,
		SportType:          raw.SportType,
		Name:               raw.Name,
		StartDate:          parseTimestamp(raw.StartDate).UTC(),
		StartDateLocal:     parseTimestamp(raw.StartDateLocal),
		Distance:           floatValue(raw.Distance),
		MovingTime:         intValue(raw.MovingTime),
		ElapsedTime:        intValue(raw.ElapsedTime),
		TotalElevationGain: floatValue(raw.TotalElevationGain),
	}
	if rec.SportType == "" {
		rec.SportType = raw.Type
	}

	mapFloatField(raw.Calories, &rec.Calories)
	mapFloatField(raw.Kilojoules, &rec.Kilojoules)
	mapFloatField(raw.AverageSpeed, &rec.AverageSpeed)
	mapFloatField(raw.MaxSpeed, &rec.MaxSpeed)
	mapFloatField(raw.AverageHeartrate, &rec.AverageHeartrate)
	mapFloatField(raw.MaxHeartrate, &rec.MaxHeartrate)
	mapFloatField(raw.AverageWatts, &rec.AverageWatts)

	if prior != nil {
		rec.DetailAttempted = *prior
	}
	return rec
}

// parseTimestamp accepts RFC 3339 with or without fractional seconds.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// mapFloatField copies an optional value so the record never aliases the
// decoded payload.
func mapFloatField(value *float64, target **float64) {
	if value != nil {
		v := *value
		*target = &v
	}
}

func floatValue(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}

func intValue(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}
