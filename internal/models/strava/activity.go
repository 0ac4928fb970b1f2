// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

// Package strava holds the wire shapes of the Strava v3 API responses that
// Pacekeeper reads. Only consumed fields are declared; everything else in
// the payload is ignored on decode.
package strava

// Activity is a SummaryActivity from GET /athlete/activities or a
// DetailedActivity from GET /activities/{id}. Timestamps are kept as raw text
// so a malformed value cannot fail the whole page decode.
type Activity struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	SportType string `json:"sport_type"`

	StartDate      string `json:"start_date"`
	StartDateLocal string `json:"start_date_local"`
	Timezone       string `json:"timezone"`

	Distance           *float64 `json:"distance"`
	MovingTime         *int64   `json:"moving_time"`
	ElapsedTime        *int64   `json:"elapsed_time"`
	TotalElevationGain *float64 `json:"total_elevation_gain"`

	// Calories is only present on DetailedActivity.
	Calories         *float64 `json:"calories"`
	Kilojoules       *float64 `json:"kilojoules"`
	AverageSpeed     *float64 `json:"average_speed"`
	MaxSpeed         *float64 `json:"max_speed"`
	AverageHeartrate *float64 `json:"average_heartrate"`
	MaxHeartrate     *float64 `json:"max_heartrate"`
	AverageWatts     *float64 `json:"average_watts"`
	HasHeartrate     bool     `json:"has_heartrate"`
}

// AthleteStats is the response of GET /athletes/{id}/stats.
type AthleteStats struct {
	AllRunTotals  *ActivityTotal `json:"all_run_totals"`
	AllRideTotals *ActivityTotal `json:"all_ride_totals"`
}

// ActivityTotal is an ActivityTotal object from the stats endpoint.
type ActivityTotal struct {
	Count         int64   `json:"count"`
	Distance      float64 `json:"distance"`
	MovingTime    int64   `json:"moving_time"`
	ElapsedTime   int64   `json:"elapsed_time"`
	ElevationGain float64 `json:"elevation_gain"`
}

// Fault is the error body Strava returns on 4xx/5xx.
type Fault struct {
	Message string       `json:"message"`
	Errors  []FaultError `json:"errors"`
}

// FaultError is one entry of Fault.Errors.
type FaultError struct {
	Resource string `json:"resource"`
	Field    string `json:"field"`
	Code     string `json:"code"`
}
