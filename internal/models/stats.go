// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package models

// StatsDocument is the derived dashboard document written after every
// successful run.
type StatsDocument struct {
	GeneratedAt string        `json:"generatedAt"`
	Yearly      YearlyRollups `json:"yearly"`
	Cards       []Card        `json:"cards"`
	Monthly     []MonthBucket `json:"monthly"`
}

// YearlyRollups holds per-sport year buckets, newest year first.
type YearlyRollups struct {
	Running []YearBucket `json:"running"`
	Cycling []YearBucket `json:"cycling"`
}

// YearBucket is one sport's volume for one calendar year.
type YearBucket struct {
	Year       int     `json:"year"`
	DistanceKm float64 `json:"distance_km"`
	MovingH    float64 `json:"moving_time_h"`
	Count      int     `json:"count"`
}

// MonthBucket is the per-sport volume for one "YYYY-MM" month.
type MonthBucket struct {
	Month   string      `json:"month"`
	Running SportVolume `json:"running"`
	Cycling SportVolume `json:"cycling"`
}

// SportVolume is distance, moving time and activity count.
type SportVolume struct {
	DistanceKm float64 `json:"distance_km"`
	MovingH    float64 `json:"moving_time_h"`
	Count      int     `json:"count"`
}

// Card is one labeled dashboard figure. Value is preformatted text.
type Card struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Value   string `json:"value"`
	Unit    string `json:"unit,omitempty"`
	Subtext string `json:"subtext,omitempty"`
}

// Card identifiers.
const (
	CardRunningDistance = "running_distance"
	CardRunningTime     = "running_time"
	CardRunningCount    = "running_count"
	CardCyclingDistance = "cycling_distance"
	CardCyclingTime     = "cycling_time"
	CardCyclingCount    = "cycling_count"
	CardCyclingEnergy   = "cycling_energy"
	CardFarthestRide    = "farthest_ride"
	CardFarthestRun     = "farthest_run"
	CardBest5K          = "best_5k"
	CardBest10K         = "best_10k"
)

// CardByID returns the card with the given id, or nil.
func (d *StatsDocument) CardByID(id string) *Card {
	for i := range d.Cards {
		if d.Cards[i].ID == id {
			return &d.Cards[i]
		}
	}
	return nil
}
