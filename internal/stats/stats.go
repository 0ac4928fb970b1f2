// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

// Package stats derives the dashboard statistics document from the curated
// baseline, the lifetime totals reported by Strava and the cached activity
// records.
//
// Source selection per metric:
//   - running distance and time: baseline plus lifetime totals, or plus the
//     local sum when lifetime totals are absent
//   - running count and all cycling totals: lifetime totals, else local sums
//   - cycling energy, personal records and rollups: local records only
//
// Compute is deterministic for a given input and clock.
package stats

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/pacekeeper/internal/logging"
	"github.com/tomtom215/pacekeeper/internal/models"
)

// Options carries the inputs of Compute that are not data.
type Options struct {
	// Now stamps generatedAt.
	Now time.Time

	// BaselineYear is used for the yearly fold when the baseline document
	// does not name a year. 0 means unset.
	BaselineYear int

	// Logger receives data-quality warnings. Nil uses the global logger.
	Logger *zerolog.Logger
}

func (o Options) warn() *zerolog.Event {
	if o.Logger != nil {
		return o.Logger.Warn()
	}
	return logging.Warn()
}

// Compute builds the stats document. A nil baseline is treated as empty.
func Compute(baseline *models.Baseline, records []models.ActivityRecord, totals models.LifetimeTotals, opts Options) models.StatsDocument {
	if baseline == nil {
		baseline = &models.Baseline{}
	}

	runs, rides := classify(records)
	base := newBaselineContribution(baseline, opts)

	cards := make([]models.Card, 0, 11)
	cards = append(cards, runningTotalCards(base, runs, totals.AllRunTotals)...)
	cards = append(cards, cyclingTotalCards(rides, totals.AllRideTotals)...)
	cards = append(cards, recordCards(baseline, runs, rides)...)

	return models.StatsDocument{
		GeneratedAt: opts.Now.UTC().Format(time.RFC3339),
		Yearly:      yearlyRollups(runs, rides, base),
		Cards:       cards,
		Monthly:     monthlyRollups(runs, rides),
	}
}

// baselineContribution is the running volume the baseline adds.
type baselineContribution struct {
	DistanceKm float64
	Hours      float64
	Year       int // 0 = not folded into yearly rollups
}

func newBaselineContribution(b *models.Baseline, opts Options) baselineContribution {
	c := baselineContribution{DistanceKm: b.Running.DistanceKm}
	if c.DistanceKm <= 0 {
		return baselineContribution{}
	}

	if b.Running.AvgPace != "" {
		paceSec, ok := ParsePace(b.Running.AvgPace)
		if ok {
			c.Hours = c.DistanceKm * float64(paceSec) / 3600
		} else {
			opts.warn().Str("avg_pace", b.Running.AvgPace).Msg("Baseline pace is not M:SS or M.SS; baseline adds no running time")
		}
	}

	switch {
	case b.Running.Year > 0:
		c.Year = b.Running.Year
	case opts.BaselineYear > 0:
		c.Year = opts.BaselineYear
	default:
		opts.warn().Float64("distance_km", c.DistanceKm).
			Msg("No baseline year configured; baseline volume is left out of yearly rollups")
	}
	return c
}
