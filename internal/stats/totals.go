// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package stats

import (
	"fmt"
	"strconv"

	"github.com/tomtom215/pacekeeper/internal/models"
)

// runningTotalCards: baseline volume plus lifetime totals when reported,
// else plus the local sum. The baseline never adds to the count.
func runningTotalCards(base baselineContribution, runs []models.ActivityRecord, lifetime *models.ActivityTotal) []models.Card {
	local := sum(runs)

	km, hours, count := local.km(), local.hours(), int64(local.Count)
	source := "local activities"
	if lifetime != nil {
		km = lifetime.Distance / 1000
		hours = float64(lifetime.MovingTime) / 3600
		count = lifetime.Count
		source = "Strava lifetime totals"
	}

	distanceSub := source
	timeSub := source
	if base.DistanceKm > 0 {
		distanceSub = fmt.Sprintf("%s + %.0f km baseline", source, base.DistanceKm)
		if base.Hours > 0 {
			timeSub = fmt.Sprintf("%s + %.1f h baseline", source, base.Hours)
		}
	}

	return []models.Card{
		{
			ID:      models.CardRunningDistance,
			Label:   "Running distance",
			Value:   fmt.Sprintf("%.2f", base.DistanceKm+km),
			Unit:    "km",
			Subtext: distanceSub,
		},
		{
			ID:      models.CardRunningTime,
			Label:   "Running time",
			Value:   fmt.Sprintf("%.1f", base.Hours+hours),
			Unit:    "h",
			Subtext: timeSub,
		},
		{
			ID:    models.CardRunningCount,
			Label: "Runs",
			Value: strconv.FormatInt(count, 10),
		},
	}
}

// cyclingTotalCards uses lifetime totals when reported, else local sums.
// Energy is always summed locally because lifetime totals do not carry it.
func cyclingTotalCards(rides []models.ActivityRecord, lifetime *models.ActivityTotal) []models.Card {
	local := sum(rides)

	km, hours, count := local.km(), local.hours(), int64(local.Count)
	source := "local activities"
	if lifetime != nil {
		km = lifetime.Distance / 1000
		hours = float64(lifetime.MovingTime) / 3600
		count = lifetime.Count
		source = "Strava lifetime totals"
	}

	var kcal float64
	withEnergy := 0
	for i := range rides {
		if rides[i].HasEnergy() {
			withEnergy++
		}
		kcal += energyKcal(&rides[i])
	}

	return []models.Card{
		{
			ID:      models.CardCyclingDistance,
			Label:   "Cycling distance",
			Value:   fmt.Sprintf("%.2f", km),
			Unit:    "km",
			Subtext: source,
		},
		{
			ID:      models.CardCyclingTime,
			Label:   "Cycling time",
			Value:   fmt.Sprintf("%.1f", hours),
			Unit:    "h",
			Subtext: source,
		},
		{
			ID:    models.CardCyclingCount,
			Label: "Rides",
			Value: strconv.FormatInt(count, 10),
		},
		{
			ID:      models.CardCyclingEnergy,
			Label:   "Cycling energy",
			Value:   fmt.Sprintf("%.0f", kcal),
			Unit:    "kcal",
			Subtext: fmt.Sprintf("%d of %d rides with energy data", withEnergy, len(rides)),
		},
	}
}
