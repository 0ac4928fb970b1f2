// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package stats

import (
	"fmt"
	"math"

	"github.com/tomtom215/pacekeeper/internal/models"
)

// Distance windows for best-effort matching, in km.
const (
	distance5K   = 5.0
	tolerance5K  = 0.08
	distance10K  = 10.0
	tolerance10K = 0.12
)

// recordCards builds the personal-record cards. A card is omitted when
// neither the baseline nor the local records have a value for it.
func recordCards(baseline *models.Baseline, runs, rides []models.ActivityRecord) []models.Card {
	var cards []models.Card
	if c, ok := farthestRideCard(rides); ok {
		cards = append(cards, c)
	}
	if c, ok := farthestRunCard(baseline.Records.FarthestRun, runs); ok {
		cards = append(cards, c)
	}
	if c, ok := bestEffortCard(models.CardBest5K, "Best 5K", distance5K, tolerance5K, baseline.Records.Best5K, runs); ok {
		cards = append(cards, c)
	}
	if c, ok := bestEffortCard(models.CardBest10K, "Best 10K", distance10K, tolerance10K, baseline.Records.Best10K, runs); ok {
		cards = append(cards, c)
	}
	return cards
}

// farthest returns the record with the greatest distance. The first one
// wins a tie.
func farthest(records []models.ActivityRecord) *models.ActivityRecord {
	var best *models.ActivityRecord
	for i := range records {
		if best == nil || records[i].Distance > best.Distance {
			best = &records[i]
		}
	}
	return best
}

func farthestRideCard(rides []models.ActivityRecord) (models.Card, bool) {
	best := farthest(rides)
	if best == nil {
		return models.Card{}, false
	}

	speed := ""
	if kmh, ok := speedKmh(best); ok {
		speed = fmt.Sprintf("%.1f km/h", kmh)
	}

	return models.Card{
		ID:      models.CardFarthestRide,
		Label:   "Farthest ride",
		Value:   formatRecordDistance(best.DistanceKm()),
		Unit:    "km",
		Subtext: joinSubtext(speed, localDate(best)),
	}, true
}

// farthestRunCard keeps the baseline unless a local run is strictly longer.
func farthestRunCard(base *models.PersonalRecord, runs []models.ActivityRecord) (models.Card, bool) {
	card := models.Card{
		ID:    models.CardFarthestRun,
		Label: "Farthest run",
		Unit:  "km",
	}

	baseKm := 0.0
	if base != nil {
		baseKm = base.DistanceKm
	}

	best := farthest(runs)
	if best != nil && best.DistanceKm() > baseKm {
		card.Value = formatRecordDistance(best.DistanceKm())
		card.Subtext = localRecordSubtext(best)
		return card, true
	}

	if base == nil {
		return models.Card{}, false
	}
	card.Value = formatRecordDistance(base.DistanceKm)
	card.Subtext = baselineSubtext(base)
	return card, true
}

// bestEffortCard keeps the baseline unless a local run within tolerance of
// the nominal distance is strictly faster. An unparseable baseline time
// counts as no baseline.
func bestEffortCard(id, label string, nominalKm, toleranceKm float64, base *models.PersonalRecord, runs []models.ActivityRecord) (models.Card, bool) {
	card := models.Card{ID: id, Label: label}

	var best *models.ActivityRecord
	for i := range runs {
		if runs[i].MovingTime <= 0 || math.Abs(runs[i].DistanceKm()-nominalKm) > toleranceKm {
			continue
		}
		if best == nil || runs[i].MovingTime < best.MovingTime {
			best = &runs[i]
		}
	}

	baseSeconds, baseOK := 0, false
	if base != nil {
		baseSeconds, baseOK = ParseRecordTime(base.Time)
	}

	if best != nil && (!baseOK || best.MovingTime < int64(baseSeconds)) {
		card.Value = FormatDuration(best.MovingTime)
		card.Subtext = localRecordSubtext(best)
		return card, true
	}

	if base == nil || base.Time == "" {
		return models.Card{}, false
	}
	card.Value = base.Time
	card.Subtext = baselineSubtext(base)
	return card, true
}

// localRecordSubtext is "<pace> /km · <date>".
func localRecordSubtext(rec *models.ActivityRecord) string {
	pace := ""
	if secPerKm, ok := paceOf(rec); ok {
		pace = FormatPace(secPerKm) + " /km"
	}
	return joinSubtext(pace, localDate(rec))
}

// baselineSubtext renders the curated pace and date text unchanged.
func baselineSubtext(rec *models.PersonalRecord) string {
	pace := ""
	if rec.Pace != "" {
		pace = rec.Pace + " /km"
	}
	return joinSubtext(pace, rec.Date)
}
