// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package stats

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tomtom215/pacekeeper/internal/models"
)

// kilojoulesToKcal converts mechanical work to dietary kilocalories.
const kilojoulesToKcal = 0.239006

// dateLayout is used for every date shown in a card subtext.
const dateLayout = "2006-01-02"

// ParsePace parses a minutes-per-km pace given as "M:SS" or "M.SS" into
// seconds. The dot is a seconds separator, not a decimal point.
func ParsePace(text string) (int, bool) {
	minutes, seconds, ok := splitMinutesSeconds(strings.TrimSpace(text))
	if !ok {
		return 0, false
	}
	return minutes*60 + seconds, true
}

// ParseRecordTime parses a baseline record time into seconds. "MM:SS" and
// "MM.SS" are minutes and seconds, "H:MM:SS" adds hours, and a bare integer
// is whole minutes. Anything else is unparseable.
func ParseRecordTime(text string) (int, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, false
	}

	if parts := strings.Split(text, ":"); len(parts) == 3 {
		hours, err := strconv.Atoi(parts[0])
		if err != nil || hours < 0 {
			return 0, false
		}
		minutes, seconds, ok := splitMinutesSeconds(parts[1] + ":" + parts[2])
		if !ok || minutes > 59 {
			return 0, false
		}
		return hours*3600 + minutes*60 + seconds, true
	}

	if minutes, seconds, ok := splitMinutesSeconds(text); ok {
		return minutes*60 + seconds, true
	}

	if strings.ContainsAny(text, ":.") {
		return 0, false
	}
	minutes, err := strconv.Atoi(text)
	if err != nil || minutes < 0 {
		return 0, false
	}
	return minutes * 60, true
}

// splitMinutesSeconds parses "M:SS" or "M.SS" with a one or two digit seconds
// part below 60. "6.5" is six minutes and five seconds.
func splitMinutesSeconds(text string) (minutes, seconds int, ok bool) {
	sep := strings.IndexAny(text, ":.")
	if sep <= 0 || sep != strings.LastIndexAny(text, ":.") {
		return 0, 0, false
	}
	minPart, secPart := text[:sep], text[sep+1:]
	if len(secPart) == 0 || len(secPart) > 2 {
		return 0, 0, false
	}

	m, err := strconv.Atoi(minPart)
	if err != nil || m < 0 {
		return 0, 0, false
	}
	s, err := strconv.Atoi(secPart)
	if err != nil || s < 0 || s > 59 {
		return 0, 0, false
	}
	return m, s, true
}

// FormatPace renders seconds per km as "M:SS".
func FormatPace(secondsPerKm int) string {
	return fmt.Sprintf("%d:%02d", secondsPerKm/60, secondsPerKm%60)
}

// FormatDuration renders seconds as "M:SS", or "H:MM:SS" from one hour up.
func FormatDuration(seconds int64) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// formatRecordDistance uses one decimal from 10 km up, two below.
func formatRecordDistance(km float64) string {
	if km >= 10 {
		return fmt.Sprintf("%.1f", km)
	}
	return fmt.Sprintf("%.2f", km)
}

// paceOf returns whole seconds per km, floored.
func paceOf(rec *models.ActivityRecord) (int, bool) {
	km := rec.DistanceKm()
	if km <= 0 || rec.MovingTime <= 0 {
		return 0, false
	}
	return int(math.Floor(float64(rec.MovingTime) / km)), true
}

// speedKmh prefers distance over moving time, then the reported average.
func speedKmh(rec *models.ActivityRecord) (float64, bool) {
	if rec.MovingTime > 0 && rec.Distance > 0 {
		return rec.Distance / float64(rec.MovingTime) * 3.6, true
	}
	if rec.AverageSpeed != nil && *rec.AverageSpeed > 0 {
		return *rec.AverageSpeed * 3.6, true
	}
	return 0, false
}

// localDate is the athlete's calendar date of rec, or "" when undated.
func localDate(rec *models.ActivityRecord) string {
	switch {
	case !rec.StartDateLocal.IsZero():
		return rec.StartDateLocal.Format(dateLayout)
	case !rec.StartDate.IsZero():
		return rec.StartDate.Format(dateLayout)
	default:
		return ""
	}
}

// joinSubtext joins the non-empty parts with a middle dot.
func joinSubtext(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " · ")
}

// round2 rounds to two decimals for rollup output.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// energyKcal is the reported calories, else converted kilojoules, else 0.
func energyKcal(rec *models.ActivityRecord) float64 {
	if rec.Calories != nil {
		return *rec.Calories
	}
	if rec.Kilojoules != nil {
		return *rec.Kilojoules * kilojoulesToKcal
	}
	return 0
}
