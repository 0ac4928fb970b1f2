// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package stats

import (
	"sort"
	"time"

	"github.com/tomtom215/pacekeeper/internal/models"
)

// bucketTime is the athlete-local start used for grouping. Records without
// a local start fall back to the UTC one.
func bucketTime(rec *models.ActivityRecord) (time.Time, bool) {
	if !rec.StartDateLocal.IsZero() {
		return rec.StartDateLocal, true
	}
	if !rec.StartDate.IsZero() {
		return rec.StartDate, true
	}
	return time.Time{}, false
}

// monthlyRollups groups runs and rides by "YYYY-MM", newest month first.
func monthlyRollups(runs, rides []models.ActivityRecord) []models.MonthBucket {
	type pair struct{ run, ride volume }
	byMonth := make(map[string]*pair)

	add := func(records []models.ActivityRecord, pick func(*pair) *volume) {
		for i := range records {
			t, ok := bucketTime(&records[i])
			if !ok {
				continue
			}
			key := t.Format("2006-01")
			p := byMonth[key]
			if p == nil {
				p = &pair{}
				byMonth[key] = p
			}
			pick(p).add(&records[i])
		}
	}
	add(runs, func(p *pair) *volume { return &p.run })
	add(rides, func(p *pair) *volume { return &p.ride })

	keys := make([]string, 0, len(byMonth))
	for k := range byMonth {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))

	out := make([]models.MonthBucket, 0, len(keys))
	for _, k := range keys {
		p := byMonth[k]
		out = append(out, models.MonthBucket{
			Month:   k,
			Running: sportVolume(p.run),
			Cycling: sportVolume(p.ride),
		})
	}
	return out
}

func sportVolume(v volume) models.SportVolume {
	return models.SportVolume{
		DistanceKm: round2(v.km()),
		MovingH:    round2(v.hours()),
		Count:      v.Count,
	}
}

// yearlyRollups groups each sport by calendar year, newest first. The
// running baseline is folded into base.Year, adding distance and time but
// no count.
func yearlyRollups(runs, rides []models.ActivityRecord, base baselineContribution) models.YearlyRollups {
	running := groupByYear(runs)
	if base.Year > 0 {
		b := running[base.Year]
		if b == nil {
			b = &yearTotals{}
			running[base.Year] = b
		}
		b.km += base.DistanceKm
		b.hours += base.Hours
	}

	return models.YearlyRollups{
		Running: yearBuckets(running),
		Cycling: yearBuckets(groupByYear(rides)),
	}
}

type yearTotals struct {
	km    float64
	hours float64
	count int
}

func groupByYear(records []models.ActivityRecord) map[int]*yearTotals {
	byYear := make(map[int]*yearTotals)
	for i := range records {
		t, ok := bucketTime(&records[i])
		if !ok {
			continue
		}
		y := byYear[t.Year()]
		if y == nil {
			y = &yearTotals{}
			byYear[t.Year()] = y
		}
		y.km += records[i].DistanceKm()
		y.hours += float64(records[i].MovingTime) / 3600
		y.count++
	}
	return byYear
}

func yearBuckets(byYear map[int]*yearTotals) []models.YearBucket {
	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	out := make([]models.YearBucket, 0, len(years))
	for _, y := range years {
		t := byYear[y]
		out = append(out, models.YearBucket{
			Year:       y,
			DistanceKm: round2(t.km),
			MovingH:    round2(t.hours),
			Count:      t.count,
		})
	}
	return out
}
