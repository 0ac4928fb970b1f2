// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package stats

import "github.com/tomtom215/pacekeeper/internal/models"

var runningSports = map[string]struct{}{
	"Run":        {},
	"TrailRun":   {},
	"VirtualRun": {},
}

var cyclingSports = map[string]struct{}{
	"Ride":              {},
	"VirtualRide":       {},
	"EBikeRide":         {},
	"EMountainBikeRide": {},
	"GravelRide":        {},
	"MountainBikeRide":  {},
	"Handcycle":         {},
	"Velomobile":        {},
}

// IsRunning reports whether sport counts as running.
func IsRunning(sport string) bool {
	_, ok := runningSports[sport]
	return ok
}

// IsCycling reports whether sport counts as cycling.
func IsCycling(sport string) bool {
	_, ok := cyclingSports[sport]
	return ok
}

// classify splits records into runs and rides, preserving order.
// Other sports are dropped.
func classify(records []models.ActivityRecord) (runs, rides []models.ActivityRecord) {
	for i := range records {
		switch {
		case IsRunning(records[i].SportType):
			runs = append(runs, records[i])
		case IsCycling(records[i].SportType):
			rides = append(rides, records[i])
		}
	}
	return runs, rides
}

// volume is summed distance, moving time and count.
type volume struct {
	Meters  float64
	Seconds int64
	Count   int
}

func (v *volume) add(rec *models.ActivityRecord) {
	v.Meters += rec.Distance
	v.Seconds += rec.MovingTime
	v.Count++
}

func (v volume) km() float64    { return v.Meters / 1000 }
func (v volume) hours() float64 { return float64(v.Seconds) / 3600 }

func sum(records []models.ActivityRecord) volume {
	var v volume
	for i := range records {
		v.add(&records[i])
	}
	return v
}
