// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package models

// Baseline is the curated, read-only record of running history that predates
// the activity feed.
//
//	{
//	  "running": {"distance_km": 500, "avg_pace": "6:00", "year": 2019},
//	  "records": {
//	    "farthest_run": {"distance_km": 21.1, "time": "1:58:00", "pace": "5:35", "date": "2018-10-07"},
//	    "best_5k":      {"time": "24:10", "pace": "4:50", "date": "2019-06-01"},
//	    "best_10k":     {"time": "51:30", "pace": "5:09", "date": "2019-04-14"}
//	  }
//	}
type Baseline struct {
	Running RunningBaseline `json:"running"`
	Records BaselineRecords `json:"records"`
}

// RunningBaseline is the cumulative running volume before the feed.
type RunningBaseline struct {
	DistanceKm float64 `json:"distance_km" validate:"gte=0"`

	// AvgPace is minutes per km as "M:SS" or "M.SS".
	AvgPace string `json:"avg_pace" validate:"omitempty,pace"`

	// Year is the yearly-rollup bucket the baseline volume is folded into.
	// 0 means unset.
	Year int `json:"year,omitempty" validate:"omitempty,gte=1970,lte=2100"`
}

// BaselineRecords holds the named personal records.
type BaselineRecords struct {
	FarthestRun *PersonalRecord `json:"farthest_run,omitempty"`
	Best5K      *PersonalRecord `json:"best_5k,omitempty"`
	Best10K     *PersonalRecord `json:"best_10k,omitempty"`
}

// PersonalRecord is display text for one record. DistanceKm is only used by
// the farthest run.
type PersonalRecord struct {
	DistanceKm float64 `json:"distance_km,omitempty" validate:"gte=0"`
	Time       string  `json:"time,omitempty"`
	Pace       string  `json:"pace,omitempty"`
	Date       string  `json:"date,omitempty"`
}
