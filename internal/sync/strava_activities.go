// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package sync

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/tomtom215/pacekeeper/internal/logging"
	"github.com/tomtom215/pacekeeper/internal/metrics"
	"github.com/tomtom215/pacekeeper/internal/models"
	"github.com/tomtom215/pacekeeper/internal/models/strava"
)

// Metric and error labels for each remote endpoint.
const (
	endpointAthleteStats = "athlete_stats"
	endpointActivities   = "athlete_activities"
	endpointActivity     = "activity_detail"
)

// ListActivities fetches one page of activity summaries, newest-first.
// after is an epoch-seconds lower bound; 0 means no bound.
func (c *StravaClient) ListActivities(ctx context.Context, after int64, page, perPage int) ([]strava.Activity, error) {
	params := url.Values{}
	params.Set("per_page", strconv.Itoa(perPage))
	params.Set("page", strconv.Itoa(page))
	if after > 0 {
		params.Set("after", strconv.FormatInt(after, 10))
	}

	body, err := c.get(ctx, endpointActivities, "/athlete/activities", params)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &MalformedResponseError{
			Endpoint: endpointActivities,
			Err:      fmt.Errorf("expected a JSON array, got %q", truncate(string(trimmed), 120)),
		}
	}

	var activities []strava.Activity
	if err := json.Unmarshal(trimmed, &activities); err != nil {
		return nil, &MalformedResponseError{Endpoint: endpointActivities, Err: err}
	}
	return activities, nil
}

// GetAthleteStats fetches the athlete's lifetime totals.
func (c *StravaClient) GetAthleteStats(ctx context.Context, athleteID int64) (*strava.AthleteStats, error) {
	body, err := c.get(ctx, endpointAthleteStats, "/athletes/"+strconv.FormatInt(athleteID, 10)+"/stats", nil)
	if err != nil {
		return nil, err
	}

	var stats strava.AthleteStats
	if err := json.Unmarshal(body, &stats); err != nil {
		return nil, &MalformedResponseError{Endpoint: endpointAthleteStats, Err: err}
	}
	return &stats, nil
}

// GetActivity fetches the detailed representation of one activity.
func (c *StravaClient) GetActivity(ctx context.Context, id int64) (*strava.Activity, error) {
	body, err := c.get(ctx, endpointActivity, "/activities/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return nil, err
	}

	var activity strava.Activity
	if err := json.Unmarshal(body, &activity); err != nil {
		return nil, &MalformedResponseError{Endpoint: endpointActivity, Err: err}
	}
	return &activity, nil
}

// fetchActivitiesSince pages through /athlete/activities until a short page
// or the page ceiling. Returns the raw items page 1 first and the number of
// pages requested.
func fetchActivitiesSince(ctx context.Context, client StravaClientInterface, after int64, pageSize, maxPages int) ([]strava.Activity, int, error) {
	var all []strava.Activity
	pages := 0

	for page := 1; page <= maxPages; page++ {
		batch, err := client.ListActivities(ctx, after, page, pageSize)
		if err != nil {
			return nil, pages, fmt.Errorf("fetch activities page %d: %w", page, err)
		}
		pages++
		metrics.SyncPagesFetched.Inc()

		all = append(all, batch...)
		logging.Ctx(ctx).Debug().Int("page", page).Int("items", len(batch)).Msg("Fetched activity page")

		if len(batch) < pageSize {
			return all, pages, nil
		}
	}

	logging.Ctx(ctx).Warn().Int("max_pages", maxPages).Int("fetched", len(all)).
		Msg("Reached page ceiling; remaining activities were not fetched")
	return all, pages, nil
}

// toLifetimeTotals copies the reported aggregates. Absent sports stay nil.
func toLifetimeTotals(s *strava.AthleteStats) models.LifetimeTotals {
	var totals models.LifetimeTotals
	if s == nil {
		return totals
	}
	totals.AllRunTotals = toActivityTotal(s.AllRunTotals)
	totals.AllRideTotals = toActivityTotal(s.AllRideTotals)
	return totals
}

func toActivityTotal(t *strava.ActivityTotal) *models.ActivityTotal {
	if t == nil {
		return nil
	}
	return &models.ActivityTotal{
		Count:         t.Count,
		Distance:      t.Distance,
		MovingTime:    t.MovingTime,
		ElapsedTime:   t.ElapsedTime,
		ElevationGain: t.ElevationGain,
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
