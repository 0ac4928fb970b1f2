// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/pacekeeper/internal/logging"
	"github.com/tomtom215/pacekeeper/internal/metrics"
	"github.com/tomtom215/pacekeeper/internal/models"
	"github.com/tomtom215/pacekeeper/internal/models/strava"
	"github.com/tomtom215/pacekeeper/internal/stats"
)

// RunResult summarizes one successful run.
type RunResult struct {
	RunID             string    `json:"run_id"`
	StartedAt         time.Time `json:"started_at"`
	DurationMs        int64     `json:"duration_ms"`
	Pages             int       `json:"pages"`
	Fetched           int       `json:"fetched"`
	New               int       `json:"new"`
	Merged            int       `json:"merged"`
	Enriched          int       `json:"enriched"`
	FailedLookups     int       `json:"failed_lookups"`
	BackfillStopped   bool      `json:"backfill_stopped"`
	PreviousWatermark int64     `json:"previous_watermark"`
	NextWatermark     int64     `json:"next_watermark"`
}

// run executes the pipeline. Callers hold syncMu. Nothing is persisted
// unless every fatal step succeeded.
func (m *Manager) run(ctx context.Context) (*RunResult, error) {
	ctx = logging.ContextWithNewRunID(ctx)
	startedAt := m.now()

	result, err := m.runPipeline(ctx, startedAt)
	if err != nil {
		duration := m.now().Sub(startedAt)
		fetched := 0
		if result != nil {
			fetched = result.Fetched
		}
		metrics.RecordSyncOperation(duration, fetched, err)
		logging.Ctx(ctx).Error().Err(err).Dur("duration", duration).Msg("Sync run failed")
		return nil, err
	}

	m.finalizeSyncOperation(ctx, result)
	return result, nil
}

func (m *Manager) runPipeline(ctx context.Context, startedAt time.Time) (*RunResult, error) {
	result := &RunResult{
		RunID:     logging.RunIDFromContext(ctx),
		StartedAt: startedAt,
	}
	log := logging.Ctx(ctx)

	baseline, err := m.store.LoadBaseline(ctx)
	if err != nil {
		return result, &StorageError{Op: "load baseline", Err: err}
	}
	cached, err := m.store.LoadActivities(ctx)
	if err != nil {
		return result, &StorageError{Op: "load activities", Err: err}
	}
	state, err := m.store.LoadSyncState(ctx)
	if err != nil {
		return result, &StorageError{Op: "load sync state", Err: err}
	}

	after := m.resolveAfter(state)
	result.PreviousWatermark = after
	log.Info().Int64("after", after).Int("cached", len(cached)).Msg("Starting sync run")

	creds, err := m.client.Authenticate(ctx)
	if err != nil {
		return result, err
	}

	athleteStats, err := m.client.GetAthleteStats(ctx, creds.AthleteID)
	if err != nil {
		return result, fmt.Errorf("fetch lifetime totals: %w", err)
	}
	totals := toLifetimeTotals(athleteStats)

	raws, pages, err := fetchActivitiesSince(ctx, m.client, after, m.cfg.Sync.PageSize, m.cfg.Sync.MaxPages)
	result.Pages = pages
	if err != nil {
		return result, err
	}
	result.Fetched = len(raws)

	fresh, freshIDs, newCount := minimizeFresh(raws, cached)
	result.New = newCount

	merged := Merge(cached, fresh)
	result.Merged = len(merged)

	bf := Backfill(ctx, merged, freshIDs, m.cfg.Sync.MaxDetailLookups, m.client.GetActivity)
	result.Enriched = bf.Enriched
	result.FailedLookups = bf.Failed
	result.BackfillStopped = bf.Stopped
	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("sync run canceled: %w", err)
	}

	result.NextWatermark = NextWatermark(merged, after)

	doc := stats.Compute(baseline, merged, totals, stats.Options{
		Now:          m.now(),
		BaselineYear: m.cfg.Stats.BaselineYear,
		Logger:       log,
	})

	nextState := &models.SyncState{
		LastSyncEpoch: result.NextWatermark,
		UpdatedAt:     m.now().UTC().Format(time.RFC3339),
	}
	if err := m.store.SaveRun(ctx, merged, nextState, &doc); err != nil {
		return result, &StorageError{Op: "save run", Err: err}
	}

	return result, nil
}

// resolveAfter picks the persisted watermark, falling back to sync.after.
func (m *Manager) resolveAfter(state *models.SyncState) int64 {
	if state != nil {
		return state.LastSyncEpoch
	}
	return m.cfg.Sync.After
}

// minimizeFresh converts fetched payloads, carrying detail_attempted forward
// from the cached record each one supersedes. A summary with no energy
// fields keeps the calories and kilojoules a previous backfill patched in,
// since an attempted record is never looked up again.
// Returns the records, their ids, and how many were not cached before.
func minimizeFresh(raws []strava.Activity, cached []models.ActivityRecord) ([]models.ActivityRecord, map[int64]struct{}, int) {
	priors := make(map[int64]*models.ActivityRecord, len(cached))
	for i := range cached {
		priors[cached[i].ID] = &cached[i]
	}

	fresh := make([]models.ActivityRecord, 0, len(raws))
	freshIDs := make(map[int64]struct{}, len(raws))
	newCount := 0
	for i := range raws {
		if raws[i].ID == 0 {
			continue
		}
		prior, cachedBefore := priors[raws[i].ID]
		if !cachedBefore {
			if _, seen := freshIDs[raws[i].ID]; !seen {
				newCount++
			}
			fresh = append(fresh, Minimize(raws[i], nil))
			freshIDs[raws[i].ID] = struct{}{}
			continue
		}

		flag := prior.DetailAttempted
		rec := Minimize(raws[i], &flag)
		if flag && !rec.HasEnergy() {
			mapFloatField(prior.Calories, &rec.Calories)
			mapFloatField(prior.Kilojoules, &rec.Kilojoules)
		}
		fresh = append(fresh, rec)
		freshIDs[raws[i].ID] = struct{}{}
	}
	return fresh, freshIDs, newCount
}

// finalizeSyncOperation records a successful run and notifies the callback.
func (m *Manager) finalizeSyncOperation(ctx context.Context, result *RunResult) {
	duration := m.now().Sub(result.StartedAt)
	result.DurationMs = duration.Milliseconds()

	m.mu.Lock()
	m.lastSync = result.StartedAt
	m.lastResult = result
	callback := m.onSyncCompleted
	m.mu.Unlock()

	metrics.RecordSyncOperation(duration, result.Fetched, nil)
	metrics.SyncNewRecords.Add(float64(result.New))
	metrics.SyncCachedRecords.Set(float64(result.Merged))
	metrics.SyncWatermark.Set(float64(result.NextWatermark))

	if callback != nil {
		callback(result)
	}

	logging.Ctx(ctx).Info().
		Int("pages", result.Pages).
		Int("fetched", result.Fetched).
		Int("new", result.New).
		Int("merged", result.Merged).
		Int("enriched", result.Enriched).
		Int("failed_lookups", result.FailedLookups).
		Bool("backfill_stopped", result.BackfillStopped).
		Int64("previous_watermark", result.PreviousWatermark).
		Int64("next_watermark", result.NextWatermark).
		Dur("duration", duration).
		Msg("Sync completed")
}
