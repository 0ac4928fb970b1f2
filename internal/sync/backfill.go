// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package sync

import (
	"context"
	"errors"

	"github.com/tomtom215/pacekeeper/internal/logging"
	"github.com/tomtom215/pacekeeper/internal/metrics"
	"github.com/tomtom215/pacekeeper/internal/models"
	"github.com/tomtom215/pacekeeper/internal/models/strava"
)

// DetailLookup fetches the detailed form of one activity.
type DetailLookup func(ctx context.Context, id int64) (*strava.Activity, error)

// BackfillResult summarizes one backfill pass.
type BackfillResult struct {
	Attempted int
	Enriched  int
	Failed    int

	// Stopped is set when the pass ended early because lookups were being
	// refused (breaker open or context done).
	Stopped bool
}

// needsDetail reports whether rec may be enriched in this run.
func needsDetail(rec *models.ActivityRecord, freshIDs map[int64]struct{}) bool {
	if rec.DetailAttempted || rec.HasEnergy() {
		return false
	}
	_, fresh := freshIDs[rec.ID]
	return fresh
}

// Backfill walks merged (newest first) and looks up detail for eligible
// records, at most budget lookups. Records are patched in place. A record is
// marked attempted whether its lookup succeeds or fails, so it is never
// looked up again. A refused lookup ends the pass and leaves the record
// unmarked.
func Backfill(ctx context.Context, merged []models.ActivityRecord, freshIDs map[int64]struct{}, budget int, lookup DetailLookup) BackfillResult {
	var result BackfillResult
	if budget <= 0 {
		return result
	}

	for i := range merged {
		if result.Attempted >= budget {
			break
		}
		if !needsDetail(&merged[i], freshIDs) {
			continue
		}

		err := backfillOne(ctx, &merged[i], lookup)
		if errors.Is(err, errLookupRefused) {
			result.Stopped = true
			if ctx.Err() == nil {
				metrics.DetailLookups.WithLabelValues("breaker_open").Inc()
			}
			logging.Ctx(ctx).Warn().Int64("activity_id", merged[i].ID).Int("attempted", result.Attempted).
				Msg("Detail lookups refused; ending backfill early")
			break
		}

		result.Attempted++
		if err != nil {
			result.Failed++
			metrics.DetailLookups.WithLabelValues("failure").Inc()
			logDetailFailure(ctx, merged[i].ID, err)
			continue
		}
		result.Enriched++
		metrics.DetailLookups.WithLabelValues("success").Inc()
	}

	return result
}

var errLookupRefused = errors.New("detail lookup refused")

// backfillOne performs one lookup and patches rec on success.
func backfillOne(ctx context.Context, rec *models.ActivityRecord, lookup DetailLookup) (err error) {
	if ctx.Err() != nil {
		return errLookupRefused
	}

	defer func() {
		if !errors.Is(err, errLookupRefused) {
			rec.DetailAttempted = true
		}
	}()

	detail, err := lookup(ctx, rec.ID)
	if err != nil {
		if isBreakerRejection(err) || ctx.Err() != nil {
			return errLookupRefused
		}
		return err
	}

	attempted := true
	enriched := Minimize(*detail, &attempted)
	if enriched.ID != rec.ID {
		enriched.ID = rec.ID
	}
	*rec = enriched
	return nil
}

func logDetailFailure(ctx context.Context, id int64, err error) {
	event := logging.Ctx(ctx).Warn().Int64("activity_id", id)
	var remoteErr *RemoteFetchError
	if errors.As(err, &remoteErr) {
		event = event.Int("status", remoteErr.Status).Str("fault", remoteErr.FaultMessage())
	} else {
		event = event.Err(err)
	}
	event.Msg("Detail lookup failed; record marked as attempted")
}
