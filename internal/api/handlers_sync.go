// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/tomtom215/pacekeeper/internal/logging"
	syncpkg "github.com/tomtom215/pacekeeper/internal/sync"
)

// errorTyper is implemented by the typed sync errors.
type errorTyper interface {
	ErrorType() string
}

// TriggerSync runs one sync and returns its RunResult. The run is detached
// from the request's cancellation so a client disconnect cannot abort it
// halfway.
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithoutCancel(r.Context())

	logging.Ctx(ctx).Info().Msg("Sync triggered via API")

	result, err := h.sync.TriggerSync(ctx)
	if err != nil {
		status, code, message := syncErrorResponse(err)
		var logErr error
		if status >= http.StatusInternalServerError {
			logErr = err
		}
		respondError(w, r, status, code, message, logErr)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, http.StatusOK, result)
}

// syncErrorResponse maps a run error to an HTTP status, code and message.
// Remote failures are 502, local ones 500.
func syncErrorResponse(err error) (status int, code, message string) {
	if errors.Is(err, syncpkg.ErrSyncInProgress) {
		return http.StatusConflict, codeSyncInProgress, "A sync is already running"
	}

	var typed errorTyper
	if !errors.As(err, &typed) {
		return http.StatusInternalServerError, codeSyncFailed, "Sync failed"
	}

	errType := typed.ErrorType()
	code = strings.ToUpper(errType) + "_ERROR"
	switch errType {
	case "credential":
		return http.StatusBadGateway, code, "Strava rejected the credential exchange"
	case "remote_fetch":
		return http.StatusBadGateway, code, "Strava request failed"
	case "malformed_response":
		return http.StatusBadGateway, code, "Strava returned an unexpected response"
	case "storage":
		return http.StatusInternalServerError, code, "Failed to read or write sync state"
	default:
		return http.StatusInternalServerError, codeSyncFailed, "Sync failed"
	}
}
