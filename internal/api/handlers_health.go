// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/pacekeeper/internal/models"
)

// Health reports liveness. It never touches storage or Strava.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatus{
		Status:     "healthy",
		Version:    h.version,
		Uptime:     time.Since(h.startTime).Seconds(),
		SyncActive: h.sync.IsSyncing(),
	}
	if last := h.sync.LastSyncTime(); !last.IsZero() {
		formatted := last.UTC().Format(time.RFC3339)
		status.LastRun = &formatted
	}

	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, http.StatusOK, status)
}
