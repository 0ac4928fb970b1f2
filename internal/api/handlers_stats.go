// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package api

import (
	"net/http"

	"github.com/goccy/go-json"
)

// Stats serves the persisted stats document. The ETag is derived from the
// document alone so polling dashboards get 304 until the next run.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	doc, err := h.store.LoadStats(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, codeStorageError, "Failed to load stats", err)
		return
	}
	if doc == nil {
		respondError(w, r, http.StatusNotFound, codeNotFound, "No stats have been generated yet", nil)
		return
	}

	data, err := json.Marshal(doc)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, codeStorageError, "Failed to encode stats", err)
		return
	}
	etag := etagFor(data)
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, max-age=60")

	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	respondJSON(w, http.StatusOK, json.RawMessage(data))
}

// SyncState serves the persisted watermark.
func (h *Handler) SyncState(w http.ResponseWriter, r *http.Request) {
	state, err := h.store.LoadSyncState(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, codeStorageError, "Failed to load sync state", err)
		return
	}
	if state == nil {
		respondError(w, r, http.StatusNotFound, codeNotFound, "No sync has completed yet", nil)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, http.StatusOK, state)
}
