// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package models

import (
	"time"
)

// APIResponse is the envelope every daemon-mode HTTP endpoint returns.
//
//	{
//	  "status": "success",
//	  "data": {"lastSyncEpoch": 1718000000, "updatedAt": "2024-06-10T06:13:20Z"},
//	  "metadata": {"timestamp": "2024-06-10T06:14:02Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries response metadata.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
}

// APIError describes a failed request.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the body of GET /api/v1/health.
type HealthStatus struct {
	Status     string  `json:"status"`
	Version    string  `json:"version"`
	Uptime     float64 `json:"uptime_seconds"`
	SyncActive bool    `json:"sync_active"`
	LastRun    *string `json:"last_run,omitempty"`
}
