// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

/*
Package api is the daemon-mode HTTP surface, routed with chi.

Endpoints:

	GET  /api/v1/health      liveness, uptime and sync activity
	GET  /api/v1/stats       the persisted stats document (ETag aware)
	GET  /api/v1/sync/state  the persisted watermark
	POST /api/v1/sync        run a sync now; 409 while one is running
	GET  /metrics            Prometheus exposition

Every /api/v1 response uses the models.APIResponse envelope:

	{"status": "success", "data": {...}, "metadata": {"timestamp": "..."}}
	{"status": "error", "data": null, "metadata": {...}, "error": {"code": "SYNC_IN_PROGRESS", "message": "..."}}

The trigger endpoint is rate limited per client IP with httprate. Request
IDs from chi are carried into the zerolog context so handler logs and the
sync run they start can be correlated.
*/
package api
