// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

/*
Command pacekeeper syncs Strava activities into a local cache and derives
a training stats document from the cache plus a curated baseline.

# Modes

One-shot (default): run a single sync, persist the outputs, optionally
write Prometheus metrics to a node-exporter textfile, and exit. Exit status
is 0 on success and 1 on any fatal step, with the error on stderr. This is
the mode for cron or a scheduled CI job.

Daemon (SERVER_ENABLED=true): run under a suture supervisor tree. The
first sync starts immediately and repeats every SYNC_INTERVAL. A chi HTTP
API serves health, the stats document, the watermark, a manual trigger
and /metrics.

# Configuration

Koanf layers, highest priority last: built-in defaults, an optional YAML
file (CONFIG_PATH, ./config.yaml or /etc/pacekeeper/config.yaml), then the
environment.

	STRAVA_CLIENT_ID=12345            # required
	STRAVA_CLIENT_SECRET=...          # required
	STRAVA_REFRESH_TOKEN=...          # required
	SYNC_AFTER=1704067200             # lower bound for the very first run
	SYNC_MAX_DETAIL_LOOKUPS=30        # detail backfill budget per run
	STORAGE_BACKEND=file              # file or badger
	DATA_DIR=data
	BASELINE_PATH=data/baseline.json
	METRICS_TEXTFILE_PATH=/var/lib/node_exporter/pacekeeper.prom
	LOG_LEVEL=info                    # trace, debug, info, warn, error
	LOG_FORMAT=json                   # json or console

# Component initialization order

 1. Configuration: koanf defaults, file, environment; validator/v10
 2. Logging: zerolog
 3. Storage: file or BadgerDB backend
 4. Strava client: oauth2 refresh, x/time/rate limiter, gobreaker on detail lookups
 5. Sync manager
 6. Daemon only: supervisor tree, HTTP API
*/
package main
