// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

// Package config loads Pacekeeper configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values for every optional setting
//  2. Config File: optional YAML file (config.yaml or CONFIG_PATH)
//  3. Environment Variables: STRAVA_CLIENT_ID, SYNC_AFTER, LOG_LEVEL, ...
//
// Config is immutable after Load and safe for concurrent reads.
package config

import (
	"time"
)

// Config holds all application configuration.
type Config struct {
	Strava  StravaConfig  `koanf:"strava"`
	Sync    SyncConfig    `koanf:"sync"`
	Storage StorageConfig `koanf:"storage"`
	Stats   StatsConfig   `koanf:"stats"`
	Server  ServerConfig  `koanf:"server"`
	Metrics MetricsConfig `koanf:"metrics"`
	Logging LoggingConfig `koanf:"logging"`
}

// StravaConfig holds the remote API credentials and client settings.
type StravaConfig struct {
	ClientID     string `koanf:"client_id" validate:"required"`
	ClientSecret string `koanf:"client_secret" validate:"required"`
	RefreshToken string `koanf:"refresh_token" validate:"required"`

	// APIBaseURL and TokenURL are overridable so tests can point at a fake server.
	APIBaseURL string `koanf:"api_base_url" validate:"required"`
	TokenURL   string `koanf:"token_url" validate:"required"`

	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// RateLimitInterval is the refill period of the outbound token bucket.
	// 9s matches Strava's 100 requests per 15 minutes.
	RateLimitInterval time.Duration `koanf:"rate_limit_interval" validate:"gte=0"`
	RateLimitBurst    int           `koanf:"rate_limit_burst" validate:"min=1"`
}

// SyncConfig controls a single sync run and the daemon schedule.
type SyncConfig struct {
	// After is the initial lower bound (epoch seconds), used only when no
	// watermark has been persisted yet.
	After int64 `koanf:"after" validate:"gte=0"`

	PageSize int `koanf:"page_size" validate:"min=1,max=200"`
	MaxPages int `koanf:"max_pages" validate:"min=1,max=100"`

	// MaxDetailLookups bounds detail backfill per run. 0 disables backfill.
	MaxDetailLookups      int `koanf:"max_detail_lookups" validate:"gte=0"`
	DetailBreakerFailures int `koanf:"detail_breaker_failures" validate:"min=1"`

	// Interval is the daemon-mode period between runs.
	Interval time.Duration `koanf:"interval"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Backend      string `koanf:"backend" validate:"oneof=file badger"`
	DataDir      string `koanf:"data_dir"`
	BadgerPath   string `koanf:"badger_path"`
	BaselinePath string `koanf:"baseline_path" validate:"required"`
}

// StatsConfig holds stats engine settings.
type StatsConfig struct {
	// BaselineYear is the year the running baseline is folded into for the
	// yearly rollup when the baseline document does not name one. 0 = unset.
	BaselineYear int `koanf:"baseline_year" validate:"omitempty,gte=1970,lte=2100"`
}

// ServerConfig holds daemon-mode HTTP settings.
type ServerConfig struct {
	Enabled bool          `koanf:"enabled"`
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout time.Duration `koanf:"timeout" validate:"gt=0"`

	// TriggerRateLimit caps POST /api/v1/sync per client IP per TriggerRateWindow.
	TriggerRateLimit  int           `koanf:"trigger_rate_limit" validate:"min=1"`
	TriggerRateWindow time.Duration `koanf:"trigger_rate_window" validate:"gt=0"`

	// CORSOrigins lists origins allowed to read the API from a browser
	// dashboard. Empty disables cross-origin access.
	CORSOrigins []string `koanf:"cors_origins"`

	// TrustProxyHeaders takes the client IP from X-Forwarded-For / X-Real-IP
	// for rate limiting. Enable only behind a reverse proxy.
	TrustProxyHeaders bool `koanf:"trust_proxy_headers"`
}

// MetricsConfig holds Prometheus export settings.
type MetricsConfig struct {
	// TextfilePath, when set, receives the metrics in text exposition format
	// after a one-shot run (node-exporter textfile collector).
	TextfilePath string `koanf:"textfile_path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json or console.
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Load reads configuration from defaults, the optional YAML file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
