// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/pacekeeper/config.yaml",
	"/etc/pacekeeper/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with every default applied.
func defaultConfig() *Config {
	return &Config{
		Strava: StravaConfig{
			APIBaseURL:        "https://www.strava.com/api/v3",
			TokenURL:          "https://www.strava.com/oauth/token",
			Timeout:           30 * time.Second,
			RateLimitInterval: 9 * time.Second,
			RateLimitBurst:    100,
		},
		Sync: SyncConfig{
			After:                 0,
			PageSize:              200,
			MaxPages:              10,
			MaxDetailLookups:      30,
			DetailBreakerFailures: 5,
			Interval:              6 * time.Hour,
		},
		Storage: StorageConfig{
			Backend:      "file",
			DataDir:      "data",
			BadgerPath:   "data/badger",
			BaselinePath: "data/baseline.json",
		},
		Stats: StatsConfig{
			BaselineYear: 0,
		},
		Server: ServerConfig{
			Enabled:           false,
			Host:              "0.0.0.0",
			Port:              8080,
			Timeout:           30 * time.Second,
			TriggerRateLimit:  5,
			TriggerRateWindow: time.Minute,
			CORSOrigins:       []string{},
		},
		Metrics: MetricsConfig{
			TextfilePath: "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using the three koanf layers.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file that exists, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps lowercased environment variable names to koanf paths.
// Unmapped variables are ignored.
var envMappings = map[string]string{
	// Strava credentials and client
	"strava_client_id":           "strava.client_id",
	"strava_client_secret":       "strava.client_secret",
	"strava_refresh_token":       "strava.refresh_token",
	"strava_api_base_url":        "strava.api_base_url",
	"strava_token_url":           "strava.token_url",
	"strava_timeout":             "strava.timeout",
	"strava_rate_limit_interval": "strava.rate_limit_interval",
	"strava_rate_limit_burst":    "strava.rate_limit_burst",

	// Sync
	"sync_after":                   "sync.after",
	"sync_page_size":               "sync.page_size",
	"sync_max_pages":               "sync.max_pages",
	"sync_max_detail_lookups":      "sync.max_detail_lookups",
	"sync_detail_breaker_failures": "sync.detail_breaker_failures",
	"sync_interval":                "sync.interval",

	// Storage
	"storage_backend": "storage.backend",
	"data_dir":        "storage.data_dir",
	"badger_path":     "storage.badger_path",
	"baseline_path":   "storage.baseline_path",

	// Stats
	"stats_baseline_year": "stats.baseline_year",

	// Server
	"server_enabled":      "server.enabled",
	"http_host":           "server.host",
	"http_port":           "server.port",
	"http_timeout":        "server.timeout",
	"sync_trigger_limit":  "server.trigger_rate_limit",
	"sync_trigger_window": "server.trigger_rate_window",
	"cors_origins":        "server.cors_origins",
	"trust_proxy_headers": "server.trust_proxy_headers",

	// Metrics
	"metrics_textfile_path": "metrics.textfile_path",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
