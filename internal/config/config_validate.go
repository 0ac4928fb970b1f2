// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/pacekeeper/internal/validation"
)

// Validate checks that required configuration is present and valid.
// Struct tags are checked first, then the cross-field rules below.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return err
	}

	if err := c.validateStrava(); err != nil {
		return err
	}

	if err := c.validateStorage(); err != nil {
		return err
	}

	if err := c.validateServer(); err != nil {
		return err
	}

	return c.validateLogging()
}

func (c *Config) validateStrava() error {
	if err := validateHTTPURL(c.Strava.APIBaseURL, "STRAVA_API_BASE_URL"); err != nil {
		return fmt.Errorf("STRAVA_API_BASE_URL is invalid: %w", err)
	}
	if err := validateHTTPURL(c.Strava.TokenURL, "STRAVA_TOKEN_URL"); err != nil {
		return fmt.Errorf("STRAVA_TOKEN_URL is invalid: %w", err)
	}
	return nil
}

func (c *Config) validateStorage() error {
	switch c.Storage.Backend {
	case "file":
		if strings.TrimSpace(c.Storage.DataDir) == "" {
			return fmt.Errorf("DATA_DIR is required when STORAGE_BACKEND=file")
		}
	case "badger":
		if strings.TrimSpace(c.Storage.BadgerPath) == "" {
			return fmt.Errorf("BADGER_PATH is required when STORAGE_BACKEND=badger")
		}
	}
	return nil
}

// validateServer only applies in daemon mode.
func (c *Config) validateServer() error {
	if !c.Server.Enabled {
		return nil
	}
	if c.Sync.Interval < time.Minute {
		return fmt.Errorf("SYNC_INTERVAL must be at least 1m in daemon mode, got %v", c.Sync.Interval)
	}
	return nil
}

func (c *Config) validateLogging() error {
	validLevels := map[string]bool{
		"trace": true, "debug": true, "info": true, "warn": true, "error": true, "disabled": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error, disabled; got %q", c.Logging.Level)
	}

	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
