// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package sync

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/pacekeeper/internal/models/strava"
)

// ErrSyncInProgress is returned by TriggerSync when a run is already active.
var ErrSyncInProgress = errors.New("sync already in progress")

// CredentialError reports a failed refresh-token exchange.
type CredentialError struct {
	Status int // 0 when no HTTP response was received
	Err    error
}

func (e *CredentialError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("credential exchange failed with status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("credential exchange failed: %v", e.Err)
}

func (e *CredentialError) Unwrap() error { return e.Err }

// ErrorType labels the error for metrics.
func (e *CredentialError) ErrorType() string { return "credential" }

// RemoteFetchError reports a non-2xx response from the Strava API.
type RemoteFetchError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *RemoteFetchError) Error() string {
	return fmt.Sprintf("%s request failed with status %d: %s", e.Endpoint, e.Status, e.Body)
}

// ErrorType labels the error for metrics.
func (e *RemoteFetchError) ErrorType() string { return "remote_fetch" }

// FaultMessage extracts the human-readable part of a Strava fault body.
// Falls back to the raw body when it is not a fault document.
func (e *RemoteFetchError) FaultMessage() string {
	var fault strava.Fault
	if err := json.Unmarshal([]byte(e.Body), &fault); err != nil || fault.Message == "" {
		return e.Body
	}
	if len(fault.Errors) == 0 {
		return fault.Message
	}
	parts := make([]string, 0, len(fault.Errors))
	for _, fe := range fault.Errors {
		parts = append(parts, fe.Resource+"."+fe.Field+" "+fe.Code)
	}
	return fault.Message + " (" + strings.Join(parts, ", ") + ")"
}

// MalformedResponseError reports a 2xx response whose body does not have the
// expected shape.
type MalformedResponseError struct {
	Endpoint string
	Err      error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s returned a malformed response: %v", e.Endpoint, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// ErrorType labels the error for metrics.
func (e *MalformedResponseError) ErrorType() string { return "malformed_response" }

// StorageError reports a failure reading or writing persisted state.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ErrorType labels the error for metrics.
func (e *StorageError) ErrorType() string { return "storage" }
