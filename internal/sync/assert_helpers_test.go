// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package sync

import "testing"

// Assertion helpers shared by the sync tests. t.Helper() keeps failure
// lines pointing at the caller.

func checkIntEqual(t *testing.T, fieldName string, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %d, got %d", fieldName, want, got)
	}
}

func checkInt64Equal(t *testing.T, fieldName string, got, want int64) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %d, got %d", fieldName, want, got)
	}
}

func checkFloatPtrNil(t *testing.T, fieldName string, ptr *float64) {
	t.Helper()
	if ptr != nil {
		t.Errorf("%s should be nil, got %v", fieldName, *ptr)
	}
}

func checkFloatPtrEqual(t *testing.T, fieldName string, ptr *float64, want float64) {
	t.Helper()
	if ptr == nil {
		t.Errorf("%s should not be nil, expected %v", fieldName, want)
		return
	}
	if *ptr != want {
		t.Errorf("%s: expected %v, got %v", fieldName, want, *ptr)
	}
}

func floatPtr(v float64) *float64 { return &v }
func int64Ptr(v int64) *int64     { return &v }
func boolPtr(v bool) *bool        { return &v }
