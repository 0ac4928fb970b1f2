// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"
)

var _ suture.Service = (*SyncService)(nil)

// fakeManager records lifecycle calls. The first failStarts calls to Start
// fail.
type fakeManager struct {
	starts     atomic.Int32
	stops      atomic.Int32
	failStarts int32
	stopErr    error
}

func (m *fakeManager) Start(ctx context.Context) error {
	if m.starts.Add(1) <= m.failStarts {
		return errors.New("sync interval must be positive")
	}
	return nil
}

func (m *fakeManager) Stop() error {
	m.stops.Add(1)
	return m.stopErr
}

func serveInBackground(ctx context.Context, svc suture.Service) <-chan error {
	done := make(chan error, 1)
	go func() { done <- svc.Serve(ctx) }()
	return done
}

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met before deadline")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSyncService_StartThenStopOnCancel(t *testing.T) {
	mgr := &fakeManager{}
	svc := NewSyncService(mgr)

	ctx, cancel := context.WithCancel(context.Background())
	done := serveInBackground(ctx, svc)

	waitUntil(t, func() bool { return mgr.starts.Load() == 1 })
	if mgr.stops.Load() != 0 {
		t.Error("Expected the manager to keep running until cancel")
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("service did not stop in time")
	}
	if mgr.stops.Load() != 1 {
		t.Errorf("Expected 1 Stop call, got %d", mgr.stops.Load())
	}
}

func TestSyncService_Errors(t *testing.T) {
	t.Run("start failure is returned without stopping", func(t *testing.T) {
		mgr := &fakeManager{failStarts: 1}
		err := NewSyncService(mgr).Serve(context.Background())
		if err == nil {
			t.Fatal("Expected start error, got nil")
		}
		if mgr.stops.Load() != 0 {
			t.Error("Expected no Stop after a failed Start")
		}
	})

	t.Run("stop failure is wrapped", func(t *testing.T) {
		stopErr := errors.New("sync manager is not running")
		mgr := &fakeManager{stopErr: stopErr}
		ctx, cancel := context.WithCancel(context.Background())
		done := serveInBackground(ctx, NewSyncService(mgr))

		waitUntil(t, func() bool { return mgr.starts.Load() == 1 })
		cancel()

		if err := <-done; !errors.Is(err, stopErr) {
			t.Errorf("Expected wrapped stop error, got %v", err)
		}
	})
}

func TestSyncService_RestartedBySupervisor(t *testing.T) {
	mgr := &fakeManager{failStarts: 2}
	sup := suture.New("sync-test", suture.Spec{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		Timeout:          time.Second,
	})
	sup.Add(NewSyncService(mgr))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := sup.ServeBackground(ctx)

	waitUntil(t, func() bool { return mgr.starts.Load() >= 3 })
	cancel()
	<-errCh

	if mgr.stops.Load() != 1 {
		t.Errorf("Expected the successful start to be stopped once, got %d", mgr.stops.Load())
	}
	if name := NewSyncService(mgr).String(); name != "sync-schedule" {
		t.Errorf("Expected name sync-schedule, got %q", name)
	}
}
