// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/pacekeeper/internal/models"
	syncpkg "github.com/tomtom215/pacekeeper/internal/sync"
)

type fakeStore struct {
	stats    *models.StatsDocument
	state    *models.SyncState
	statsErr error
}

func (s *fakeStore) LoadStats(ctx context.Context) (*models.StatsDocument, error) {
	return s.stats, s.statsErr
}

func (s *fakeStore) LoadSyncState(ctx context.Context) (*models.SyncState, error) {
	return s.state, nil
}

type fakeSyncer struct {
	mu       sync.Mutex
	result   *syncpkg.RunResult
	err      error
	syncing  bool
	last     time.Time
	triggers int
	ctxErr   error
}

func (f *fakeSyncer) TriggerSync(ctx context.Context) (*syncpkg.RunResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggers++
	f.ctxErr = ctx.Err()
	return f.result, f.err
}

func (f *fakeSyncer) IsSyncing() bool         { return f.syncing }
func (f *fakeSyncer) LastSyncTime() time.Time { return f.last }

func newTestServer(store *fakeStore, syncer *fakeSyncer, limit int) http.Handler {
	handler := NewHandler(store, syncer, "1.2.3")
	mw := NewChiMiddleware(&ChiMiddlewareConfig{TriggerRateLimit: limit, TriggerRateWindow: time.Minute})
	return NewRouter(handler, mw).SetupChi()
}

func doRequest(h http.Handler, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder, data interface{}) models.APIResponse {
	t.Helper()
	var raw struct {
		Status   string           `json:"status"`
		Data     json.RawMessage  `json:"data"`
		Metadata models.Metadata  `json:"metadata"`
		Error    *models.APIError `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &raw); err != nil {
		t.Fatalf("Failed to decode envelope %q: %v", rec.Body.String(), err)
	}
	if data != nil && len(raw.Data) > 0 {
		if err := json.Unmarshal(raw.Data, data); err != nil {
			t.Fatalf("Failed to decode data: %v", err)
		}
	}
	return models.APIResponse{Status: raw.Status, Metadata: raw.Metadata, Error: raw.Error}
}

func TestHealth(t *testing.T) {
	last := time.Date(2024, 6, 10, 6, 0, 0, 0, time.UTC)
	h := newTestServer(&fakeStore{}, &fakeSyncer{syncing: true, last: last}, 5)

	rec := doRequest(h, http.MethodGet, "/api/v1/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var health models.HealthStatus
	env := decodeEnvelope(t, rec, &health)
	if env.Status != "success" {
		t.Errorf("Expected status success, got %s", env.Status)
	}
	if health.Version != "1.2.3" || !health.SyncActive {
		t.Errorf("Expected version 1.2.3 and active sync, got %+v", health)
	}
	if health.LastRun == nil || *health.LastRun != "2024-06-10T06:00:00Z" {
		t.Errorf("Expected last run 2024-06-10T06:00:00Z, got %v", health.LastRun)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID header")
	}
}

func TestStats(t *testing.T) {
	doc := &models.StatsDocument{
		GeneratedAt: "2024-06-10T06:00:00Z",
		Cards:       []models.Card{{ID: models.CardRunningDistance, Value: "510.00", Unit: "km"}},
	}

	t.Run("serves document with etag", func(t *testing.T) {
		h := newTestServer(&fakeStore{stats: doc}, &fakeSyncer{}, 5)
		rec := doRequest(h, http.MethodGet, "/api/v1/stats", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", rec.Code)
		}
		var got models.StatsDocument
		decodeEnvelope(t, rec, &got)
		if c := got.CardByID(models.CardRunningDistance); c == nil || c.Value != "510.00" {
			t.Errorf("Expected running distance 510.00, got %+v", c)
		}

		etag := rec.Header().Get("ETag")
		if etag == "" {
			t.Fatal("Expected an ETag")
		}
		again := doRequest(h, http.MethodGet, "/api/v1/stats", http.Header{"If-None-Match": {etag}})
		if again.Code != http.StatusNotModified {
			t.Errorf("Expected 304 for matching ETag, got %d", again.Code)
		}
	})

	t.Run("not generated yet", func(t *testing.T) {
		h := newTestServer(&fakeStore{}, &fakeSyncer{}, 5)
		rec := doRequest(h, http.MethodGet, "/api/v1/stats", nil)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("Expected status 404, got %d", rec.Code)
		}
		env := decodeEnvelope(t, rec, nil)
		if env.Error == nil || env.Error.Code != codeNotFound {
			t.Errorf("Expected NOT_FOUND error, got %+v", env.Error)
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		h := newTestServer(&fakeStore{statsErr: errors.New("disk gone")}, &fakeSyncer{}, 5)
		rec := doRequest(h, http.MethodGet, "/api/v1/stats", nil)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("Expected status 500, got %d", rec.Code)
		}
		if strings.Contains(rec.Body.String(), "disk gone") {
			t.Error("Expected internal error detail to stay out of the response")
		}
	})
}

func TestSyncState(t *testing.T) {
	h := newTestServer(&fakeStore{state: &models.SyncState{LastSyncEpoch: 1717999940, UpdatedAt: "2024-06-10T06:00:00Z"}}, &fakeSyncer{}, 5)
	rec := doRequest(h, http.MethodGet, "/api/v1/sync/state", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}
	var state models.SyncState
	decodeEnvelope(t, rec, &state)
	if state.LastSyncEpoch != 1717999940 {
		t.Errorf("Expected watermark 1717999940, got %d", state.LastSyncEpoch)
	}

	empty := newTestServer(&fakeStore{}, &fakeSyncer{}, 5)
	if rec := doRequest(empty, http.MethodGet, "/api/v1/sync/state", nil); rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 before the first run, got %d", rec.Code)
	}
}

func TestTriggerSync(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"success", nil, http.StatusOK, ""},
		{"already running", syncpkg.ErrSyncInProgress, http.StatusConflict, codeSyncInProgress},
		{"credential", fmt.Errorf("authenticate: %w", &syncpkg.CredentialError{Status: 401, Err: errors.New("bad token")}), http.StatusBadGateway, "CREDENTIAL_ERROR"},
		{"remote fetch", &syncpkg.RemoteFetchError{Endpoint: "athlete_activities", Status: 503}, http.StatusBadGateway, "REMOTE_FETCH_ERROR"},
		{"storage", &syncpkg.StorageError{Op: "save run", Err: errors.New("disk full")}, http.StatusInternalServerError, "STORAGE_ERROR"},
		{"untyped", errors.New("boom"), http.StatusInternalServerError, codeSyncFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			syncer := &fakeSyncer{result: &syncpkg.RunResult{Fetched: 4, New: 2}, err: tt.err}
			h := newTestServer(&fakeStore{}, syncer, 5)

			rec := doRequest(h, http.MethodPost, "/api/v1/sync", nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d (%s)", tt.wantStatus, rec.Code, rec.Body.String())
			}

			var result syncpkg.RunResult
			env := decodeEnvelope(t, rec, &result)
			if tt.wantCode == "" {
				if result.Fetched != 4 || result.New != 2 {
					t.Errorf("Expected run result in body, got %+v", result)
				}
				return
			}
			if env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("Expected error code %s, got %+v", tt.wantCode, env.Error)
			}
		})
	}
}

func TestTriggerSync_DetachedFromRequestCancel(t *testing.T) {
	syncer := &fakeSyncer{result: &syncpkg.RunResult{}}
	h := newTestServer(&fakeStore{}, syncer, 5)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sync", nil).WithContext(ctx)
	h.ServeHTTP(httptest.NewRecorder(), req)

	if syncer.ctxErr != nil {
		t.Errorf("Expected the run context to ignore request cancellation, got %v", syncer.ctxErr)
	}
}

func TestTriggerSync_RateLimited(t *testing.T) {
	syncer := &fakeSyncer{result: &syncpkg.RunResult{}}
	h := newTestServer(&fakeStore{}, syncer, 2)

	var codes []int
	for i := 0; i < 3; i++ {
		codes = append(codes, doRequest(h, http.MethodPost, "/api/v1/sync", nil).Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("Expected [200 200 429], got %v", codes)
	}
	if syncer.triggers != 2 {
		t.Errorf("Expected 2 runs to reach the manager, got %d", syncer.triggers)
	}

	// reads are not limited
	if rec := doRequest(h, http.MethodGet, "/api/v1/health", nil); rec.Code != http.StatusOK {
		t.Errorf("Expected health to stay available, got %d", rec.Code)
	}
}

func TestRouting(t *testing.T) {
	h := newTestServer(&fakeStore{}, &fakeSyncer{}, 5)

	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/api/v1/unknown", http.StatusNotFound},
		{http.MethodGet, "/api/v1/sync", http.StatusMethodNotAllowed},
		{http.MethodDelete, "/api/v1/stats", http.StatusMethodNotAllowed},
		{http.MethodGet, "/metrics", http.StatusOK},
	}
	for _, tt := range tests {
		rec := doRequest(h, tt.method, tt.path, nil)
		if rec.Code != tt.want {
			t.Errorf("%s %s: expected %d, got %d", tt.method, tt.path, tt.want, rec.Code)
		}
	}

	// /metrics exposes the API request counter recorded above
	rec := doRequest(h, http.MethodGet, "/metrics", nil)
	if !strings.Contains(rec.Body.String(), "pacekeeper_api_requests_total") {
		t.Error("Expected API request metrics in /metrics output")
	}
}

func TestCORS(t *testing.T) {
	handler := NewHandler(&fakeStore{}, &fakeSyncer{}, "test")
	mw := NewChiMiddleware(&ChiMiddlewareConfig{CORSAllowedOrigins: []string{"https://dash.example.com"}})
	h := NewRouter(handler, mw).SetupChi()

	allowed := doRequest(h, http.MethodGet, "/api/v1/health", http.Header{"Origin": {"https://dash.example.com"}})
	if got := allowed.Header().Get("Access-Control-Allow-Origin"); got != "https://dash.example.com" {
		t.Errorf("Expected allowed origin echoed, got %q", got)
	}

	denied := doRequest(h, http.MethodGet, "/api/v1/health", http.Header{"Origin": {"https://evil.example.com"}})
	if got := denied.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Expected no CORS header for unknown origin, got %q", got)
	}
}
