// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package sync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/pacekeeper/internal/config"
	"github.com/tomtom215/pacekeeper/internal/models"
	"github.com/tomtom215/pacekeeper/internal/models/strava"
)

const (
	testAthleteID    = 12345
	testRefreshToken = "refresh-abc"
	testAccessToken  = "access-xyz"
)

// newTestConfig returns a config pointing at baseURL with small pages and
// no outbound rate limit. For tests only.
func newTestConfig(baseURL string) *config.Config {
	return &config.Config{
		Strava: config.StravaConfig{
			ClientID:       "client-1",
			ClientSecret:   "secret-1",
			RefreshToken:   testRefreshToken,
			APIBaseURL:     baseURL + "/api/v3",
			TokenURL:       baseURL + "/oauth/token",
			Timeout:        5 * time.Second,
			RateLimitBurst: 100,
		},
		Sync: config.SyncConfig{
			PageSize:              2,
			MaxPages:              10,
			MaxDetailLookups:      30,
			DetailBreakerFailures: 5,
			Interval:              time.Hour,
		},
	}
}

// fakeStrava is an in-memory Strava v3 API.
type fakeStrava struct {
	mu sync.Mutex

	activities     []strava.Activity
	details        map[int64]strava.Activity
	failDetail     map[int64]int // activity id -> status
	stats          *strava.AthleteStats
	tokenStatus    int
	activityStatus int
	activityBody   string
	newRefresh     string

	detailCalls []int64
	listCalls   []string // raw query strings
	authHeaders []string
}

func newFakeStrava() *fakeStrava {
	return &fakeStrava{
		details:    make(map[int64]strava.Activity),
		failDetail: make(map[int64]int),
		stats:      &strava.AthleteStats{},
	}
}

func (f *fakeStrava) DetailCalls() []int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int64(nil), f.detailCalls...)
}

func (f *fakeStrava) ListCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.listCalls...)
}

func (f *fakeStrava) AuthHeaders() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.authHeaders...)
}

func (f *fakeStrava) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls = nil
	f.detailCalls = nil
	f.authHeaders = nil
}

func (f *fakeStrava) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.URL.Path == "/oauth/token" {
		f.serveToken(w, r)
		return
	}

	f.authHeaders = append(f.authHeaders, r.Header.Get("Authorization"))
	if r.Header.Get("Authorization") != "Bearer "+testAccessToken {
		writeFakeJSON(w, http.StatusUnauthorized, map[string]interface{}{"message": "Authorization Error"})
		return
	}

	switch {
	case r.URL.Path == "/api/v3/athletes/"+strconv.Itoa(testAthleteID)+"/stats":
		writeFakeJSON(w, http.StatusOK, f.stats)
	case r.URL.Path == "/api/v3/athlete/activities":
		f.serveActivities(w, r)
	case strings.HasPrefix(r.URL.Path, "/api/v3/activities/"):
		id, _ := strconv.ParseInt(strings.TrimPrefix(r.URL.Path, "/api/v3/activities/"), 10, 64)
		f.detailCalls = append(f.detailCalls, id)
		if status, ok := f.failDetail[id]; ok {
			writeFakeJSON(w, status, map[string]interface{}{"message": "Record Not Found"})
			return
		}
		detail, ok := f.details[id]
		if !ok {
			writeFakeJSON(w, http.StatusNotFound, map[string]interface{}{"message": "Record Not Found"})
			return
		}
		writeFakeJSON(w, http.StatusOK, detail)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeStrava) serveToken(w http.ResponseWriter, r *http.Request) {
	if f.tokenStatus != 0 {
		writeFakeJSON(w, f.tokenStatus, map[string]interface{}{"message": "Bad Request", "errors": []interface{}{}})
		return
	}
	if err := r.ParseForm(); err != nil || r.PostForm.Get("grant_type") != "refresh_token" || r.PostForm.Get("refresh_token") != testRefreshToken {
		writeFakeJSON(w, http.StatusBadRequest, map[string]interface{}{"message": "Bad Request"})
		return
	}
	refresh := testRefreshToken
	if f.newRefresh != "" {
		refresh = f.newRefresh
	}
	writeFakeJSON(w, http.StatusOK, map[string]interface{}{
		"token_type":    "Bearer",
		"access_token":  testAccessToken,
		"refresh_token": refresh,
		"expires_in":    21600,
		"athlete":       map[string]interface{}{"id": testAthleteID},
	})
}

// serveActivities filters by after and pages newest-first.
func (f *fakeStrava) serveActivities(w http.ResponseWriter, r *http.Request) {
	f.listCalls = append(f.listCalls, r.URL.RawQuery)
	if f.activityStatus != 0 {
		w.WriteHeader(f.activityStatus)
		_, _ = w.Write([]byte(f.activityBody))
		return
	}
	if f.activityBody != "" {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(f.activityBody))
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	after, _ := strconv.ParseInt(q.Get("after"), 10, 64)

	matched := []strava.Activity{}
	for _, a := range f.activities {
		start, _ := time.Parse(time.RFC3339, a.StartDate)
		if start.Unix() > after {
			matched = append(matched, a)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].StartDate > matched[j].StartDate })

	from := (page - 1) * perPage
	if from < 0 {
		from = 0
	}
	if from > len(matched) {
		from = len(matched)
	}
	to := from + perPage
	if to > len(matched) {
		to = len(matched)
	}
	writeFakeJSON(w, http.StatusOK, matched[from:to])
}

func writeFakeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func startFakeStrava(t *testing.T) (*fakeStrava, *httptest.Server) {
	t.Helper()
	fake := newFakeStrava()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	return fake, server
}

// summary builds a SummaryActivity without energy fields.
func summary(id int64, sport string, start time.Time, meters float64, seconds int64) strava.Activity {
	return strava.Activity{
		ID:             id,
		Name:           "Activity " + strconv.FormatInt(id, 10),
		Type:           sport,
		SportType:      sport,
		StartDate:      start.UTC().Format(time.RFC3339),
		StartDateLocal: start.UTC().Format(time.RFC3339),
		Distance:       floatPtr(meters),
		MovingTime:     int64Ptr(seconds),
		ElapsedTime:    int64Ptr(seconds),
	}
}

// memStore is an in-memory StateStore.
type memStore struct {
	mu         sync.Mutex
	baseline   *models.Baseline
	activities []models.ActivityRecord
	state      *models.SyncState
	stats      *models.StatsDocument
	saves      int
	saveErr    error
}

func (s *memStore) LoadBaseline(ctx context.Context) (*models.Baseline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.baseline == nil {
		return &models.Baseline{}, nil
	}
	return s.baseline, nil
}

func (s *memStore) LoadActivities(ctx context.Context) ([]models.ActivityRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.ActivityRecord(nil), s.activities...), nil
}

func (s *memStore) LoadSyncState(ctx context.Context) (*models.SyncState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return nil, nil
	}
	state := *s.state
	return &state, nil
}

func (s *memStore) SaveRun(ctx context.Context, activities []models.ActivityRecord, state *models.SyncState, stats *models.StatsDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.activities = append([]models.ActivityRecord(nil), activities...)
	st := *state
	s.state = &st
	doc := *stats
	s.stats = &doc
	s.saves++
	return nil
}
