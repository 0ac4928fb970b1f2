// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package sync

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/pacekeeper/internal/models/strava"
)

func newAuthenticatedClient(t *testing.T, baseURL string) *StravaClient {
	t.Helper()
	cfg := newTestConfig(baseURL)
	client := NewStravaClient(&cfg.Strava)
	if _, err := client.Authenticate(context.Background()); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	return client
}

func TestStravaClient_Authenticate(t *testing.T) {
	_, server := startFakeStrava(t)
	cfg := newTestConfig(server.URL)
	client := NewStravaClient(&cfg.Strava)

	creds, err := client.Authenticate(context.Background())
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if creds.AccessToken != testAccessToken {
		t.Errorf("Expected access token %s, got %s", testAccessToken, creds.AccessToken)
	}
	checkInt64Equal(t, "AthleteID", creds.AthleteID, testAthleteID)
	if creds.RotatedRefreshToken != "" {
		t.Errorf("Expected no rotation, got %s", creds.RotatedRefreshToken)
	}
}

func TestStravaClient_AuthenticateRotatedRefreshToken(t *testing.T) {
	fake, server := startFakeStrava(t)
	fake.newRefresh = "refresh-rotated"
	cfg := newTestConfig(server.URL)

	creds, err := NewStravaClient(&cfg.Strava).Authenticate(context.Background())
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if creds.RotatedRefreshToken != "refresh-rotated" {
		t.Errorf("Expected rotated refresh token, got %q", creds.RotatedRefreshToken)
	}
}

func TestStravaClient_AuthenticateFailure(t *testing.T) {
	fake, server := startFakeStrava(t)
	fake.tokenStatus = http.StatusUnauthorized
	cfg := newTestConfig(server.URL)

	_, err := NewStravaClient(&cfg.Strava).Authenticate(context.Background())

	var credErr *CredentialError
	if !errors.As(err, &credErr) {
		t.Fatalf("Expected CredentialError, got %T: %v", err, err)
	}
	checkIntEqual(t, "Status", credErr.Status, http.StatusUnauthorized)
	if credErr.ErrorType() != "credential" {
		t.Errorf("Expected error type credential, got %s", credErr.ErrorType())
	}
}

func TestStravaClient_RequiresAuthentication(t *testing.T) {
	_, server := startFakeStrava(t)
	cfg := newTestConfig(server.URL)

	_, err := NewStravaClient(&cfg.Strava).ListActivities(context.Background(), 0, 1, 10)

	var credErr *CredentialError
	if !errors.As(err, &credErr) {
		t.Errorf("Expected CredentialError before Authenticate, got %v", err)
	}
}

func TestStravaClient_ListActivitiesParams(t *testing.T) {
	fake, server := startFakeStrava(t)
	client := newAuthenticatedClient(t, server.URL)

	tests := []struct {
		name      string
		after     int64
		page      int
		wantQuery string
	}{
		{"no lower bound", 0, 1, "page=1&per_page=50"},
		{"with watermark", 1717000000, 2, "after=1717000000&page=2&per_page=50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake.ResetCalls()
			if _, err := client.ListActivities(context.Background(), tt.after, tt.page, 50); err != nil {
				t.Fatalf("ListActivities failed: %v", err)
			}
			calls := fake.ListCalls()
			if len(calls) != 1 || calls[0] != tt.wantQuery {
				t.Errorf("Expected query %q, got %v", tt.wantQuery, calls)
			}
		})
	}

	for _, h := range fake.AuthHeaders() {
		if h != "Bearer "+testAccessToken {
			t.Errorf("Expected bearer token on every API call, got %q", h)
		}
	}
}

func TestStravaClient_ListActivitiesErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantCheck func(t *testing.T, err error)
	}{
		{
			name:   "non-2xx is a remote fetch error",
			status: http.StatusServiceUnavailable,
			body:   "upstream unavailable",
			wantCheck: func(t *testing.T, err error) {
				var remoteErr *RemoteFetchError
				if !errors.As(err, &remoteErr) {
					t.Fatalf("Expected RemoteFetchError, got %T: %v", err, err)
				}
				checkIntEqual(t, "Status", remoteErr.Status, http.StatusServiceUnavailable)
				if remoteErr.Body != "upstream unavailable" {
					t.Errorf("Expected body text to be kept, got %q", remoteErr.Body)
				}
			},
		},
		{
			name: "object body is malformed",
			body: `{"message":"not a list"}`,
			wantCheck: func(t *testing.T, err error) {
				var malformed *MalformedResponseError
				if !errors.As(err, &malformed) {
					t.Fatalf("Expected MalformedResponseError, got %T: %v", err, err)
				}
				if malformed.ErrorType() != "malformed_response" {
					t.Errorf("Expected error type malformed_response, got %s", malformed.ErrorType())
				}
			},
		},
		{
			name: "broken array is malformed",
			body: `[{"id": 1,`,
			wantCheck: func(t *testing.T, err error) {
				var malformed *MalformedResponseError
				if !errors.As(err, &malformed) {
					t.Fatalf("Expected MalformedResponseError, got %T: %v", err, err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake, server := startFakeStrava(t)
			fake.activityStatus = tt.status
			fake.activityBody = tt.body
			client := newAuthenticatedClient(t, server.URL)

			_, err := client.ListActivities(context.Background(), 0, 1, 10)
			tt.wantCheck(t, err)
		})
	}
}

func TestStravaClient_GetAthleteStats(t *testing.T) {
	fake, server := startFakeStrava(t)
	fake.stats = &strava.AthleteStats{
		AllRunTotals: &strava.ActivityTotal{Count: 12, Distance: 120000, MovingTime: 43200},
	}
	client := newAuthenticatedClient(t, server.URL)

	stats, err := client.GetAthleteStats(context.Background(), testAthleteID)
	if err != nil {
		t.Fatalf("GetAthleteStats failed: %v", err)
	}

	totals := toLifetimeTotals(stats)
	if totals.AllRunTotals == nil || totals.AllRunTotals.Count != 12 {
		t.Errorf("Expected run totals with count 12, got %+v", totals.AllRunTotals)
	}
	if totals.AllRideTotals != nil {
		t.Errorf("Expected absent ride totals to stay nil, got %+v", totals.AllRideTotals)
	}
}

func TestFetchActivitiesSince_Pagination(t *testing.T) {
	base := time.Date(2024, 5, 1, 7, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		count       int
		maxPages    int
		wantFetched int
		wantPages   int
	}{
		{"short last page", 5, 10, 5, 3},
		{"exact multiple needs an empty page", 4, 10, 4, 3},
		{"page ceiling", 5, 2, 4, 2},
		{"nothing new", 0, 10, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake, server := startFakeStrava(t)
			for i := 0; i < tt.count; i++ {
				fake.activities = append(fake.activities, summary(int64(i+1), "Run", base.Add(time.Duration(i)*time.Hour), 5000, 1500))
			}
			client := newAuthenticatedClient(t, server.URL)

			raws, pages, err := fetchActivitiesSince(context.Background(), client, 0, 2, tt.maxPages)
			if err != nil {
				t.Fatalf("fetchActivitiesSince failed: %v", err)
			}
			checkIntEqual(t, "fetched", len(raws), tt.wantFetched)
			checkIntEqual(t, "pages", pages, tt.wantPages)
		})
	}
}

func TestFetchActivitiesSince_WrapsPageError(t *testing.T) {
	fake, server := startFakeStrava(t)
	fake.activityStatus = http.StatusInternalServerError
	fake.activityBody = "boom"
	client := newAuthenticatedClient(t, server.URL)

	_, _, err := fetchActivitiesSince(context.Background(), client, 0, 2, 10)
	if err == nil || !strings.Contains(err.Error(), "fetch activities page 1") {
		t.Fatalf("Expected page context in error, got %v", err)
	}
	var remoteErr *RemoteFetchError
	if !errors.As(err, &remoteErr) {
		t.Errorf("Expected wrapped RemoteFetchError, got %T", err)
	}
}

func TestRemoteFetchError_FaultMessage(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"message":"Record Not Found","errors":[{"resource":"Activity","field":"id","code":"invalid"}]}`, "Record Not Found (Activity.id invalid)"},
		{`{"message":"Rate Limit Exceeded"}`, "Rate Limit Exceeded"},
		{"plain text", "plain text"},
	}

	for _, tt := range tests {
		err := &RemoteFetchError{Endpoint: endpointActivity, Status: 404, Body: tt.body}
		if got := err.FaultMessage(); got != tt.want {
			t.Errorf("FaultMessage() = %q, expected %q", got, tt.want)
		}
	}
}

func TestReadBodyForError_Limit(t *testing.T) {
	body := strings.Repeat("x", maxErrorBodySize+100)
	if got := readBodyForError(strings.NewReader(body)); len(got) != maxErrorBodySize {
		t.Errorf("Expected body capped at %d bytes, got %d", maxErrorBodySize, len(got))
	}
}
