// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package sync

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/pacekeeper/internal/config"
	"github.com/tomtom215/pacekeeper/internal/logging"
	"github.com/tomtom215/pacekeeper/internal/metrics"
	"github.com/tomtom215/pacekeeper/internal/models/strava"
)

// maxErrorBodySize caps how much of a failed response body is kept in errors.
const maxErrorBodySize = 64 * 1024

// readBodyForError reads a response body for inclusion in an error message.
// Read failures are reported inline instead of masking the status code.
func readBodyForError(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBodySize))
	if err != nil {
		return fmt.Sprintf("(failed to read body: %v)", err)
	}
	return strings.TrimSpace(string(data))
}

// StravaClientInterface is the subset of the Strava v3 API a sync run uses.
//
// Authenticate must succeed before any other method is called; the access
// token it obtains is reused for the remainder of the run.
type StravaClientInterface interface {
	Authenticate(ctx context.Context) (*Credentials, error)
	GetAthleteStats(ctx context.Context, athleteID int64) (*strava.AthleteStats, error)
	ListActivities(ctx context.Context, after int64, page, perPage int) ([]strava.Activity, error)
	GetActivity(ctx context.Context, id int64) (*strava.Activity, error)
}

// StravaClient talks to the Strava v3 REST API.
//
// Every request waits on a token-bucket limiter sized to the remote's
// short-term quota. Requests are never retried.
type StravaClient struct {
	baseURL      string
	tokenURL     string
	clientID     string
	clientSecret string
	refreshToken string

	client  *http.Client
	limiter *rate.Limiter

	mu    sync.RWMutex
	token *oauth2.Token
}

// NewStravaClient creates a client from the strava config section.
func NewStravaClient(cfg *config.StravaConfig) *StravaClient {
	limit := rate.Inf
	if cfg.RateLimitInterval > 0 {
		limit = rate.Every(cfg.RateLimitInterval)
	}

	return &StravaClient{
		baseURL:      strings.TrimRight(cfg.APIBaseURL, "/"),
		tokenURL:     cfg.TokenURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		refreshToken: cfg.RefreshToken,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(limit, cfg.RateLimitBurst),
	}
}

func (c *StravaClient) accessToken() (*oauth2.Token, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.token == nil {
		return nil, &CredentialError{Err: fmt.Errorf("not authenticated")}
	}
	return c.token, nil
}

// waitForSlot blocks on the outbound limiter and records the wait.
func (c *StravaClient) waitForSlot(ctx context.Context) error {
	start := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}
	waited := time.Since(start)
	metrics.StravaRateLimitWait.Observe(waited.Seconds())
	if waited > time.Second {
		logging.Ctx(ctx).Debug().Dur("waited", waited).Msg("Waited for Strava rate limit slot")
	}
	return nil
}

// get performs an authenticated GET and returns the raw 2xx body.
// endpoint is a low-cardinality label used in metrics and errors.
func (c *StravaClient) get(ctx context.Context, endpoint, path string, params url.Values) ([]byte, error) {
	tok, err := c.accessToken()
	if err != nil {
		return nil, err
	}
	if err := c.waitForSlot(ctx); err != nil {
		return nil, err
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	tok.SetAuthHeader(req)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.RecordStravaRequest(endpoint, 0, time.Since(start))
		return nil, fmt.Errorf("%s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()
	metrics.RecordStravaRequest(endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RemoteFetchError{
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Body:     readBodyForError(resp.Body),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", endpoint, err)
	}
	return body, nil
}
