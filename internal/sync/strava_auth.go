// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package sync

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"

	"github.com/tomtom215/pacekeeper/internal/logging"
	"github.com/tomtom215/pacekeeper/internal/metrics"
)

const endpointToken = "oauth_token"

// Credentials is the outcome of a refresh-token exchange.
type Credentials struct {
	AccessToken string
	AthleteID   int64

	// RotatedRefreshToken is set when the token endpoint issued a refresh
	// token different from the configured one.
	RotatedRefreshToken string
}

// Authenticate exchanges the configured refresh token for an access token
// and the athlete id. The access token is kept for later calls.
func (c *StravaClient) Authenticate(ctx context.Context) (*Credentials, error) {
	conf := &oauth2.Config{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.tokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	// The exchange uses our client so the configured timeout applies.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.client)

	start := time.Now()
	tok, err := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: c.refreshToken}).Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			metrics.RecordStravaRequest(endpointToken, retrieveErr.Response.StatusCode, time.Since(start))
			return nil, &CredentialError{Status: retrieveErr.Response.StatusCode, Err: err}
		}
		metrics.RecordStravaRequest(endpointToken, 0, time.Since(start))
		return nil, &CredentialError{Err: err}
	}
	metrics.RecordStravaRequest(endpointToken, http.StatusOK, time.Since(start))

	if tok.AccessToken == "" {
		return nil, &CredentialError{Err: fmt.Errorf("token response has no access_token")}
	}

	athleteID, err := athleteIDFromToken(tok)
	if err != nil {
		return nil, &CredentialError{Err: err}
	}

	creds := &Credentials{
		AccessToken: tok.AccessToken,
		AthleteID:   athleteID,
	}
	if tok.RefreshToken != "" && tok.RefreshToken != c.refreshToken {
		creds.RotatedRefreshToken = tok.RefreshToken
		logging.Ctx(ctx).Warn().Msg("Strava issued a new refresh token; update STRAVA_REFRESH_TOKEN before the old one expires")
	}

	c.mu.Lock()
	c.token = tok
	c.mu.Unlock()

	logging.Ctx(ctx).Debug().Int64("athlete_id", athleteID).Time("expires", tok.Expiry).Msg("Exchanged Strava refresh token")
	return creds, nil
}

// athleteIDFromToken reads athlete.id from the raw token response.
func athleteIDFromToken(tok *oauth2.Token) (int64, error) {
	athlete, ok := tok.Extra("athlete").(map[string]interface{})
	if !ok {
		return 0, fmt.Errorf("token response has no athlete object")
	}

	var id int64
	switch v := athlete["id"].(type) {
	case float64:
		id = int64(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("invalid athlete id %q: %w", v, err)
		}
		id = n
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid athlete id %q: %w", v, err)
		}
		id = n
	default:
		return 0, fmt.Errorf("token response has no athlete id")
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid athlete id %d", id)
	}
	return id, nil
}
