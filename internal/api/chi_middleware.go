// Pacekeeper - Activity Sync and Training Statistics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/pacekeeper

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/pacekeeper/internal/config"
	"github.com/tomtom215/pacekeeper/internal/logging"
	"github.com/tomtom215/pacekeeper/internal/metrics"
)

// ChiMiddlewareConfig configures the middleware factories.
type ChiMiddlewareConfig struct {
	// CORSAllowedOrigins empty means no cross-origin access.
	CORSAllowedOrigins []string
	CORSMaxAge         int // seconds

	// TriggerRateLimit requests per TriggerRateWindow per client IP on
	// POST /api/v1/sync.
	TriggerRateLimit  int
	TriggerRateWindow time.Duration

	// TrustProxyHeaders enables chi's RealIP.
	TrustProxyHeaders bool
}

// ChiMiddlewareConfigFromServer builds the middleware config from the
// daemon server settings.
func ChiMiddlewareConfigFromServer(cfg *config.ServerConfig) *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins: cfg.CORSOrigins,
		CORSMaxAge:         86400,
		TriggerRateLimit:   cfg.TriggerRateLimit,
		TriggerRateWindow:  cfg.TriggerRateWindow,
		TrustProxyHeaders:  cfg.TrustProxyHeaders,
	}
}

// ChiMiddleware provides chi-compatible middleware.
type ChiMiddleware struct {
	config *ChiMiddlewareConfig
	cors   func(http.Handler) http.Handler
}

// NewChiMiddleware creates the factories. Zero rate settings fall back to
// 5 requests per minute.
func NewChiMiddleware(config *ChiMiddlewareConfig) *ChiMiddleware {
	if config.TriggerRateLimit <= 0 {
		config.TriggerRateLimit = 5
	}
	if config.TriggerRateWindow <= 0 {
		config.TriggerRateWindow = time.Minute
	}

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: config.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "If-None-Match"},
		ExposedHeaders: []string{"ETag", "X-Request-ID"},
		MaxAge:         config.CORSMaxAge,
	})

	return &ChiMiddleware{config: config, cors: corsHandler}
}

// CORS returns the go-chi/cors handler.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RealIP rewrites RemoteAddr from proxy headers when trusted, else it is a
// pass-through.
func (m *ChiMiddleware) RealIP() func(http.Handler) http.Handler {
	if !m.config.TrustProxyHeaders {
		return func(next http.Handler) http.Handler { return next }
	}
	return chimiddleware.RealIP
}

// TriggerRateLimit limits sync triggers per client IP.
func (m *ChiMiddleware) TriggerRateLimit() func(http.Handler) http.Handler {
	return httprate.Limit(
		m.config.TriggerRateLimit,
		m.config.TriggerRateWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			respondError(w, r, http.StatusTooManyRequests, codeRateLimited, "Too many sync triggers, try again later", nil)
		}),
	)
}

// RequestIDWithLogging runs chi's RequestID and copies the ID into the
// logging context and the X-Request-ID response header.
func RequestIDWithLogging() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		withLogging := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := chimiddleware.GetReqID(r.Context())
			w.Header().Set("X-Request-ID", requestID)
			ctx := logging.ContextWithRequestID(r.Context(), requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
		return chimiddleware.RequestID(withLogging)
	}
}

// PrometheusMetrics records request count and duration, labeled by the
// matched route pattern rather than the raw path.
func PrometheusMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		endpoint := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			endpoint = rc.RoutePattern()
		}
		duration := time.Since(start)
		metrics.RecordAPIRequest(r.Method, endpoint, strconv.Itoa(status), duration)

		logging.Ctx(r.Context()).Debug().
			Str("method", r.Method).
			Str("endpoint", endpoint).
			Int("status", status).
			Dur("duration", duration).
			Msg("API request")
	})
}
