// Package restapi exposes the stop and schedule aggregation pipeline over
// HTTP. Responses use a versioned JSON envelope; every data endpoint
// requires an API key passed as the "key" query parameter.
package restapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stopboard.opentransit.org/internal/app"
)

const (
	cacheSecondsStatic   = 300
	cacheSecondsRealtime = 30
)

type RestAPI struct {
	*app.Application

	limiter *RateLimitMiddleware
}

func NewRestAPI(application *app.Application) *RestAPI {
	return &RestAPI{Application: application}
}

// Shutdown stops the background goroutines owned by the API layer.
func (api *RestAPI) Shutdown() {
	if api.limiter != nil {
		api.limiter.Stop()
	}
}

// SetRoutes registers all API endpoints on the mux. Per-route middleware
// (API key check, cache tier, metrics) is applied here; cross-cutting
// middleware (request IDs, logging, rate limiting, gzip) is layered on by
// BuildHandler.
func (api *RestAPI) SetRoutes(mux *http.ServeMux) {
	mux.Handle("GET /api/where/stop/{id}", api.keyed(cacheSecondsStatic, api.stopHandler))
	mux.Handle("GET /api/where/schedule-for-stop/{id}", api.keyed(cacheSecondsStatic, api.scheduleForStopHandler))
	mux.Handle("GET /api/where/stops-for-location.json", api.keyed(cacheSecondsStatic, api.stopsForLocationHandler))
	mux.Handle("GET /api/where/current-time.json", api.keyed(cacheSecondsRealtime, api.currentTimeHandler))
	mux.Handle("GET /api/where/fares.json", api.keyed(cacheSecondsStatic, api.faresHandler))
	mux.Handle("GET /api/where/adverts.json", api.keyed(cacheSecondsStatic, api.advertsHandler))

	mux.Handle("GET /health", api.instrumented(http.HandlerFunc(api.healthHandler)))

	if api.Metrics != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(api.Metrics.Registry, promhttp.HandlerOpts{}))
	}
}

// BuildHandler wraps an already-routed mux with the cross-cutting
// middleware stack: gzip, rate limiting, request logging, and request IDs.
// Rate limiting is enabled when Config.RateLimit is positive.
func (api *RestAPI) BuildHandler(mux *http.ServeMux) http.Handler {
	var handler http.Handler = mux
	handler = gzhttp.GzipHandler(handler)
	if api.Config.RateLimit > 0 {
		api.limiter = NewRateLimitMiddleware(api.Config.RateLimit, time.Second, nil, api.Clock)
		handler = api.limiter.Handler()(handler)
	}
	handler = NewRequestLoggingMiddleware(api.Logger)(handler)
	handler = RequestIDMiddleware(handler)
	return handler
}

// keyed wraps a data endpoint with the API key check, its cache tier, and
// request metrics.
func (api *RestAPI) keyed(cacheSeconds int, handler http.HandlerFunc) http.Handler {
	checked := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.RequestHasInvalidAPIKey(r) {
			api.sendUnauthorized(w, r)
			return
		}
		handler(w, r)
	})
	return api.instrumented(CacheControlMiddleware(cacheSeconds, checked))
}

// instrumented records request metrics for the wrapped handler. Applied
// inside the mux so r.Pattern is populated.
func (api *RestAPI) instrumented(next http.Handler) http.Handler {
	return MetricsHandler(api.Metrics)(next)
}

// pathID returns the {id} path segment with a trailing ".json" stripped,
// so /api/where/stop/7646.json and /api/where/stop/7646 are equivalent.
func pathID(r *http.Request) string {
	return strings.TrimSuffix(r.PathValue("id"), ".json")
}
