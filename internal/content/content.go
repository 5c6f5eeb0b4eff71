// Package content fetches rider-facing extras (advertisements, fare tables)
// from external feeds and caches them with a time-boxed refresh policy:
// content older than the refresh interval is re-fetched on demand, and a
// failed fetch serves the stale copy rather than an error.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"stopboard.opentransit.org/internal/clock"
	"stopboard.opentransit.org/internal/logging"
)

const maxContentBodySize = 4 * 1024 * 1024

// Advert is one promoted banner shown on stop pages.
type Advert struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	ImageURL  string `json:"imageUrl"`
	TargetURL string `json:"targetUrl"`
}

// FareTable is the agency's rider fare summary.
type FareTable struct {
	Description string  `json:"description"`
	Adult       float64 `json:"adult"`
	Youth       float64 `json:"youth"`
	Reduced     float64 `json:"reduced"`
	DayPass     float64 `json:"dayPass"`
	Currency    string  `json:"currency"`
}

// cache guards one fetched payload and its age.
type cache struct {
	mu        sync.RWMutex
	raw       []byte
	fetchedAt time.Time
}

// Service serves cached advert and fare content.
type Service struct {
	advertsURL string
	faresURL   string
	maxAge     time.Duration
	clock      clock.Clock
	logger     *slog.Logger
	httpClient *http.Client

	adverts cache
	fares   cache
}

// NewService creates a content service. Either URL may be empty, in which
// case that feed stays empty. maxAge bounds how long a fetched payload is
// served before a re-fetch is attempted.
func NewService(advertsURL, faresURL string, maxAge time.Duration, c clock.Clock, logger *slog.Logger) *Service {
	if c == nil {
		c = clock.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		advertsURL: advertsURL,
		faresURL:   faresURL,
		maxAge:     maxAge,
		clock:      c,
		logger:     logger,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Adverts returns the current advert list, refreshing it when stale. A
// failed refresh serves the previous list; having no adverts is normal.
func (s *Service) Adverts(ctx context.Context) []Advert {
	raw := s.freshPayload(ctx, &s.adverts, s.advertsURL, "adverts")
	if raw == nil {
		return []Advert{}
	}

	var adverts []Advert
	if err := json.Unmarshal(raw, &adverts); err != nil {
		logging.LogError(s.logger, "malformed advert payload", err)
		return []Advert{}
	}
	return adverts
}

// Fares returns the current fare table, refreshing it when stale. The
// second value is false when no fare content has ever been fetched.
func (s *Service) Fares(ctx context.Context) (FareTable, bool) {
	raw := s.freshPayload(ctx, &s.fares, s.faresURL, "fares")
	if raw == nil {
		return FareTable{}, false
	}

	var table FareTable
	if err := json.Unmarshal(raw, &table); err != nil {
		logging.LogError(s.logger, "malformed fare payload", err)
		return FareTable{}, false
	}
	return table, true
}

// freshPayload returns the cached payload, re-fetching it first when it has
// aged out. The stale copy survives a failed fetch.
func (s *Service) freshPayload(ctx context.Context, c *cache, url, name string) []byte {
	if url == "" {
		return nil
	}

	c.mu.RLock()
	raw := c.raw
	age := s.clock.Now().Sub(c.fetchedAt)
	c.mu.RUnlock()

	if raw != nil && age < s.maxAge {
		return raw
	}

	fetched, err := s.fetch(ctx, url)
	if err != nil {
		logging.LogError(s.logger, "failed to refresh "+name+" content", err,
			slog.String("url", url))
		return raw
	}

	c.mu.Lock()
	c.raw = fetched
	c.fetchedAt = s.clock.Now()
	c.mu.Unlock()

	logging.LogOperation(s.logger, name+"_content_refreshed",
		slog.Int("bytes", len(fetched)))
	return fetched
}

func (s *Service) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxContentBodySize))
	if err != nil {
		return nil, err
	}
	return body, nil
}
