// Package transit owns the imported schedule data: the SQLite store, the
// in-memory spatial index over stops, and the Store adapter the aggregation
// pipeline reads through.
package transit

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"stopboard.opentransit.org/internal/clock"
	"stopboard.opentransit.org/internal/logging"
	"stopboard.opentransit.org/stopdb"
)

// Manager loads a GTFS feed into the stop database and serves queries over
// it. Reads take the read lock; feed reloads take the write lock, so a
// refresh never races in-flight requests.
type Manager struct {
	config Config
	client *stopdb.Client
	clock  clock.Clock
	logger *slog.Logger

	mu        sync.RWMutex
	stopIndex *stopIndex

	refreshCancel context.CancelFunc
	refreshWG     sync.WaitGroup
}

// NewManager opens the database, imports the configured feed, and builds
// the spatial index.
func NewManager(ctx context.Context, config Config, c clock.Clock, logger *slog.Logger) (*Manager, error) {
	if c == nil {
		c = clock.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	client, err := stopdb.NewClient(stopdb.NewConfig(config.DBPath, config.Env, config.Verbose))
	if err != nil {
		return nil, fmt.Errorf("opening stop database: %w", err)
	}

	m := &Manager{
		config: config,
		client: client,
		clock:  c,
		logger: logger,
	}

	if config.GTFSSource != "" {
		if err := m.loadFeed(ctx); err != nil {
			logging.SafeCloseWithLogging(client, logger, "stop database")
			return nil, err
		}
	} else {
		// No feed configured; start with an empty index so spatial
		// queries stay valid.
		m.stopIndex = newStopIndex(nil)
	}

	return m, nil
}

// DB exposes the underlying database handle for metrics collection.
func (m *Manager) DB() *stopdb.Client {
	return m.client
}

func (m *Manager) loadFeed(ctx context.Context) error {
	source := m.config.GTFSSource

	var err error
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		err = m.client.DownloadAndStore(ctx, source)
	} else {
		err = m.client.ImportFromFile(ctx, source)
	}
	if err != nil {
		return fmt.Errorf("importing GTFS feed from %s: %w", source, err)
	}

	if err := m.Reindex(ctx); err != nil {
		return err
	}

	m.mu.RLock()
	indexed := m.stopIndex.Len()
	m.mu.RUnlock()

	logging.LogOperation(m.logger, "transit_feed_loaded",
		slog.String("source", source),
		slog.Int("stops_indexed", indexed),
		slog.Duration("import_runtime", m.client.ImportRuntime()))
	return nil
}

// Reindex rebuilds the spatial index from the stops table and swaps it in.
// Callers that write to the database directly must reindex afterwards for
// spatial queries to see the new stops.
func (m *Manager) Reindex(ctx context.Context) error {
	coords, err := m.client.Queries.ListStopCoordinates(ctx)
	if err != nil {
		return fmt.Errorf("listing stop coordinates: %w", err)
	}
	index := newStopIndex(coords)

	m.mu.Lock()
	m.stopIndex = index
	m.mu.Unlock()
	return nil
}

// StartRefreshLoop reloads the feed at the given interval until Shutdown.
// Only useful for URL sources; unchanged feed content is skipped by the
// importer's hash check.
func (m *Manager) StartRefreshLoop(interval time.Duration) {
	if m.refreshCancel != nil || interval <= 0 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.refreshCancel = cancel

	m.refreshWG.Add(1)
	go func() {
		defer m.refreshWG.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := m.loadFeed(ctx); err != nil {
					logging.LogError(m.logger, "scheduled feed refresh failed", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}

// IsHealthy reports whether the database answers queries.
func (m *Manager) IsHealthy(ctx context.Context) bool {
	_, err := m.client.Queries.CountStops(ctx)
	return err == nil
}

// IsReady reports whether feed data has been imported and indexed.
func (m *Manager) IsReady(ctx context.Context) bool {
	count, err := m.client.Queries.CountStops(ctx)
	if err != nil {
		return false
	}
	m.mu.RLock()
	indexed := m.stopIndex != nil
	m.mu.RUnlock()
	return count > 0 && indexed
}

// Shutdown stops the refresh loop and closes the database.
func (m *Manager) Shutdown() error {
	if m.refreshCancel != nil {
		m.refreshCancel()
	}
	m.refreshWG.Wait()
	return m.client.Close()
}

// serviceDate defaults an empty date parameter to today.
func (m *Manager) serviceDate(date string) string {
	if date != "" {
		return date
	}
	return m.clock.Now().Format("2006-01-02")
}
