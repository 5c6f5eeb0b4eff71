package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/mattn/go-sqlite3" // CGo-based SQLite driver

	"stopboard.opentransit.org/internal/app"
	"stopboard.opentransit.org/internal/appconf"
	"stopboard.opentransit.org/internal/clock"
	"stopboard.opentransit.org/internal/content"
	"stopboard.opentransit.org/internal/logging"
	"stopboard.opentransit.org/internal/metrics"
	"stopboard.opentransit.org/internal/restapi"
	"stopboard.opentransit.org/internal/schedule"
	"stopboard.opentransit.org/internal/transit"
	"stopboard.opentransit.org/internal/webui"
)

const (
	dbStatsInterval     = 15 * time.Second
	feedRefreshInterval = 24 * time.Hour
	shutdownGrace       = 30 * time.Second
)

func main() {
	var (
		cfg        appconf.Config
		envFlag    string
		apiKeys    string
		configPath string
		gtfsSource string
		dbPath     string
	)

	flag.IntVar(&cfg.Port, "port", 4000, "API server port")
	flag.StringVar(&envFlag, "env", "development", "Environment (development|test|production)")
	flag.StringVar(&apiKeys, "api-keys", "", "Comma-separated list of valid API keys")
	flag.IntVar(&cfg.RateLimit, "rate-limit", 100, "Requests per second per API key (0 disables limiting)")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "Enable verbose logging")
	flag.StringVar(&configPath, "config", "", "Optional YAML config file")
	flag.StringVar(&gtfsSource, "gtfs-source", "", "GTFS feed URL or local zip path")
	flag.StringVar(&dbPath, "db-path", "stopboard.db", "SQLite database path")
	flag.Parse()

	cfg.Env = appconf.EnvFlagToEnvironment(envFlag)
	cfg.ApiKeys = ParseAPIKeys(apiKeys)

	if configPath != "" {
		fileConfig, err := appconf.LoadFile(configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg.Merge(fileConfig)
	}

	transitConfig := transit.Config{
		GTFSSource: gtfsSource,
		DBPath:     dbPath,
		Env:        cfg.Env,
		Verbose:    cfg.Verbose,
	}

	application, err := BuildApplication(cfg, transitConfig)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	application.Metrics.StartDBStatsCollector(application.TransitManager.DB().DB, dbStatsInterval)
	if strings.HasPrefix(gtfsSource, "http://") || strings.HasPrefix(gtfsSource, "https://") {
		application.TransitManager.StartRefreshLoop(feedRefreshInterval)
	}

	srv, api := CreateServer(application, cfg)

	errChan := make(chan error, 1)
	go func() {
		logging.LogOperation(application.Logger, "server_started",
			slog.Int("port", cfg.Port),
			slog.String("env", cfg.Env.String()))
		errChan <- srv.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.LogError(application.Logger, "server failed", err)
		}
	case sig := <-sigChan:
		logging.LogOperation(application.Logger, "shutdown_requested",
			slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.LogError(application.Logger, "server shutdown failed", err)
	}

	api.Shutdown()
	application.Metrics.Shutdown()
	if err := application.TransitManager.Shutdown(); err != nil {
		logging.LogError(application.Logger, "transit manager shutdown failed", err)
	}
}

// ParseAPIKeys splits a comma-separated key list, trimming whitespace and
// dropping empty entries.
func ParseAPIKeys(raw string) []string {
	keys := []string{}
	for _, key := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(key)
		if trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	return keys
}

// BuildApplication constructs the dependency graph: logger, metrics, the
// transit manager (which imports the configured feed), and the schedule and
// content services.
func BuildApplication(cfg appconf.Config, transitConfig transit.Config) (*app.Application, error) {
	logger := logging.NewLogger(cfg.Verbose)
	realClock := clock.RealClock{}
	m := metrics.NewWithLogger(logger)

	manager, err := transit.NewManager(context.Background(), transitConfig, realClock, logger)
	if err != nil {
		return nil, fmt.Errorf("building transit manager: %w", err)
	}

	contentTimeout := time.Duration(cfg.ContentTimeout) * time.Minute
	if contentTimeout <= 0 {
		contentTimeout = time.Hour
	}

	return &app.Application{
		Config:          cfg,
		Logger:          logger,
		Clock:           realClock,
		Metrics:         m,
		TransitManager:  manager,
		ScheduleService: schedule.NewService(manager, nil, realClock, logger, m),
		ContentService:  content.NewService(cfg.AdvertsURL, cfg.FaresURL, contentTimeout, realClock, logger),
	}, nil
}

// CreateServer routes the API and web UI and wraps them in an http.Server
// with sane timeouts.
func CreateServer(application *app.Application, cfg appconf.Config) (*http.Server, *restapi.RestAPI) {
	api := restapi.NewRestAPI(application)
	ui := webui.NewWebUI(application)

	mux := http.NewServeMux()
	api.SetRoutes(mux)
	ui.SetWebUIRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.BuildHandler(mux),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return srv, api
}
