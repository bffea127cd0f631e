// Command blizzard runs the sales forecasting engine.
//
// It serves an HTTP API by default:
//   - POST /forecast                     - fit and forecast an ad-hoc series
//   - GET/PUT /baseline                  - the stored baseline slot
//   - CRUD /scenarios, /scenarios/{id}   - scenario collection
//   - POST /scenarios/{id}/forecast      - re-forecast the baseline under a scenario
//   - GET /healthz, GET /metrics         - health and Prometheus metrics
//
// Two one-shot modes bypass the server:
//
//	blizzard -input forecast.json        # forecast a JSON input file
//	blizzard -easter-dates 2020:2030     # print the Easter calibration table
//
// Environment variables mirror every flag except -input and -easter-dates
// (LISTEN, STORAGE, REDIS_ADDR, BASELINE_URL, LOG_LEVEL, ...); flags take
// precedence.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/goccy/go-json"

	"github.com/blizzardforecast/blizzard"
	"github.com/blizzardforecast/blizzard/baseline"
	"github.com/blizzardforecast/blizzard/cmd/blizzard/config"
	"github.com/blizzardforecast/blizzard/easter"
	"github.com/blizzardforecast/blizzard/httpapi"
	"github.com/blizzardforecast/blizzard/store"
)

func main() {
	cfg := config.ParseFlags()

	logger := cfg.Logger()
	slog.SetDefault(logger)

	switch {
	case cfg.EasterDates != "":
		if err := printEasterDates(cfg.EasterDates); err != nil {
			logger.Error("unable to print easter dates", "error", err)
			os.Exit(1)
		}
	case cfg.InputFile != "":
		if err := runOnce(cfg.InputFile); err != nil {
			logger.Error("forecast failed", "error", err)
			os.Exit(1)
		}
	default:
		if err := serve(cfg, logger); err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}
}

// runOnce forecasts a single JSON input file to stdout.
func runOnce(path string) error {
	input, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read input file, %w", err)
	}

	output := blizzard.RunJSON(input)
	if _, err := os.Stdout.Write(append(output, '\n')); err != nil {
		return err
	}
	return nil
}

// printEasterDates prints the Easter calibration table for a "from:to"
// year range.
func printEasterDates(yearRange string) error {
	from, to, err := parseYearRange(yearRange)
	if err != nil {
		return err
	}

	dates, err := easter.Dates(from, to)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(dates, "", "  ")
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(append(out, '\n'))
	return err
}

func parseYearRange(s string) (int, int, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("year range must look like 2020:2030, got %q", s)
	}
	from, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start year %q, %w", parts[0], err)
	}
	to, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid end year %q, %w", parts[1], err)
	}
	return from, to, nil
}

func serve(cfg *config.Config, logger *slog.Logger) error {
	st, err := newStore(cfg)
	if err != nil {
		return err
	}

	logger.Info("starting blizzard",
		"version", blizzard.Version(),
		"listen", cfg.Listen,
		"storage", cfg.Storage,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.BaselineURL != "" {
		client := &baseline.Client{
			URL:            cfg.BaselineURL,
			SeriesPath:     cfg.SeriesPath,
			StartYearPath:  cfg.StartYearPath,
			StartMonthPath: cfg.StartMonthPath,
			Logger:         logger,
		}
		go refreshBaseline(ctx, client, st, cfg.BaselineRefresh, logger)
	}

	metrics := httpapi.NewMetrics()
	mux := httpapi.SetupRoutes(st, metrics, logger)
	server := httpapi.NewServer(cfg.Listen, mux, logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
		cancel()
		return server.Stop(10 * time.Second)
	}
}

func newStore(cfg *config.Config) (store.Store, error) {
	switch cfg.Storage {
	case "redis":
		return store.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RedisTTL)
	case "memory":
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}

// refreshBaseline keeps the store's baseline slot fresh from the upstream
// endpoint. The client serves stale copies on network failure, so the slot
// degrades gracefully when the upstream is down.
func refreshBaseline(ctx context.Context, client *baseline.Client, st store.Store, interval time.Duration, logger *slog.Logger) {
	fetch := func() {
		b, err := client.Fetch(ctx)
		if err != nil {
			logger.Warn("unable to fetch baseline", "error", err)
			return
		}
		if err := st.PutBaseline(ctx, b); err != nil {
			logger.Warn("unable to store baseline", "error", err)
			return
		}
		logger.Debug("baseline refreshed", "months", len(b.Series), "fetched_at", b.FetchedAt)
	}

	fetch()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			fetch()
		case <-ctx.Done():
			return
		}
	}
}
