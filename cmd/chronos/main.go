package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/XavierBriggs/Chronos/adapters/hisports"
	"github.com/XavierBriggs/Chronos/internal/cache"
	"github.com/XavierBriggs/Chronos/internal/collector"
	"github.com/XavierBriggs/Chronos/internal/config"
	"github.com/XavierBriggs/Chronos/internal/metrics"
	"github.com/XavierBriggs/Chronos/internal/platform/logging"
	"github.com/XavierBriggs/Chronos/internal/registry"
	"github.com/XavierBriggs/Chronos/internal/writer"
	"github.com/XavierBriggs/Chronos/leagues/hockey"
	"github.com/XavierBriggs/Chronos/pkg/contracts"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

const (
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	var separate bool
	flags := flag.NewFlagSet("chronos", flag.ContinueOnError)
	flags.BoolVar(&separate, "s", false, "write one CSV file per game")
	flags.BoolVar(&separate, "separate", false, "write one CSV file per game")
	flags.Usage = func() {
		fmt.Fprintln(flags.Output(), "usage: chronos [-s|--separate] <scheduleId> <teamId>")
		flags.PrintDefaults()
	}

	if err := flags.Parse(os.Args[1:]); err != nil {
		return exitUsage
	}

	scheduleID, teamID, err := parseIDs(flags.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		flags.Usage()
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ failed to load config: %v\n", err)
		return exitFailure
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		return exitFailure
	}
	logger, err := logging.New(cfg.LogFormat, level, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ failed to build logger: %v\n", err)
		return exitFailure
	}
	defer logger.Sync()
	logging.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize league registry and register supported leagues
	leagueRegistry := registry.NewLeagueRegistry()
	if err := leagueRegistry.Register(hockey.NewModule()); err != nil {
		logger.Error("failed to register league", "error", err)
		return exitFailure
	}

	league, err := leagueRegistry.Lookup(cfg.League)
	if err != nil {
		logger.Error("unknown league", "league", cfg.League, "error", err)
		return exitFailure
	}

	client := hisports.NewClient(hisports.Config{
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.APIBaseURL,
		Timeout:        cfg.HTTPTimeout,
		MaxRetries:     cfg.MaxRetries,
		Logger:         logger,
		CircuitBreaker: cfg.CircuitBreaker(),
	})

	csvWriter := writer.NewCSVWriter(cfg.OutputDir, separate)
	sinks := []contracts.RowSink{csvWriter}

	if cfg.RedisURL != "" {
		redisClient, err := connectRedis(ctx, cfg)
		if err != nil {
			logger.Error("failed to connect to Redis", "error", err)
			return exitFailure
		}
		defer redisClient.Close()

		client.SetCache(cache.NewBoxScoreCache(redisClient, cfg.CacheTTL))
		logger.Info("✓ box score cache enabled", "ttl", cfg.CacheTTL)

		if cfg.StreamEnabled {
			sinks = append(sinks, writer.NewStreamPublisher(redisClient))
			logger.Info("✓ event stream enabled", "stream", writer.StreamKey(league.GetLeagueKey()))
		}
	}

	if cfg.ArchiveDSN != "" {
		db, err := sql.Open("postgres", cfg.ArchiveDSN)
		if err != nil {
			logger.Error("failed to open archive DB", "error", err)
			return exitFailure
		}
		defer db.Close()

		if err := db.PingContext(ctx); err != nil {
			logger.Error("failed to ping archive DB", "error", err)
			return exitFailure
		}

		archive := writer.NewArchive(db)
		if err := archive.Migrate(ctx); err != nil {
			logger.Error("failed to migrate archive", "error", err)
			return exitFailure
		}
		sinks = append(sinks, archive)
		logger.Info("✓ archive enabled")
	}

	recorder := metrics.NewRecorder()

	exporter := collector.New(client, league, sinks, collector.Config{
		Workers: cfg.FetchWorkers,
		Logger:  logger,
		Metrics: recorder,
	})

	summary, runErr := exporter.Run(ctx, collector.Options{
		ScheduleID: scheduleID,
		TeamID:     teamID,
	})

	if cfg.MetricsFile != "" {
		if err := recorder.WriteTextfile(cfg.MetricsFile); err != nil {
			logger.Warn("failed to write metrics file", "path", cfg.MetricsFile, "error", err)
		}
	}

	if runErr != nil {
		logger.Error("✗ export failed", "error", runErr)
		return exitFailure
	}

	for _, path := range csvWriter.Paths() {
		logger.Info("✓ wrote sheet", "path", path)
	}

	for _, f := range summary.Failures {
		logger.Error("✗ game not exported", "game_id", f.GameID, "date", f.Date, "sink", f.Sink, "error", f.Err)
	}

	logger.Info("✓ export complete",
		"run_id", summary.RunID,
		"games", summary.Games,
		"exported", summary.Exported,
		"failed", summary.Failed(),
		"events", summary.Events,
		"warnings", summary.Warnings,
	)

	if summary.Failed() > 0 {
		return exitFailure
	}
	return 0
}

// parseIDs reads the schedule and team ids from the positional arguments
func parseIDs(args []string) (int64, int64, error) {
	if len(args) != 2 {
		return 0, 0, fmt.Errorf("expected scheduleId and teamId, got %d argument(s)", len(args))
	}

	scheduleID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || scheduleID <= 0 {
		return 0, 0, fmt.Errorf("invalid scheduleId %q", args[0])
	}

	teamID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil || teamID <= 0 {
		return 0, 0, fmt.Errorf("invalid teamId %q", args[1])
	}

	return scheduleID, teamID, nil
}

// connectRedis accepts either a redis:// URL or a bare host:port
func connectRedis(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		opts = &redis.Options{Addr: cfg.RedisURL}
	}
	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}
