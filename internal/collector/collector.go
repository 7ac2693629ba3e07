package collector

import (
	"context"
	"sync"
	"time"

	"github.com/XavierBriggs/Chronos/internal/ledger"
	"github.com/XavierBriggs/Chronos/internal/metrics"
	"github.com/XavierBriggs/Chronos/internal/platform/logging"
	"github.com/XavierBriggs/Chronos/pkg/contracts"
	"github.com/XavierBriggs/Chronos/pkg/models"
	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
)

const defaultWorkers = 4

// Config tunes a Collector. Zero values fall back to defaults.
type Config struct {
	Workers  int
	Logger   *logging.Logger
	Metrics  *metrics.Recorder
	NewRunID func() string
	Now      func() time.Time
}

// Collector exports one schedule's games for one team: it fetches every box
// score, reconciles each game into a ledger and hands the rows to the sinks
type Collector struct {
	source   contracts.BoxScoreSource
	league   contracts.League
	sinks    []contracts.RowSink
	workers  int
	logger   *logging.Logger
	metrics  *metrics.Recorder
	newRunID func() string
	now      func() time.Time
}

// Options selects the games to export
type Options struct {
	ScheduleID int64
	TeamID     int64
}

// GameFailure records why a game was not fully exported
type GameFailure struct {
	GameID int64
	Date   string
	Sink   string // empty when the game failed before reaching the sinks
	Err    error
}

// Summary describes a finished run
type Summary struct {
	RunID    string
	Games    int
	Exported int
	Events   int
	Warnings int
	Failures []GameFailure
}

// Failed returns the number of games with at least one failure
func (s *Summary) Failed() int {
	seen := make(map[int64]bool, len(s.Failures))
	for _, f := range s.Failures {
		seen[f.GameID] = true
	}
	return len(seen)
}

type fetchResult struct {
	box  *models.BoxScore
	err  error
	done chan struct{}
}

// New creates a collector writing to every sink
func New(source contracts.BoxScoreSource, league contracts.League, sinks []contracts.RowSink, cfg Config) *Collector {
	workers := cfg.Workers
	if workers < 1 {
		workers = defaultWorkers
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	newRunID := cfg.NewRunID
	if newRunID == nil {
		newRunID = uuid.NewString
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Collector{
		source:   source,
		league:   league,
		sinks:    sinks,
		workers:  workers,
		logger:   logger.With("league", league.GetLeagueKey()),
		metrics:  cfg.Metrics,
		newRunID: newRunID,
		now:      now,
	}
}

// Run exports every game of the schedule involving the team. Failing to list
// the games or to start a sink aborts the run; a game that fails is recorded
// in the summary and the run moves on.
func (c *Collector) Run(ctx context.Context, opts Options) (*Summary, error) {
	games, err := c.source.FetchGames(ctx, &models.FetchGamesOptions{
		ScheduleID: opts.ScheduleID,
		TeamID:     opts.TeamID,
	})
	if err != nil {
		return nil, errors.Wrap(err, "fetch games")
	}

	summary := &Summary{Games: len(games)}
	if len(games) == 0 {
		c.logger.WarnContext(ctx, "no games found", "schedule_id", opts.ScheduleID, "team_id", opts.TeamID)
		return summary, nil
	}

	run := models.Run{
		RunID:      c.newRunID(),
		League:     c.league.GetLeagueKey(),
		ScheduleID: opts.ScheduleID,
		TeamID:     opts.TeamID,
		SeasonID:   games[0].SeasonID,
		StartedAt:  c.now().UTC(),
	}
	summary.RunID = run.RunID
	ctx = logging.WithRunID(ctx, run.RunID)

	if err := c.beginSinks(ctx, run); err != nil {
		return nil, err
	}

	c.logger.InfoContext(ctx, "exporting games",
		"schedule_id", run.ScheduleID,
		"team_id", run.TeamID,
		"season_id", run.SeasonID,
		"games", len(games),
	)

	results, wait, err := c.prefetch(ctx, games)
	if err != nil {
		c.closeSinks(ctx)
		return nil, err
	}

	runErr := c.processGames(ctx, games, results, summary)
	wait()

	if err := c.closeSinks(ctx); err != nil && runErr == nil {
		runErr = err
	}

	c.metrics.RunFinished(c.now())
	c.logger.InfoContext(ctx, "export finished",
		"games", summary.Games,
		"exported", summary.Exported,
		"failed", summary.Failed(),
		"events", summary.Events,
		"warnings", summary.Warnings,
	)

	return summary, runErr
}

// prefetch fetches every box score on a bounded pool. Each result's done
// channel closes when its fetch finishes; wait blocks until all have.
func (c *Collector) prefetch(ctx context.Context, games []models.Game) ([]*fetchResult, func(), error) {
	pool, err := ants.NewPool(c.workers)
	if err != nil {
		return nil, nil, errors.Wrap(err, "create worker pool")
	}

	results := make([]*fetchResult, len(games))
	for i := range results {
		results[i] = &fetchResult{done: make(chan struct{})}
	}

	var workers sync.WaitGroup
	for i, game := range games {
		result := results[i]
		gameID := game.GameID

		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()
			defer close(result.done)

			start := time.Now()
			result.box, result.err = c.source.FetchBoxScore(ctx, gameID)
			c.metrics.ObserveFetch(time.Since(start))
		}); err != nil {
			workers.Done()
			result.err = errors.Wrap(err, "submit fetch to worker pool")
			close(result.done)
		}
	}

	wait := func() {
		workers.Wait()
		pool.Release()
	}
	return results, wait, nil
}

// processGames reconciles and writes games in schedule order
func (c *Collector) processGames(ctx context.Context, games []models.Game, results []*fetchResult, summary *Summary) error {
	for i, game := range games {
		result := results[i]

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-result.done:
		}

		logger := c.logger.With("game_id", game.GameID, "date", game.Date)

		if result.err != nil {
			c.fail(ctx, logger, summary, game, "", errors.Wrap(result.err, "fetch box score"))
			continue
		}

		sheet, warnings, err := c.reconcile(game, result.box)
		if err != nil {
			c.fail(ctx, logger, summary, game, "", err)
			continue
		}

		for _, w := range warnings {
			logger.WarnContext(ctx, "data quality warning", "period", w.Period, "player", w.Player, "warning", w.Message)
		}
		summary.Warnings += len(warnings)
		c.metrics.DataWarnings(len(warnings))

		exported := true
		for _, sink := range c.sinks {
			if err := sink.WriteGame(ctx, sheet); err != nil {
				c.fail(ctx, logger, summary, game, sink.Name(), err)
				exported = false
			}
		}
		if !exported {
			continue
		}

		summary.Exported++
		summary.Events += len(sheet.Rows)
		c.metrics.GameProcessed(metrics.StatusExported)
		for kind, n := range countKinds(sheet.Rows) {
			c.metrics.EventsExported(kind, n)
		}

		logger.DebugContext(ctx, "game exported", "events", len(sheet.Rows))
	}

	return nil
}

func (c *Collector) reconcile(game models.Game, box *models.BoxScore) (*models.GameSheet, []ledger.Warning, error) {
	if err := c.league.ValidateBoxScore(box); err != nil {
		return nil, nil, errors.Wrap(err, "validate box score")
	}

	result, err := ledger.BuildGame(game, box, c.league.GetRules())
	if err != nil {
		return nil, nil, errors.Wrap(err, "build ledger")
	}

	return result.Sheet(c.league.GetLeagueKey()), result.Warnings, nil
}

func (c *Collector) fail(ctx context.Context, logger *logging.Logger, summary *Summary, game models.Game, sink string, err error) {
	if sink == "" {
		logger.ErrorContext(ctx, "game skipped", "error", err)
	} else {
		logger.ErrorContext(ctx, "sink write failed", "sink", sink, "error", err)
	}

	// count each game once
	if !hasFailure(summary, game.GameID) {
		c.metrics.GameProcessed(metrics.StatusFailed)
	}

	summary.Failures = append(summary.Failures, GameFailure{
		GameID: game.GameID,
		Date:   game.Date,
		Sink:   sink,
		Err:    err,
	})
}

func (c *Collector) beginSinks(ctx context.Context, run models.Run) error {
	for i, sink := range c.sinks {
		if err := sink.Begin(ctx, run); err != nil {
			for _, started := range c.sinks[:i] {
				_ = started.Close()
			}
			return errors.Wrapf(err, "start %s sink", sink.Name())
		}
	}
	return nil
}

// closeSinks closes every sink and returns the first error
func (c *Collector) closeSinks(ctx context.Context) error {
	var first error
	for _, sink := range c.sinks {
		if err := sink.Close(); err != nil {
			c.logger.ErrorContext(ctx, "sink close failed", "sink", sink.Name(), "error", err)
			if first == nil {
				first = errors.Wrapf(err, "close %s sink", sink.Name())
			}
		}
	}
	return first
}

func hasFailure(summary *Summary, gameID int64) bool {
	for _, f := range summary.Failures {
		if f.GameID == gameID {
			return true
		}
	}
	return false
}

func countKinds(rows []models.Row) map[string]int {
	counts := make(map[string]int, 3)
	for _, row := range rows {
		counts[row.Event]++
	}
	return counts
}
