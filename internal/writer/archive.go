package writer

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/XavierBriggs/Chronos/pkg/contracts"
	"github.com/XavierBriggs/Chronos/pkg/models"
	"github.com/cockroachdb/errors"
	"github.com/lib/pq"
)

const schema = `
	CREATE TABLE IF NOT EXISTS export_runs (
		run_id        uuid PRIMARY KEY,
		league        text NOT NULL,
		schedule_id   bigint NOT NULL,
		team_id       bigint NOT NULL,
		season_id     bigint NOT NULL,
		started_at    timestamptz NOT NULL,
		finished_at   timestamptz,
		games_written int NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS games (
		game_id     bigint PRIMARY KEY,
		season_id   bigint NOT NULL,
		schedule_id bigint NOT NULL,
		game_date   text NOT NULL,
		league      text NOT NULL,
		home_team   text NOT NULL,
		away_team   text NOT NULL,
		run_id      uuid NOT NULL REFERENCES export_runs (run_id),
		updated_at  timestamptz NOT NULL
	);

	CREATE TABLE IF NOT EXISTS game_events (
		game_id         bigint NOT NULL REFERENCES games (game_id) ON DELETE CASCADE,
		seq             int NOT NULL,
		event           text NOT NULL,
		event_type      text NOT NULL,
		player_name     text NOT NULL,
		player_number   text NOT NULL,
		player_team     text NOT NULL,
		period          text NOT NULL,
		start_seconds   int NOT NULL,
		end_seconds     int NOT NULL,
		penalty_minutes int NOT NULL,
		score           text NOT NULL,
		PRIMARY KEY (game_id, seq)
	);
`

// Archive stores every exported game's ledger in Postgres. Re-exporting a
// game replaces its previous events.
type Archive struct {
	db  *sql.DB
	now func() time.Time

	mu           sync.Mutex
	run          models.Run
	gamesWritten int
	begun        bool
}

// Ensure Archive implements RowSink
var _ contracts.RowSink = (*Archive)(nil)

// NewArchive creates an archive sink on an open database
func NewArchive(db *sql.DB) *Archive {
	return &Archive{db: db, now: time.Now}
}

// Migrate creates the archive tables if they don't exist
func (a *Archive) Migrate(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "create archive schema")
	}
	return nil
}

// Name identifies the sink in logs
func (a *Archive) Name() string {
	return "archive"
}

// Begin records the run
func (a *Archive) Begin(ctx context.Context, run models.Run) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	query := `
		INSERT INTO export_runs (run_id, league, schedule_id, team_id, season_id, started_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if _, err := a.db.ExecContext(ctx, query,
		run.RunID, run.League, run.ScheduleID, run.TeamID, run.SeasonID, run.StartedAt,
	); err != nil {
		return errors.Wrap(err, "insert export run")
	}

	a.run = run
	a.begun = true
	return nil
}

// WriteGame replaces a game's archived ledger in one transaction
func (a *Archive) WriteGame(ctx context.Context, sheet *models.GameSheet) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.begun {
		return errors.New("archive not started")
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback()

	if err := a.upsertGame(ctx, tx, sheet); err != nil {
		return errors.Wrap(err, "upsert game")
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM game_events WHERE game_id = $1`, sheet.Game.GameID); err != nil {
		return errors.Wrap(err, "delete previous events")
	}

	if err := insertEvents(ctx, tx, sheet.Game.GameID, sheet.Rows); err != nil {
		return errors.Wrap(err, "insert events")
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}

	a.gamesWritten++
	return nil
}

// Close marks the run finished
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.begun {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	query := `UPDATE export_runs SET finished_at = $2, games_written = $3 WHERE run_id = $1`
	if _, err := a.db.ExecContext(ctx, query, a.run.RunID, a.now().UTC(), a.gamesWritten); err != nil {
		return errors.Wrap(err, "finish export run")
	}

	a.begun = false
	return nil
}

func (a *Archive) upsertGame(ctx context.Context, tx *sql.Tx, sheet *models.GameSheet) error {
	query := `
		INSERT INTO games (
			game_id, season_id, schedule_id, game_date, league, home_team, away_team, run_id, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (game_id)
		DO UPDATE SET
			season_id = EXCLUDED.season_id,
			schedule_id = EXCLUDED.schedule_id,
			game_date = EXCLUDED.game_date,
			league = EXCLUDED.league,
			home_team = EXCLUDED.home_team,
			away_team = EXCLUDED.away_team,
			run_id = EXCLUDED.run_id,
			updated_at = EXCLUDED.updated_at
	`

	_, err := tx.ExecContext(ctx, query,
		sheet.Game.GameID, sheet.Game.SeasonID, sheet.Game.ScheduleID, sheet.Game.Date,
		sheet.League, sheet.HomeTeam, sheet.AwayTeam, a.run.RunID, a.now().UTC(),
	)
	return err
}

// insertEvents batch inserts a game's rows with UNNEST
func insertEvents(ctx context.Context, tx *sql.Tx, gameID int64, rows []models.Row) error {
	if len(rows) == 0 {
		return nil
	}

	query := `
		INSERT INTO game_events (
			game_id, seq, event, event_type, player_name, player_number, player_team,
			period, start_seconds, end_seconds, penalty_minutes, score
		)
		SELECT $1::bigint, * FROM UNNEST(
			$2::int[], $3::text[], $4::text[], $5::text[], $6::text[], $7::text[],
			$8::text[], $9::int[], $10::int[], $11::int[], $12::text[]
		)
	`

	seqs := make([]int, len(rows))
	events := make([]string, len(rows))
	eventTypes := make([]string, len(rows))
	playerNames := make([]string, len(rows))
	playerNumbers := make([]string, len(rows))
	playerTeams := make([]string, len(rows))
	periods := make([]string, len(rows))
	starts := make([]int, len(rows))
	ends := make([]int, len(rows))
	penaltyMinutes := make([]int, len(rows))
	scores := make([]string, len(rows))

	for i, row := range rows {
		seqs[i] = i + 1
		events[i] = row.Event
		eventTypes[i] = row.EventType
		playerNames[i] = row.PlayerName
		playerNumbers[i] = row.PlayerNumber
		playerTeams[i] = row.PlayerTeam
		periods[i] = row.Period
		starts[i] = int(row.StartTime / time.Second)
		ends[i] = int(row.EndTime / time.Second)
		penaltyMinutes[i] = row.PenaltyMinutes
		scores[i] = row.Score
	}

	_, err := tx.ExecContext(ctx, query, gameID,
		pq.Array(seqs), pq.Array(events), pq.Array(eventTypes), pq.Array(playerNames),
		pq.Array(playerNumbers), pq.Array(playerTeams), pq.Array(periods),
		pq.Array(starts), pq.Array(ends), pq.Array(penaltyMinutes), pq.Array(scores),
	)
	return err
}
