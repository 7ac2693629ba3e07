package writer

import (
	"context"
	"fmt"
	"time"

	"github.com/XavierBriggs/Chronos/pkg/contracts"
	"github.com/XavierBriggs/Chronos/pkg/models"
	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

const (
	streamKeyFormat = "hockey.events.%s" // hockey.events.hockey_viaha
	streamMaxLen    = 100000
)

// StreamPublisher publishes one Redis Stream message per exported row
type StreamPublisher struct {
	redis *redis.Client
	run   models.Run
	now   func() time.Time
}

// StreamMessage represents a message published to Redis Stream
type StreamMessage struct {
	RunID          string    `json:"run_id"`
	League         string    `json:"league"`
	GameID         int64     `json:"game_id"`
	Seq            int       `json:"seq"`
	Date           string    `json:"date"`
	HomeTeam       string    `json:"home_team"`
	AwayTeam       string    `json:"away_team"`
	Event          string    `json:"event"`
	EventType      string    `json:"event_type"`
	PlayerName     string    `json:"player_name"`
	PlayerNumber   string    `json:"player_number,omitempty"`
	PlayerTeam     string    `json:"player_team"`
	Period         string    `json:"period"`
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time"`
	PenaltyMinutes int       `json:"penalty_minutes"`
	Score          string    `json:"score"`
	PublishedAt    time.Time `json:"published_at"`
}

// Ensure StreamPublisher implements RowSink
var _ contracts.RowSink = (*StreamPublisher)(nil)

// NewStreamPublisher creates a publisher on a Redis client
func NewStreamPublisher(redisClient *redis.Client) *StreamPublisher {
	return &StreamPublisher{redis: redisClient, now: time.Now}
}

// StreamKey returns the stream a league's events are published to
func StreamKey(league string) string {
	return fmt.Sprintf(streamKeyFormat, league)
}

// Name identifies the sink in logs
func (p *StreamPublisher) Name() string {
	return "stream"
}

// Begin records the run the messages belong to
func (p *StreamPublisher) Begin(_ context.Context, run models.Run) error {
	p.run = run
	return nil
}

// WriteGame publishes a game's rows in order through one pipeline
func (p *StreamPublisher) WriteGame(ctx context.Context, sheet *models.GameSheet) error {
	if len(sheet.Rows) == 0 {
		return nil
	}

	streamKey := StreamKey(sheet.League)
	publishedAt := p.now().UTC()

	pipe := p.redis.Pipeline()

	for i, row := range sheet.Rows {
		msg := StreamMessage{
			RunID:          p.run.RunID,
			League:         sheet.League,
			GameID:         sheet.Game.GameID,
			Seq:            i + 1,
			Date:           row.Date,
			HomeTeam:       row.HomeTeam,
			AwayTeam:       row.AwayTeam,
			Event:          row.Event,
			EventType:      row.EventType,
			PlayerName:     row.PlayerName,
			PlayerNumber:   row.PlayerNumber,
			PlayerTeam:     row.PlayerTeam,
			Period:         row.Period,
			StartTime:      models.FormatClock(row.StartTime),
			EndTime:        models.FormatClock(row.EndTime),
			PenaltyMinutes: row.PenaltyMinutes,
			Score:          row.Score,
			PublishedAt:    publishedAt,
		}

		msgJSON, err := sonic.Marshal(msg)
		if err != nil {
			return errors.Wrap(err, "marshal stream message")
		}

		pipe.XAdd(ctx, &redis.XAddArgs{
			Stream: streamKey,
			MaxLen: streamMaxLen,
			Approx: true,
			Values: map[string]interface{}{
				"data": msgJSON,
			},
		})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(err, "redis pipeline exec for stream %s", streamKey)
	}

	return nil
}

// Close is a no-op, the Redis client is owned by the caller
func (p *StreamPublisher) Close() error {
	return nil
}
