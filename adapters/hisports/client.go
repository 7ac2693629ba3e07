package hisports

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/XavierBriggs/Chronos/internal/platform/logging"
	"github.com/XavierBriggs/Chronos/internal/platform/resilience"
	"github.com/XavierBriggs/Chronos/pkg/contracts"
	"github.com/XavierBriggs/Chronos/pkg/models"
	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
)

const (
	defaultBaseURL = "https://api.hisports.app"
	userAgent      = "Chronos/1.0 (hockey box score exporter)"
	timeout        = 10 * time.Second
	maxRetries     = 3
	retryDelay     = 2 * time.Second
	maxBodyBytes   = 4 << 20
)

// ErrTransient marks failures worth retrying: transport errors, 429 and 5xx
var ErrTransient = errors.New("hisports transient failure")

// ErrUnavailable is returned while the circuit breaker is open
var ErrUnavailable = errors.New("hisports temporarily unavailable")

// PayloadCache stores raw box score payloads between runs
type PayloadCache interface {
	Get(ctx context.Context, gameID int64) ([]byte, bool, error)
	Set(ctx context.Context, gameID int64, raw []byte) error
}

// Config configures a Client. Zero values fall back to defaults.
type Config struct {
	APIKey         string
	BaseURL        string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration
	HTTPClient     *http.Client
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client implements the BoxScoreSource interface for the hisports API
type Client struct {
	apiKey     string
	baseURL    string
	maxRetries int
	retryDelay time.Duration
	httpClient *http.Client
	logger     *logging.Logger
	breaker    *resilience.CircuitBreaker
	cache      PayloadCache
}

// Ensure Client implements BoxScoreSource
var _ contracts.BoxScoreSource = (*Client)(nil)

// NewClient creates a new hisports client
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = timeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	retries := cfg.MaxRetries
	if retries < 1 {
		retries = maxRetries
	}

	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = retryDelay
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Client{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		baseURL:    baseURL,
		maxRetries: retries,
		retryDelay: delay,
		httpClient: httpClient,
		logger:     logger.With("component", "hisports"),
		breaker:    resilience.NewFromConfig(cfg.CircuitBreaker),
	}
}

// SetCache enables box score caching. A nil cache disables it.
func (c *Client) SetCache(cache PayloadCache) {
	c.cache = cache
}

// FetchGames retrieves a schedule's games involving a team, oldest first
func (c *Client) FetchGames(ctx context.Context, opts *models.FetchGamesOptions) ([]models.Game, error) {
	if opts == nil || opts.ScheduleID <= 0 || opts.TeamID <= 0 {
		return nil, errors.New("schedule id and team id must be greater than zero")
	}

	filter, err := gamesFilter(opts.ScheduleID, opts.TeamID)
	if err != nil {
		return nil, errors.Wrap(err, "encode games filter")
	}

	params := url.Values{}
	params.Set("filter", filter)

	fullURL := fmt.Sprintf("%s/api/games?%s", c.baseURL, params.Encode())

	body, err := c.doRequestWithRetry(ctx, fullURL)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch games schedule_id=%d team_id=%d", opts.ScheduleID, opts.TeamID)
	}

	var apiResp []gameResponse
	if err := sonic.Unmarshal(body, &apiResp); err != nil {
		return nil, errors.Wrap(err, "parse games response")
	}

	return parseGamesResponse(apiResp), nil
}

// FetchBoxScore retrieves the goals, assists and penalties of one game
func (c *Client) FetchBoxScore(ctx context.Context, gameID int64) (*models.BoxScore, error) {
	if c.cache != nil {
		if box, ok := c.cachedBoxScore(ctx, gameID); ok {
			return box, nil
		}
	}

	fullURL := fmt.Sprintf("%s/api/games/%d/boxScore", c.baseURL, gameID)

	body, err := c.doRequestWithRetry(ctx, fullURL)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch box score game_id=%d", gameID)
	}

	var apiResp boxScoreResponse
	if err := sonic.Unmarshal(body, &apiResp); err != nil {
		return nil, errors.Wrapf(err, "parse box score game_id=%d", gameID)
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, gameID, body); err != nil {
			c.logger.WarnContext(ctx, "box score cache write failed", "game_id", gameID, "error", err)
		}
	}

	return parseBoxScoreResponse(gameID, apiResp), nil
}

func (c *Client) cachedBoxScore(ctx context.Context, gameID int64) (*models.BoxScore, bool) {
	raw, ok, err := c.cache.Get(ctx, gameID)
	if err != nil {
		c.logger.WarnContext(ctx, "box score cache read failed", "game_id", gameID, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var apiResp boxScoreResponse
	if err := sonic.Unmarshal(raw, &apiResp); err != nil {
		// corrupt entry, refetch
		c.logger.WarnContext(ctx, "discarding corrupt cached box score", "game_id", gameID, "error", err)
		return nil, false
	}

	c.logger.DebugContext(ctx, "box score served from cache", "game_id", gameID)
	return parseBoxScoreResponse(gameID, apiResp), true
}

// doRequestWithRetry performs HTTP request with retry logic
func (c *Client) doRequestWithRetry(ctx context.Context, fullURL string) ([]byte, error) {
	if err := c.breaker.Allow(); err != nil {
		c.logger.WarnContext(ctx, "circuit breaker rejected request", "state", c.breaker.State())
		return nil, errors.Mark(errors.Wrap(err, "hisports"), ErrUnavailable)
	}

	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff
			backoff := c.retryDelay * time.Duration(1<<uint(attempt-1))
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				c.breaker.RecordSuccess()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}

		body, err := c.doRequest(ctx, fullURL)
		if err == nil {
			c.breaker.RecordSuccess()
			return body, nil
		}

		lastErr = err

		if ctx.Err() != nil {
			c.breaker.RecordSuccess()
			return nil, ctx.Err()
		}

		// Don't retry on client errors (4xx except 429)
		if !errors.Is(err, ErrTransient) {
			c.breaker.RecordSuccess()
			return nil, err
		}

		c.logger.DebugContext(ctx, "request failed, retrying", "attempt", attempt+1, "error", err)
	}

	c.breaker.RecordFailure()
	return nil, errors.Wrap(lastErr, "max retries exceeded")
}

// doRequest performs a single HTTP request
func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create request")
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "API-Key "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "execute request"), ErrTransient)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "read response body"), ErrTransient)
	}

	if resp.StatusCode != http.StatusOK {
		httpErr := &httpError{
			StatusCode: resp.StatusCode,
			Message:    abbreviateBody(body),
		}
		if isRetryableStatus(resp.StatusCode) {
			return nil, errors.Mark(httpErr, ErrTransient)
		}
		return nil, httpErr
	}

	return body, nil
}

func isRetryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}

// httpError represents an HTTP error with status code
type httpError struct {
	StatusCode int
	Message    string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// StatusCode extracts the HTTP status of a failed request, or 0
func StatusCode(err error) int {
	var httpErr *httpError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}
