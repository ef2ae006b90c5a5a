// Package sleeper adapts the Sleeper fantasy platform: season projections
// over HTTP and the player database file the roster job writes.
package sleeper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/okian/draftrank/internal/domain/model"
	"github.com/okian/draftrank/pkg/logger"
	"github.com/okian/draftrank/pkg/metrics"
)

// DefaultBaseURL is the public Sleeper regular-season projection endpoint.
const DefaultBaseURL = "https://api.sleeper.app/v1/projections/nfl/regular"

const breakerName = "sleeper-projections"

// Failure reasons reported to metrics.
const (
	reasonTransport = "transport"
	reasonStatus    = "status"
	reasonDecode    = "decode"
	reasonBreaker   = "breaker"
)

// Client fetches season projections.
type Client struct {
	baseURL         string
	http            *http.Client
	timeout         time.Duration
	retries         int
	retryDelay      time.Duration
	minInterval     time.Duration
	breakerFailures uint32
	breakerOpen     time.Duration
	log             logger.Logger

	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
}

// NewClient builds a projection client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:         DefaultBaseURL,
		http:            &http.Client{},
		timeout:         30 * time.Second,
		retries:         3,
		retryDelay:      500 * time.Millisecond,
		breakerFailures: 5,
		breakerOpen:     30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Get().Named("sleeper")
	}

	limit := rate.Inf
	if c.minInterval > 0 {
		limit = rate.Every(c.minInterval)
	}
	c.limiter = rate.NewLimiter(limit, 1)

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    breakerName,
		Timeout: c.breakerOpen,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= c.breakerFailures
		},
		// A rejected request or a caller cancel says nothing about upstream health.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrRejected) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.UpdateBreakerState(name, int(to))
			c.log.Warn(context.Background(), "projection breaker state changed",
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		},
	})
	metrics.UpdateBreakerState(breakerName, int(gobreaker.StateClosed))

	return c
}

// Fetch returns the projections for season. An empty result is not an error.
func (c *Client) Fetch(ctx context.Context, season string) (model.Projections, error) {
	start := time.Now()
	out, err := c.breaker.Execute(func() (any, error) {
		return c.fetchWithRetry(ctx, season)
	})
	metrics.RecordProjectionFetch(err == nil, time.Since(start))

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.RecordProjectionFetchFailure(reasonBreaker)
		return nil, fmt.Errorf("%w: %w", ErrBreakerOpen, err)
	}
	if err != nil {
		return nil, err
	}
	return out.(model.Projections), nil
}

func (c *Client) fetchWithRetry(ctx context.Context, season string) (model.Projections, error) {
	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		if attempt > 1 {
			metrics.RecordProjectionFetchRetry()
			if err := sleep(ctx, time.Duration(attempt-1)*c.retryDelay); err != nil {
				return nil, err
			}
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		out, err := c.fetchOnce(ctx, season)
		if err == nil {
			return out, nil
		}
		if !retryable(err) || ctx.Err() != nil {
			return nil, err
		}
		lastErr = err
		c.log.Debug(ctx, "projection fetch attempt failed",
			logger.String("season", season),
			logger.Int("attempt", attempt),
			logger.Error(err),
		)
	}
	return nil, fmt.Errorf("%w: %d attempts: %w", ErrUpstream, c.retries, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, season string) (model.Projections, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint, err := url.JoinPath(c.baseURL, season)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordProjectionFetchFailure(reasonTransport)
		return nil, fmt.Errorf("get %s: %w", endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		metrics.RecordProjectionFetchFailure(reasonStatus)
		return nil, fmt.Errorf("get %s: status %d", endpoint, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		metrics.RecordProjectionFetchFailure(reasonStatus)
		return nil, fmt.Errorf("%w: get %s: status %d", ErrRejected, endpoint, resp.StatusCode)
	}

	out, err := decodeProjections(resp.Body)
	if err != nil {
		metrics.RecordProjectionFetchFailure(reasonDecode)
		return nil, err
	}
	return out, nil
}

// retryable reports whether a failed attempt may succeed if repeated.
func retryable(err error) bool {
	return !errors.Is(err, ErrRejected) && !errors.Is(err, ErrDecode)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type projectionStats struct {
	PtsPPR *float64 `json:"pts_ppr"`
	ADPPPR *float64 `json:"adp_ppr"`
}

type projectionRow struct {
	PlayerID string          `json:"player_id"`
	Stats    projectionStats `json:"stats"`
}

// decodeProjections accepts either an object keyed by player id or an array
// of rows carrying player_id and a stats object.
func decodeProjections(r io.Reader) (model.Projections, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	raw = bytes.TrimSpace(raw)
	out := model.Projections{}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return out, nil
	}

	switch raw[0] {
	case '{':
		var byID map[string]projectionStats
		if err := json.Unmarshal(raw, &byID); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		for id, s := range byID {
			out[id] = model.ProjectionRecord{PlayerID: id, PtsPPR: s.PtsPPR, ADPPPR: s.ADPPPR}
		}
	case '[':
		var rows []projectionRow
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		for _, row := range rows {
			if row.PlayerID == "" {
				continue
			}
			out[row.PlayerID] = model.ProjectionRecord{PlayerID: row.PlayerID, PtsPPR: row.Stats.PtsPPR, ADPPPR: row.Stats.ADPPPR}
		}
	default:
		return nil, fmt.Errorf("%w: unexpected %q", ErrDecode, raw[0])
	}
	return out, nil
}
