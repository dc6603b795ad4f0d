// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runner executes a batch of keyword searches sequentially with
// retry, per-attempt timeouts and rate-limit delays, accumulating one
// result record per keyword in input order.
// See docs/ARCHITECTURE § Search Runner.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/keyword-search/internal/search"
	"github.com/pdiddy/keyword-search/pkg/types"
)

// ErrInvalidConfig is returned before any API call when required
// credentials are missing.
var ErrInvalidConfig = errors.New("invalid search configuration")

// ErrNoKeywords is returned when the keyword list is empty.
var ErrNoKeywords = errors.New("no keywords to search")

// Runner drives the search pipeline. Searches run strictly one at a time:
// the Custom Search API is rate limited, so parallelism buys nothing and
// risks quota errors. Run owns all mutable state for the duration of a
// call; callers only see snapshots through the sink and the returned slice.
type Runner struct {
	client search.Client
	cfg    types.SearchConfig
	sink   Sink
	logger *zap.Logger
	sleep  func(ctx context.Context, d time.Duration) bool
	now    func() time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithSink sets the progress sink. The default discards events.
func WithSink(s Sink) Option {
	return func(r *Runner) { r.sink = s }
}

// WithLogger sets the logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// WithSleep replaces the delay function. Tests use this to record waits
// instead of sleeping.
func WithSleep(fn func(ctx context.Context, d time.Duration) bool) Option {
	return func(r *Runner) { r.sleep = fn }
}

// WithClock replaces the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// New builds a Runner over the given client and configuration.
func New(client search.Client, cfg types.SearchConfig, opts ...Option) *Runner {
	r := &Runner{
		client: client,
		cfg:    cfg,
		sink:   nopSink{},
		logger: zap.NewNop(),
		sleep:  sleepCtx,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes keywords in order and returns one SearchResult per
// completed keyword, preserving input order.
//
// Transient failures (network, timeout, 5xx) are retried up to
// cfg.RetryCount extra times with a fixed cfg.RetryDelay wait, then
// downgraded to a failed result. Fatal failures (quota, auth) abort the
// run: Run returns the results accumulated so far together with the error,
// and no further API calls are made. Cancelling ctx stops the run at the
// next keyword boundary and returns the partial results with a nil error;
// an in-flight attempt is left to finish or time out on its own.
func (r *Runner) Run(ctx context.Context, keywords []string) ([]types.SearchResult, error) {
	if len(keywords) == 0 {
		return nil, ErrNoKeywords
	}

	total := len(keywords)
	results := make([]types.SearchResult, 0, total)

	r.logger.Info("batch search starting", zap.Int("keywords", total))

	for i, keyword := range keywords {
		if ctx.Err() != nil {
			r.logger.Info("search cancelled",
				zap.Int("completed", len(results)), zap.Int("total", total))
			return results, nil
		}

		result, err := r.searchKeyword(ctx, keyword)
		if err != nil {
			// Fatal: surface partial results alongside the error.
			r.logger.Error("aborting run", zap.String("keyword", keyword), zap.Error(err))
			return results, err
		}

		results = append(results, result)
		r.publish(i+1, total, result)

		if i < total-1 && r.cfg.RetryDelay > 0 {
			r.sleep(ctx, r.cfg.RetryDelay)
		}
	}

	r.logger.Info("batch search finished",
		zap.Int("total", total), zap.Int("succeeded", countSuccesses(results)))
	return results, nil
}

// Validate checks that the runner can make its first call. It is split
// from Run so the CLI can fail before reading keywords interactively.
func Validate(cfg types.GoogleAPIConfig) error {
	if cfg.APIKey == "" {
		return fmt.Errorf("%w: missing google_api.api_key", ErrInvalidConfig)
	}
	if cfg.SearchEngineID == "" {
		return fmt.Errorf("%w: missing google_api.search_engine_id", ErrInvalidConfig)
	}
	return nil
}

// searchKeyword runs the attempt loop for one keyword. It returns a
// result record for every outcome except a fatal error.
func (r *Runner) searchKeyword(ctx context.Context, keyword string) (types.SearchResult, error) {
	attempts := r.cfg.RetryCount + 1
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		items, err := r.attempt(ctx, keyword)
		if err == nil {
			if len(items) == 0 {
				// An empty answer is definitive; retrying asks the same question.
				r.logger.Warn("no results", zap.String("keyword", keyword))
				return r.failedResult(keyword, types.ReasonNoResults), nil
			}
			first := items[0]
			return types.SearchResult{
				Keyword:   keyword,
				Title:     first.Title,
				URL:       first.URL,
				Snippet:   first.Snippet,
				Timestamp: r.now(),
				Status:    types.StatusSuccess,
			}, nil
		}

		if search.IsFatal(err) {
			return types.SearchResult{}, err
		}

		lastErr = err
		if attempt < attempts {
			r.logger.Warn("search attempt failed, retrying",
				zap.String("keyword", keyword),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", attempts),
				zap.Duration("delay", r.cfg.RetryDelay),
				zap.Error(err))
			if r.cfg.RetryDelay > 0 && !r.sleep(ctx, r.cfg.RetryDelay) {
				// Context went away mid-wait; stop retrying and record
				// the failure. The keyword boundary check ends the run.
				break
			}
		}
	}

	r.logger.Error("retries exhausted",
		zap.String("keyword", keyword), zap.Error(lastErr))
	return r.failedResult(keyword, failureReason(lastErr)), nil
}

// attempt performs one API call bounded by the per-attempt timeout.
func (r *Runner) attempt(ctx context.Context, keyword string) ([]search.Item, error) {
	callCtx := ctx
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}
	return r.client.Search(callCtx, keyword)
}

func (r *Runner) failedResult(keyword string, reason types.FailureReason) types.SearchResult {
	return types.SearchResult{
		Keyword:   keyword,
		Timestamp: r.now(),
		Status:    types.StatusFailed,
		Reason:    reason,
	}
}

func (r *Runner) publish(index, total int, result types.SearchResult) {
	r.sink.Publish(Event{
		Index:   index,
		Total:   total,
		Keyword: result.Keyword,
		Status:  result.Status,
		Reason:  result.Reason,
		Title:   result.Title,
	})
}

func failureReason(err error) types.FailureReason {
	if search.IsTimeout(err) {
		return types.ReasonTimeout
	}
	return types.ReasonNetwork
}

func countSuccesses(results []types.SearchResult) int {
	n := 0
	for _, r := range results {
		if r.Succeeded() {
			n++
		}
	}
	return n
}

// sleepCtx waits for d or until ctx is done, reporting whether the full
// wait elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
