// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	"github.com/pdiddy/keyword-search/internal/search"
	"github.com/pdiddy/keyword-search/pkg/types"
)

// clientFunc adapts a function to search.Client.
type clientFunc func(ctx context.Context, query string) ([]search.Item, error)

func (f clientFunc) Search(ctx context.Context, query string) ([]search.Item, error) {
	return f(ctx, query)
}

// callRecorder wraps a client and records the queries it receives.
type callRecorder struct {
	mu    sync.Mutex
	calls []string
	inner search.Client
}

func (c *callRecorder) Search(ctx context.Context, query string) ([]search.Item, error) {
	c.mu.Lock()
	c.calls = append(c.calls, query)
	c.mu.Unlock()
	return c.inner.Search(ctx, query)
}

func (c *callRecorder) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

// eventCollector is a Sink that remembers every event.
type eventCollector struct {
	mu     sync.Mutex
	events []Event
}

func (c *eventCollector) Publish(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func okClient() search.Client {
	return clientFunc(func(_ context.Context, query string) ([]search.Item, error) {
		return []search.Item{{
			Title:   "Title for " + query,
			URL:     "https://example.com/" + query,
			Snippet: "snippet",
		}}, nil
	})
}

func testCfg() types.SearchConfig {
	return types.SearchConfig{
		RetryCount: 3,
		RetryDelay: 0,
		Timeout:    time.Second,
	}
}

var errNetwork = errors.New("connection reset")

func TestRunPreservesOrder(t *testing.T) {
	keywords := []string{"alpha", "beta", "gamma", "delta", "epsilon"}
	rec := &callRecorder{inner: okClient()}

	r := New(rec, testCfg())
	results, err := r.Run(context.Background(), keywords)
	require.NoError(t, err)
	require.Len(t, results, len(keywords))

	for i, res := range results {
		assert.Equal(t, keywords[i], res.Keyword)
		assert.Equal(t, types.StatusSuccess, res.Status)
		assert.Equal(t, "Title for "+keywords[i], res.Title)
		assert.False(t, res.Timestamp.IsZero())
	}
	assert.Equal(t, keywords, rec.calls)
}

func TestRunUnicodeKeyword(t *testing.T) {
	r := New(okClient(), types.SearchConfig{RetryCount: 0, RetryDelay: 0, Timeout: time.Second})
	results, err := r.Run(context.Background(), []string{"Python プログラミング"})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, "Python プログラミング", results[0].Keyword)
	assert.Equal(t, types.StatusSuccess, results[0].Status)
	assert.NotEmpty(t, results[0].Title)
	assert.NotEmpty(t, results[0].URL)
}

func TestRunRetryBoundary(t *testing.T) {
	// Fails exactly RetryCount times, then succeeds: the final allowed
	// attempt must rescue the keyword.
	const retries = 2
	calls := 0
	client := clientFunc(func(_ context.Context, query string) ([]search.Item, error) {
		calls++
		if calls <= retries {
			return nil, errNetwork
		}
		return []search.Item{{Title: "late success"}}, nil
	})

	cfg := testCfg()
	cfg.RetryCount = retries
	r := New(client, cfg)

	results, err := r.Run(context.Background(), []string{"kw"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, types.StatusSuccess, results[0].Status)
	assert.Equal(t, retries+1, calls)
}

func TestRunRetriesExhausted(t *testing.T) {
	calls := 0
	client := clientFunc(func(_ context.Context, _ string) ([]search.Item, error) {
		calls++
		return nil, errNetwork
	})

	cfg := testCfg()
	cfg.RetryCount = 3
	r := New(client, cfg)

	results, err := r.Run(context.Background(), []string{"kw"})
	require.NoError(t, err)
	require.Len(t, results, 1)

	assert.Equal(t, types.StatusFailed, results[0].Status)
	assert.Equal(t, types.ReasonNetwork, results[0].Reason)
	assert.Empty(t, results[0].Title)
	// Exactly RetryCount+1 attempts, no more, no fewer.
	assert.Equal(t, 4, calls)
}

func TestRunTimeoutReason(t *testing.T) {
	client := clientFunc(func(_ context.Context, _ string) ([]search.Item, error) {
		return nil, fmt.Errorf("searching: %w", context.DeadlineExceeded)
	})

	cfg := testCfg()
	cfg.RetryCount = 1
	r := New(client, cfg)

	results, err := r.Run(context.Background(), []string{"kw"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, types.ReasonTimeout, results[0].Reason)
}

func TestRunQuotaAbortsRun(t *testing.T) {
	keywords := []string{"k1", "k2", "k3", "k4", "k5"}
	quotaErr := &googleapi.Error{Code: 429, Message: "rate limit exceeded"}
	rec := &callRecorder{inner: clientFunc(func(_ context.Context, query string) ([]search.Item, error) {
		if query == "k3" {
			return nil, quotaErr
		}
		return []search.Item{{Title: "ok"}}, nil
	})}

	r := New(rec, testCfg())
	results, err := r.Run(context.Background(), keywords)

	require.Error(t, err)
	assert.True(t, search.IsFatal(err))

	// Keywords 1-2 completed; no record for k3; k4/k5 never attempted.
	require.Len(t, results, 2)
	assert.Equal(t, "k1", results[0].Keyword)
	assert.Equal(t, "k2", results[1].Keyword)
	assert.Equal(t, []string{"k1", "k2", "k3"}, rec.calls)
}

func TestRunAuthAbortsImmediately(t *testing.T) {
	rec := &callRecorder{inner: clientFunc(func(_ context.Context, _ string) ([]search.Item, error) {
		return nil, &googleapi.Error{Code: 400, Message: "API key not valid"}
	})}

	r := New(rec, testCfg())
	results, err := r.Run(context.Background(), []string{"a", "b"})

	require.Error(t, err)
	assert.Empty(t, results)
	// Not retried: fatal on the first attempt.
	assert.Equal(t, 1, rec.count())
}

func TestRunCancelBetweenKeywords(t *testing.T) {
	keywords := []string{"k1", "k2", "k3", "k4", "k5"}
	ctx, cancel := context.WithCancel(context.Background())

	rec := &callRecorder{inner: okClient()}
	sink := SinkFunc(func(e Event) {
		if e.Index == 2 {
			cancel()
		}
	})

	r := New(rec, testCfg(), WithSink(sink))
	results, err := r.Run(ctx, keywords)

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "k2", results[1].Keyword)
	// No partial record for k3 and no further calls.
	assert.Equal(t, 2, rec.count())
}

func TestRunCancelDuringRetryWait(t *testing.T) {
	calls := 0
	client := clientFunc(func(_ context.Context, _ string) ([]search.Item, error) {
		calls++
		return nil, errNetwork
	})

	cfg := testCfg()
	cfg.RetryCount = 3
	cfg.RetryDelay = time.Second
	// Simulate the context dying during the retry wait.
	r := New(client, cfg, WithSleep(func(_ context.Context, _ time.Duration) bool {
		return false
	}))

	results, err := r.Run(context.Background(), []string{"kw"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, types.StatusFailed, results[0].Status)
	assert.Equal(t, 1, calls)
}

func TestRunEmptyKeywordList(t *testing.T) {
	r := New(okClient(), testCfg())
	_, err := r.Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoKeywords)
}

func TestRunNoResultsNotRetried(t *testing.T) {
	calls := 0
	client := clientFunc(func(_ context.Context, _ string) ([]search.Item, error) {
		calls++
		return nil, nil
	})

	cfg := testCfg()
	cfg.RetryCount = 5
	r := New(client, cfg)

	results, err := r.Run(context.Background(), []string{"kw"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, types.StatusFailed, results[0].Status)
	assert.Equal(t, types.ReasonNoResults, results[0].Reason)
	assert.Equal(t, 1, calls)
}

func TestRunProgressEvents(t *testing.T) {
	keywords := []string{"a", "b", "c"}
	failing := map[string]bool{"b": true}
	client := clientFunc(func(_ context.Context, query string) ([]search.Item, error) {
		if failing[query] {
			return nil, nil
		}
		return []search.Item{{Title: "t"}}, nil
	})

	collector := &eventCollector{}
	r := New(client, testCfg(), WithSink(collector))

	_, err := r.Run(context.Background(), keywords)
	require.NoError(t, err)
	require.Len(t, collector.events, 3)

	for i, e := range collector.events {
		assert.Equal(t, i+1, e.Index)
		assert.Equal(t, 3, e.Total)
		assert.Equal(t, keywords[i], e.Keyword)
	}
	assert.Equal(t, types.StatusSuccess, collector.events[0].Status)
	assert.Equal(t, types.StatusFailed, collector.events[1].Status)
	assert.Equal(t, types.ReasonNoResults, collector.events[1].Reason)
	assert.Equal(t, types.StatusSuccess, collector.events[2].Status)
}

func TestRunDelayBetweenKeywords(t *testing.T) {
	var waits []time.Duration
	cfg := testCfg()
	cfg.RetryDelay = 250 * time.Millisecond

	r := New(okClient(), cfg, WithSleep(func(_ context.Context, d time.Duration) bool {
		waits = append(waits, d)
		return true
	}))

	_, err := r.Run(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)

	// Two waits for three keywords: none after the last.
	require.Len(t, waits, 2)
	for _, d := range waits {
		assert.Equal(t, cfg.RetryDelay, d)
	}
}

func TestRunPerAttemptTimeout(t *testing.T) {
	// Each attempt must carry its own deadline derived from cfg.Timeout.
	var deadlines []time.Time
	client := clientFunc(func(ctx context.Context, _ string) ([]search.Item, error) {
		d, ok := ctx.Deadline()
		if !ok {
			t.Fatal("attempt context has no deadline")
		}
		deadlines = append(deadlines, d)
		if len(deadlines) < 2 {
			return nil, errNetwork
		}
		return []search.Item{{Title: "t"}}, nil
	})

	cfg := testCfg()
	cfg.RetryCount = 1
	cfg.Timeout = 5 * time.Second
	r := New(client, cfg)

	_, err := r.Run(context.Background(), []string{"kw"})
	require.NoError(t, err)
	require.Len(t, deadlines, 2)
	// The second attempt's deadline is later: a fresh timeout, not a
	// shared per-keyword one.
	assert.True(t, deadlines[1].After(deadlines[0]) || deadlines[1].Equal(deadlines[0]))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.GoogleAPIConfig
		wantErr bool
	}{
		{"both set", types.GoogleAPIConfig{APIKey: "k", SearchEngineID: "cx"}, false},
		{"missing key", types.GoogleAPIConfig{SearchEngineID: "cx"}, true},
		{"missing engine id", types.GoogleAPIConfig{APIKey: "k"}, true},
		{"both missing", types.GoogleAPIConfig{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.cfg)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
