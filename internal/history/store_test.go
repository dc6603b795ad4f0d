// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/keyword-search/pkg/types"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndListRuns(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	started := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	run := Run{
		StartedAt:  started,
		FinishedAt: started.Add(time.Minute),
		Total:      3,
		Succeeded:  2,
		Failed:     1,
		OutputFile: "output/search_results_20260830_120000.csv",
	}
	results := []types.SearchResult{
		{Keyword: "k1", Title: "t1", URL: "https://example.com/1", Timestamp: started, Status: types.StatusSuccess},
		{Keyword: "k2", Timestamp: started, Status: types.StatusFailed, Reason: types.ReasonNetwork},
		{Keyword: "k3", Title: "t3", URL: "https://example.com/3", Timestamp: started, Status: types.StatusSuccess},
	}

	id, err := s.SaveRun(ctx, run, results)
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, 2, got.Succeeded)
	assert.Equal(t, 1, got.Failed)
	assert.False(t, got.Aborted)
	assert.Equal(t, run.OutputFile, got.OutputFile)
	assert.True(t, got.StartedAt.Equal(started))
}

func TestRunResultsPreserveOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	results := []types.SearchResult{
		{Keyword: "first", Title: "a", Timestamp: now, Status: types.StatusSuccess},
		{Keyword: "second", Timestamp: now, Status: types.StatusFailed, Reason: types.ReasonTimeout},
		{Keyword: "third", Title: "c", Timestamp: now, Status: types.StatusSuccess},
	}
	id, err := s.SaveRun(ctx, Run{StartedAt: now, FinishedAt: now, Total: 3, Succeeded: 2, Failed: 1}, results)
	require.NoError(t, err)

	got, err := s.RunResults(ctx, id)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i := range results {
		assert.Equal(t, results[i].Keyword, got[i].Keyword)
		assert.Equal(t, results[i].Status, got[i].Status)
		assert.Equal(t, results[i].Reason, got[i].Reason)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		_, err := s.SaveRun(ctx, Run{StartedAt: now, FinishedAt: now, Total: 1, Succeeded: 1}, nil)
		require.NoError(t, err)
	}

	runs, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Greater(t, runs[0].ID, runs[1].ID)
}

func TestListRunsEmpty(t *testing.T) {
	s := openTestStore(t)
	runs, err := s.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestAbortedRunRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	now := time.Now().UTC()
	id, err := s.SaveRun(ctx, Run{StartedAt: now, FinishedAt: now, Total: 5, Succeeded: 2, Aborted: true}, nil)
	require.NoError(t, err)

	runs, err := s.ListRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, id, runs[0].ID)
	assert.True(t, runs[0].Aborted)
}
