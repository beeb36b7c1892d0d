package interviews

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/leadprep/internal/ranking"
	"github.com/jonathan/leadprep/internal/types"
)

type fakeSearcher struct {
	mu      sync.Mutex
	results map[string][]types.Candidate
	errs    map[string]error
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, query string, _ int64) ([]types.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if err := f.errs[query]; err != nil {
		return nil, err
	}
	return f.results[query], nil
}

func interview(id, name string, published time.Time) types.Candidate {
	return types.Candidate{
		ID:              id,
		Title:           name + " exclusive interview at Acme on company strategy",
		ChannelTitle:    "Bloomberg",
		DurationSeconds: 1200,
		ViewCount:       150000,
		LikeCount:       2000,
		PublishedAt:     published,
	}
}

func TestQueries(t *testing.T) {
	assert.Equal(t, []string{"Jane Doe interview"}, Queries(" Jane Doe "))
	assert.Nil(t, Queries(""))
}

func TestFinder_ForLeader(t *testing.T) {
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	short := interview("short", "Jane Doe", now)
	short.DurationSeconds = 120

	searcher := &fakeSearcher{results: map[string][]types.Candidate{
		"Jane Doe interview": {
			interview("a", "Jane Doe", now.Add(-time.Hour)),
			interview("b", "Jane Doe", now),
			interview("a", "Jane Doe", now),
			short,
		},
	}}

	ranked, err := NewFinder(searcher, FinderOptions{}).ForLeader(context.Background(), types.Leader{Name: "Jane Doe", Title: "CEO"}, "Acme")
	require.NoError(t, err)

	require.Len(t, ranked, 2)
	assert.Equal(t, "b", ranked[0].ID, "newer wins the tie")
	assert.Equal(t, "a", ranked[1].ID)
	assert.Equal(t, 100.0, ranked[0].Score)
}

func TestFinder_ForLeaderSearchError(t *testing.T) {
	searcher := &fakeSearcher{errs: map[string]error{"Jane Doe interview": errors.New("quota exceeded")}}

	_, err := NewFinder(searcher, FinderOptions{}).ForLeader(context.Background(), types.Leader{Name: "Jane Doe"}, "Acme")
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestFinder_ForLeadersIsolatesFailures(t *testing.T) {
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	searcher := &fakeSearcher{
		results: map[string][]types.Candidate{
			"Jane Doe interview": {interview("j1", "Jane Doe", now)},
			"John Roe interview": {interview("r1", "John Roe", now)},
		},
		errs: map[string]error{"Max Poe interview": errors.New("boom")},
	}
	leaders := []types.Leader{
		{Name: "Jane Doe", Title: "CEO"},
		{Name: "Max Poe", Title: "CTO"},
		{Name: "John Roe", Title: "CFO"},
	}

	results := NewFinder(searcher, FinderOptions{Concurrency: 2}).ForLeaders(context.Background(), leaders, "Acme")

	require.Len(t, results, 3)
	assert.Equal(t, "Jane Doe", results[0].Leader.Name)
	assert.Len(t, results[0].Interviews, 1)

	assert.Equal(t, "Max Poe", results[1].Leader.Name)
	assert.Empty(t, results[1].Interviews)
	assert.NotNil(t, results[1].Interviews)
	assert.Contains(t, results[1].Error, "boom")

	assert.Equal(t, "r1", results[2].Interviews[0].ID)
	assert.Empty(t, results[2].Error)
}

func TestFinder_ExplainOption(t *testing.T) {
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	searcher := &fakeSearcher{results: map[string][]types.Candidate{
		"Jane Doe interview": {interview("a", "Jane Doe", now)},
	}}

	defaults := NewFinder(searcher, FinderOptions{})
	assert.Equal(t, ranking.DefaultOptions(), defaults.rank)

	opts := ranking.DefaultOptions()
	opts.Explain = true
	ranked, err := NewFinder(searcher, FinderOptions{Rank: &opts}).ForLeader(context.Background(), types.Leader{Name: "Jane Doe"}, "Acme")
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.NotEmpty(t, ranked[0].Adjustments)
}

func TestFinder_ZeroThresholdWithoutCap(t *testing.T) {
	now := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	var found []types.Candidate
	for i := range 20 {
		c := interview(fmt.Sprintf("v%02d", i), "Jane Doe", now)
		c.Title = "Unrelated clip"
		c.ChannelTitle = "someone"
		found = append(found, c)
	}
	searcher := &fakeSearcher{results: map[string][]types.Candidate{"Jane Doe interview": found}}

	defaults, err := NewFinder(searcher, FinderOptions{}).ForLeader(context.Background(), types.Leader{Name: "Jane Doe"}, "Acme")
	require.NoError(t, err)
	assert.Empty(t, defaults)

	all, err := NewFinder(searcher, FinderOptions{Rank: &ranking.Options{}}).ForLeader(context.Background(), types.Leader{Name: "Jane Doe"}, "Acme")
	require.NoError(t, err)
	assert.Len(t, all, 20)
}
