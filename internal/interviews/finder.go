// Package interviews finds and ranks media appearances of company leaders.
package interviews

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/leadprep/internal/metrics"
	"github.com/jonathan/leadprep/internal/ranking"
	"github.com/jonathan/leadprep/internal/types"
)

// Defaults for Finder.
const (
	DefaultResultsPerQuery = 8
	DefaultConcurrency     = 3
)

// LeaderInterviews holds the ranked media found for one leader.
type LeaderInterviews struct {
	Leader     types.Leader            `json:"leader"`
	Interviews []types.ScoredCandidate `json:"interviews"`
	Error      string                  `json:"error,omitempty"`
}

// FinderOptions configures a Finder. Zero values fall back to defaults.
type FinderOptions struct {
	// Rank is used as given when set, so a zero threshold with no cap is
	// expressible; nil means ranking.DefaultOptions.
	Rank            *ranking.Options
	ResultsPerQuery int64
	Concurrency     int
	Logger          *slog.Logger
}

// Finder searches for each leader and ranks what comes back.
type Finder struct {
	searcher Searcher
	opts     FinderOptions
	rank     ranking.Options
	logger   *slog.Logger
}

// NewFinder creates a Finder over searcher.
func NewFinder(searcher Searcher, opts FinderOptions) *Finder {
	if opts.ResultsPerQuery <= 0 {
		opts.ResultsPerQuery = DefaultResultsPerQuery
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	rank := ranking.DefaultOptions()
	if opts.Rank != nil {
		rank = *opts.Rank
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Finder{searcher: searcher, opts: opts, rank: rank, logger: logger.With("component", "interview_finder")}
}

// Queries returns the search queries used for a leader.
func Queries(leaderName string) []string {
	name := strings.TrimSpace(leaderName)
	if name == "" {
		return nil
	}
	return []string{fmt.Sprintf("%s interview", name)}
}

// ForLeader searches every query for leader and ranks the merged results
// against the leader and org.
func (f *Finder) ForLeader(ctx context.Context, leader types.Leader, org string) ([]types.ScoredCandidate, error) {
	var all []types.Candidate
	for _, q := range Queries(leader.Name) {
		found, err := f.searcher.Search(ctx, q, f.opts.ResultsPerQuery)
		if err != nil {
			metrics.RecordInterviewSearch("error", 0)
			return nil, err
		}
		all = append(all, found...)
	}

	ranked := ranking.Rank(all, leader.Name, org, f.rank)
	metrics.RecordInterviewSearch("success", len(ranked))
	f.logger.Debug("ranked interviews",
		"leader", leader.Name, "candidates", len(all), "kept", len(ranked))
	return ranked, nil
}

// ForLeaders runs ForLeader for each leader with bounded concurrency.
// Results keep the input order; a failed search leaves that leader with
// no interviews and an error message.
func (f *Finder) ForLeaders(ctx context.Context, leaders []types.Leader, org string) []LeaderInterviews {
	results := make([]LeaderInterviews, len(leaders))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(f.opts.Concurrency)
	for i, leader := range leaders {
		g.Go(func() error {
			res := LeaderInterviews{Leader: leader, Interviews: []types.ScoredCandidate{}}
			ranked, err := f.ForLeader(gctx, leader, org)
			if err != nil {
				f.logger.Warn("interview search failed", "leader", leader.Name, "error", err)
				res.Error = err.Error()
			} else {
				res.Interviews = ranked
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return results
}
