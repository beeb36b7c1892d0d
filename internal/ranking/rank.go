package ranking

import (
	"iter"
	"sort"

	"github.com/jonathan/leadprep/internal/types"
)

// Default ranking parameters
const (
	DefaultThreshold = 30.0
	DefaultTopK      = 15
)

// Options controls Rank.
type Options struct {
	// Threshold drops candidates scoring below it.
	Threshold float64
	// TopK caps the result length; zero or negative means no cap.
	TopK int
	// Table overrides the scoring table; nil uses DefaultTable.
	Table *Table
	// Explain keeps per-rule adjustments on each result.
	Explain bool
}

// DefaultOptions returns the standard threshold and result cap.
func DefaultOptions() Options {
	return Options{
		Threshold: DefaultThreshold,
		TopK:      DefaultTopK,
	}
}

// Rank deduplicates candidates by ID (first occurrence wins), scores them
// against the subject, drops those below the threshold, and returns them
// ordered by score then recency, truncated to TopK.
func Rank(candidates []types.Candidate, subjectName, subjectOrg string, opts Options) []types.ScoredCandidate {
	table := opts.Table
	if table == nil {
		table = DefaultTable()
	}

	seen := make(map[string]bool, len(candidates))
	scored := make([]types.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		if seen[c.ID] {
			continue
		}
		seen[c.ID] = true

		breakdown := table.Explain(c, subjectName, subjectOrg)
		if breakdown.Score < opts.Threshold {
			continue
		}

		sc := types.ScoredCandidate{Candidate: c, Score: breakdown.Score}
		if opts.Explain {
			sc.Adjustments = breakdown.Adjustments
		}
		scored = append(scored, sc)
	}

	// Higher score first; ties go to the more recent publication
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].PublishedAt.After(scored[j].PublishedAt)
	})

	if opts.TopK > 0 && len(scored) > opts.TopK {
		scored = scored[:opts.TopK]
	}

	return scored
}

// Ranked is the lazy form of Rank. Ranking happens when iteration starts,
// and each new iteration recomputes the same deterministic sequence.
func Ranked(candidates []types.Candidate, subjectName, subjectOrg string, opts Options) iter.Seq[types.ScoredCandidate] {
	return func(yield func(types.ScoredCandidate) bool) {
		for _, sc := range Rank(candidates, subjectName, subjectOrg, opts) {
			if !yield(sc) {
				return
			}
		}
	}
}
