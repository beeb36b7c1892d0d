package types

import "strings"

// Leader is a company leader, unique by (name, title) within an organization.
type Leader struct {
	Name  string `json:"name"`
	Title string `json:"title"`
}

// Key returns the identity used for deduplicating leaders.
func (l Leader) Key() string {
	return strings.ToLower(strings.TrimSpace(l.Name)) + "|" + strings.ToLower(strings.TrimSpace(l.Title))
}

// DedupLeaders removes duplicate and blank leaders, keeping first occurrence.
func DedupLeaders(leaders []Leader) []Leader {
	seen := make(map[string]bool, len(leaders))
	out := make([]Leader, 0, len(leaders))
	for _, l := range leaders {
		l.Name = strings.TrimSpace(l.Name)
		l.Title = strings.TrimSpace(l.Title)
		if l.Name == "" {
			continue
		}
		k := l.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, l)
	}
	return out
}

// CloneLeaders returns a copy so callers cannot mutate cached slices.
func CloneLeaders(leaders []Leader) []Leader {
	if leaders == nil {
		return nil
	}
	out := make([]Leader, len(leaders))
	copy(out, leaders)
	return out
}
