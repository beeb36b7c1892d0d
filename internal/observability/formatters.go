// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/leadprep/internal/cache"
	"github.com/jonathan/leadprep/internal/interviews"
	"github.com/jonathan/leadprep/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens s to at most n runes, ending in "..." when cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// PrintLeaders outputs a company's leaders and which tier supplied them.
func (p *Printer) PrintLeaders(domain, provenance string, leaders []types.Leader) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Domain:   %s\n", domain))
	sb.WriteString(fmt.Sprintf("Source:   %s\n", provenance))
	sb.WriteString("\n")

	if len(leaders) == 0 {
		sb.WriteString("No leaders found")
	}
	for i, l := range leaders {
		sb.WriteString(fmt.Sprintf("%2d. %s", i+1, l.Name))
		if l.Title != "" {
			sb.WriteString(fmt.Sprintf(" (%s)", l.Title))
		}
		if i < len(leaders)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("COMPANY LEADERS", sb.String())
}

// PrintInterviews outputs the top ranked interviews for a leader, with the
// scoring rules that fired when they were kept.
func (p *Printer) PrintInterviews(leader types.Leader, ranked []types.ScoredCandidate) {
	title := "INTERVIEWS: " + leader.Name
	if len(ranked) == 0 {
		p.printBox(title, "No relevant interviews found")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Relevant interviews: %d\n\n", len(ranked)))

	count := min(len(ranked), maxItemsToShow)
	for i := 0; i < count; i++ {
		c := ranked[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, c.Title))
		sb.WriteString(fmt.Sprintf("    Score: %.0f  %s  %s\n", c.Score, c.ChannelTitle, interviews.FormatDuration(c.DurationSeconds)))
		if !c.PublishedAt.IsZero() {
			sb.WriteString(fmt.Sprintf("    Published: %s  Views: %d\n", c.PublishedAt.Format("2006-01-02"), c.ViewCount))
		}
		if len(c.Adjustments) > 0 {
			parts := make([]string, 0, len(c.Adjustments))
			for _, a := range c.Adjustments {
				parts = append(parts, fmt.Sprintf("%s%+.0f", a.Rule, a.Points))
			}
			sb.WriteString(fmt.Sprintf("    Why: %s\n", strings.Join(parts, ", ")))
		}
		if c.URL != "" {
			sb.WriteString(fmt.Sprintf("    %s\n", c.URL))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(ranked) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more interviews", len(ranked)-maxItemsToShow))
	}

	p.printBox(title, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintResearchBrief outputs the headline findings of a research brief.
func (p *Printer) PrintResearchBrief(company string, brief *types.ResearchBrief) {
	if brief == nil {
		return
	}

	var sb strings.Builder
	if brief.CompanyOverview != "" {
		sb.WriteString(brief.CompanyOverview)
		sb.WriteString("\n\n")
	}

	if len(brief.CompanySignals) > 0 {
		sb.WriteString("Company Signals:\n")
		count := min(len(brief.CompanySignals), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", brief.CompanySignals[i].Signal))
		}
		if len(brief.CompanySignals) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(brief.CompanySignals)-maxItemsToShow))
		}
		sb.WriteString("\n")
	}

	if len(brief.ConversationHooks) > 0 {
		sb.WriteString("Hooks:\n")
		count := min(len(brief.ConversationHooks), 3)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", brief.ConversationHooks[i]))
		}
	}

	content := strings.TrimSuffix(sb.String(), "\n")
	if content == "" {
		content = "No structured findings (raw output kept)"
	}
	p.printBox("RESEARCH: "+company, strings.TrimSuffix(content, "\n"))
}

// PrintCacheStats outputs the leader cache statistics.
func (p *Printer) PrintCacheStats(stats cache.Stats) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Entries:  %d\n", stats.EntryCount))
	sb.WriteString(fmt.Sprintf("Leaders:  %d\n", stats.ItemCount))
	sb.WriteString(fmt.Sprintf("Max age:  %d days\n", stats.MaxAgeDays))
	sb.WriteString(fmt.Sprintf("Size:     %.2f KB\n", float64(stats.FileSizeBytes)/1024))
	sb.WriteString(fmt.Sprintf("File:     %s", stats.Path))

	p.printBox("LEADER CACHE", sb.String())
}
