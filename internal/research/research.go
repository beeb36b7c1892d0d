// Package research builds sales research briefs for leads using an LLM.
package research

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/leadprep/internal/llm"
	"github.com/jonathan/leadprep/internal/metrics"
	"github.com/jonathan/leadprep/internal/prompts"
	"github.com/jonathan/leadprep/internal/resolve"
	"github.com/jonathan/leadprep/internal/schemas"
	"github.com/jonathan/leadprep/internal/types"
	"github.com/jonathan/leadprep/internal/validation"
)

// DefaultConcurrency bounds ResearchBatch.
const DefaultConcurrency = 2

// Researcher asks the text-generation provider for research briefs.
type Researcher struct {
	client      llm.Client
	concurrency int
	logger      *slog.Logger
}

// NewResearcher creates a Researcher. A concurrency <= 0 uses DefaultConcurrency.
func NewResearcher(client llm.Client, concurrency int, logger *slog.Logger) *Researcher {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Researcher{client: client, concurrency: concurrency, logger: logger.With("component", "researcher")}
}

// BuildPrompt renders the research prompt for lead.
func BuildPrompt(lead types.Lead) (string, error) {
	description, err := prompts.Get("research.json", "research-brief")
	if err != nil {
		return "", err
	}

	target := ""
	if lead.Name != "" {
		target = "\nPerson to research: " + lead.Name
		if lead.Title != "" {
			target += fmt.Sprintf(" (%s)", lead.Title)
		}
	}
	leadContext, err := prompts.Render("research.json", "lead-context", map[string]string{
		"Company": lead.DisplayCompany(),
		"Domain":  lead.CompanyDomain,
		"Target":  target,
	})
	if err != nil {
		return "", err
	}

	return llm.BuildExtractionPrompt(llm.ResearchBriefSchema(description), leadContext), nil
}

// Research returns a brief for lead. Output that cannot be parsed yields an
// empty brief carrying the raw text rather than an error.
func (r *Researcher) Research(ctx context.Context, lead types.Lead) (*types.ResearchBrief, error) {
	lead.CompanyDomain = strings.TrimSpace(lead.CompanyDomain)
	if lead.CompanyDomain == "" {
		return nil, &resolve.InputError{Key: "company_domain", Message: "is required"}
	}

	lead.Name = validation.Sanitize(r.logger, "lead name", lead.Name)
	lead.Title = validation.Sanitize(r.logger, "lead title", lead.Title)
	lead.CompanyName = validation.Sanitize(r.logger, "company name", lead.CompanyName)

	prompt, err := BuildPrompt(lead)
	if err != nil {
		return nil, &ResearchError{Domain: lead.CompanyDomain, Message: "failed to build prompt", Cause: err}
	}

	r.logger.Info("researching lead", "domain", lead.CompanyDomain, "lead", lead.Name)
	text, err := r.client.GenerateContent(ctx, prompt, llm.TierStandard)
	if err != nil {
		metrics.RecordGeneration("research", "error")
		return nil, &ResearchError{Domain: lead.CompanyDomain, Message: "llm call failed", Cause: err}
	}

	brief, err := ParseBrief(text)
	if err != nil {
		r.logger.Warn("research output not parseable, keeping raw text",
			"domain", lead.CompanyDomain, "error", err)
		metrics.RecordGeneration("research", "unparsed")
		return brief, nil
	}
	metrics.RecordGeneration("research", "success")
	return brief, nil
}

// ParseBrief extracts a brief from model output. It always returns a usable
// brief with Raw set; the error reports why the structured fields are empty.
func ParseBrief(text string) (*types.ResearchBrief, error) {
	brief := &types.ResearchBrief{}

	jsonText := llm.ExtractJSON(text)
	if jsonText == "" {
		return emptyBrief(text), fmt.Errorf("no JSON object found")
	}
	if err := schemas.Validate(schemas.ResearchBrief, jsonText); err != nil {
		return emptyBrief(text), err
	}
	if err := json.Unmarshal([]byte(jsonText), brief); err != nil {
		return emptyBrief(text), err
	}

	normalize(brief)
	brief.Raw = text
	return brief, nil
}

func emptyBrief(raw string) *types.ResearchBrief {
	b := &types.ResearchBrief{Raw: raw}
	normalize(b)
	return b
}

// normalize replaces nil lists with empty ones so briefs encode as [].
func normalize(b *types.ResearchBrief) {
	if b.CompanySignals == nil {
		b.CompanySignals = []types.Signal{}
	}
	if b.PersonSignals == nil {
		b.PersonSignals = []types.Signal{}
	}
	for _, list := range []*[]string{&b.PainHypotheses, &b.ConversationHooks, &b.BuyingSignals, &b.Sources} {
		if *list == nil {
			*list = []string{}
		}
	}
}

// ResearchBatch researches every lead with bounded concurrency. Results keep
// the input order and a failed lead records its error instead of aborting
// the batch.
func (r *Researcher) ResearchBatch(ctx context.Context, leads []types.Lead) []types.ResearchResult {
	results := make([]types.ResearchResult, len(leads))

	var g errgroup.Group
	g.SetLimit(r.concurrency)
	for i, lead := range leads {
		g.Go(func() error {
			r.logger.Debug("batch research", "index", i+1, "total", len(leads), "domain", lead.CompanyDomain)
			res := types.ResearchResult{Lead: lead}
			brief, err := r.Research(ctx, lead)
			if err != nil {
				res.Error = err.Error()
			} else {
				res.Brief = brief
			}
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	return results
}
