// Package opener drafts cold outreach openers from research briefs.
package opener

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jonathan/leadprep/internal/llm"
	"github.com/jonathan/leadprep/internal/metrics"
	"github.com/jonathan/leadprep/internal/prompts"
	"github.com/jonathan/leadprep/internal/types"
	"github.com/jonathan/leadprep/internal/validation"
)

// Generator turns research into openers.
type Generator struct {
	client         llm.Client
	productContext string
	logger         *slog.Logger
}

// NewGenerator creates a Generator. An empty productContext uses the
// embedded default.
func NewGenerator(client llm.Client, productContext string, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Generator{
		client:         client,
		productContext: strings.TrimSpace(productContext),
		logger:         logger.With("component", "opener_generator"),
	}
}

// DefaultProductContext returns the embedded product description.
func DefaultProductContext() string {
	return prompts.MustGet("opener.json", "default-product-context")
}

// BuildPrompt renders the opener prompt. The raw model output kept on the
// brief is never included.
func BuildPrompt(brief *types.ResearchBrief, lead types.Lead, productContext string) (string, error) {
	if brief == nil {
		brief = &types.ResearchBrief{}
	}
	research, err := json.MarshalIndent(brief, "", "  ")
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(productContext) == "" {
		productContext = DefaultProductContext()
	}

	name := lead.Name
	if name == "" {
		name = "Unknown"
	}
	return prompts.Render("opener.json", "draft-openers", map[string]string{
		"LeadName":       name,
		"LeadTitle":      lead.Title,
		"Company":        lead.DisplayCompany(),
		"Research":       validation.Quote(string(research), "research brief"),
		"ProductContext": productContext,
	})
}

// Generate drafts three openers for lead. A non-empty productContext
// overrides the generator's own.
func (g *Generator) Generate(ctx context.Context, brief *types.ResearchBrief, lead types.Lead, productContext string) (string, error) {
	if productContext == "" {
		productContext = g.productContext
	}
	productContext = validation.Sanitize(g.logger, "product context", productContext)
	lead.Name = validation.Sanitize(g.logger, "lead name", lead.Name)
	lead.Title = validation.Sanitize(g.logger, "lead title", lead.Title)

	prompt, err := BuildPrompt(brief, lead, productContext)
	if err != nil {
		return "", fmt.Errorf("failed to build opener prompt: %w", err)
	}

	text, err := g.client.GenerateContent(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		metrics.RecordGeneration("opener", "error")
		return "", fmt.Errorf("opener generation failed: %w", err)
	}
	metrics.RecordGeneration("opener", "success")
	return strings.TrimSpace(text), nil
}

// GenerateBatch drafts openers for researched leads in order. Leads whose
// research failed get a "Research failed" note instead of a model call.
func (g *Generator) GenerateBatch(ctx context.Context, results []types.ResearchResult, productContext string) []types.Opener {
	openers := make([]types.Opener, 0, len(results))
	for i, res := range results {
		g.logger.Info("drafting opener", "index", i+1, "total", len(results),
			"lead", res.Lead.Name, "company", res.Lead.DisplayCompany())

		if res.Failed() {
			openers = append(openers, types.Opener{
				Lead:  res.Lead,
				Text:  "Research failed: " + res.Error,
				Error: res.Error,
			})
			continue
		}

		op := types.Opener{Lead: res.Lead}
		if res.Brief != nil {
			op.ResearchSummary = res.Brief.CompanyOverview
		}
		text, err := g.Generate(ctx, res.Brief, res.Lead, productContext)
		if err != nil {
			g.logger.Warn("opener generation failed", "lead", res.Lead.Name, "error", err)
			op.Text = "Error generating opener: " + err.Error()
			op.Error = err.Error()
		} else {
			op.Text = text
		}
		openers = append(openers, op)
	}
	return openers
}
