package leaders

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/jonathan/leadprep/internal/llm"
	"github.com/jonathan/leadprep/internal/prompts"
	"github.com/jonathan/leadprep/internal/schemas"
	"github.com/jonathan/leadprep/internal/types"
)

// DefaultLimit caps how many leaders the extractor returns.
const DefaultLimit = 15

// Extractor asks an LLM for a company's leaders. It is the generative tier
// of the resolver.
type Extractor struct {
	client llm.Client
	limit  int
	logger *slog.Logger
}

// NewExtractor creates an Extractor. A limit <= 0 uses DefaultLimit.
func NewExtractor(client llm.Client, limit int, logger *slog.Logger) *Extractor {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Extractor{client: client, limit: limit, logger: logger.With("component", "leader_extractor")}
}

// Generate returns up to the configured limit of distinct leaders for domain.
func (e *Extractor) Generate(ctx context.Context, domain string) ([]types.Leader, error) {
	prompt, err := prompts.Render("leaders.json", "extract-leaders", map[string]string{
		"Domain":      domain,
		"CompanyName": CompanyName(domain),
		"Limit":       strconv.Itoa(e.limit),
	})
	if err != nil {
		return nil, &ExtractionError{Domain: domain, Message: "failed to build prompt", Cause: err}
	}

	raw, err := e.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, &ExtractionError{Domain: domain, Message: "llm call failed", Cause: err}
	}

	leaders, err := ParseLeaders(raw)
	if err != nil {
		return nil, &ExtractionError{Domain: domain, Message: "unusable llm output", Cause: err}
	}

	if len(leaders) > e.limit {
		leaders = leaders[:e.limit]
	}
	e.logger.Debug("extracted leaders", "domain", domain, "count", len(leaders))
	return leaders, nil
}

// ParseLeaders validates and decodes a leader list from model output. A
// top-level {"leaders": [...]} wrapper is accepted.
func ParseLeaders(raw string) ([]types.Leader, error) {
	cleaned := llm.CleanJSONBlock(raw)

	if strings.HasPrefix(cleaned, "{") {
		var wrapped struct {
			Leaders json.RawMessage `json:"leaders"`
		}
		if err := json.Unmarshal([]byte(cleaned), &wrapped); err == nil && len(wrapped.Leaders) > 0 {
			cleaned = string(wrapped.Leaders)
		}
	}

	if err := schemas.Validate(schemas.Leaders, cleaned); err != nil {
		return nil, err
	}

	var leaders []types.Leader
	if err := json.Unmarshal([]byte(cleaned), &leaders); err != nil {
		return nil, err
	}
	return types.DedupLeaders(leaders), nil
}
