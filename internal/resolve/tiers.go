package resolve

import (
	"context"

	"github.com/jonathan/leadprep/internal/types"
)

// Provenance names the tier that produced a result.
type Provenance string

// Provenance values, in precedence order.
const (
	ProvenanceCache     Provenance = "cache"
	ProvenanceStore     Provenance = "store"
	ProvenanceGenerated Provenance = "generated"
	ProvenanceFallback  Provenance = "fallback"
)

// Source tags written alongside leaders in the persistent store.
const (
	SourceLLM      = "llm"
	SourceFallback = "fallback"
)

// Cache is the fast in-front memoization tier.
type Cache interface {
	Get(key string) ([]types.Leader, bool)
	Set(key string, leaders []types.Leader) error
}

// Store is the durable tier.
type Store interface {
	// GetCompanyLeaders returns nil, nil when the domain is unknown.
	GetCompanyLeaders(ctx context.Context, domain string) ([]types.Leader, error)
	SaveCompanyData(ctx context.Context, domain string, leaders []types.Leader, source string) (bool, error)
}

// Generator produces leaders from scratch, typically with an LLM.
type Generator interface {
	Generate(ctx context.Context, domain string) ([]types.Leader, error)
}

// Fallback always yields a payload.
type Fallback interface {
	Leaders(domain string) []types.Leader
}

// FallbackFunc adapts a function to Fallback.
type FallbackFunc func(domain string) []types.Leader

// Leaders calls f.
func (f FallbackFunc) Leaders(domain string) []types.Leader {
	return f(domain)
}
