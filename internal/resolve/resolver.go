// Package resolve looks up company leaders through an ordered chain of
// tiers: cache, persistent store, generator and a static fallback.
package resolve

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/jonathan/leadprep/internal/cache"
	"github.com/jonathan/leadprep/internal/metrics"
	"github.com/jonathan/leadprep/internal/types"
)

// DefaultBatchConcurrency bounds ResolveBatch when no limit is given.
const DefaultBatchConcurrency = 4

// Options wires the tiers. Cache, Store and Generator may be nil.
type Options struct {
	Cache     Cache
	Store     Store
	Generator Generator
	Fallback  Fallback

	// PersistFallback also writes fallback placeholders to the store.
	// Off by default so the store only ever holds real data.
	PersistFallback bool

	// TierTimeout bounds each store or generator call; zero means none.
	TierTimeout time.Duration

	Logger *slog.Logger
}

// Result is a resolved payload and the tier it came from.
type Result struct {
	Domain     string         `json:"domain"`
	Leaders    []types.Leader `json:"leaders"`
	Provenance Provenance     `json:"provenance"`
}

// BatchResult pairs a key with its outcome.
type BatchResult struct {
	Key    string
	Result Result
	Err    error
}

// Resolver runs the tier chain.
type Resolver struct {
	opts   Options
	logger *slog.Logger
	group  singleflight.Group
}

// New validates opts and returns a Resolver.
func New(opts Options) (*Resolver, error) {
	if opts.Fallback == nil {
		return nil, errors.New("resolve: fallback tier is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{
		opts:   opts,
		logger: logger.With("component", "resolver"),
	}, nil
}

// HasCache reports whether a cache tier is configured.
func (r *Resolver) HasCache() bool { return r.opts.Cache != nil }

// HasStore reports whether a store tier is configured.
func (r *Resolver) HasStore() bool { return r.opts.Store != nil }

// HasGenerator reports whether a generator tier is configured.
func (r *Resolver) HasGenerator() bool { return r.opts.Generator != nil }

// NormalizeDomain turns a raw key into the domain used by every tier.
func NormalizeDomain(key string) (string, error) {
	domain := cache.NormalizeKey(key)
	if domain == "" {
		return "", &InputError{Key: key, Message: "key is empty"}
	}
	if strings.ContainsAny(domain, " \t\n") || !strings.Contains(domain, ".") {
		return "", &InputError{Key: key, Message: "key is not a domain"}
	}
	if i := strings.LastIndex(domain, ":"); i >= 0 {
		domain = domain[:i]
	}
	return domain, nil
}

// Resolve returns leaders for key. The only error it returns is an
// *InputError; tier failures are logged and treated as misses.
//
// Concurrent calls for the same domain share one run of the chain. That run
// is detached from every caller's cancellation and bounded by TierTimeout
// instead, so one caller going away cannot turn another caller's result
// into placeholders. A caller whose context ends first gets the fallback
// leaders without waiting; nothing is cached or stored on its behalf.
func (r *Resolver) Resolve(ctx context.Context, key string) (Result, error) {
	domain, err := NormalizeDomain(key)
	if err != nil {
		return Result{}, err
	}

	flightCtx := context.WithoutCancel(ctx)
	ch := r.group.DoChan(domain, func() (any, error) {
		return r.resolve(flightCtx, domain), nil
	})

	select {
	case out := <-ch:
		res := out.Val.(Result)
		if out.Shared {
			res.Leaders = types.CloneLeaders(res.Leaders)
		}
		return res, nil
	case <-ctx.Done():
		r.logger.Debug("caller gave up before resolution finished", "domain", domain, "error", ctx.Err())
		return Result{
			Domain:     domain,
			Leaders:    types.CloneLeaders(r.opts.Fallback.Leaders(domain)),
			Provenance: ProvenanceFallback,
		}, nil
	}
}

// ResolveBatch resolves keys with at most concurrency resolutions in
// flight. Results keep the input order; an invalid key only fails its slot.
func (r *Resolver) ResolveBatch(ctx context.Context, keys []string, concurrency int) []BatchResult {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}

	results := make([]BatchResult, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, key := range keys {
		g.Go(func() error {
			res, err := r.Resolve(gctx, key)
			results[i] = BatchResult{Key: key, Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (r *Resolver) resolve(ctx context.Context, domain string) Result {
	start := time.Now()
	log := r.logger.With("domain", domain)

	res := r.chain(ctx, log, domain)
	res.Domain = domain

	metrics.RecordResolution(string(res.Provenance), time.Since(start).Seconds())
	log.Info("resolved leaders", "provenance", res.Provenance, "count", len(res.Leaders))
	return res
}

func (r *Resolver) chain(ctx context.Context, log *slog.Logger, domain string) Result {
	if r.opts.Cache != nil {
		if leaders, ok := r.opts.Cache.Get(domain); ok {
			return Result{Leaders: leaders, Provenance: ProvenanceCache}
		}
	}

	if r.opts.Store != nil {
		leaders, err := r.storeGet(ctx, domain)
		switch {
		case err != nil:
			r.tierError(log, "store", err)
		case len(leaders) > 0:
			r.cacheSet(log, domain, leaders)
			return Result{Leaders: leaders, Provenance: ProvenanceStore}
		}
	}

	if r.opts.Generator != nil {
		leaders, err := r.generate(ctx, domain)
		switch {
		case err != nil:
			r.tierError(log, "generator", err)
		case len(leaders) > 0:
			r.storeSave(ctx, log, domain, leaders, SourceLLM)
			r.cacheSet(log, domain, leaders)
			return Result{Leaders: leaders, Provenance: ProvenanceGenerated}
		default:
			log.Debug("generator returned no leaders")
		}
	}

	leaders := r.opts.Fallback.Leaders(domain)
	if ctx.Err() != nil {
		// The misses above may only reflect the cancellation
		return Result{Leaders: leaders, Provenance: ProvenanceFallback}
	}
	if r.opts.PersistFallback {
		r.storeSave(ctx, log, domain, leaders, SourceFallback)
	}
	r.cacheSet(log, domain, leaders)
	return Result{Leaders: leaders, Provenance: ProvenanceFallback}
}

func (r *Resolver) storeGet(ctx context.Context, domain string) ([]types.Leader, error) {
	ctx, cancel := r.tierContext(ctx)
	defer cancel()
	return r.opts.Store.GetCompanyLeaders(ctx, domain)
}

func (r *Resolver) generate(ctx context.Context, domain string) ([]types.Leader, error) {
	ctx, cancel := r.tierContext(ctx)
	defer cancel()
	leaders, err := r.opts.Generator.Generate(ctx, domain)
	if err != nil {
		return nil, err
	}
	return types.DedupLeaders(leaders), nil
}

func (r *Resolver) storeSave(ctx context.Context, log *slog.Logger, domain string, leaders []types.Leader, source string) {
	if r.opts.Store == nil {
		return
	}
	ctx, cancel := r.tierContext(ctx)
	defer cancel()
	if _, err := r.opts.Store.SaveCompanyData(ctx, domain, leaders, source); err != nil {
		r.tierError(log, "store_save", err)
	}
}

func (r *Resolver) cacheSet(log *slog.Logger, domain string, leaders []types.Leader) {
	if r.opts.Cache == nil {
		return
	}
	if err := r.opts.Cache.Set(domain, leaders); err != nil {
		r.tierError(log, "cache_set", err)
	}
}

func (r *Resolver) tierContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.opts.TierTimeout > 0 {
		return context.WithTimeout(ctx, r.opts.TierTimeout)
	}
	return context.WithCancel(ctx)
}

func (r *Resolver) tierError(log *slog.Logger, tier string, err error) {
	metrics.RecordTierError(tier)
	log.Warn("tier failed, treating as miss", "tier", tier, "error", err)
}
