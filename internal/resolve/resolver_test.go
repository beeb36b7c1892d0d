package resolve

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/leadprep/internal/cache"
	"github.com/jonathan/leadprep/internal/types"
)

type fakeCache struct {
	mu      sync.Mutex
	data    map[string][]types.Leader
	gets    int
	sets    int
	failSet bool
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]types.Leader{}}
}

func (c *fakeCache) Get(key string) ([]types.Leader, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	l, ok := c.data[key]
	return l, ok
}

func (c *fakeCache) Set(key string, leaders []types.Leader) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sets++
	if c.failSet {
		return errors.New("disk full")
	}
	c.data[key] = leaders
	return nil
}

type savedRecord struct {
	domain  string
	leaders []types.Leader
	source  string
}

type fakeStore struct {
	mu      sync.Mutex
	data    map[string][]types.Leader
	getErr  error
	saveErr error
	gets    int
	saved   []savedRecord
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string][]types.Leader{}}
}

func (s *fakeStore) GetCompanyLeaders(_ context.Context, domain string) ([]types.Leader, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.data[domain], nil
}

func (s *fakeStore) SaveCompanyData(_ context.Context, domain string, leaders []types.Leader, source string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, savedRecord{domain, leaders, source})
	if s.saveErr != nil {
		return false, s.saveErr
	}
	return true, nil
}

type fakeGenerator struct {
	leaders []types.Leader
	err     error
	delay   time.Duration
	calls   atomic.Int32
}

func (g *fakeGenerator) Generate(ctx context.Context, _ string) ([]types.Leader, error) {
	g.calls.Add(1)
	if g.delay > 0 {
		select {
		case <-time.After(g.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return g.leaders, g.err
}

var (
	cachedLeaders    = []types.Leader{{Name: "Cached Person", Title: "CEO"}}
	storedLeaders    = []types.Leader{{Name: "Stored Person", Title: "CTO"}}
	generatedLeaders = []types.Leader{{Name: "Generated Person", Title: "CFO"}}
	fallbackLeaders  = []types.Leader{{Name: "John Smith", Title: "Chief Executive Officer"}}
)

type countingFallback struct {
	calls atomic.Int32
}

func (f *countingFallback) Leaders(string) []types.Leader {
	f.calls.Add(1)
	return fallbackLeaders
}

func TestNew_RequiresFallback(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"https://www.Acme.com/about", "acme.com", false},
		{"acme.com:8443", "acme.com", false},
		{"", "", true},
		{"   ", "", true},
		{"localhost", "", true},
		{"not a domain.com", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := NormalizeDomain(tt.input)
			if tt.wantErr {
				var inputErr *InputError
				require.ErrorAs(t, err, &inputErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_Precedence(t *testing.T) {
	tests := []struct {
		name           string
		cached         bool
		stored         bool
		generated      []types.Leader
		wantProvenance Provenance
		wantLeaders    []types.Leader
	}{
		{"cache hit", true, true, generatedLeaders, ProvenanceCache, cachedLeaders},
		{"store hit", false, true, generatedLeaders, ProvenanceStore, storedLeaders},
		{"generated", false, false, generatedLeaders, ProvenanceGenerated, generatedLeaders},
		{"fallback on empty generation", false, false, nil, ProvenanceFallback, fallbackLeaders},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newFakeCache()
			s := newFakeStore()
			g := &fakeGenerator{leaders: tt.generated}
			fb := &countingFallback{}
			if tt.cached {
				c.data["acme.com"] = cachedLeaders
			}
			if tt.stored {
				s.data["acme.com"] = storedLeaders
			}

			r, err := New(Options{Cache: c, Store: s, Generator: g, Fallback: fb})
			require.NoError(t, err)

			res, err := r.Resolve(context.Background(), "https://www.acme.com")
			require.NoError(t, err)
			assert.Equal(t, tt.wantProvenance, res.Provenance)
			assert.Equal(t, tt.wantLeaders, res.Leaders)
			assert.Equal(t, "acme.com", res.Domain)
		})
	}
}

func TestResolve_CacheHitInvokesNothingElse(t *testing.T) {
	c := newFakeCache()
	c.data["acme.com"] = cachedLeaders
	s := newFakeStore()
	g := &fakeGenerator{leaders: generatedLeaders}
	fb := &countingFallback{}

	r, err := New(Options{Cache: c, Store: s, Generator: g, Fallback: fb})
	require.NoError(t, err)

	_, err = r.Resolve(context.Background(), "acme.com")
	require.NoError(t, err)

	assert.Equal(t, 0, s.gets)
	assert.Empty(t, s.saved)
	assert.Equal(t, int32(0), g.calls.Load())
	assert.Equal(t, int32(0), fb.calls.Load())
	assert.Equal(t, 0, c.sets)
}

func TestResolve_StoreHitWritesThrough(t *testing.T) {
	c := newFakeCache()
	s := newFakeStore()
	s.data["acme.com"] = storedLeaders
	g := &fakeGenerator{leaders: generatedLeaders}

	r, err := New(Options{Cache: c, Store: s, Generator: g, Fallback: &countingFallback{}})
	require.NoError(t, err)

	_, err = r.Resolve(context.Background(), "acme.com")
	require.NoError(t, err)

	assert.Equal(t, storedLeaders, c.data["acme.com"])
	assert.Equal(t, int32(0), g.calls.Load())
	assert.Empty(t, s.saved)

	// Second call is served from the cache
	res, err := r.Resolve(context.Background(), "acme.com")
	require.NoError(t, err)
	assert.Equal(t, ProvenanceCache, res.Provenance)
}

func TestResolve_GeneratedPersistsAndCaches(t *testing.T) {
	c := newFakeCache()
	s := newFakeStore()
	g := &fakeGenerator{leaders: append(append([]types.Leader{}, generatedLeaders...), generatedLeaders...)}

	r, err := New(Options{Cache: c, Store: s, Generator: g, Fallback: &countingFallback{}})
	require.NoError(t, err)

	res, err := r.Resolve(context.Background(), "acme.com")
	require.NoError(t, err)

	assert.Equal(t, ProvenanceGenerated, res.Provenance)
	assert.Equal(t, generatedLeaders, res.Leaders, "duplicates removed")
	require.Len(t, s.saved, 1)
	assert.Equal(t, SourceLLM, s.saved[0].source)
	assert.Equal(t, "acme.com", s.saved[0].domain)
	assert.Equal(t, generatedLeaders, c.data["acme.com"])
}

func TestResolve_FallbackAlwaysSucceeds(t *testing.T) {
	c := newFakeCache()
	c.failSet = true
	s := newFakeStore()
	s.getErr = errors.New("connection refused")
	s.saveErr = errors.New("connection refused")
	g := &fakeGenerator{err: errors.New("quota exceeded")}

	r, err := New(Options{Cache: c, Store: s, Generator: g, Fallback: &countingFallback{}})
	require.NoError(t, err)

	res, err := r.Resolve(context.Background(), "acme.com")
	require.NoError(t, err)
	assert.Equal(t, ProvenanceFallback, res.Provenance)
	assert.Equal(t, fallbackLeaders, res.Leaders)
	assert.Equal(t, int32(1), g.calls.Load(), "no retries")
}

func TestResolve_FallbackPersistence(t *testing.T) {
	tests := []struct {
		name    string
		persist bool
		saves   int
	}{
		{"not persisted by default", false, 0},
		{"persisted when enabled", true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newFakeCache()
			s := newFakeStore()

			r, err := New(Options{Cache: c, Store: s, Fallback: &countingFallback{}, PersistFallback: tt.persist})
			require.NoError(t, err)

			res, err := r.Resolve(context.Background(), "acme.com")
			require.NoError(t, err)
			assert.Equal(t, ProvenanceFallback, res.Provenance)
			assert.Len(t, s.saved, tt.saves)
			if tt.saves > 0 {
				assert.Equal(t, SourceFallback, s.saved[0].source)
			}
			assert.Equal(t, fallbackLeaders, c.data["acme.com"], "fallback is always cached")
		})
	}
}

func TestResolve_NoOptionalTiers(t *testing.T) {
	r, err := New(Options{Fallback: FallbackFunc(func(string) []types.Leader { return fallbackLeaders })})
	require.NoError(t, err)

	assert.False(t, r.HasCache())
	assert.False(t, r.HasStore())
	assert.False(t, r.HasGenerator())

	res, err := r.Resolve(context.Background(), "acme.com")
	require.NoError(t, err)
	assert.Equal(t, ProvenanceFallback, res.Provenance)
}

func TestResolve_InvalidKey(t *testing.T) {
	fb := &countingFallback{}
	r, err := New(Options{Fallback: fb})
	require.NoError(t, err)

	_, err = r.Resolve(context.Background(), "")
	var inputErr *InputError
	require.ErrorAs(t, err, &inputErr)
	assert.Equal(t, int32(0), fb.calls.Load())
}

func TestResolve_TierTimeoutFallsThrough(t *testing.T) {
	g := &fakeGenerator{leaders: generatedLeaders, delay: time.Second}

	r, err := New(Options{Generator: g, Fallback: &countingFallback{}, TierTimeout: 10 * time.Millisecond})
	require.NoError(t, err)

	res, err := r.Resolve(context.Background(), "acme.com")
	require.NoError(t, err)
	assert.Equal(t, ProvenanceFallback, res.Provenance)
}

func TestResolve_WithFileCache(t *testing.T) {
	fc := cache.New(filepath.Join(t.TempDir(), cache.DefaultFileName))
	g := &fakeGenerator{leaders: generatedLeaders}

	r, err := New(Options{Cache: fc, Generator: g, Fallback: &countingFallback{}})
	require.NoError(t, err)

	first, err := r.Resolve(context.Background(), "https://www.acme.com/team")
	require.NoError(t, err)
	assert.Equal(t, ProvenanceGenerated, first.Provenance)

	second, err := r.Resolve(context.Background(), "ACME.com")
	require.NoError(t, err)
	assert.Equal(t, ProvenanceCache, second.Provenance)
	assert.Equal(t, generatedLeaders, second.Leaders)
	assert.Equal(t, int32(1), g.calls.Load())
}

func TestResolveBatch_KeepsOrderAndIsolatesErrors(t *testing.T) {
	c := newFakeCache()
	c.data["cached.com"] = cachedLeaders
	s := newFakeStore()
	s.data["stored.com"] = storedLeaders

	r, err := New(Options{Cache: c, Store: s, Fallback: &countingFallback{}})
	require.NoError(t, err)

	keys := []string{"stored.com", "", "cached.com", "unknown.com"}
	results := r.ResolveBatch(context.Background(), keys, 2)

	require.Len(t, results, len(keys))
	assert.Equal(t, ProvenanceStore, results[0].Result.Provenance)
	assert.Error(t, results[1].Err)
	assert.Equal(t, ProvenanceCache, results[2].Result.Provenance)
	assert.Equal(t, ProvenanceFallback, results[3].Result.Provenance)
	for i, key := range keys {
		assert.Equal(t, key, results[i].Key)
	}
}

func TestResolveBatch_CollapsesDuplicateKeys(t *testing.T) {
	g := &fakeGenerator{leaders: generatedLeaders, delay: 50 * time.Millisecond}
	c := newFakeCache()

	r, err := New(Options{Cache: c, Generator: g, Fallback: &countingFallback{}})
	require.NoError(t, err)

	keys := []string{"acme.com", "www.acme.com", "https://acme.com", "ACME.COM"}
	results := r.ResolveBatch(context.Background(), keys, len(keys))

	for _, res := range results {
		require.NoError(t, res.Err)
		assert.Equal(t, generatedLeaders, res.Result.Leaders)
	}
	// Whether calls overlap or follow each other, the generator runs once
	assert.Equal(t, int32(1), g.calls.Load())
}

func TestResolve_CancelledCallerDoesNotAffectSharedRun(t *testing.T) {
	g := &fakeGenerator{leaders: generatedLeaders, delay: 100 * time.Millisecond}
	c := newFakeCache()

	r, err := New(Options{Cache: c, Generator: g, Fallback: &countingFallback{}, TierTimeout: time.Second})
	require.NoError(t, err)

	ctxA, cancelA := context.WithCancel(context.Background())
	defer cancelA()

	resA := make(chan Result, 1)
	go func() {
		res, _ := r.Resolve(ctxA, "acme.com")
		resA <- res
	}()
	require.Eventually(t, func() bool { return g.calls.Load() == 1 }, time.Second, time.Millisecond)

	resB := make(chan Result, 1)
	go func() {
		res, _ := r.Resolve(context.Background(), "www.acme.com")
		resB <- res
	}()

	time.Sleep(20 * time.Millisecond)
	cancelA()

	a := <-resA
	assert.Equal(t, ProvenanceFallback, a.Provenance)

	b := <-resB
	assert.Equal(t, ProvenanceGenerated, b.Provenance)
	assert.Equal(t, generatedLeaders, b.Leaders)

	next, err := r.Resolve(context.Background(), "acme.com")
	require.NoError(t, err)
	assert.Equal(t, ProvenanceCache, next.Provenance)
	assert.Equal(t, generatedLeaders, next.Leaders)
	assert.Equal(t, int32(1), g.calls.Load())
}

func TestResolve_CancelledContextSkipsFallbackCaching(t *testing.T) {
	c := newFakeCache()
	s := newFakeStore()
	r, err := New(Options{Cache: c, Store: s, Fallback: &countingFallback{}, PersistFallback: true})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := r.chain(ctx, r.logger, "acme.com")
	assert.Equal(t, ProvenanceFallback, res.Provenance)
	assert.Equal(t, fallbackLeaders, res.Leaders)
	assert.Equal(t, 0, c.sets)
	assert.Empty(t, s.saved)
}
