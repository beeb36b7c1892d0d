// Package cache provides a file-backed, time-bounded store of company leaders
// keyed by normalized company domain.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/jonathan/leadprep/internal/types"
)

// DefaultMaxAge is how long an entry stays valid.
const DefaultMaxAge = 30 * 24 * time.Hour

// DefaultFileName is the cache file name inside the cache directory.
const DefaultFileName = "leaders_cache.json"

// ErrEmptyKey is returned when a key normalizes to nothing.
var ErrEmptyKey = errors.New("cache key cannot be empty")

// entry is the on-disk form of a cached payload.
type entry struct {
	Leaders     []types.Leader `json:"payload"`
	CreatedAt   time.Time      `json:"created_at"`
	OriginalKey string         `json:"original_key"`
}

// UnmarshalJSON also accepts files written with a "leaders" field.
func (e *entry) UnmarshalJSON(data []byte) error {
	type plain entry
	var aux struct {
		plain
		Legacy []types.Leader `json:"leaders"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*e = entry(aux.plain)
	if e.Leaders == nil {
		e.Leaders = aux.Legacy
	}
	return nil
}

// Stats summarizes the cache contents.
type Stats struct {
	EntryCount    int           `json:"entry_count"`
	ItemCount     int           `json:"item_count"`
	MaxAge        time.Duration `json:"-"`
	MaxAgeDays    int           `json:"max_age_days"`
	FileSizeBytes int64         `json:"file_size_bytes"`
	Path          string        `json:"path"`
}

// Option configures a Cache.
type Option func(*Cache)

// WithMaxAge overrides DefaultMaxAge. Non-positive values are ignored.
func WithMaxAge(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.maxAge = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Cache is safe for concurrent use. Every mutation rewrites the whole file.
type Cache struct {
	path   string
	maxAge time.Duration
	now    func() time.Time
	logger *slog.Logger

	mu      sync.Mutex
	entries map[string]entry // keyed by md5 of normalized key
}

// New opens the cache stored at path, dropping expired and malformed
// entries. A missing or unreadable file yields an empty cache.
func New(path string, opts ...Option) *Cache {
	c := &Cache{
		path:    path,
		maxAge:  DefaultMaxAge,
		now:     time.Now,
		logger:  slog.New(slog.DiscardHandler),
		entries: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "cache")

	if err := c.load(); err != nil {
		c.logger.Warn("failed to load leaders cache, starting empty",
			"path", c.path, "error", err)
		c.entries = make(map[string]entry)
	}
	return c
}

// NormalizeKey strips the scheme, any path, a leading "www." and
// surrounding whitespace, and lowercases the result.
func NormalizeKey(key string) string {
	k := strings.ToLower(strings.TrimSpace(key))
	if i := strings.Index(k, "://"); i >= 0 {
		k = k[i+3:]
	}
	if i := strings.IndexAny(k, "/?#"); i >= 0 {
		k = k[:i]
	}
	k = strings.TrimPrefix(k, "www.")
	return strings.TrimSpace(k)
}

func hashKey(normalized string) string {
	sum := md5.Sum([]byte(normalized))
	return hex.EncodeToString(sum[:])
}

// Get returns the leaders cached for key. Expired entries are removed
// and reported as a miss.
func (c *Cache) Get(key string) ([]types.Leader, bool) {
	normalized := NormalizeKey(key)
	if normalized == "" {
		return nil, false
	}
	h := hashKey(normalized)

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[h]
	if !ok {
		return nil, false
	}

	if c.expired(e) {
		delete(c.entries, h)
		if err := c.save(); err != nil {
			c.logger.Warn("failed to persist eviction", "key", normalized, "error", err)
		}
		c.logger.Debug("evicted expired entry", "key", normalized)
		return nil, false
	}

	return types.CloneLeaders(e.Leaders), true
}

// Set stores leaders under key and persists the table.
func (c *Cache) Set(key string, leaders []types.Leader) error {
	normalized := NormalizeKey(key)
	if normalized == "" {
		return ErrEmptyKey
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[hashKey(normalized)] = entry{
		Leaders:     types.CloneLeaders(leaders),
		CreatedAt:   c.now().UTC(),
		OriginalKey: normalized,
	}

	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}
	c.logger.Debug("cached leaders", "key", normalized, "count", len(leaders))
	return nil
}

// Clear removes every entry and persists the empty table.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]entry)
	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}
	c.logger.Info("cleared leaders cache", "path", c.path)
	return nil
}

// Stats reports the current contents. Expired entries that have not yet
// been evicted are not counted.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		MaxAge:     c.maxAge,
		MaxAgeDays: int(c.maxAge / (24 * time.Hour)),
		Path:       c.path,
	}
	for _, e := range c.entries {
		if c.expired(e) {
			continue
		}
		s.EntryCount++
		s.ItemCount += len(e.Leaders)
	}
	if info, err := os.Stat(c.path); err == nil {
		s.FileSizeBytes = info.Size()
	}
	return s
}

// Path returns the backing file path.
func (c *Cache) Path() string {
	return c.path
}

func (c *Cache) expired(e entry) bool {
	return c.now().Sub(e.CreatedAt) >= c.maxAge
}

// load reads the file and keeps only well-formed, unexpired entries.
func (c *Cache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read cache file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}

	dropped := 0
	for h, msg := range raw {
		var e entry
		if err := json.Unmarshal(msg, &e); err != nil {
			c.logger.Warn("skipping malformed cache entry", "hash", h, "error", err)
			dropped++
			continue
		}
		if e.CreatedAt.IsZero() || c.expired(e) {
			dropped++
			continue
		}
		c.entries[h] = e
	}

	c.logger.Debug("loaded leaders cache",
		"path", c.path, "entry_count", len(c.entries), "dropped", dropped)

	if dropped > 0 {
		if err := c.save(); err != nil {
			c.logger.Warn("failed to persist load sweep", "error", err)
		}
	}
	return nil
}

// save writes the table atomically via a temp file. The write happens under
// an advisory file lock so a CLI run and a server sharing the cache file
// never interleave on the temp file.
func (c *Cache) save() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	lock := flock.New(c.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock cache file: %w", err)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			c.logger.Warn("failed to release cache lock", "error", err)
		}
	}()

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
