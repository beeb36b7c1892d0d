package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jonathan/leadprep/internal/cache"
	"github.com/jonathan/leadprep/internal/config"
	"github.com/jonathan/leadprep/internal/db"
	"github.com/jonathan/leadprep/internal/interviews"
	"github.com/jonathan/leadprep/internal/leaders"
	"github.com/jonathan/leadprep/internal/llm"
	"github.com/jonathan/leadprep/internal/observability"
	"github.com/jonathan/leadprep/internal/opener"
	"github.com/jonathan/leadprep/internal/ranking"
	"github.com/jonathan/leadprep/internal/research"
	"github.com/jonathan/leadprep/internal/resolve"
)

// app holds every component a command may need. Optional backends are nil
// when their credentials are missing.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	printer  *observability.Printer
	cache    *cache.Cache
	store    *db.DB
	llm      llm.Client
	resolver *resolve.Resolver
	service  *leaders.Service

	finder     *interviews.Finder
	researcher *research.Researcher
	openers    *opener.Generator
}

// loadConfig layers the config file over the environment over defaults.
func loadConfig() (config.Config, error) {
	fileCfg := &config.Config{}
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return config.Config{}, err
		}
		fileCfg = loaded
	}
	if verbose {
		fileCfg.Verbose = true
	}

	merged := fileCfg.MergeWithDefaults(config.FromEnv())
	cfg := merged.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newApp wires the components available under cfg.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.Verbose)

	a := &app{
		cfg:     cfg,
		logger:  logger,
		printer: observability.NewPrinter(os.Stderr),
		cache:   cache.New(cfg.CachePath(), cache.WithMaxAge(cfg.CacheMaxAge()), cache.WithLogger(logger)),
	}

	opts := resolve.Options{
		Cache:           a.cache,
		Fallback:        leaders.StaticFallback{},
		PersistFallback: cfg.PersistFallback,
		TierTimeout:     cfg.TierTimeout(),
		Logger:          logger,
	}

	if cfg.DatabaseURL != "" {
		store, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Warn("database unavailable, continuing without store tier", "error", err)
		} else if err := store.EnsureSchema(ctx); err != nil {
			logger.Warn("database schema check failed, continuing without store tier", "error", err)
			store.Close()
		} else {
			a.store = store
			opts.Store = store
		}
	}

	if cfg.GeminiAPIKey != "" {
		client, err := llm.NewClient(ctx, llm.DefaultConfig(), cfg.GeminiAPIKey, logger)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		a.llm = client
		opts.Generator = leaders.NewExtractor(client, leaders.DefaultLimit, logger)
		a.researcher = research.NewResearcher(client, cfg.BatchConcurrency, logger)
		a.openers = opener.NewGenerator(client, cfg.ProductContext, logger)
	}

	a.resolver, err = resolve.New(opts)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.service = leaders.NewService(a.resolver)

	if cfg.YouTubeAPIKey != "" {
		searcher, err := interviews.NewYouTubeSearcher(ctx, cfg.YouTubeAPIKey)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.finder = interviews.NewFinder(searcher, interviews.FinderOptions{
			Rank: &ranking.Options{
				Threshold: cfg.ScoreThreshold,
				TopK:      cfg.TopK,
				Explain:   cfg.Verbose,
			},
			Logger: logger,
		})
	}

	return a, nil
}

// Close releases the store and LLM client.
func (a *app) Close() {
	if a.store != nil {
		a.store.Close()
	}
	if a.llm != nil {
		_ = a.llm.Close()
	}
}

func (a *app) requireLLM(feature string) error {
	if a.llm == nil {
		return fmt.Errorf("%s requires %s to be set", feature, config.EnvGeminiAPIKey)
	}
	return nil
}

// writeJSON writes v as indented JSON to path, or to w when path is empty.
func writeJSON(w io.Writer, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = w.Write(data)
		return err
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}

// readJSON decodes the JSON file at path into v.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
