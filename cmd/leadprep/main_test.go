package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/leadprep/internal/cache"
	"github.com/jonathan/leadprep/internal/config"
	"github.com/jonathan/leadprep/internal/interviews"
	"github.com/jonathan/leadprep/internal/types"
)

// execute runs the root command in-process with args.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath, verbose = "", false

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCollectLeads(t *testing.T) {
	dir := t.TempDir()
	leadsFile := filepath.Join(dir, "leads.json")
	require.NoError(t, os.WriteFile(leadsFile, []byte(`[
		{"company_domain": "jellyfish.co", "lead_name": "Andrew Lau"},
		{"company_domain": "stripe.com"}
	]`), 0644))
	emptyFile := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(emptyFile, []byte(`[]`), 0644))

	single := types.Lead{CompanyDomain: "acme.com", Name: "Jane"}

	tests := []struct {
		name    string
		lead    types.Lead
		path    string
		want    int
		wantErr string
	}{
		{"single lead", single, "", 1, ""},
		{"file", types.Lead{}, leadsFile, 2, ""},
		{"both", single, leadsFile, 0, "mutually exclusive"},
		{"neither", types.Lead{}, "", 0, "required"},
		{"empty file", types.Lead{}, emptyFile, 0, "no leads"},
		{"missing file", types.Lead{}, filepath.Join(dir, "nope.json"), 0, "failed to read"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leads, err := collectLeads(tt.lead, tt.path)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, leads, tt.want)
		})
	}
}

func TestWriteAndReadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.json")
	report := researchReport{Results: []types.ResearchResult{{Lead: types.Lead{CompanyDomain: "acme.com"}, Error: "boom"}}}

	require.NoError(t, writeJSON(nil, path, report))

	var got researchReport
	require.NoError(t, readJSON(path, &got))
	assert.Equal(t, report, got)

	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, "", map[string]int{"n": 1}))
	assert.Equal(t, "{\n  \"n\": 1\n}\n", buf.String())
}

func TestLoadConfig_Layers(t *testing.T) {
	t.Setenv(config.EnvGeminiAPIKey, "env-key")
	t.Setenv(config.EnvCacheDir, "/from/env")

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"cache_dir": "/from/file", "top_k": 3}`), 0644))

	configPath, verbose = path, true
	t.Cleanup(func() { configPath, verbose = "", false })

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/from/file", cfg.CacheDir)
	assert.Equal(t, "env-key", cfg.GeminiAPIKey)
	assert.Equal(t, 3, cfg.TopK)
	assert.Equal(t, config.DefaultScoreThreshold, cfg.ScoreThreshold)
	assert.True(t, cfg.Verbose)
}

func TestCacheCommands(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(config.EnvCacheDir, dir)

	c := cache.New(filepath.Join(dir, cache.DefaultFileName))
	require.NoError(t, c.Set("stripe.com", []types.Leader{{Name: "Patrick Collison"}, {Name: "John Collison"}}))

	out, err := execute(t, "cache", "stats")
	require.NoError(t, err)

	var stats cache.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 1, stats.EntryCount)
	assert.Equal(t, 2, stats.ItemCount)

	out, err = execute(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared 1 cached companies")

	assert.Equal(t, 0, cache.New(filepath.Join(dir, cache.DefaultFileName)).Stats().EntryCount)
}

func TestLeadersCommand_Fallback(t *testing.T) {
	t.Setenv(config.EnvCacheDir, t.TempDir())
	t.Setenv(config.EnvGeminiAPIKey, "")
	t.Setenv(config.EnvDatabaseURL, "")
	leadersOutput, leadersAsTable = "", false

	out, err := execute(t, "leaders", "https://www.apple.com")
	require.NoError(t, err)

	var info struct {
		Domain     string         `json:"domain"`
		DataSource string         `json:"data_source"`
		Leaders    []types.Leader `json:"leaders"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "apple.com", info.Domain)
	assert.Equal(t, "fallback", info.DataSource)
	assert.Equal(t, "Tim Cook", info.Leaders[0].Name)
}

func TestLeadersCommand_Table(t *testing.T) {
	t.Setenv(config.EnvCacheDir, t.TempDir())
	t.Setenv(config.EnvGeminiAPIKey, "")
	t.Setenv(config.EnvDatabaseURL, "")
	leadersOutput, leadersAsTable = "", false
	t.Cleanup(func() { leadersAsTable = false })

	out, err := execute(t, "leaders", "--table", "apple.com", "http://localhost")
	require.NoError(t, err)

	assert.Contains(t, out, "COMPANY")
	assert.Contains(t, out, "Tim Cook")
	assert.Contains(t, out, "fallback")
	assert.Contains(t, out, "http://localhost: ")
}

func TestInterviewsTable(t *testing.T) {
	results := []interviews.LeaderInterviews{
		{
			Leader: types.Leader{Name: "Jane Doe", Title: "CEO"},
			Interviews: []types.ScoredCandidate{{
				Candidate: types.Candidate{
					Title:           "Jane Doe exclusive interview on Acme strategy",
					DurationSeconds: 1265,
					ViewCount:       150000,
					URL:             "https://www.youtube.com/watch?v=abc",
				},
				Score: 96,
			}},
		},
		{Leader: types.Leader{Name: "John Roe"}, Error: "quota exceeded"},
	}

	out := interviewsTable(results)
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "96")
	assert.Contains(t, out, "21:05")
	assert.Contains(t, out, "150000")
	assert.Contains(t, out, "error: quota exceeded")
	assert.Empty(t, renderTable(nil, nil, nil))
}

func TestResearchCommand_RequiresLLM(t *testing.T) {
	t.Setenv(config.EnvCacheDir, t.TempDir())
	t.Setenv(config.EnvGeminiAPIKey, "")
	t.Setenv(config.EnvDatabaseURL, "")
	researchLead, researchLeads = types.Lead{}, ""

	_, err := execute(t, "research", "--domain", "acme.com")
	assert.ErrorContains(t, err, config.EnvGeminiAPIKey)
}
