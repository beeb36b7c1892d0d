package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildExtractionPrompt(t *testing.T) {
	schema := ExtractionSchema{
		Name:        "Test",
		Description: "You are a careful analyst.",
		Fields: []SchemaField{
			{Name: "summary", Required: true, Description: "short summary"},
			{Name: "tags", Type: `["string"]`},
		},
		Instructions: []string{"Be brief."},
	}

	prompt := BuildExtractionPrompt(schema, "Acme raised a Series B.")

	assert.True(t, strings.HasPrefix(prompt, "You are a careful analyst."))
	assert.Contains(t, prompt, `"summary": "string" (required) // short summary,`)
	assert.Contains(t, prompt, `"tags": ["string"]`)
	assert.Contains(t, prompt, "- Be brief.")
	assert.Contains(t, prompt, "Acme raised a Series B.")
}

func TestResearchBriefSchema(t *testing.T) {
	schema := ResearchBriefSchema("Research this lead.")

	var names []string
	for _, f := range schema.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{
		"company_overview", "company_signals", "person_signals", "industry_context",
		"pain_hypotheses", "conversation_hooks", "buying_signals", "sources",
	}, names)
	assert.Equal(t, "Research this lead.", schema.Description)
}
