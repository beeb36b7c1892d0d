// Package llm - extractor.go builds prompts that ask for a fixed JSON shape.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema describes the JSON object a prompt asks the model to return.
type ExtractionSchema struct {
	Name         string        // Schema name (e.g., "ResearchBrief")
	Description  string        // Task preamble
	Fields       []SchemaField // Expected output fields
	Instructions []string      // Extra rules appended after the structure
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint shown to the model
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "\"string\""
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	sb.WriteString("IMPORTANT:\n")
	for _, rule := range schema.Instructions {
		sb.WriteString("- ")
		sb.WriteString(rule)
		sb.WriteString("\n")
	}
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	sb.WriteString("Input:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// ResearchBriefSchema returns the output structure of a sales research brief.
func ResearchBriefSchema(description string) ExtractionSchema {
	signal := `[{"signal": "string", "source": "string", "date": "string", "relevance": "string"}]`
	return ExtractionSchema{
		Name:        "ResearchBrief",
		Description: description,
		Fields: []SchemaField{
			{Name: "company_overview", Description: "Two or three sentences on what the company does", Required: true},
			{Name: "company_signals", Type: signal, Description: "Recent company events: funding, launches, hiring, leadership changes", Required: true},
			{Name: "person_signals", Type: signal, Description: "Recent activity by the lead: talks, posts, role changes"},
			{Name: "industry_context", Description: "Relevant trends in the company's market"},
			{Name: "pain_hypotheses", Type: `["string"]`, Description: "Likely problems the lead owns"},
			{Name: "conversation_hooks", Type: `["string"]`, Description: "Specific, timely openers for a first message"},
			{Name: "buying_signals", Type: `["string"]`, Description: "Evidence the company may be in market"},
			{Name: "sources", Type: `["string"]`, Description: "URLs or publications backing the signals"},
		},
		Instructions: []string{
			"Prefer signals from the last 6 months and include a date when known.",
			"Leave a list empty rather than inventing facts.",
		},
	}
}
