package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_ValidPrompt(t *testing.T) {
	ClearCache()

	prompt, err := Get("leaders.json", "extract-leaders")
	require.NoError(t, err)
	assert.Contains(t, prompt, "{{.Domain}}")
	assert.Contains(t, prompt, "JSON array")
}

func TestGet_InvalidFile(t *testing.T) {
	ClearCache()

	_, err := Get("nonexistent.json", "some-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read prompt file")
}

func TestGet_InvalidKey(t *testing.T) {
	ClearCache()

	_, err := Get("leaders.json", "nonexistent-key")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMustGet_Panics(t *testing.T) {
	ClearCache()

	assert.Panics(t, func() {
		MustGet("nonexistent.json", "some-key")
	})
}

func TestMustGet_ValidPrompt(t *testing.T) {
	ClearCache()

	assert.NotPanics(t, func() {
		prompt := MustGet("opener.json", "default-product-context")
		assert.NotEmpty(t, prompt)
	})
}

func TestFormat(t *testing.T) {
	template := "Hello {{.Name}}, welcome to {{.Company}}!"
	data := map[string]string{
		"Name":    "Alice",
		"Company": "Acme Corp",
	}

	result := Format(template, data)
	assert.Equal(t, "Hello Alice, welcome to Acme Corp!", result)
}

func TestFormat_EmptyData(t *testing.T) {
	template := "Hello {{.Name}}"

	result := Format(template, map[string]string{})
	assert.Equal(t, template, result) // Placeholder remains
}

func TestFormat_InsertedValuesAreNotExpanded(t *testing.T) {
	template := "{{.Title}} at {{.Company}}"
	data := map[string]string{
		"Title":   "VP {{.Company}}",
		"Company": "Acme",
	}

	for range 50 {
		assert.Equal(t, "VP {{.Company}} at Acme", Format(template, data))
	}
}

func TestRender_ValueContainingPlaceholder(t *testing.T) {
	ClearCache()

	data := map[string]string{
		"Company": "Acme {{.Domain}}",
		"Domain":  "acme.com",
		"Target":  "\nPerson to research: {{.Unknown}}",
	}
	for range 50 {
		out, err := Render("research.json", "lead-context", data)
		require.NoError(t, err)
		assert.Contains(t, out, "Company: Acme {{.Domain}} (acme.com)")
		assert.Contains(t, out, "{{.Unknown}}")
	}
}

func TestRender(t *testing.T) {
	ClearCache()

	out, err := Render("research.json", "lead-context", map[string]string{
		"Company": "Acme",
		"Domain":  "acme.com",
		"Target":  "",
	})
	require.NoError(t, err)
	assert.Equal(t, "Company: Acme (acme.com)", out)

	_, err = Render("research.json", "lead-context", map[string]string{"Company": "Acme"})
	assert.ErrorContains(t, err, "Domain, Target")
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, Placeholders("{{.B}} {{.A}} {{.B}}"))
	assert.Empty(t, Placeholders("nothing here"))
}

func TestAllPromptFilesLoad(t *testing.T) {
	ClearCache()

	expected := map[string][]string{
		"leaders.json":  {"extract-leaders"},
		"research.json": {"lead-context", "research-brief"},
		"opener.json":   {"default-product-context", "draft-openers"},
	}
	for file, keys := range expected {
		got, err := List(file)
		require.NoError(t, err, file)
		assert.Equal(t, keys, got, file)
	}
}

func TestCaching(t *testing.T) {
	ClearCache()

	prompt1, err := Get("leaders.json", "extract-leaders")
	require.NoError(t, err)

	prompt2, err := Get("leaders.json", "extract-leaders")
	require.NoError(t, err)

	assert.Equal(t, prompt1, prompt2)
}
