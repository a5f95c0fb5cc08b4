package redirect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suites-dev/docroute/internal/errors"
)

func TestParseRules(t *testing.T) {
	data := []byte(`
redirects:
  - sources: ["/docs/api-reference", "/api"]
    destination: /docs/developer-guide/unit-tests/suites-api
  - source: /docs/guides
    destination: /docs/developer-guide
`)

	rules, err := ParseRules(data)
	require.NoError(t, err)
	require.Len(t, rules, 2)

	assert.Equal(t, []string{"/docs/api-reference", "/api"}, rules[0].Sources)
	assert.Equal(t, "/docs/developer-guide/unit-tests/suites-api", rules[0].Destination)
	assert.Equal(t, []string{"/docs/guides"}, rules[1].Sources)
}

func TestParseRulesShorthandCombines(t *testing.T) {
	data := []byte(`
redirects:
  - source: /a
    sources: ["/b"]
    destination: /c
`)

	rules, err := ParseRules(data)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, []string{"/a", "/b"}, rules[0].Sources)
}

func TestParseRulesRejectsUnknownFields(t *testing.T) {
	data := []byte(`
redirects:
  - source: /a
    destination: /b
    status: 302
`)

	_, err := ParseRules(data)
	assert.Error(t, err, "unknown fields are authoring mistakes and must fail")
}

func TestParseRulesMissingSourceSurfacesInBuild(t *testing.T) {
	data := []byte(`
redirects:
  - destination: /b
`)

	rules, err := ParseRules(data)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Empty(t, rules[0].Sources)

	// Parsing stays structural; the builder owns the report, so a
	// file-authored rule gets the same code as a programmatic one.
	_, buildErr := NewBuilder(stripped).Add(rules...).Build()
	require.Error(t, buildErr)
	assert.True(t, errors.IsCode(buildErr, errors.ErrCodeEmptySource))
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "redirects.yml")
	content := []byte("redirects:\n  - source: /old\n    destination: /new\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	rules, err := LoadRules(path)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "/new", rules[0].Destination)
}

func TestLoadRulesMissingFile(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
