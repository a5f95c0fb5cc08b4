package emit

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suites-dev/docroute/internal/redirect"
)

func TestNetlifyFormat(t *testing.T) {
	table := buildTable(t,
		redirect.Rule{Sources: []string{"/old"}, Destination: "/new"})

	var buf bytes.Buffer
	require.NoError(t, netlifyPlatform{}.Write(&buf, table))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "/old /new 301!", lines[0])
	assert.Equal(t, "/old/ /new 301!", lines[1])
}

func TestVercelFormat(t *testing.T) {
	table := buildTable(t,
		redirect.Rule{Sources: []string{"/old"}, Destination: "/new"})

	var buf bytes.Buffer
	require.NoError(t, vercelPlatform{}.Write(&buf, table))

	var cfg struct {
		TrailingSlash bool `json:"trailingSlash"`
		Redirects     []struct {
			Source      string `json:"source"`
			Destination string `json:"destination"`
			Permanent   bool   `json:"permanent"`
		} `json:"redirects"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &cfg))

	assert.False(t, cfg.TrailingSlash)
	require.Len(t, cfg.Redirects, 2)
	assert.Equal(t, "/old", cfg.Redirects[0].Source)
	assert.Equal(t, "/new", cfg.Redirects[0].Destination)
	assert.True(t, cfg.Redirects[0].Permanent)
}

func TestVercelTrailingSlashEnforced(t *testing.T) {
	enforced := redirect.Policy{TrailingSlash: redirect.TrailingSlashEnforced}
	table, err := redirect.NewBuilder(enforced).
		Add(redirect.Rule{Sources: []string{"/old"}, Destination: "/new"}).
		Build()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, vercelPlatform{}.Write(&buf, table))

	var cfg struct {
		TrailingSlash bool `json:"trailingSlash"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &cfg))
	assert.True(t, cfg.TrailingSlash)
}

func TestCloudflareFormat(t *testing.T) {
	table := buildTable(t,
		redirect.Rule{Sources: []string{"/old"}, Destination: "/new"})

	var buf bytes.Buffer
	require.NoError(t, cloudflarePlatform{}.Write(&buf, table))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "/old /new 301", lines[0])
}

func TestLookupPlatform(t *testing.T) {
	for _, name := range []string{"netlify", "vercel", "cloudflare"} {
		platform, err := LookupPlatform(name)
		require.NoError(t, err)
		assert.Equal(t, name, platform.Name())
	}

	_, err := LookupPlatform("github-pages")
	assert.Error(t, err)
}

func TestEmitHostRules(t *testing.T) {
	dir := t.TempDir()
	table := buildTable(t,
		redirect.Rule{Sources: []string{"/old"}, Destination: "/new"})

	written, err := EmitHostRules(dir, table, []string{"netlify", "vercel"})
	require.NoError(t, err)
	require.Len(t, written, 2)

	for _, path := range written {
		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}

	assert.Equal(t, filepath.Join(dir, "_redirects"), written[0])
	assert.Equal(t, filepath.Join(dir, "vercel.json"), written[1])
}

func TestEmitHostRulesUnknownPlatform(t *testing.T) {
	table := buildTable(t,
		redirect.Rule{Sources: []string{"/old"}, Destination: "/new"})

	_, err := EmitHostRules(t.TempDir(), table, []string{"nope"})
	assert.Error(t, err)
}

func TestEmissionDeterministic(t *testing.T) {
	table := buildTable(t,
		redirect.Rule{Sources: []string{"/zebra"}, Destination: "/z"},
		redirect.Rule{Sources: []string{"/alpha"}, Destination: "/a"})

	var first, second bytes.Buffer
	require.NoError(t, netlifyPlatform{}.Write(&first, table))
	require.NoError(t, netlifyPlatform{}.Write(&second, table))
	assert.Equal(t, first.String(), second.String())

	// Sorted by source regardless of declaration order.
	assert.True(t, strings.HasPrefix(first.String(), "/alpha "))
}
