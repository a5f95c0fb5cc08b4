package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suites-dev/docroute/internal/redirect"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "stripped", cfg.TrailingSlash)
	assert.Equal(t, "redirects.yml", cfg.RulesFile)
	assert.Equal(t, "dist", cfg.Output.Dir)
	assert.Equal(t, []string{"netlify", "vercel"}, cfg.Output.Platforms)
	assert.True(t, cfg.Output.Stubs)
	assert.True(t, cfg.Output.Verify)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
}

func TestLoadOverrides(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("trailing_slash", "enforced")
	viper.Set("rules_file", "config/redirects.yml")
	viper.Set("output.platforms", []string{"cloudflare"})
	viper.Set("output.stubs", false)
	viper.Set("server.port", 3000)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "enforced", cfg.TrailingSlash)
	assert.Equal(t, "config/redirects.yml", cfg.RulesFile)
	assert.Equal(t, []string{"cloudflare"}, cfg.Output.Platforms)
	assert.False(t, cfg.Output.Stubs)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestLoadRejectsBadTrailingSlash(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("trailing_slash", "sometimes")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsBadPort(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("server.port", 99999)

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsPathTraversal(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	viper.Set("rules_file", "../outside/redirects.yml")

	_, err := Load()
	assert.Error(t, err)
}

func TestPolicy(t *testing.T) {
	cfg := &Config{TrailingSlash: "enforced"}
	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, redirect.TrailingSlashEnforced, policy.TrailingSlash)

	cfg.TrailingSlash = "bogus"
	_, err = cfg.Policy()
	assert.Error(t, err)
}
