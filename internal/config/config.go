// Package config provides configuration management for docroute using Viper
// for flexible configuration loading from files, environment variables, and
// command-line flags.
//
// The configuration system supports YAML files and environment variable
// overrides with a DOCROUTE_ prefix. It manages the trailing-slash policy,
// the redirect rules file, the route manifest handover from the site build
// pipeline, emit targets, and the preview server.
package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/suites-dev/docroute/internal/redirect"
)

type Config struct {
	// TrailingSlash is the site-wide canonical form: "stripped" or "enforced".
	TrailingSlash string       `yaml:"trailing_slash"`
	RulesFile     string       `yaml:"rules_file"`
	Routes        RoutesConfig `yaml:"routes"`
	Output        OutputConfig `yaml:"output"`
	Server        ServerConfig `yaml:"server"`
}

// RoutesConfig describes where the finished canonical route set comes from:
// either a manifest file handed over by the build pipeline, or a built site
// directory to scan for emitted documents.
type RoutesConfig struct {
	Manifest string `yaml:"manifest"`
	SiteDir  string `yaml:"site_dir"`
}

type OutputConfig struct {
	Dir       string   `yaml:"dir"`
	Platforms []string `yaml:"platforms"`
	Stubs     bool     `yaml:"stubs"`
	Verify    bool     `yaml:"verify"`
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	// Handle values set via viper keys (workaround for viper nested handling)
	if viper.IsSet("trailing_slash") && config.TrailingSlash == "" {
		config.TrailingSlash = viper.GetString("trailing_slash")
	}
	if viper.IsSet("rules_file") && config.RulesFile == "" {
		config.RulesFile = viper.GetString("rules_file")
	}
	if viper.IsSet("routes.site_dir") && config.Routes.SiteDir == "" {
		config.Routes.SiteDir = viper.GetString("routes.site_dir")
	}
	if viper.IsSet("output.platforms") && len(config.Output.Platforms) == 0 {
		config.Output.Platforms = viper.GetStringSlice("output.platforms")
	}

	// Defaults
	if config.TrailingSlash == "" {
		config.TrailingSlash = "stripped"
	}
	if config.RulesFile == "" {
		config.RulesFile = "redirects.yml"
	}
	if config.Output.Dir == "" {
		config.Output.Dir = "dist"
	}
	if len(config.Output.Platforms) == 0 {
		config.Output.Platforms = []string{"netlify", "vercel"}
	}
	if !viper.IsSet("output.stubs") {
		config.Output.Stubs = true
	}
	if !viper.IsSet("output.verify") {
		config.Output.Verify = true
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.Host == "" {
		config.Server.Host = "localhost"
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Policy returns the canonical path policy configured for the site.
func (c *Config) Policy() (redirect.Policy, error) {
	mode, err := redirect.ParseTrailingSlash(c.TrailingSlash)
	if err != nil {
		return redirect.Policy{}, err
	}
	return redirect.Policy{TrailingSlash: mode}, nil
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if _, err := redirect.ParseTrailingSlash(config.TrailingSlash); err != nil {
		return err
	}

	if config.Server.Port < 0 || config.Server.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", config.Server.Port)
	}

	for _, path := range []string{config.RulesFile, config.Routes.Manifest, config.Routes.SiteDir, config.Output.Dir} {
		if path == "" {
			continue
		}
		if err := validatePath(path); err != nil {
			return fmt.Errorf("invalid path %q: %w", path, err)
		}
	}

	return nil
}

// validatePath validates a file path for security
func validatePath(path string) error {
	cleanPath := filepath.Clean(path)

	// Reject path traversal attempts
	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path contains traversal: %s", path)
	}

	dangerousChars := []string{";", "&", "|", "$", "`", "(", ")", "<", ">", "\"", "'"}
	for _, char := range dangerousChars {
		if strings.Contains(cleanPath, char) {
			return fmt.Errorf("path contains dangerous character: %s", char)
		}
	}

	return nil
}
