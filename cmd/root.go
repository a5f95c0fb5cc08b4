// Package cmd provides the command-line interface for docroute with
// configuration management supporting multiple configuration sources.
//
// Configuration System:
//
//	The CLI supports flexible configuration through multiple sources with clear precedence:
//	1. Command-line flags (--config, --port, etc.) - highest priority
//	2. DOCROUTE_CONFIG_FILE environment variable - custom config file path
//	3. Individual environment variables (DOCROUTE_SERVER_PORT, etc.)
//	4. Configuration files (.docroute.yml) - lowest priority
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/suites-dev/docroute/internal/logging"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "docroute",
	Short: "Redirect and URL-canonicalization toolchain for documentation sites",
	Long: `docroute maintains one authoritative redirect rule set for a documentation
site and projects it into every deployment target, so legacy URLs keep working
without hand-maintaining parallel platform configs.

Key Features:
  • One redirect rule set, validated at build time
  • Trailing-slash canonicalization as a single explicit policy
  • Client-side redirect stub generation
  • Host rule files for Netlify, Vercel and Cloudflare Pages
  • Local preview server enforcing the table at request time

Quick Start:
  docroute validate               Validate the redirect rules
  docroute build                  Build and emit all redirect artifacts
  docroute list                   Print the resolved redirect table
  docroute serve                  Preview the site with redirects applied`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .docroute.yml, can also use DOCROUTE_CONFIG_FILE env var)")
	rootCmd.PersistentFlags().StringP("log-level", "l", "info", "log level (debug, info, warn, error)")
	viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
}

// initConfig initializes the configuration system.
//
// Configuration Loading Priority (highest to lowest):
//  1. --config flag: Explicitly specified config file path
//  2. DOCROUTE_CONFIG_FILE environment variable: Custom config file path
//  3. Default: .docroute.yml in current directory
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if envConfigFile := os.Getenv("DOCROUTE_CONFIG_FILE"); envConfigFile != "" {
		viper.SetConfigFile(envConfigFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".docroute")
	}

	// Enable automatic environment variable binding with DOCROUTE_ prefix
	// Examples: DOCROUTE_SERVER_PORT, DOCROUTE_TRAILING_SLASH
	viper.SetEnvPrefix("DOCROUTE")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// If the file doesn't exist, viper falls back to defaults without failing.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the process logger from the persistent log-level flag.
func newLogger() logging.Logger {
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.ParseLevel(viper.GetString("log-level")),
		Format: "text",
		Output: os.Stderr,
	})
}
