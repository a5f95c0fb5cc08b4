package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/suites-dev/docroute/internal/config"
)

var listFormat string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the resolved redirect table",
	Long: `Build the redirect table and print every entry, including the derived
trailing-slash variants.

Examples:
  docroute list                   # Table output
  docroute list --format json     # JSON output
  docroute list --format yaml     # YAML output`,
	RunE: runListCommand,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listFormat, "format", "f", "table", "Output format (table, json, yaml)")
}

func runListCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	table, builder, err := buildTable(cfg)
	if err != nil {
		reportValidationErrors(builder)
		return err
	}

	entries := table.Entries()

	switch listFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(entries)
	case "yaml":
		encoder := yaml.NewEncoder(os.Stdout)
		defer encoder.Close()
		return encoder.Encode(entries)
	case "table":
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SOURCE\tDESTINATION\tSTATUS")
		for _, entry := range entries {
			status := 302
			if entry.Permanent {
				status = 301
			}
			fmt.Fprintf(w, "%s\t%s\t%d\n", entry.Source, entry.Destination, status)
		}
		return w.Flush()
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", listFormat)
	}
}
