package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/suites-dev/docroute/internal/config"
)

var validateFormat string

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the redirect rules without emitting artifacts",
	Long: `Validate the declared redirect rules against the canonical path policy and
the site's real routes. Reported problems include:

- Rules with no sources
- Self-redirects
- One source mapped to two different destinations
- Redirects shadowing a real page
- Redirect chains longer than two hops
- Redirect cycles

Examples:
  docroute validate                   # Validate all rules
  docroute validate --format json     # Output results as JSON`,
	RunE: runValidateCommand,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().
		StringVarP(&validateFormat, "format", "f", "text", "Output format (text, json)")
}

type validationIssue struct {
	Code        string   `json:"code"`
	Source      string   `json:"source,omitempty"`
	Destination string   `json:"destination,omitempty"`
	Chain       []string `json:"chain,omitempty"`
	Message     string   `json:"message"`
}

type validationSummary struct {
	Valid   bool              `json:"valid"`
	Entries int               `json:"entries"`
	Issues  []validationIssue `json:"issues"`
}

func runValidateCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	table, builder, buildErr := buildTable(cfg)

	summary := validationSummary{
		Valid:  buildErr == nil,
		Issues: make([]validationIssue, 0),
	}
	if table != nil {
		summary.Entries = table.Len()
	}
	if builder != nil {
		for _, verr := range builder.Errors() {
			summary.Issues = append(summary.Issues, validationIssue{
				Code:        verr.Code,
				Source:      verr.Source,
				Destination: verr.Destination,
				Chain:       verr.Chain,
				Message:     verr.Message,
			})
		}
	}

	// Table construction can also fail before validation runs (unreadable
	// rules file, malformed YAML); surface that as its own issue.
	if buildErr != nil && len(summary.Issues) == 0 {
		summary.Issues = append(summary.Issues, validationIssue{Message: buildErr.Error()})
	}

	switch validateFormat {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(summary); err != nil {
			return err
		}
	default:
		if summary.Valid {
			fmt.Printf("OK: %d redirect entries, no issues\n", summary.Entries)
		} else {
			for _, issue := range summary.Issues {
				if issue.Code != "" {
					fmt.Fprintf(os.Stderr, "[%s] %s", issue.Code, issue.Message)
					if issue.Source != "" {
						fmt.Fprintf(os.Stderr, " (source: %s)", issue.Source)
					}
					fmt.Fprintln(os.Stderr)
				} else {
					fmt.Fprintln(os.Stderr, issue.Message)
				}
			}
			fmt.Fprintf(os.Stderr, "validation failed with %d issues\n", len(summary.Issues))
		}
	}

	if !summary.Valid {
		return fmt.Errorf("redirect table validation failed")
	}
	return nil
}
