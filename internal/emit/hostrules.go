package emit

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/suites-dev/docroute/internal/redirect"
)

// Platform serializes the shared redirect table into one hosting platform's
// declarative rule format. One table, many projections: adding a platform
// never requires re-declaring a rule.
type Platform interface {
	// Name is the identifier used in configuration ("netlify", "vercel", ...).
	Name() string
	// Filename is the artifact the platform expects at the site root.
	Filename() string
	// Write serializes the table into w.
	Write(w io.Writer, table *redirect.Table) error
}

// Platforms returns the supported host-rule platforms.
func Platforms() []Platform {
	return []Platform{
		netlifyPlatform{},
		vercelPlatform{},
		cloudflarePlatform{},
	}
}

// LookupPlatform finds a platform by name.
func LookupPlatform(name string) (Platform, error) {
	for _, p := range Platforms() {
		if p.Name() == name {
			return p, nil
		}
	}

	names := make([]string, 0)
	for _, p := range Platforms() {
		names = append(names, p.Name())
	}
	sort.Strings(names)
	return nil, fmt.Errorf("unknown platform %q (supported: %v)", name, names)
}

// EmitHostRules writes the rule artifact for each named platform under
// outputDir and returns the paths written.
func EmitHostRules(outputDir string, table *redirect.Table, platformNames []string) ([]string, error) {
	written := make([]string, 0, len(platformNames))

	for _, name := range platformNames {
		platform, err := LookupPlatform(name)
		if err != nil {
			return written, err
		}

		filePath := filepath.Join(outputDir, platform.Filename())
		if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
			return written, fmt.Errorf("failed to create output directory: %w", err)
		}

		file, err := os.Create(filePath)
		if err != nil {
			return written, fmt.Errorf("failed to create %s: %w", filePath, err)
		}

		writeErr := platform.Write(file, table)
		closeErr := file.Close()
		if writeErr != nil {
			return written, fmt.Errorf("failed to write %s rules: %w", name, writeErr)
		}
		if closeErr != nil {
			return written, fmt.Errorf("failed to close %s: %w", filePath, closeErr)
		}

		written = append(written, filePath)
	}

	return written, nil
}

// netlifyPlatform emits the Netlify _redirects text format: one
// "source destination status" line per entry, 301! to force the redirect
// over any shadowed asset.
type netlifyPlatform struct{}

func (netlifyPlatform) Name() string     { return "netlify" }
func (netlifyPlatform) Filename() string { return "_redirects" }

func (netlifyPlatform) Write(w io.Writer, table *redirect.Table) error {
	for _, entry := range table.Entries() {
		status := "302"
		if entry.Permanent {
			// Forced, so the rule wins even when a stub file exists at
			// the same path.
			status = "301!"
		}
		if _, err := fmt.Fprintf(w, "%s %s %s\n", entry.Source, entry.Destination, status); err != nil {
			return err
		}
	}
	return nil
}

// vercelPlatform emits the redirects section of vercel.json, alongside the
// trailingSlash setting derived from the table's policy so host-level
// canonicalization agrees with the table.
type vercelPlatform struct{}

func (vercelPlatform) Name() string     { return "vercel" }
func (vercelPlatform) Filename() string { return "vercel.json" }

type vercelRedirect struct {
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Permanent   bool   `json:"permanent"`
}

type vercelConfig struct {
	TrailingSlash bool             `json:"trailingSlash"`
	Redirects     []vercelRedirect `json:"redirects"`
}

func (vercelPlatform) Write(w io.Writer, table *redirect.Table) error {
	cfg := vercelConfig{
		TrailingSlash: table.Policy().TrailingSlash == redirect.TrailingSlashEnforced,
		Redirects:     make([]vercelRedirect, 0, table.Len()),
	}
	for _, entry := range table.Entries() {
		cfg.Redirects = append(cfg.Redirects, vercelRedirect{
			Source:      entry.Source,
			Destination: entry.Destination,
			Permanent:   entry.Permanent,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}

// cloudflarePlatform emits the Cloudflare Pages _redirects format, which
// shares Netlify's line shape but without the forcing bang.
type cloudflarePlatform struct{}

func (cloudflarePlatform) Name() string     { return "cloudflare" }
func (cloudflarePlatform) Filename() string { return "_redirects.cloudflare" }

func (cloudflarePlatform) Write(w io.Writer, table *redirect.Table) error {
	for _, entry := range table.Entries() {
		status := 302
		if entry.Permanent {
			status = 301
		}
		if _, err := fmt.Fprintf(w, "%s %s %d\n", entry.Source, entry.Destination, status); err != nil {
			return err
		}
	}
	return nil
}
