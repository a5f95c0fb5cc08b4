package cmd

import (
	"fmt"

	"github.com/suites-dev/docroute/internal/config"
	"github.com/suites-dev/docroute/internal/redirect"
	"github.com/suites-dev/docroute/internal/routes"
)

// buildTable runs the build-time half of the pipeline: load the rule
// declarations and the canonical route set, then expand and validate the
// table under the configured policy. Every command that needs a table goes
// through here so they all see the same semantics.
func buildTable(cfg *config.Config) (*redirect.Table, *redirect.Builder, error) {
	policy, err := cfg.Policy()
	if err != nil {
		return nil, nil, err
	}

	rules, err := redirect.LoadRules(cfg.RulesFile)
	if err != nil {
		return nil, nil, err
	}

	routeSet, err := loadRoutes(cfg, policy)
	if err != nil {
		return nil, nil, err
	}

	builder := redirect.NewBuilder(policy).Add(rules...)
	if routeSet != nil {
		builder.WithRoutes(routeSet)
	}

	table, err := builder.Build()
	return table, builder, err
}

// loadRoutes resolves the canonical route handover: an explicit manifest
// wins over scanning the built site directory. Without either, the shadow
// check is skipped.
func loadRoutes(cfg *config.Config, policy redirect.Policy) (*routes.RouteSet, error) {
	switch {
	case cfg.Routes.Manifest != "":
		set, err := routes.LoadManifest(cfg.Routes.Manifest, policy)
		if err != nil {
			return nil, fmt.Errorf("failed to load routes manifest: %w", err)
		}
		return set, nil
	case cfg.Routes.SiteDir != "":
		set, err := routes.ScanSiteDir(cfg.Routes.SiteDir, policy)
		if err != nil {
			return nil, fmt.Errorf("failed to scan site directory: %w", err)
		}
		return set, nil
	default:
		return nil, nil
	}
}
