package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/suites-dev/docroute/internal/config"
	"github.com/suites-dev/docroute/internal/redirect"
	"github.com/suites-dev/docroute/internal/server"
	"github.com/suites-dev/docroute/internal/watcher"
)

var (
	servePort  int
	serveHost  string
	serveDir   string
	serveWatch bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Preview the built site with the redirect table applied",
	Long: `Start a local preview server that serves the built site directory and
enforces the redirect table at request time, exactly as the hosting layer
does in production: a table hit answers with a permanent redirect, a miss
falls through to file serving.

Examples:
  docroute serve                  # Serve the configured site directory
  docroute serve --port 3000      # Serve on a specific port
  docroute serve --watch          # Rebuild the table when rules change`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to serve on (overrides server.port)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind (overrides server.host)")
	serveCmd.Flags().StringVarP(&serveDir, "dir", "d", "", "Built site directory (overrides routes.site_dir)")
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "Rebuild the table when the rules file changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := newLogger().WithComponent("serve")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	if serveHost != "" {
		cfg.Server.Host = serveHost
	}

	siteDir := cfg.Routes.SiteDir
	if serveDir != "" {
		siteDir = serveDir
	}
	if siteDir == "" {
		siteDir = cfg.Output.Dir
	}

	table, builder, err := buildTable(cfg)
	if err != nil {
		reportValidationErrors(builder)
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	srv := server.New(cfg, logger, siteDir, redirect.NewResolver(table))

	if serveWatch {
		fw, err := watcher.NewFileWatcher(300 * time.Millisecond)
		if err != nil {
			return fmt.Errorf("failed to create file watcher: %w", err)
		}
		defer fw.Stop()

		if err := fw.AddPath(cfg.RulesFile); err != nil {
			return err
		}

		fw.AddHandler(func(paths []string) {
			newTable, newBuilder, err := buildTable(cfg)
			if err != nil {
				// Keep serving the last good table; a broken edit must
				// not take the preview down.
				reportValidationErrors(newBuilder)
				logger.Error(ctx, err, "Table rebuild failed, keeping previous table")
				return
			}
			srv.SwapResolver(redirect.NewResolver(newTable))
			srv.NotifyReload(ctx)
			logger.Info(ctx, "Redirect table reloaded", "entries", newTable.Len())
		})

		fw.Start(ctx)
	}

	fmt.Printf("Serving %s on http://%s:%d with %d redirect entries\n",
		siteDir, cfg.Server.Host, cfg.Server.Port, table.Len())
	return srv.Start(ctx)
}
