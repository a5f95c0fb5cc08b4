package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/suites-dev/docroute/internal/config"
	"github.com/suites-dev/docroute/internal/emit"
	"github.com/suites-dev/docroute/internal/redirect"
	"github.com/suites-dev/docroute/internal/watcher"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the redirect table and emit all deployment artifacts",
	Long: `Build the redirect table from the declared rules, validate it, and emit
the configured artifacts: client-side redirect stubs plus one host rule file
per target platform.

Examples:
  docroute build                  # Build and emit everything
  docroute build --output out     # Emit to a specific directory
  docroute build --clean          # Remove previously emitted stubs first
  docroute build --watch          # Rebuild when the rules file changes`,
	RunE: runBuild,
}

var (
	buildOutput string
	buildClean  bool
	buildWatch  bool
)

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildOutput, "output", "o", "", "Output directory (overrides output.dir)")
	buildCmd.Flags().BoolVar(&buildClean, "clean", false, "Remove emitted artifacts before building")
	buildCmd.Flags().BoolVar(&buildWatch, "watch", false, "Rebuild when the rules file or routes manifest changes")
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := newLogger().WithComponent("build")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if buildOutput != "" {
		cfg.Output.Dir = buildOutput
	}

	if err := buildOnce(ctx, cfg); err != nil {
		return err
	}

	if !buildWatch {
		return nil
	}

	fw, err := watcher.NewFileWatcher(300 * time.Millisecond)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Stop()

	if err := fw.AddPath(cfg.RulesFile); err != nil {
		return err
	}
	if cfg.Routes.Manifest != "" {
		if err := fw.AddPath(cfg.Routes.Manifest); err != nil {
			return err
		}
	}

	fw.AddHandler(func(paths []string) {
		logger.Info(ctx, "Change detected, rebuilding", "paths", paths)
		if err := buildOnce(ctx, cfg); err != nil {
			logger.Error(ctx, err, "Rebuild failed")
		}
	})

	watchCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	fw.Start(watchCtx)

	fmt.Println("Watching for changes. Press Ctrl+C to stop.")
	<-watchCtx.Done()
	return nil
}

// buildOnce runs one full build: table construction, validation, emission
// and optional stub verification.
func buildOnce(ctx context.Context, cfg *config.Config) error {
	startTime := time.Now()

	table, builder, err := buildTable(cfg)
	if err != nil {
		reportValidationErrors(builder)
		return err
	}

	if buildClean {
		if err := cleanArtifacts(cfg, table); err != nil {
			return fmt.Errorf("failed to clean artifacts: %w", err)
		}
	}

	hostFiles, err := emit.EmitHostRules(cfg.Output.Dir, table, cfg.Output.Platforms)
	if err != nil {
		return fmt.Errorf("failed to emit host rules: %w", err)
	}

	var stubs []emit.StubArtifact
	if cfg.Output.Stubs {
		stubs, err = emit.NewStubEmitter(cfg.Output.Dir).EmitAll(ctx, table)
		if err != nil {
			return fmt.Errorf("failed to emit redirect stubs: %w", err)
		}

		if cfg.Output.Verify {
			for _, stub := range stubs {
				if err := emit.VerifyStub(stub.Path, stub.Destination); err != nil {
					return err
				}
			}
		}
	}

	fmt.Printf("Built %d redirect entries in %s\n", table.Len(), time.Since(startTime).Round(time.Millisecond))
	fmt.Printf("Emitted %d host rule files, %d redirect stubs\n", len(hostFiles), len(stubs))
	return nil
}

func reportValidationErrors(builder *redirect.Builder) {
	if builder == nil {
		return
	}
	for _, verr := range builder.Errors() {
		fmt.Fprintln(os.Stderr, "error:", verr.Error())
	}
}

// cleanArtifacts removes previously emitted stub directories and host rule
// files for the current table's sources.
func cleanArtifacts(cfg *config.Config, table *redirect.Table) error {
	for _, entry := range table.Entries() {
		dir := filepath.Join(cfg.Output.Dir, filepath.FromSlash(trimSlashes(entry.Source)))
		if dir == cfg.Output.Dir {
			continue
		}
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
	}
	return nil
}

func trimSlashes(path string) string {
	for len(path) > 0 && path[0] == '/' {
		path = path[1:]
	}
	for len(path) > 0 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	return path
}
