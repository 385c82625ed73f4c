package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mercator-hq/meridian/pkg/audit"
	"mercator-hq/meridian/pkg/config"
	"mercator-hq/meridian/pkg/location"
	"mercator-hq/meridian/pkg/server"
	"mercator-hq/meridian/pkg/telemetry/logging"
	"mercator-hq/meridian/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Meridian admin server",
	Long: `Start the resolution engine with the specified configuration and
serve the admin HTTP API over it.

The server loads the descriptor table, optionally watches it for changes,
and exposes resolve/match/context inspection endpoints plus Prometheus
metrics.

Examples:
  # Start with default config
  meridian run

  # Start with custom config
  meridian run --config /etc/meridian/config.yaml

  # Override listen address
  meridian run --listen 0.0.0.0:9090

  # Validate config without starting the server
  meridian run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger, err := logging.Install(cfg.Telemetry.Logging, os.Stdout)
	if err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Descriptor table
	locs, err := config.LoadLocations(cfg.Locations.File)
	if err != nil {
		return fmt.Errorf("failed to load locations: %w", err)
	}
	logger.Info("locations loaded",
		"file", cfg.Locations.File,
		"count", len(locs.Locations),
	)

	// Hooks: metrics and audit attach here; the engine stays I/O-free.
	var hooks location.Hooks

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(nil)
		hooks = append(hooks, metrics.NewResolverMetrics(cfg.Telemetry.Metrics, collector.Registry()))
	}

	if cfg.Audit.Enabled {
		store, err := audit.OpenStore(cfg.Audit.Path)
		if err != nil {
			return fmt.Errorf("failed to open audit store: %w", err)
		}
		defer store.Close()

		recorder := audit.NewRecorder(store, cfg.Audit.Buffer, logger)
		defer recorder.Close()
		hooks = append(hooks, recorder)

		scheduler := audit.NewScheduler(
			audit.NewPruner(store, cfg.Audit.RetentionDays),
			cfg.Audit.PruneSchedule,
		)
		if err := scheduler.Start(ctx); err != nil {
			return fmt.Errorf("failed to start audit retention: %w", err)
		}
	}

	resolver := location.NewResolver(location.ResolverConfig{
		Origin:             cfg.Resolver.Origin,
		Environment:        cfg.Resolver.Environment,
		Residency:          cfg.Resolver.Residency,
		IntegrationDomains: cfg.Resolver.IntegrationDomains,
		Equivalences:       locs.Datacenters,
		Hook:               hooks,
		Logger:             logger,
	})
	if err := resolver.SetLocations(locs.Locations); err != nil {
		return fmt.Errorf("failed to register locations: %w", err)
	}

	// Hot reload
	if cfg.Locations.Watch {
		watcher, err := config.NewWatcher(cfg.Locations.File, cfg.Locations.DebounceInterval, logger)
		if err != nil {
			return fmt.Errorf("failed to create locations watcher: %w", err)
		}
		go func() {
			if err := watcher.Watch(ctx, func(lf *config.LocationsFile) error {
				return resolver.SetLocations(lf.Locations)
			}); err != nil {
				logger.Error("locations watcher stopped", "error", err)
			}
		}()
	}

	if !cfg.Server.Enabled {
		logger.Info("admin server disabled, waiting for shutdown signal")
		<-ctx.Done()
		return nil
	}

	var (
		metricsPath    string
		metricsHandler http.Handler
	)
	if collector != nil {
		metricsPath = cfg.Telemetry.Metrics.Path
		metricsHandler = collector.Handler()
	}
	return server.NewServer(cfg.Server, resolver, metricsPath, metricsHandler).Start(ctx)
}
