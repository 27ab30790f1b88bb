package clock

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/oshokin/dst-clock/internal/config"
	"github.com/oshokin/dst-clock/internal/display"
	"github.com/oshokin/dst-clock/internal/dst"
	"github.com/oshokin/dst-clock/internal/logger"
	"github.com/oshokin/dst-clock/internal/observability"
	"github.com/oshokin/dst-clock/internal/service/common"
	"github.com/oshokin/dst-clock/internal/service/status"
	"github.com/oshokin/dst-clock/internal/timesource"
)

// Options controls how the clock is started.
type Options struct {
	// ConfigPath specifies the path to the settings YAML file.
	ConfigPath string
	// NTPServer overrides the configured NTP server.
	NTPServer string
	// Display overrides the configured display sink.
	Display string
}

// Run loads configuration and runs the clock with its status and metrics
// servers until ctx is canceled or the display asks to quit.
//
//nolint:cyclop,funlen // Wiring reads top to bottom; splitting would scatter it.
func Run(ctx context.Context, opts *Options) error {
	// Load settings, falling back to defaults when the file is missing.
	cfg, loaded, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Command line arguments override the file.
	if opts.NTPServer != "" {
		cfg.NTPServer = opts.NTPServer
	}

	if opts.Display != "" {
		cfg.Display = opts.Display
	}

	if err = config.Validate(cfg); err != nil {
		return fmt.Errorf("validate configuration: %w", err)
	}

	level, _ := logger.ParseLogLevel(cfg.LogLevel)
	logger.SetLevel(level)

	// Open the display first: it may redirect logging, so name the logger afterwards.
	sink, closeSink, err := newSink(cfg)
	if err != nil {
		return err
	}

	defer closeDisplay(closeSink)

	ctx = logger.WithName(ctx, "dst-clock")

	// Build the network time source with its query timeout and retry spacing.
	source, err := timesource.NewNTPSource(cfg.NTPServer,
		timesource.WithTimeout(cfg.NTPTimeout),
		timesource.WithSyncInterval(cfg.SyncInterval),
		timesource.WithRetryInterval(cfg.SyncRetryInterval),
	)
	if err != nil {
		return fmt.Errorf("create time source: %w", err)
	}

	// Pick where transition days come from.
	var days dst.TransitionDays = dst.Computed{}
	if cfg.RuleSource == config.RuleSourceTable {
		days = dst.Table{}
	}

	// Runtime collectors sit next to the clock metrics on /metrics.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	loop := NewLoop(LoopConfig{
		Source:         source,
		Engine:         dst.NewEngine(days),
		Sink:           sink,
		Metrics:        observability.NewMetrics(registry),
		RenderInterval: cfg.RenderInterval,
		ReconcileEvery: cfg.ReconcileEvery,
		Policy:         cfg.ReconcilePolicy,
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// A display that accepts keys can stop the clock.
	if quitter, ok := sink.(display.Quitter); ok {
		go func() {
			select {
			case <-quitter.Quit():
				logger.Info(ctx, "Quit requested from display")
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	if !loaded {
		logger.InfoKV(ctx, "Configuration file not found, using defaults", "path", opts.ConfigPath)
	}

	logger.InfoKV(ctx, "Starting clock",
		"ntp_server", cfg.NTPServer,
		"display", cfg.Display,
		"rule_source", cfg.RuleSource,
		"reconcile_policy", cfg.ReconcilePolicy,
	)

	// The loop and both servers stop together when any of them fails.
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		return loop.Run(groupCtx)
	})

	// Serve the status API only when an address is configured.
	if cfg.StatusAddress != "" {
		host, hostErr := common.DetectHost()
		if hostErr != nil {
			logger.WarnKV(ctx, "Detect host", "error", hostErr)
		}

		group.Go(func() error {
			return status.Serve(groupCtx, cfg.StatusAddress, loop, host)
		})
	}

	// Same for health probes and metrics.
	if cfg.MetricsAddress != "" {
		server := observability.NewServer(cfg.MetricsAddress, loop, registry)

		group.Go(func() error {
			return server.Run(groupCtx, cfg.Timeout)
		})
	}

	if err = group.Wait(); err != nil {
		return fmt.Errorf("run clock: %w", err)
	}

	return nil
}

// closeDisplay closes the sink and reports a failure through the global
// logger, which closeSink restores to stdout in terminal mode.
func closeDisplay(closeSink func() error) {
	if err := closeSink(); err != nil {
		logger.WarnKV(logger.WithName(context.Background(), "dst-clock"), "Close display", "error", err)
	}
}

// newSink opens the configured display and returns a func closing it.
// The terminal display owns stdout, so logs go to the log file while it is open.
func newSink(cfg *config.Config) (display.Sink, func() error, error) {
	if cfg.Display != config.DisplayTerminal {
		console := display.NewConsole(os.Stdout)

		return console, console.Close, nil
	}

	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, config.DefaultFilePermissions)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	terminal, err := display.NewTerminal()
	if err != nil {
		_ = logFile.Close()

		return nil, nil, fmt.Errorf("open terminal display: %w", err)
	}

	stdoutLogger := logger.Logger()
	logger.SetLogger(logger.NewWithOutput(nil, logFile))

	closeSink := func() error {
		err := terminal.Close()

		logger.SetLogger(stdoutLogger)

		return errors.Join(err, logFile.Close())
	}

	return terminal, closeSink, nil
}
