package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/dst-clock/internal/config"
	"github.com/oshokin/dst-clock/internal/service/clock"
	"github.com/oshokin/dst-clock/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// displayName overrides the configured display sink.
	displayName string

	// rootCmd represents the base command that runs the clock.
	rootCmd = &cobra.Command{
		Use:   "dst-clock [ntp-server]",
		Short: "Show network time corrected for daylight saving time.",
		Long: `Clock that synchronizes time from an NTP server and shows it as HH:MM:SS.

The UTC offset follows the Europe/Amsterdam rule: daylight saving time starts
at 01:00 UTC on the last Sunday of March and ends at 01:00 UTC on the last
Sunday of October. The rule is checked once a minute by default.

A status gRPC API and Prometheus metrics are served when their addresses are
set in the configuration file. The NTP server can be given as an argument or
loaded from the configuration file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			var ntpServer string
			if len(args) > 0 {
				ntpServer = args[0]
			}

			return clock.Run(ctx, &clock.Options{
				ConfigPath: configPath,
				NTPServer:  ntpServer,
				Display:    displayName,
			})
		},
	}
)

// Execute runs the dst-clock CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&displayName, "display", "d", "", "display sink: console or terminal")

	rootCmd.AddCommand(newTransitionsCmd(), newCheckCmd(), newConfigCmd())
}
