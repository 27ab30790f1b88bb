package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/oshokin/dst-clock/internal/config"
	"github.com/oshokin/dst-clock/internal/service/common"
	"github.com/oshokin/dst-clock/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string

	// rootCmd represents the base command for querying the clock state.
	rootCmd = &cobra.Command{
		Use:   "clock-status [status-address]",
		Short: "Print the state of a running dst-clock.",
		Long: `Query the status API of a running dst-clock and print its state: the shown
time, the applied UTC offset, the next DST transition and the last NTP sync.
The address can be provided as argument or loaded from configuration file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			cfg, _, err := config.LoadOrDefault(configPath)
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			address := cfg.StatusAddress
			if len(args) > 0 {
				address = args[0]
			}

			client, err := common.Dial(ctx, address, common.WithCallTimeout(cfg.Timeout))
			if err != nil {
				return fmt.Errorf("dial clock: %w", err)
			}

			defer func() {
				_ = client.Close()
			}()

			snapshot, host, err := client.GetClockState(ctx)
			if err != nil {
				return err
			}

			lastSync := "never"
			if snapshot.Synced() {
				lastSync = fmt.Sprintf("%s from %s (offset %s)",
					snapshot.LastSync.At.Format(time.RFC3339),
					snapshot.LastSync.Server,
					snapshot.LastSync.ClockOffset)
			}

			tw := table.NewWriter()
			tw.SetTitle("dst-clock on " + host)
			tw.AppendRows([]table.Row{
				{"Display", snapshot.Display},
				{"UTC offset", snapshot.Offset.String()},
				{"Mode", snapshot.Mode()},
				{"DST active", snapshot.DSTActive},
				{"Next transition", snapshot.NextTransition.Format(time.RFC3339)},
				{"Last sync", lastSync},
				{"Reconciliations", snapshot.Reconciliations},
				{"Offset changes", snapshot.OffsetChanges},
				{"Skipped renders", snapshot.SkippedRenders},
			})

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), tw.Render())

			return nil
		},
	}
)

// Execute runs the clock-status CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
}
