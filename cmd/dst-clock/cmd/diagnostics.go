package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/dst-clock/internal/config"
	"github.com/oshokin/dst-clock/internal/dst"
	"github.com/oshokin/dst-clock/internal/service/report"
)

// newTransitionsCmd prints tabulated and computed transition days side by side.
func newTransitionsCmd() *cobra.Command {
	var (
		from, to   int
		ruleSource string
	)

	cmd := &cobra.Command{
		Use:   "transitions",
		Short: "Compare tabulated and computed DST transition days.",
		Long: `Print the last Sundays of March and October for a range of years, from the
built-in table and from the calendar computation, marking years where they
differ. Years outside the table use its fallback days. The boundary-hour
decisions below use the days of --rule-source.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := report.NewEngine(ruleSource)
			if err != nil {
				return err
			}

			rows, err := report.Years(from, to)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			_, _ = fmt.Fprintln(out, report.TransitionTable(rows).Render())
			_, _ = fmt.Fprintln(out, report.BoundaryTable(engine, ruleSource, rows).Render())

			return nil
		},
	}

	cmd.Flags().IntVar(&from, "from", dst.FirstTabulatedYear, "first year")
	cmd.Flags().IntVar(&to, "to", dst.LastTabulatedYear, "last year")
	cmd.Flags().StringVar(&ruleSource, "rule-source", config.RuleSourceComputed,
		"transition days used for the boundary decisions: computed or table")

	return cmd
}

// newCheckCmd prints the DST decision for one instant.
func newCheckCmd() *cobra.Command {
	var (
		epoch      int64
		offset     int
		ruleSource string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Show the DST decision for a UTC instant.",
		Long: `Show the local moment, the DST decision and the offset chosen for a UTC epoch
(now by default) with a given offset applied. The offset is in seconds; 0
stands for the unset state of a freshly started clock.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("epoch") {
				epoch = time.Now().Unix()
			}

			engine, err := report.NewEngine(ruleSource)
			if err != nil {
				return err
			}

			check := report.NewCheck(engine, epoch, dst.Offset(offset))

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), check.Table().Render())

			return nil
		},
	}

	cmd.Flags().Int64Var(&epoch, "epoch", 0, "UTC seconds since the Unix epoch (default now)")
	cmd.Flags().IntVar(&offset, "offset", int(dst.Sentinel), "applied UTC offset in seconds")
	cmd.Flags().StringVar(&ruleSource, "rule-source", config.RuleSourceComputed, "transition days: computed or table")

	return cmd
}

// newConfigCmd groups configuration helpers.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with default settings.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.Save(configPath, config.Default()); err != nil {
				return fmt.Errorf("save configuration: %w", err)
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Configuration written to", configPath)

			return nil
		},
	})

	return cmd
}
