package cli

import (
	"fmt"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"payroll-engine/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format   string // "json" | "text"
	LogLevel string
	Config   string
	Year     int
}

var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the payroll-engine command tree. Run without a
// subcommand it serves HTTP.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}
	serve := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "payroll-engine",
		Short: "Korean payroll and retirement pay calculator",
		Long: `Calculates monthly net salary after social insurance and income tax,
statutory retirement pay, and income percentiles from versioned rate tables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !lo.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitUsage, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if opts.LogLevel != "" {
				level, err := config.ParseLogLevel(opts.LogLevel)
				if err != nil {
					return WrapExitError(ExitUsage, "invalid --log-level", err)
				}
				logrus.SetLevel(level)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts, serve)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level: trace debug info warn error critical off (overrides config)")
	cmd.PersistentFlags().StringVarP(&opts.Config, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().IntVar(&opts.Year, "year", 0, "tax year (default: newest rate table)")
	serve.bind(cmd)

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewSalaryCommand(opts))
	cmd.AddCommand(NewRetirementCommand(opts))
	cmd.AddCommand(NewPercentileCommand(opts))
	cmd.AddCommand(NewRatesCommand(opts))

	return cmd
}
