package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"payroll-engine/internal/config"
	"payroll-engine/internal/payroll"
	"payroll-engine/internal/rates"
)

var log = logrus.WithField("module", "cli")

// loadConfig resolves the configuration file and environment, then applies
// the global flags the user set explicitly.
func loadConfig(cmd *cobra.Command, opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, WrapExitError(ExitUsage, "failed to load config", err)
	}
	if opts.Year != 0 {
		cfg.DefaultYear = opts.Year
	}
	if !cmd.Flags().Changed("log-level") {
		level, _ := config.ParseLogLevel(cfg.LogLevel)
		logrus.SetLevel(level)
	}
	return cfg, nil
}

// buildRegistry loads the embedded tables plus the optional override file.
func buildRegistry(cfg *config.Config) (*rates.Registry, error) {
	tables, err := rates.Embedded()
	if err != nil {
		return nil, err
	}
	if cfg.RatesFile != "" {
		t, err := rates.LoadFile(cfg.RatesFile)
		if err != nil {
			return nil, WrapExitError(ExitUsage, "failed to load rates file", err)
		}
		tables = append(tables, t)
	}

	var opts []rates.Option
	if cfg.DefaultYear != 0 {
		opts = append(opts, rates.WithDefaultYear(cfg.DefaultYear))
	}
	if cfg.RatesURL != "" {
		opts = append(opts, rates.WithRemote(cfg.RatesURL, nil))
	}

	reg, err := rates.NewRegistryFrom(tables, opts...)
	if errors.Is(err, rates.ErrUnknownYear) {
		return nil, WrapExitError(ExitUsage, "no rate table", err)
	}
	return reg, err
}

// defaultTable is what the one-shot commands calculate with.
func defaultTable(cmd *cobra.Command, opts *RootOptions) (*rates.Table, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}
	reg, err := buildRegistry(cfg)
	if err != nil {
		return nil, err
	}
	return reg.Table(0)
}

// calculationError maps payroll errors to exit codes.
func calculationError(err error) error {
	var inputErr *payroll.InputError
	switch {
	case errors.As(err, &inputErr):
		return WrapExitError(ExitUsage, fmt.Sprintf("invalid --%s", flagName(inputErr.Field)), err)
	case errors.Is(err, payroll.ErrNotEligible):
		return WrapExitError(ExitNotEligible, "no retirement pay", err)
	}
	return err
}

// flagName turns a property name into its flag spelling.
func flagName(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}
