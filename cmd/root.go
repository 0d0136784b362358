package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tphakala/nutridri/cmd/configure"
	"github.com/tphakala/nutridri/cmd/drilookup"
	"github.com/tphakala/nutridri/cmd/reftable"
	"github.com/tphakala/nutridri/internal/buildinfo"
	"github.com/tphakala/nutridri/internal/conf"
	"github.com/tphakala/nutridri/internal/logger"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings) *cobra.Command {
	var central *logger.CentralLogger

	rootCmd := &cobra.Command{
		Use:          "nutridri",
		Short:        "Build DRI reference data and compare food nutrients against it",
		Version:      buildinfo.Current().String(),
		SilenceUsage: true,
	}

	if err := setupFlags(rootCmd, settings); err != nil {
		logger.Global().Module("cli").Warn("flag binding failed", logger.Error(err))
	}

	rootCmd.AddCommand(
		reftable.Command(settings),
		drilookup.Command(settings),
		configure.Command(settings),
	)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cl, err := initLogging(settings)
		if err != nil {
			return err
		}
		central = cl
		return nil
	}

	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return central.Close()
	}

	return rootCmd
}

// initLogging replaces the global fallback logger with one built from settings
func initLogging(settings *conf.Settings) (*logger.CentralLogger, error) {
	cfg := settings.Logging
	if settings.Debug {
		cfg.DefaultLevel = string(logger.LogLevelDebug)
		if cfg.Console != nil {
			console := *cfg.Console
			console.Level = string(logger.LogLevelDebug)
			cfg.Console = &console
		}
	}

	cl, err := logger.NewCentralLogger(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	logger.SetGlobal(cl)
	return cl, nil
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %w", err)
	}

	return nil
}
