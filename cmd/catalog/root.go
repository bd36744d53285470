package main

import (
	"context"

	"talent-catalog/internal/app"
	"talent-catalog/internal/config"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	envFile   string
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Search and report on the talent catalogue",
		Long: `catalog builds candidate search queries, runs them against the
catalogue database and produces candidate statistics.

Configuration is read from the environment, optionally seeded from an
env file given with --env-file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "Env file to load before reading the environment")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Log format: console or json (overrides LOG_FORMAT)")

	cmd.AddCommand(
		newSQLCmd(opts),
		newSearchCmd(opts),
		newSavedSearchCmd(opts),
		newStatsCmd(opts),
		newMigrateCmd(opts),
		newSeedCmd(opts),
		newCacheCmd(opts),
	)
	return cmd
}

func (o *rootOptions) bootstrap() (config.Config, zerolog.Logger, error) {
	return app.Bootstrap(o.envFile, app.Overrides{LogLevel: o.logLevel, LogFormat: o.logFormat})
}

func (o *rootOptions) container(ctx context.Context) (*app.Container, error) {
	cfg, log, err := o.bootstrap()
	if err != nil {
		return nil, err
	}
	return app.NewContainer(ctx, cfg, log)
}
