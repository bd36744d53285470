package main

import (
	"fmt"
	"strings"

	"talent-catalog/internal/database/migration"
	dbpostgres "talent-catalog/internal/database/postgres"
	"talent-catalog/internal/database/seeder"
	"talent-catalog/migrations"

	"github.com/spf13/cobra"
)

func newMigrateCmd(root *rootOptions) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Long: `Apply the V<n>__<name>.sql migrations that have not run yet. The
embedded catalogue schema is used unless --dir names a directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := root.bootstrap()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			db, err := dbpostgres.Connect(ctx, cfg.Database, dbpostgres.WithQueryLog(log))
			if err != nil {
				return err
			}
			defer db.Close()

			r := migration.Runner{Log: log}
			if strings.TrimSpace(dir) != "" {
				r.Dir = dir
			} else {
				r.FS = migrations.FS
			}
			applied, err := r.Run(ctx, db.SQLDB())
			if err != nil {
				return err
			}
			for _, m := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied V%d__%s\n", m.Version, m.Name)
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "Directory of migration files")
	return cmd
}

func newSeedCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load reference data into a migrated catalogue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := root.bootstrap()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			db, err := dbpostgres.Connect(ctx, cfg.Database, dbpostgres.WithQueryLog(log))
			if err != nil {
				return err
			}
			defer db.Close()

			return seeder.Runner{Seeders: seeder.Defaults(), Log: log}.Run(ctx, db)
		},
	}
}
