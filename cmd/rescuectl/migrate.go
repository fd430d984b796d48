package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shenikar/animal_rescue_dispatch/internal/config"
	"github.com/shenikar/animal_rescue_dispatch/pkg/postgres"
)

func migrateCommand(log *logrus.Logger) *cobra.Command {
	var source string

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	migrateCmd.PersistentFlags().StringVar(&source, "source", defaultMigrationsSource, "migrations source URL")

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadDatabaseConfig()
			if err != nil {
				return err
			}
			if err := postgres.MigrateUp(source, cfg.DatabaseURL); err != nil {
				return err
			}
			log.Info("Database migrations applied successfully")
			return nil
		},
	}

	var steps int
	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the latest migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadDatabaseConfig()
			if err != nil {
				return err
			}
			if err := postgres.MigrateDown(source, cfg.DatabaseURL, steps); err != nil {
				return err
			}
			log.WithField("steps", steps).Info("Database migrations rolled back")
			return nil
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadDatabaseConfig()
			if err != nil {
				return err
			}
			version, dirty, err := postgres.MigrationVersion(source, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
			return err
		},
	}

	migrateCmd.AddCommand(upCmd, downCmd, versionCmd)
	return migrateCmd
}
