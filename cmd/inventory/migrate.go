package main

import (
	"errors"
	"fmt"

	"inventory-tracker/internal/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

const migrateSourcePrefix = "file://"

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadDatabase()
		if err != nil {
			return err
		}
		if err := runMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			return err
		}
		logger.Info("migrations applied", "path", cfg.MigrationsPath)
		return nil
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back the most recent migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadDatabase()
		if err != nil {
			return err
		}

		m, err := migrate.New(migrateSourcePrefix+cfg.MigrationsPath, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("init migrate: %w", err)
		}
		defer m.Close()

		if err := m.Steps(-1); err != nil {
			return fmt.Errorf("roll back: %w", err)
		}
		version, _, _ := m.Version()
		logger.Info("migration rolled back", "version", version)
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}

func runMigrations(databaseURL, migrationsPath string) error {
	m, err := migrate.New(migrateSourcePrefix+migrationsPath, databaseURL)
	if err != nil {
		return fmt.Errorf("init migrate: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}

	return nil
}
