package main

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	server_config "github.com/carson-networks/bank-server/internal/config"
	"github.com/carson-networks/bank-server/internal/logging"
	"github.com/carson-networks/bank-server/internal/storage"
)

func main() {
	logger := logging.SetupLogging()

	app := &cli.App{
		Name:  "db_migrations",
		Usage: "apply or roll back the bank-server schema",
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply every pending migration",
				Action: func(c *cli.Context) error {
					return withMigrator(func(m *migrate.Migrate) error {
						return storage.MigrateUp(m, logger)
					})
				},
			},
			{
				Name:  "down",
				Usage: "roll back the given number of migrations",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "steps", Value: 1, Usage: "number of migrations to roll back"},
				},
				Action: func(c *cli.Context) error {
					steps := c.Int("steps")
					if steps < 1 {
						return fmt.Errorf("steps must be at least 1, got %d", steps)
					}
					return withMigrator(func(m *migrate.Migrate) error {
						if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
							return fmt.Errorf("m.Steps: %w", err)
						}
						logger.WithField("steps", steps).Info("Migration rolled back")
						return nil
					})
				},
			},
			{
				Name:  "version",
				Usage: "print the current schema version",
				Action: func(c *cli.Context) error {
					return withMigrator(func(m *migrate.Migrate) error {
						version, dirty, err := m.Version()
						if errors.Is(err, migrate.ErrNilVersion) {
							version, err = 0, nil
						}
						if err != nil {
							return fmt.Errorf("m.Version: %w", err)
						}
						logger.WithFields(logrus.Fields{
							"version": version,
							"dirty":   dirty,
						}).Info("Migration status")
						return nil
					})
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.WithError(err).Fatal("db_migrations")
	}
}

func withMigrator(fn func(m *migrate.Migrate) error) error {
	env, err := server_config.ProcessEnvironmentVariables()
	if err != nil {
		return fmt.Errorf("ProcessEnvironmentVariables: %w", err)
	}

	db, err := sql.Open("postgres", env.PostgresURL())
	if err != nil {
		return fmt.Errorf("sql.Open: %w", err)
	}

	m, err := storage.NewMigrator(db)
	if err != nil {
		db.Close()
		return err
	}
	defer m.Close()

	return fn(m)
}
