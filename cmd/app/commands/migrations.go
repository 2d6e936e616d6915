package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/allisson/sampletrack/internal/database"
)

// RunMigrations applies every pending migration for the driver's dialect from
// migrations/postgresql or migrations/mysql. Having nothing to apply is not an error.
func RunMigrations(logger *slog.Logger, driver, connectionString string) error {
	logger.Info("running database migrations", slog.String("driver", driver))

	dialect, err := database.Dialect(driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	migrationsPath := "file://migrations/postgresql"
	if dialect == "mysql" {
		migrationsPath = "file://migrations/mysql"
		// go-sql-driver DSNs carry no scheme; golang-migrate selects its driver by scheme.
		if !strings.HasPrefix(connectionString, "mysql://") {
			connectionString = "mysql://" + connectionString
		}
	}

	m, err := migrate.New(migrationsPath, connectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}
