package db

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrate applies all pending up migrations. It is safe to call on every start.
func Migrate(conn *sqlx.DB, driver string) error {
	return runMigrator(conn, driver, func(m *migrate.Migrate) error {
		return m.Up()
	})
}

// MigrateDown reverts every applied migration.
func MigrateDown(conn *sqlx.DB, driver string) error {
	return runMigrator(conn, driver, func(m *migrate.Migrate) error {
		return m.Down()
	})
}

func runMigrator(conn *sqlx.DB, driver string, run func(*migrate.Migrate) error) error {
	driver = NormalizeDriver(driver)

	src, err := iofs.New(migrationsFS, "migrations/"+driver)
	if err != nil {
		return fmt.Errorf("open migrations for %s: %w", driver, err)
	}

	dbDriver, err := databaseDriver(conn, driver)
	if err != nil {
		_ = src.Close()
		return fmt.Errorf("init migration driver failed: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", src, driver, dbDriver)
	if err != nil {
		_ = src.Close()
		return fmt.Errorf("init migrator failed: %w", err)
	}
	defer closeMigrator(migrator, src, driver)

	if err := run(migrator); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func databaseDriver(conn *sqlx.DB, driver string) (database.Driver, error) {
	switch driver {
	case DriverSQLite:
		return sqlite.WithInstance(conn.DB, &sqlite.Config{})
	case DriverPostgres:
		return postgres.WithInstance(conn.DB, &postgres.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// The sqlite driver closes the *sql.DB it was given, so only the source is
// released for it. The postgres driver only releases its dedicated conn.
func closeMigrator(m *migrate.Migrate, src source.Driver, driver string) {
	if driver == DriverSQLite {
		_ = src.Close()
		return
	}
	_, _ = m.Close()
}
