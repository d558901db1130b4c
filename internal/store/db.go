// Package store implements the repository ports over a relational record
// store through sqlx. Every method is a single statement; none of them opens
// a transaction. Queries are written with ? placeholders and rebound for the
// selected driver.
package store

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	mysqlmigrate "github.com/golang-migrate/migrate/v4/database/mysql"
	postgresmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	// Register the postgres driver.
	_ "github.com/lib/pq"
	// Register the pure-Go SQLite driver. It needs no CGO, so the binary
	// builds and runs on Alpine.
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

//go:embed migrations
var migrations embed.FS

func init() {
	// sqlx only knows the mattn name "sqlite3".
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// Open connects to the record store. For sqlite a bare path is expanded to a
// DSN with WAL, foreign keys and a busy timeout.
//
//	db, err := store.Open(ctx, "sqlite", "./data/cart.db")
func Open(ctx context.Context, driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite:
		if !strings.HasPrefix(dsn, "file:") && !strings.Contains(dsn, "?") {
			dsn = fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", dsn)
		}
	case DriverMySQL:
		cfg, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("store: parse mysql dsn: %w", err)
		}
		// Migrations hold several statements per file, and upserts rely
		// on matched rather than changed row counts.
		cfg.MultiStatements = true
		cfg.ClientFoundRows = true
		dsn = cfg.FormatDSN()
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}

	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// SQLite performs best with a single writer connection.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ping %s: %w", driver, err)
	}
	return db, nil
}

// Migrate applies the embedded migrations of the db's dialect. It is
// idempotent. The migrate instance is not closed because that would close db.
func Migrate(db *sqlx.DB) error {
	dialect := db.DriverName()
	src, err := iofs.New(migrations, "migrations/"+dialect)
	if err != nil {
		return fmt.Errorf("store: migrations for %q: %w", dialect, err)
	}

	var target database.Driver
	switch dialect {
	case DriverSQLite:
		target, err = sqlitemigrate.WithInstance(db.DB, &sqlitemigrate.Config{})
	case DriverPostgres:
		target, err = postgresmigrate.WithInstance(db.DB, &postgresmigrate.Config{})
	case DriverMySQL:
		target, err = mysqlmigrate.WithInstance(db.DB, &mysqlmigrate.Config{})
	default:
		err = fmt.Errorf("unsupported driver %q", dialect)
	}
	if err != nil {
		return fmt.Errorf("store: migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, dialect, target)
	if err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("store: migrate up: %w", err)
	}
	return nil
}
