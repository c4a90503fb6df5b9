package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"  // PostgreSQL driver
	_ "modernc.org/sqlite" // SQLite driver
)

// Supported database/sql driver names
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// DB wraps the database connection
type DB struct {
	*sql.DB
	driver string
}

// NewDB creates a new database connection
// For postgres the dsn is in the format: "host=localhost port=5432 user=postgres password=postgres dbname=fundwise sslmode=disable"
// For sqlite it is a file path or ":memory:"
func NewDB(driver, dsn string) (*DB, error) {
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if driver == DriverSQLite {
		// one connection keeps an in-memory database alive and serializes writes
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db, driver: driver}, nil
}

// Driver returns the database/sql driver name
func (db *DB) Driver() string {
	return db.driver
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// Migrate creates the funds table if it does not exist
func (db *DB) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS funds (
			scheme_name        TEXT PRIMARY KEY,
			amc_name           TEXT NOT NULL,
			category           TEXT NOT NULL,
			return_1yr         DOUBLE PRECISION NOT NULL,
			return_3yr         DOUBLE PRECISION NOT NULL,
			return_5yr         DOUBLE PRECISION NOT NULL,
			risk_level         INTEGER NOT NULL,
			rating             INTEGER NOT NULL,
			expense_ratio      DOUBLE PRECISION NOT NULL,
			fund_size          DOUBLE PRECISION NOT NULL,
			fund_age           DOUBLE PRECISION NOT NULL,
			sharpe             DOUBLE PRECISION NOT NULL,
			sortino            DOUBLE PRECISION NOT NULL,
			alpha              DOUBLE PRECISION NOT NULL,
			beta               DOUBLE PRECISION NOT NULL,
			standard_deviation DOUBLE PRECISION NOT NULL,
			stability_score    DOUBLE PRECISION NOT NULL
		)
	`

	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to migrate funds table: %w", err)
	}
	return nil
}

// rebind rewrites $n placeholders into ? for drivers that need it
func (db *DB) rebind(query string) string {
	if db.driver == DriverPostgres {
		return query
	}

	var b strings.Builder
	for i := 0; i < len(query); i++ {
		if query[i] != '$' {
			b.WriteByte(query[i])
			continue
		}
		j := i + 1
		for j < len(query) && query[j] >= '0' && query[j] <= '9' {
			j++
		}
		if _, err := strconv.Atoi(query[i+1 : j]); err != nil {
			b.WriteByte(query[i])
			continue
		}
		b.WriteByte('?')
		i = j - 1
	}
	return b.String()
}
