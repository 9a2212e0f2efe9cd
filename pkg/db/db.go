// Package db opens the databases table data sources read from.
package db

import (
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	// database/sql drivers
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

const (
	// SQLite is the pure Go SQLite driver.
	SQLite = "sqlite"
	// Postgres is the pgx PostgreSQL driver.
	Postgres = "pgx"

	memoryDSN = ":memory:"
)

var drivers = map[string]bool{
	SQLite:   true,
	Postgres: true,
}

func init() {
	// sqlx only knows the cgo sqlite3 driver name
	sqlx.BindDriver(SQLite, sqlx.QUESTION)
}

// Open connects to dsn with driver and checks the connection.
// In-memory SQLite databases are limited to one connection, as every connection would see its own database.
func Open(driver, dsn string) (*sqlx.DB, error) {
	if !drivers[driver] {
		return nil, errors.Errorf("unsupported database driver %q", driver)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %s database", driver)
	}
	if driver == SQLite && (dsn == memoryDSN || strings.Contains(dsn, "mode=memory")) {
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "unable to connect to %s database", driver)
	}
	logrus.Debugf("connected to %s database", driver)
	return db, nil
}

// Exec runs statements one after another, stopping at the first error.
func Exec(db *sqlx.DB, statements ...string) error {
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return errors.Wrapf(err, "unable to execute %q", stmt)
		}
	}
	return nil
}
