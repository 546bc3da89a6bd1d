// Package database opens the Postgres pool shared by every store.
package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Pool limits sized for a single-household workload: CSV imports burst a
// few dozen upserts, everything else is request-scoped reads.
const (
	maxOpenConns    = 10
	maxIdleConns    = 4
	connMaxLifetime = 30 * time.Minute
)

// New opens a database/sql pool over the pgx driver and verifies the
// server is reachable before handing it out.
func New(connStr string) (*sql.DB, error) {
	db, err := sql.Open("pgx", connStr)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	return db, nil
}
