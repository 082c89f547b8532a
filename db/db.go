package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // postgres driver
	_ "modernc.org/sqlite"
)

// Connect opens a Postgres pool and verifies it with a ping.
func Connect(dsn string, timeout time.Duration) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database handle: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := ping(db, timeout); err != nil {
		return nil, err
	}
	return db, nil
}

// OpenSQLite opens a SQLite file. A single connection keeps writes serialized.
func OpenSQLite(path string, timeout time.Duration) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := ping(db, timeout); err != nil {
		return nil, err
	}
	return db, nil
}

func ping(db *sql.DB, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		// Close the handle if ping fails; the ping error is the one that matters.
		_ = db.Close()
		return fmt.Errorf("failed to ping database within %v: %w", timeout, err)
	}
	return nil
}
