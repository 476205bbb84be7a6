package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

func Ping(ctx context.Context, db *sql.DB) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}

// Connect opens and pings the database at dsn. A non-empty dbName replaces
// the database named in dsn.
func Connect(ctx context.Context, dsn, dbName string) (*sql.DB, error) {
	if dbName != "" {
		var err error
		if dsn, err = WithDBName(dsn, dbName); err != nil {
			return nil, fmt.Errorf("compose DSN: %w", err)
		}
	}
	db, err := Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	if err := Ping(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("db ping %s: %w", Redact(dsn), err)
	}
	return db, nil
}
