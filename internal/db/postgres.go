package db

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	maxOpenConns = 25
	maxIdleConns = 5
	connLifetime = time.Hour
	connIdleTime = 30 * time.Minute
	pingTimeout  = 5 * time.Second
)

// NewPostgres creates a pgx/stdlib backed *sql.DB pool and validates the
// connection.
func NewPostgres(dsn string) (*sql.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("db: empty DSN")
	}

	pool, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}

	pool.SetMaxOpenConns(maxOpenConns)
	pool.SetMaxIdleConns(maxIdleConns)
	pool.SetConnMaxLifetime(connLifetime)
	pool.SetConnMaxIdleTime(connIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}
