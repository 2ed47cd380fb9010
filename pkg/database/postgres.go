package database

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"chat-threads/config"
	thread_errors "chat-threads/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var Pool *pgxpool.Pool

// DBTX abstracts *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

func Connect(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)

	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	if cfg.DBMaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.DBMaxConns)
	}
	poolCfg.MaxConnLifetime = time.Hour

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	Pool = pool
	log.Println("Database connection established")
	return pool, nil
}

func HealthCheck(ctx context.Context) error {
	if Pool == nil {
		return errors.New("database not initialized")
	}
	return Pool.Ping(ctx)
}

// StorageError tags err as a storage failure while keeping the driver cause
// available to errors.As.
func StorageError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, thread_errors.ErrStorageFailure, err)
}

// InsertReturningID runs an INSERT ... RETURNING id and returns the generated key.
func InsertReturningID(ctx context.Context, db DBTX, query string, args ...any) (int64, error) {
	var id int64
	if err := db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, StorageError("insert", err)
	}
	return id, nil
}

// SelectRows runs query and converts every row with scan, in column order.
func SelectRows[T any](ctx context.Context, db DBTX, scan pgx.RowToFunc[T], query string, args ...any) ([]T, error) {
	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, StorageError("select", err)
	}
	items, err := pgx.CollectRows(rows, scan)
	if err != nil {
		return nil, StorageError("select", err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Exec runs a statement that returns no rows and reports the affected count.
func Exec(ctx context.Context, db DBTX, query string, args ...any) (int64, error) {
	tag, err := db.Exec(ctx, query, args...)
	if err != nil {
		return 0, StorageError("exec", err)
	}
	return tag.RowsAffected(), nil
}

// WithTx runs fn inside a transaction started on db. The transaction is
// committed when fn returns nil and rolled back otherwise.
func WithTx(ctx context.Context, db DBTX, fn func(pgx.Tx) error) error {
	if db == nil {
		return errors.New("database not initialized")
	}
	tx, err := db.Begin(ctx)
	if err != nil {
		return StorageError("begin", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("%w (rollback error: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return StorageError("commit", err)
	}
	return nil
}
