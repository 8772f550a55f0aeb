package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Querier is the statement surface shared by *sqlx.DB and *sqlx.Tx.
type Querier interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

// Observer receives the duration of every unit of work.
type Observer func(op string, elapsed time.Duration)

type txKey struct{}

// Store hands out scoped units of work over a single database handle.
type Store struct {
	db      *sqlx.DB
	observe Observer
}

// NewStore wraps db. observe may be nil.
func NewStore(db *sqlx.DB, observe Observer) *Store {
	return &Store{db: db, observe: observe}
}

// DB exposes the underlying handle for migrations and health checks.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// WithinTx runs fn inside a unit of work: it acquires a dedicated connection, turns on
// foreign-key enforcement, begins a transaction, commits when fn returns nil and rolls
// back otherwise (including on panic). The connection is always released.
// Repositories reached from fn pick the transaction up through ctx.
func (s *Store) WithinTx(ctx context.Context, op string, fn func(ctx context.Context) error) (err error) {
	if s.observe != nil {
		start := time.Now()
		defer func() { s.observe(op, time.Since(start)) }()
	}

	conn, err := s.db.Connx(ctx)
	if err != nil {
		return fmt.Errorf("%s: acquire connection: %w", op, err)
	}
	defer conn.Close()

	if s.db.DriverName() == "sqlite3" {
		if _, err = conn.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			return fmt.Errorf("%s: enable foreign keys: %w", op, err)
		}
	}

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin tx: %w", op, err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit tx: %w", op, err)
	}
	return nil
}

// Conn returns the transaction bound to ctx by WithinTx, or fallback when there is none.
func Conn(ctx context.Context, fallback *sqlx.DB) Querier {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok && tx != nil {
		return tx
	}
	return fallback
}
