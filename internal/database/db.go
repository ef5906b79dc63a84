// Package database declares the narrow SQL surface the match store, the Postgres job and
// candidate sources and the seeders are written against. The pgx pool in
// database/postgres is the only production implementation; tests use hand fakes.
package database

import (
	"context"
	"database/sql"
)

// DB is a pooled connection. SQLDB exposes the same pool to the migration runner, which
// works on database/sql.
type DB interface {
	Ping(ctx context.Context) error
	Close() error

	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row

	Begin(ctx context.Context) (Tx, error)

	SQLDB() *sql.DB
}

// Tx is the unit a match set replacement or a seed commits in. Callers defer Rollback and
// ignore its error, which is pgx.ErrTxClosed once Commit has run.
type Tx interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, query string, args ...any) Row

	// CopyFrom bulk loads rows into table using the COPY protocol.
	CopyFrom(ctx context.Context, table string, columns []string, rows [][]any) (int64, error)

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type Rows interface {
	Close()
	Next() bool
	Scan(dest ...any) error
	Err() error
}

type Row interface {
	Scan(dest ...any) error
}
