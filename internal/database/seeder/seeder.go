// Package seeder loads job and candidate fixtures into the Postgres source tables the
// ranking pipeline reads.
package seeder

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"resume-matcher/internal/database"

	"go.uber.org/zap"
)

var ErrSchemaMismatch = errors.New("schema mismatch")

// Table is a source table and the columns a seeder writes to it.
type Table struct {
	Name    string
	Columns []string
}

// Seeder upserts one group of source tables inside the runner's transaction and reports
// how many rows it wrote.
type Seeder interface {
	Name() string
	Tables() []Table
	Seed(ctx context.Context, tx database.Tx) (int, error)
}

// Runner checks every seeder's tables up front and then runs all seeders in one
// transaction, so a failed seed leaves the source tables as they were.
type Runner struct {
	Seeders []Seeder
	Log     *zap.Logger
}

// Run returns the rows written per seeder name.
func (r Runner) Run(ctx context.Context, db database.DB) (map[string]int, error) {
	if db == nil {
		return nil, fmt.Errorf("seed: nil db")
	}
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}

	var tables []Table
	for _, s := range r.Seeders {
		tables = append(tables, s.Tables()...)
	}
	if err := checkColumns(ctx, db, tables); err != nil {
		return nil, err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed: begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	counts := make(map[string]int, len(r.Seeders))
	for _, s := range r.Seeders {
		n, err := s.Seed(ctx, tx)
		if err != nil {
			return nil, fmt.Errorf("seed %s: %w", s.Name(), err)
		}
		counts[s.Name()] = n
		log.Info("seeded", zap.String("seeder", s.Name()), zap.Int("rows", n))
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("seed: commit: %w", err)
	}
	return counts, nil
}

// checkColumns reads the columns of every listed table in one query and reports all
// missing ones together.
func checkColumns(ctx context.Context, db database.DB, tables []Table) error {
	if len(tables) == 0 {
		return nil
	}
	names := make([]string, 0, len(tables))
	for _, t := range tables {
		names = append(names, t.Name)
	}

	rows, err := db.Query(ctx,
		`SELECT table_name, column_name FROM information_schema.columns
		 WHERE table_schema = current_schema() AND table_name = ANY($1)`,
		names,
	)
	if err != nil {
		return fmt.Errorf("seed: read schema: %w", err)
	}
	defer rows.Close()

	existing := map[string]struct{}{}
	for rows.Next() {
		var table, column string
		if err := rows.Scan(&table, &column); err != nil {
			return fmt.Errorf("seed: read schema: %w", err)
		}
		existing[table+"."+column] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("seed: read schema: %w", err)
	}

	var missing []string
	for _, t := range tables {
		for _, c := range t.Columns {
			if _, ok := existing[t.Name+"."+c]; !ok {
				missing = append(missing, t.Name+"."+c)
			}
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: missing %s", ErrSchemaMismatch, strings.Join(missing, ", "))
	}
	return nil
}
