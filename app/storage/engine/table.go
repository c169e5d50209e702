package engine

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// TableConfig describes how to create and migrate a table
type TableConfig struct {
	Name          string
	CreateTable   DBCmd
	CreateIndexes DBCmd // optional, zero means no indexes
	MigrateFunc   func(ctx context.Context, tx *sqlx.Tx) error
	QueriesMap    *QueryMap
}

// InitTable creates the table with its indexes and runs the migration, all in one transaction
func InitTable(ctx context.Context, db *SQL, cfg TableConfig) error {
	if db == nil {
		return fmt.Errorf("db connection is nil")
	}
	if cfg.QueriesMap == nil {
		return fmt.Errorf("queries map is nil for %s", cfg.Name)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	createSchema, err := cfg.QueriesMap.Pick(db.Type(), cfg.CreateTable)
	if err != nil {
		return fmt.Errorf("failed to get create table query: %w", err)
	}
	if _, err = tx.ExecContext(ctx, createSchema); err != nil {
		return fmt.Errorf("failed to create %s table: %w", cfg.Name, err)
	}

	if cfg.MigrateFunc != nil {
		if err = cfg.MigrateFunc(ctx, tx); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", cfg.Name, err)
		}
	}

	if cfg.CreateIndexes != 0 {
		createIndexes, err := cfg.QueriesMap.Pick(db.Type(), cfg.CreateIndexes)
		if err != nil {
			return fmt.Errorf("failed to get create indexes query: %w", err)
		}
		if _, err = tx.ExecContext(ctx, createIndexes); err != nil {
			return fmt.Errorf("failed to create indexes for %s: %w", cfg.Name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
