package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/matt-dz/foodgram/internal/sql"
)

//go:generate mockgen -source=database.go -destination=mock_store.go -package=database

// Store is the persistence surface used by the domain packages.
// InTx runs fn against a Querier bound to a single transaction; the
// transaction commits only when fn returns nil.
type Store interface {
	Querier
	InTx(ctx context.Context, fn func(Querier) error) error
}

type Database struct {
	*Queries

	Pool Pool
}

var _ Store = (*Database)(nil)

func NewDatabase(pool *pgxpool.Pool) *Database {
	return NewDatabaseFromPool(pool)
}

func NewDatabaseFromPool(pool Pool) *Database {
	return &Database{
		Queries: New(pool),
		Pool:    pool,
	}
}

// Close releases the pool connections when the pool supports it.
func (d *Database) Close() {
	if c, ok := d.Pool.(interface{ Close() }); ok {
		c.Close()
	}
}

func (d *Database) InTx(ctx context.Context, fn func(Querier) error) error {
	tx, err := d.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(d.WithTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

const checkUsersTableExists = `SELECT EXISTS (
  SELECT 1 FROM information_schema.tables
  WHERE table_schema = current_schema() AND table_name = 'users'
)`

func (q *Queries) CheckUsersTableExists(ctx context.Context) (bool, error) {
	row := q.db.QueryRow(ctx, checkUsersTableExists)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

// EnsureSchema ensures the database schema is applied to the
// Postgres database. The schema is applied to the database
// if the schema is not detected.
func EnsureSchema(db *Database, ctx context.Context) error {
	exists, err := db.CheckUsersTableExists(ctx)
	if err != nil {
		return fmt.Errorf("ensuring schema exists: %w", err)
	}

	if exists {
		return nil
	}

	if _, err := db.db.Exec(ctx, sql.Schema()); err != nil {
		return fmt.Errorf("applying database schema: %w", err)
	}

	return nil
}
