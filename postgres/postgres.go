// Package postgres stores thoughts in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/leopalladium/thoughtboard/api"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"
)

// Postgres provides storage in PostgreSQL.
type Postgres struct {
	bun *bun.DB
}

// An Option configures Connect.
type Option func(db *bun.DB)

// WithQueryLog logs every executed query to stderr.
func WithQueryLog() Option {
	return func(db *bun.DB) {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
}

// Connect connects to the database and ping the DB to ensure the connection is
// working.
func Connect(ctx context.Context, connStr string, opts ...Option) (*Postgres, error) {
	sqlDB := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(connStr)))
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	db := bun.NewDB(sqlDB, pgdialect.New())
	for _, opt := range opts {
		opt(db)
	}
	return &Postgres{
		bun: db,
	}, nil
}

// CreateSchema creates the thoughts table and its content index if they do
// not exist yet.
func (pg *Postgres) CreateSchema(ctx context.Context) error {
	if _, err := pg.bun.NewCreateTable().
		Model((*thought)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	if _, err := pg.bun.NewCreateIndex().
		Model((*thought)(nil)).
		Index("thoughts_content_idx").
		Column("content").
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("create index: %w", err)
	}
	return nil
}

// Close closes the database connection pool.
func (pg *Postgres) Close() error {
	return pg.bun.Close()
}

// ListThoughts returns thoughts ordered by creation time, newest first.
func (pg *Postgres) ListThoughts(ctx context.Context, limit int, offset int) ([]api.Thought, error) {
	var thoughts []thought
	err := pg.bun.NewSelect().
		Model(&thoughts).
		Order("thought.created_at DESC", "thought.id DESC").
		Offset(offset).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select: %w", err)
	}

	out := make([]api.Thought, len(thoughts))
	for i, t := range thoughts {
		out[i] = t.APIThought()
	}
	return out, nil
}

// InsertThought inserts a thought into the database. The returned thought
// holds auto generated fields, such as the thought id.
func (pg *Postgres) InsertThought(ctx context.Context, t api.Thought) (api.Thought, error) {
	m := &thought{
		Content:   t.Content,
		CreatedAt: t.CreatedAt,
	}
	if _, err := pg.bun.NewInsert().Model(m).Returning("*").Exec(ctx); err != nil {
		return api.Thought{}, fmt.Errorf("insert: %w", err)
	}
	return m.APIThought(), nil
}
