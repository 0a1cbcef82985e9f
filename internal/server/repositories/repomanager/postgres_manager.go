// Package repomanager provides a concrete RepositoryManager for PostgreSQL,
// wiring together repository constructors and database migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/edutrack/internal/dbx"
	"github.com/dmitrijs2005/edutrack/internal/logging"
	"github.com/dmitrijs2005/edutrack/internal/server/migrations"
	"github.com/dmitrijs2005/edutrack/internal/server/repositories/answers"
	"github.com/dmitrijs2005/edutrack/internal/server/repositories/catalog"
	"github.com/dmitrijs2005/edutrack/internal/server/repositories/progress"
	"github.com/dmitrijs2005/edutrack/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

// PostgresRepositoryManager vends PostgreSQL-backed repository implementations
// and exposes a schema migration hook. When an exercise cache is configured,
// Catalog repositories read through it.
type PostgresRepositoryManager struct {
	cache    catalog.CacheClient
	cacheTTL time.Duration
	logger   logging.Logger
}

// Option configures a PostgresRepositoryManager.
type Option func(*PostgresRepositoryManager)

// WithExerciseCache enables the Redis read-through cache for exercises.
func WithExerciseCache(client catalog.CacheClient, ttl time.Duration, logger logging.Logger) Option {
	return func(m *PostgresRepositoryManager) {
		m.cache = client
		m.cacheTTL = ttl
		m.logger = logger
	}
}

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager(opts ...Option) *PostgresRepositoryManager {
	m := &PostgresRepositoryManager{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Users returns a users.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

// Progress returns a progress.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Progress(db dbx.DBTX) progress.Repository {
	return progress.NewPostgresRepository(db)
}

// Answers returns an answers.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Answers(db dbx.DBTX) answers.Repository {
	return answers.NewPostgresRepository(db)
}

// Catalog returns a catalog.Repository bound to the provided DBTX.
func (m *PostgresRepositoryManager) Catalog(db dbx.DBTX) catalog.Repository {
	var repo catalog.Repository = catalog.NewPostgresRepository(db)
	if m.cache != nil {
		repo = catalog.NewCachedRepository(repo, m.cache, m.cacheTTL, m.logger)
	}
	return repo
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations sets up goose with the embedded migrations and runs them
// against the provided database connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
