package database

import (
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

// PostgresDialect serves both lib/pq ("postgres") and the pgx stdlib driver ("pgx").
// They share one schema and one migrations directory.
type PostgresDialect struct {
	driver string
}

func NewPostgresDialect() *PostgresDialect { return &PostgresDialect{driver: "postgres"} }
func NewPgxDialect() *PostgresDialect      { return &PostgresDialect{driver: "pgx"} }

func (d *PostgresDialect) Name() string                     { return "postgres" }
func (d *PostgresDialect) DriverName() string               { return d.driver }
func (d *PostgresDialect) DSN(config DialectConfig) string  { return config.URL }
func (d *PostgresDialect) RewriteQuery(query string) string { return numberPlaceholders(query) }

// PostgreSQL has no LastInsertId; inserts append RETURNING id instead.
func (d *PostgresDialect) SupportsLastInsertId() bool { return false }

func (d *PostgresDialect) ConfigureConnection(db *sql.DB) error {
	serverPool.apply(db)
	return nil
}

func (d *PostgresDialect) CreateMigrationsTableQuery() string {
	return `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
}

func (d *PostgresDialect) LockingRead() string { return " FOR UPDATE" }

func (d *PostgresDialect) InsertIgnore(table string, columns ...string) string {
	return onConflictDoNothing(table, columns)
}
