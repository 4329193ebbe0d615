package database

import (
	"database/sql"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// WAL allows one writer at a time, so a small pool is enough.
var sqlitePool = poolConfig{maxOpen: 8, maxIdle: 4, lifetime: 30 * time.Minute, idleTime: 5 * time.Minute}

type SQLiteDialect struct{}

func NewSQLiteDialect() *SQLiteDialect { return &SQLiteDialect{} }

func (d *SQLiteDialect) Name() string       { return "sqlite" }
func (d *SQLiteDialect) DriverName() string { return "sqlite3" }

// DSN sets pragmas through connection parameters so every pooled connection gets them.
// Immediate transactions take the write lock up front, which avoids busy upgrades
// when two requests write for the same user. A path that already carries
// parameters is used as is.
func (d *SQLiteDialect) DSN(config DialectConfig) string {
	if strings.Contains(config.Path, "?") {
		return config.Path
	}
	return config.Path + "?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate"
}

func (d *SQLiteDialect) RewriteQuery(query string) string { return query }
func (d *SQLiteDialect) SupportsLastInsertId() bool       { return true }

func (d *SQLiteDialect) ConfigureConnection(db *sql.DB) error {
	sqlitePool.apply(db)
	_, err := db.Exec("PRAGMA foreign_keys = ON")
	return err
}

func (d *SQLiteDialect) CreateMigrationsTableQuery() string {
	return `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename TEXT PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`
}

// SQLite has no row locks; immediate transactions already serialize writers.
func (d *SQLiteDialect) LockingRead() string { return "" }

func (d *SQLiteDialect) InsertIgnore(table string, columns ...string) string {
	return onConflictDoNothing(table, columns)
}
