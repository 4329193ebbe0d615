package database

import (
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
)

type MySQLDialect struct{}

func NewMySQLDialect() *MySQLDialect { return &MySQLDialect{} }

func (d *MySQLDialect) Name() string       { return "mysql" }
func (d *MySQLDialect) DriverName() string { return "mysql" }

// DSN expects a go-sql-driver DSN with parseTime=true so DATETIME scans into time.Time.
func (d *MySQLDialect) DSN(config DialectConfig) string { return config.URL }

func (d *MySQLDialect) RewriteQuery(query string) string { return query }
func (d *MySQLDialect) SupportsLastInsertId() bool       { return true }

func (d *MySQLDialect) ConfigureConnection(db *sql.DB) error {
	serverPool.apply(db)
	return nil
}

func (d *MySQLDialect) CreateMigrationsTableQuery() string {
	return `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename VARCHAR(255) NOT NULL PRIMARY KEY,
		applied_at DATETIME(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6)
	)`
}

// A plain SELECT under REPEATABLE READ keeps returning the transaction snapshot,
// so a lost compare-and-swap would never see the winning row.
func (d *MySQLDialect) LockingRead() string { return " FOR UPDATE" }

// INSERT IGNORE also downgrades other errors to warnings; callers only use it
// for rows whose remaining columns are already validated.
func (d *MySQLDialect) InsertIgnore(table string, columns ...string) string {
	return "INSERT IGNORE INTO " + insertValues(table, columns)
}
