package database

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// Dialect isolates the SQL differences between the supported backends.
// Repositories write queries with ? placeholders and let the dialect rewrite them.
type Dialect interface {
	// Name identifies the backend and doubles as its migrations subdirectory
	Name() string

	DriverName() string
	DSN(config DialectConfig) string
	RewriteQuery(query string) string

	// SupportsLastInsertId is false where inserts need RETURNING id
	SupportsLastInsertId() bool

	ConfigureConnection(db *sql.DB) error
	CreateMigrationsTableQuery() string

	// LockingRead is appended to a SELECT that feeds a compare-and-swap update.
	// It makes the read see the latest committed row instead of the transaction
	// snapshot and holds the row until commit.
	LockingRead() string

	// InsertIgnore builds an INSERT that silently skips rows violating a unique constraint
	InsertIgnore(table string, columns ...string) string
}

// DialectConfig holds configuration for database connection
type DialectConfig struct {
	Path string // sqlite file
	URL  string // postgres or mysql connection URL
}

type poolConfig struct {
	maxOpen  int
	maxIdle  int
	lifetime time.Duration
	idleTime time.Duration
}

var serverPool = poolConfig{maxOpen: 25, maxIdle: 5, lifetime: 5 * time.Minute, idleTime: time.Minute}

func (p poolConfig) apply(db *sql.DB) {
	db.SetMaxOpenConns(p.maxOpen)
	db.SetMaxIdleConns(p.maxIdle)
	db.SetConnMaxLifetime(p.lifetime)
	db.SetConnMaxIdleTime(p.idleTime)
}

// numberPlaceholders rewrites ? to $1, $2, ... leaving quoted literals alone.
func numberPlaceholders(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	var quote byte
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '?':
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// insertValues renders "table (a, b) VALUES (?, ?)"
func insertValues(table string, columns []string) string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return table + " (" + strings.Join(columns, ", ") + ") VALUES (" + placeholders + ")"
}

func onConflictDoNothing(table string, columns []string) string {
	return "INSERT INTO " + insertValues(table, columns) + " ON CONFLICT DO NOTHING"
}
