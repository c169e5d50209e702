// Package engine wraps sqlx.DB for the supported database engines, sqlite and postgres.
// It picks dialect-specific queries, adopts placeholders, initializes tables and classifies
// constraint violations, so the storage types above it stay engine-agnostic.
package engine

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	_ "modernc.org/sqlite" // sqlite driver loaded here
)

// Type is a type of database engine
type Type string

// enum of supported database engines
const (
	Unknown  Type = ""
	Sqlite   Type = "sqlite"
	Postgres Type = "postgres"
)

// sqlitePragmas are set on every sqlite connection through the dsn.
// foreign keys are off by default in sqlite, and the review queue relies on them being enforced.
var sqlitePragmas = []string{"foreign_keys(1)", "busy_timeout(10000)"}

// SQL is a wrapper for sqlx.DB with type.
// Type allows distinguishing between different database engines.
type SQL struct {
	sqlx.DB
	dbType Type // type of the database engine
}

// RWLocker is a read-write locker interface
type RWLocker interface {
	sync.Locker
	RLock()
	RUnlock()
}

// NoopLocker is a no-op locker, used by engines serializing writers on their own
type NoopLocker struct{}

// Lock is a no-op
func (NoopLocker) Lock() {}

// Unlock is a no-op
func (NoopLocker) Unlock() {}

// RLock is a no-op
func (NoopLocker) RLock() {}

// RUnlock is a no-op
func (NoopLocker) RUnlock() {}

// New makes a database engine from the connection url. Postgres urls start with postgres://,
// everything looking like a file (file:, sqlite://, *.db, *.sqlite, :memory:) is sqlite.
func New(ctx context.Context, connURL string) (*SQL, error) {
	if connURL == "" {
		return nil, fmt.Errorf("connection URL is empty")
	}
	switch {
	case strings.HasPrefix(connURL, "postgres://"), strings.HasPrefix(connURL, "postgresql://"):
		return NewPostgres(ctx, connURL)
	case strings.HasPrefix(connURL, "sqlite://"):
		return NewSqlite(strings.TrimPrefix(connURL, "sqlite://"))
	case strings.HasPrefix(connURL, "file://"):
		return NewSqlite(strings.TrimPrefix(connURL, "file://"))
	case strings.HasPrefix(connURL, "file:"),
		strings.HasSuffix(connURL, ".sqlite"), strings.HasSuffix(connURL, ".db"),
		connURL == ":memory:":
		return NewSqlite(connURL)
	}
	return nil, fmt.Errorf("unsupported database type in connection url %q", connURL)
}

// NewSqlite creates a new sqlite database with foreign keys enforced.
// Sqlite gets a single connection, so queries made while a transaction is open must go through it.
func NewSqlite(file string) (*SQL, error) {
	dsn := file
	sep := "?"
	if strings.Contains(file, "?") {
		sep = "&"
	}
	for _, p := range sqlitePragmas {
		dsn += sep + "_pragma=" + p
		sep = "&"
	}

	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return &SQL{}, err
	}
	db.SetMaxOpenConns(1) // in-memory db exists per connection, and sqlite has a single writer anyway
	return &SQL{DB: *db, dbType: Sqlite}, nil
}

// NewPostgres connects to postgres and creates the database if it doesn't exist yet
func NewPostgres(ctx context.Context, connURL string) (*SQL, error) {
	u, err := url.Parse(connURL)
	if err != nil {
		return &SQL{}, fmt.Errorf("invalid postgres connection url: %w", err)
	}
	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return &SQL{}, fmt.Errorf("database name not specified in %q", u.Redacted())
	}

	if err = ensurePostgresDB(ctx, u, dbName); err != nil {
		return &SQL{}, err
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", connURL)
	if err != nil {
		return &SQL{}, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return &SQL{DB: *db, dbType: Postgres}, nil
}

// ensurePostgresDB creates dbName using the maintenance database of the same server
func ensurePostgresDB(ctx context.Context, u *url.URL, dbName string) error {
	adminURL := *u
	adminURL.Path = "/postgres"
	admin, err := sqlx.ConnectContext(ctx, "postgres", adminURL.String())
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer admin.Close()

	var exists bool
	if err = admin.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", dbName); err != nil {
		return fmt.Errorf("failed to check database %s: %w", dbName, err)
	}
	if exists {
		return nil
	}
	if _, err = admin.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(dbName)); err != nil && !IsUniqueViolation(err) {
		return fmt.Errorf("failed to create database %s: %w", dbName, err)
	}
	return nil
}

// Type returns the database engine type
func (e *SQL) Type() Type {
	return e.dbType
}

// MakeLock creates a new lock for the database engine
func (e *SQL) MakeLock() RWLocker {
	if e.dbType == Sqlite {
		return new(sync.RWMutex) // sqlite need locking
	}
	return &NoopLocker{} // other engines don't need locking
}

// Adopt converts "?" placeholders to "$n" for postgres, question marks inside string literals are kept.
// Queries for other engines are returned as is.
func (e *SQL) Adopt(query string) string {
	if e.dbType != Postgres || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n, inLiteral := 0, false
	for _, r := range query {
		switch {
		case r == '\'':
			inLiteral = !inLiteral
		case r == '?' && !inLiteral:
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
