package engine

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// DBCmd represents a database command type
type DBCmd int

// Query represents a SQL query with dialect-specific variants
type Query struct {
	Sqlite   string
	Postgres string
}

// QueryMap represents mapping between commands and their SQL queries
type QueryMap struct {
	queries map[DBCmd]Query
}

// NewQueryMap creates a new QueryMap
func NewQueryMap() *QueryMap {
	return &QueryMap{queries: make(map[DBCmd]Query)}
}

// Add adds queries for a command with dialect-specific versions
func (q *QueryMap) Add(cmd DBCmd, query Query) *QueryMap {
	q.queries[cmd] = query
	return q
}

// AddSame adds the same query for all dialects
func (q *QueryMap) AddSame(cmd DBCmd, query string) *QueryMap {
	return q.Add(cmd, Query{Sqlite: query, Postgres: query})
}

// Pick returns a query for given db type and command
func (q *QueryMap) Pick(dbType Type, cmd DBCmd) (string, error) {
	query, ok := q.queries[cmd]
	if !ok {
		return "", fmt.Errorf("unsupported command type %d", cmd)
	}

	switch dbType {
	case Sqlite:
		return query.Sqlite, nil
	case Postgres:
		return query.Postgres, nil
	default:
		return "", fmt.Errorf("unsupported database type %q", dbType)
	}
}

// Pick returns the query of cmd for this engine with placeholders adopted
func (e *SQL) Pick(qmap *QueryMap, cmd DBCmd) (string, error) {
	query, err := qmap.Pick(e.dbType, cmd)
	if err != nil {
		return "", err
	}
	return e.Adopt(query), nil
}

// ExpandIn expands slice arguments of "IN (?)" clauses and adopts placeholders for this engine
func (e *SQL) ExpandIn(query string, args ...any) (string, []any, error) {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, fmt.Errorf("failed to expand query args: %w", err)
	}
	return e.Adopt(query), args, nil
}

// Querier is implemented by both the db and a transaction, so read helpers can run in either
type Querier interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

var _ Querier = (*sqlx.Tx)(nil)
var _ Querier = (*sqlx.DB)(nil)
