// Package executor runs SQL statements against the cafe database.
//
// Every call opens one statement and releases it before returning, on
// success and on failure. Statements use '?' placeholders; gorm rebinds
// them for the active dialect.
package executor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Executor is the persistence boundary used by every workflow.
type Executor interface {
	// Exec runs a statement that returns no rows.
	Exec(ctx context.Context, query string, args ...any) error
	// QueryCount runs a query and returns how many rows it produced.
	QueryCount(ctx context.Context, query string, args ...any) (int, error)
	// QueryRows runs a query and returns its rows as strings in projection order.
	QueryRows(ctx context.Context, query string, args ...any) (Result, error)
	// CurrentSequenceValue returns the latest value generated for sequence in
	// this session. ok is false when nothing has been generated yet.
	CurrentSequenceValue(ctx context.Context, sequence string) (value int64, ok bool, err error)
	// Transaction runs fn against an Executor bound to a single transaction.
	// The transaction commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx Executor) error) error
}

// Result is a fully materialised result set.
type Result struct {
	Columns []string
	Rows    [][]string
}

// Len reports the number of rows.
func (r Result) Len() int { return len(r.Rows) }

// Value returns the cell at row i, column j, or "" when out of range.
func (r Result) Value(i, j int) string {
	if i < 0 || i >= len(r.Rows) || j < 0 || j >= len(r.Rows[i]) {
		return ""
	}
	return r.Rows[i][j]
}

// QueryError wraps any failure reported by the database.
type QueryError struct {
	Op  string
	SQL string
	Err error
}

// Error includes the operation and the failing statement.
func (e *QueryError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Gorm implements Executor on top of a gorm handle.
type Gorm struct {
	db *gorm.DB
}

// New wraps db.
func New(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// Exec runs a statement that returns no rows.
func (g *Gorm) Exec(ctx context.Context, query string, args ...any) error {
	if err := g.db.WithContext(ctx).Exec(query, args...).Error; err != nil {
		return &QueryError{Op: "exec", SQL: query, Err: err}
	}
	return nil
}

// QueryCount runs query and returns the number of rows it produced.
func (g *Gorm) QueryCount(ctx context.Context, query string, args ...any) (int, error) {
	rows, err := g.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return 0, &QueryError{Op: "query", SQL: query, Err: err}
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		count++
	}
	if err := rows.Err(); err != nil {
		return 0, &QueryError{Op: "query", SQL: query, Err: err}
	}
	return count, nil
}

// QueryRows runs query and returns its header and rows as strings.
func (g *Gorm) QueryRows(ctx context.Context, query string, args ...any) (Result, error) {
	rows, err := g.db.WithContext(ctx).Raw(query, args...).Rows()
	if err != nil {
		return Result{}, &QueryError{Op: "query", SQL: query, Err: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return Result{}, &QueryError{Op: "query", SQL: query, Err: err}
	}

	res := Result{Columns: cols}
	cells := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range cells {
		dest[i] = &cells[i]
	}
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return Result{}, &QueryError{Op: "scan", SQL: query, Err: err}
		}
		record := make([]string, len(cols))
		for i, c := range cells {
			if c.Valid {
				record[i] = c.String
			}
		}
		res.Rows = append(res.Rows, record)
	}
	if err := rows.Err(); err != nil {
		return Result{}, &QueryError{Op: "query", SQL: query, Err: err}
	}
	return res, nil
}

// CurrentSequenceValue returns the last value generated on this connection.
func (g *Gorm) CurrentSequenceValue(ctx context.Context, sequence string) (int64, bool, error) {
	var query string
	var args []any
	switch g.db.Dialector.Name() {
	case "postgres":
		query = "SELECT currval(?::text::regclass)"
		args = []any{sequence}
	case "mysql":
		query = "SELECT LAST_INSERT_ID()"
	case "sqlite":
		query = "SELECT last_insert_rowid()"
	default:
		return 0, false, fmt.Errorf("sequence lookup not supported for %s", g.db.Dialector.Name())
	}

	var value sql.NullInt64
	err := g.db.WithContext(ctx).Raw(query, args...).Row().Scan(&value)
	if err != nil {
		if notYetGenerated(err) {
			return 0, false, nil
		}
		return 0, false, &QueryError{Op: "sequence", SQL: query, Err: err}
	}
	if !value.Valid || value.Int64 == 0 {
		return 0, false, nil
	}
	return value.Int64, true, nil
}

// Transaction runs fn in one database transaction.
func (g *Gorm) Transaction(ctx context.Context, fn func(tx Executor) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Gorm{db: tx})
	})
}

// notYetGenerated reports postgres' "currval of sequence is not yet defined in this session".
func notYetGenerated(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "55000"
}
