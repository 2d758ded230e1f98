package kgraph

import "context"

// Result is the tabular output of a store-executed query.
type Result interface {
	// Columns returns the result's column names, in projection order.
	Columns() []string

	// Next advances to the next row, returning false at end of stream.
	Next() bool

	// Scan copies the current row's columns into dest, in Columns() order.
	Scan(dest ...any) error

	// Err returns the first error encountered during iteration, if any.
	Err() error

	// Close releases any resources held by the result.
	Close() error
}

// Store is the external relational collaborator the compiler addresses.
// The compiler never touches storage directly: it only asks the store to
// register edge files, ensure supporting indexes, register user functions,
// and finally execute the query it assembled.
type Store interface {
	// AddGraph registers an edge file with the store. Idempotent on
	// identical paths.
	AddGraph(ctx context.Context, path string) error

	// GetFileGraph returns the table name backing the registered file at
	// path.
	GetFileGraph(path string) (string, error)

	// EnsureGraphIndex idempotently ensures an index exists on
	// table.column, unique when the column is the relation's id column.
	EnsureGraphIndex(ctx context.Context, table, column string, unique bool) error

	// LoadUserFunction ensures a user-defined function is registered with
	// the store. When mustExist is false the call is best-effort: an
	// unknown function name is not an error.
	LoadUserFunction(name string, mustExist bool) error

	// IsUserFunction reports whether name is registered as a user function.
	IsUserFunction(name string) bool

	// IsAggregateFunction reports whether name is classified as an
	// aggregate function (used to decide GROUP BY synthesis).
	IsAggregateFunction(name string) bool

	// Execute runs the finished, positionally-parameterized query.
	Execute(ctx context.Context, query string, params []any) (Result, error)
}
