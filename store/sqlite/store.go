// Package sqlite implements kgraph.Store on top of an in-process SQLite
// database, loading each registered edge file into its own wide-row table.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/HardiRathod/kgraph"
	"github.com/HardiRathod/kgraph/edgereader"
)

func init() {
	sql.Register("kgraph-sqlite3", &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("KGTK_REGEX", regexMatch, true)
		},
	})
}

var aggregateFunctions = map[string]bool{
	"COUNT":        true,
	"SUM":          true,
	"AVG":          true,
	"MIN":          true,
	"MAX":          true,
	"GROUP_CONCAT": true,
}

// Store is a kgraph.Store backed by a single SQLite connection. It is safe
// for concurrent use: schema mutations (AddGraph, EnsureGraphIndex,
// LoadUserFunction) serialize on mu, while Execute relies on SQLite's own
// connection-level locking.
type Store struct {
	log *zap.Logger
	db  *sql.DB

	mu            sync.Mutex
	tableForPath  map[string]string
	nextTableID   int
	indexed       map[string]bool
	userFunctions map[string]bool
}

// Open creates a Store backed by the SQLite database at dsn (":memory:" for
// an ephemeral store).
func Open(dsn string, log *zap.Logger) (*Store, error) {
	db, err := sql.Open("kgraph-sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite write-serialization; matches the driver's own connection model

	return &Store{
		log:           log,
		db:            db,
		tableForPath:  make(map[string]string),
		indexed:       make(map[string]bool),
		userFunctions: map[string]bool{"KGTK_REGEX": true},
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// AddGraph registers path as a table, loading it via the edgereader package
// on first sight. Re-registering an already-known path is a no-op.
func (s *Store) AddGraph(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tableForPath[path]; ok {
		return nil
	}

	reader, err := edgereader.Open(path, edgereader.Options{
		RequireAllColumns:    true,
		ProhibitExtraColumns: true,
	})
	if err != nil {
		return err
	}

	table := tableNameFor(path, s.nextTableID)
	s.nextTableID++

	columns := reader.ColumnNames()

	quotedCols := make([]string, len(columns))
	for i, c := range columns {
		quotedCols[i] = quote(c) + " TEXT"
	}

	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(
		"CREATE TABLE %s (%s)", quote(table), strings.Join(quotedCols, ", "))); err != nil {
		return fmt.Errorf("create graph table: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")

	insertCols := make([]string, len(columns))
	for i, c := range columns {
		insertCols[i] = quote(c)
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", quote(table), strings.Join(insertCols, ", "), placeholders)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("load edge file: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		tx.Rollback()

		return fmt.Errorf("load edge file: %w", err)
	}

	for {
		record, ok := reader.Next()
		if !ok {
			break
		}

		args := make([]any, len(record))
		for i, v := range record {
			args[i] = v
		}

		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			stmt.Close()
			tx.Rollback()

			return fmt.Errorf("load edge file %s: %w", path, err)
		}
	}

	stmt.Close()

	if err := reader.Err(); err != nil {
		tx.Rollback()

		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("load edge file: %w", err)
	}

	s.tableForPath[path] = table
	s.log.Debug("registered edge file", zap.String("path", path), zap.String("table", table), zap.Int("columns", len(columns)))

	return nil
}

// GetFileGraph returns the table backing a previously AddGraph-ed path.
func (s *Store) GetFileGraph(path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, ok := s.tableForPath[path]
	if !ok {
		return "", fmt.Errorf("sqlite store: %q was never registered with AddGraph", path)
	}

	return table, nil
}

// EnsureGraphIndex creates an index on table.column the first time it is
// requested for that pair.
func (s *Store) EnsureGraphIndex(ctx context.Context, table, column string, unique bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := table + "." + column
	if s.indexed[key] {
		return nil
	}

	kind := "INDEX"
	if unique {
		kind = "UNIQUE INDEX"
	}

	name := quote("idx_" + sanitize(table) + "_" + sanitize(column))

	stmt := fmt.Sprintf("CREATE %s IF NOT EXISTS %s ON %s (%s)", kind, name, quote(table), quote(column))
	if _, err := s.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("ensure index on %s: %w", key, err)
	}

	s.indexed[key] = true

	return nil
}

// LoadUserFunction checks name against the store's function table, which
// holds the one connection-time function, KGTK_REGEX. With mustExist an
// unknown name is an error; a best-effort call (mustExist false) succeeds
// for an unknown name without recording it, so IsUserFunction stays false
// for it.
func (s *Store) LoadUserFunction(name string, mustExist bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.userFunctions[name] {
		return nil
	}

	if mustExist {
		return fmt.Errorf("sqlite store: user function %q is not registered", name)
	}

	return nil
}

// IsUserFunction reports whether name has been loaded as a user function.
func (s *Store) IsUserFunction(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.userFunctions[name]
}

// IsAggregateFunction reports whether name is one of SQLite's built-in
// aggregates, case-insensitively.
func (s *Store) IsAggregateFunction(name string) bool {
	return aggregateFunctions[strings.ToUpper(name)]
}

// Execute runs query against the database, returning a kgraph.Result that
// streams rows lazily.
func (s *Store) Execute(ctx context.Context, query string, params []any) (kgraph.Result, error) {
	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}

	cols, err := rows.Columns()
	if err != nil {
		rows.Close()

		return nil, fmt.Errorf("read result columns: %w", err)
	}

	return &rowsResult{rows: rows, columns: cols}, nil
}

type rowsResult struct {
	rows    *sql.Rows
	columns []string
}

func (r *rowsResult) Columns() []string { return r.columns }
func (r *rowsResult) Next() bool        { return r.rows.Next() }
func (r *rowsResult) Scan(dest ...any) error {
	return r.rows.Scan(dest...)
}
func (r *rowsResult) Err() error   { return r.rows.Err() }
func (r *rowsResult) Close() error { return r.rows.Close() }

var identSanitizer = regexp.MustCompile(`[^A-Za-z0-9_]+`)

func sanitize(name string) string {
	return identSanitizer.ReplaceAllString(name, "_")
}

func tableNameFor(path string, id int) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	return fmt.Sprintf("graph_%d_%s", id+1, sanitize(base))
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
