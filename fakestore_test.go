package kgraph

import (
	"context"
	"fmt"
)

// fakeStore is a minimal in-memory Store used by this package's unit tests.
// It never touches real storage: AddGraph just assigns each distinct path a
// deterministic table name in registration order, so tests can assert on
// exact emitted SQL text without depending on a real database.
type fakeStore struct {
	tableForPath map[string]string
	nextID       int

	indexes map[indexKey]bool

	userFuncs map[string]bool
	aggFuncs  map[string]bool

	queries []executedQuery
	execErr error
}

type indexKey struct {
	Table, Column string
	Unique        bool
}

type executedQuery struct {
	SQL    string
	Params []any
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		tableForPath: make(map[string]string),
		indexes:      make(map[indexKey]bool),
		userFuncs:    map[string]bool{"KGTK_REGEX": true},
		aggFuncs:     map[string]bool{"COUNT": true, "SUM": true, "AVG": true, "MIN": true, "MAX": true},
	}
}

func (s *fakeStore) AddGraph(_ context.Context, path string) error {
	if _, ok := s.tableForPath[path]; ok {
		return nil
	}

	s.nextID++
	s.tableForPath[path] = fmt.Sprintf("tbl%d", s.nextID)

	return nil
}

func (s *fakeStore) GetFileGraph(path string) (string, error) {
	table, ok := s.tableForPath[path]
	if !ok {
		return "", fmt.Errorf("fakeStore: %q was never registered", path)
	}

	return table, nil
}

func (s *fakeStore) EnsureGraphIndex(_ context.Context, table, column string, unique bool) error {
	s.indexes[indexKey{table, column, unique}] = true

	return nil
}

func (s *fakeStore) LoadUserFunction(name string, mustExist bool) error {
	if s.userFuncs[name] {
		return nil
	}

	if mustExist {
		return fmt.Errorf("fakeStore: user function %q is not registered", name)
	}

	s.userFuncs[name] = true

	return nil
}

func (s *fakeStore) IsUserFunction(name string) bool { return s.userFuncs[name] }

func (s *fakeStore) IsAggregateFunction(name string) bool { return s.aggFuncs[name] }

func (s *fakeStore) Execute(_ context.Context, query string, params []any) (Result, error) {
	if s.execErr != nil {
		return nil, s.execErr
	}

	s.queries = append(s.queries, executedQuery{SQL: query, Params: params})

	return &fakeResult{}, nil
}

// fakeResult is an empty Result; the compiler-level tests only assert on the
// assembled query text and parameter vector, not on execution.
type fakeResult struct{}

func (r *fakeResult) Columns() []string      { return nil }
func (r *fakeResult) Next() bool             { return false }
func (r *fakeResult) Scan(dest ...any) error { return nil }
func (r *fakeResult) Err() error             { return nil }
func (r *fakeResult) Close() error           { return nil }
