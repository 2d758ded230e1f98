package patternlang

import (
	"context"
	"fmt"

	"github.com/HardiRathod/kgraph"
)

// fakeCompileStore is a minimal kgraph.Store for exercising Parse's output
// against a real Compiler without a database.
type fakeCompileStore struct {
	tableForPath map[string]string
	nextID       int
	userFuncs    map[string]bool
	aggFuncs     map[string]bool
}

func newFakeCompileStore() *fakeCompileStore {
	return &fakeCompileStore{
		tableForPath: make(map[string]string),
		userFuncs:    map[string]bool{"KGTK_REGEX": true},
		aggFuncs:     map[string]bool{"COUNT": true, "SUM": true, "AVG": true, "MIN": true, "MAX": true},
	}
}

func (s *fakeCompileStore) AddGraph(_ context.Context, path string) error {
	if _, ok := s.tableForPath[path]; ok {
		return nil
	}

	s.nextID++
	s.tableForPath[path] = fmt.Sprintf("tbl%d", s.nextID)

	return nil
}

func (s *fakeCompileStore) GetFileGraph(path string) (string, error) {
	table, ok := s.tableForPath[path]
	if !ok {
		return "", fmt.Errorf("fakeCompileStore: %q was never registered", path)
	}

	return table, nil
}

func (s *fakeCompileStore) EnsureGraphIndex(_ context.Context, _, _ string, _ bool) error { return nil }

func (s *fakeCompileStore) LoadUserFunction(name string, mustExist bool) error {
	if s.userFuncs[name] {
		return nil
	}

	if mustExist {
		return fmt.Errorf("fakeCompileStore: user function %q is not registered", name)
	}

	s.userFuncs[name] = true

	return nil
}

func (s *fakeCompileStore) IsUserFunction(name string) bool { return s.userFuncs[name] }

func (s *fakeCompileStore) IsAggregateFunction(name string) bool { return s.aggFuncs[name] }

func (s *fakeCompileStore) Execute(_ context.Context, _ string, _ []any) (kgraph.Result, error) {
	return nil, fmt.Errorf("fakeCompileStore: Execute is not supported")
}
