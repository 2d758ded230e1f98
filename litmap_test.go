package kgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiteralTable_InternDedup(t *testing.T) {
	t.Parallel()

	lt := newLiteralTable()

	first := lt.intern("loves")
	second := lt.intern("loves")
	assert.Equal(t, first, second, "interning the same value twice must yield the same placeholder")

	third := lt.intern("Joe")
	assert.NotEqual(t, first, third)
	assert.Equal(t, "???0??", first)
	assert.Equal(t, "???1??", third)
}

func TestLiteralTable_InternDistinctTypes(t *testing.T) {
	t.Parallel()

	lt := newLiteralTable()

	a := lt.intern(int64(3))
	b := lt.intern("3")
	assert.NotEqual(t, a, b, "a string and an int literal with the same text must not collapse")
}

func TestLiteralTable_Materialize(t *testing.T) {
	t.Parallel()

	lt := newLiteralTable()

	loves := lt.intern("loves")
	joe := lt.intern("Joe")

	staged := "SELECT * FROM t WHERE t.label = " + loves + " AND t.node1 = " + joe + " AND t.node2 = " + loves

	finalText, params := lt.materialize(staged)

	assert.Equal(t,
		"SELECT * FROM t WHERE t.label = ? AND t.node1 = ? AND t.node2 = ?",
		finalText)
	require.Len(t, params, 3)
	assert.Equal(t, []any{"loves", "Joe", "loves"}, params,
		"parameter order follows occurrence in the text, not insertion order")
}

func TestLiteralTable_MaterializeNoPlaceholders(t *testing.T) {
	t.Parallel()

	lt := newLiteralTable()

	text, params := lt.materialize("SELECT * FROM t")
	assert.Equal(t, "SELECT * FROM t", text)
	assert.Empty(t, params)
}
