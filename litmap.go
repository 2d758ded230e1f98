package kgraph

import (
	"fmt"
	"strings"
)

// literalTable is the compiler's litmap: an insertion-ordered dedup table
// from distinct literal values to placeholder tokens of the form `???N??`,
// where N was the table's size at first insertion. The same literal value
// always collapses to the same placeholder.
type literalTable struct {
	placeholderOf map[any]string
	valueOf       map[string]any
}

func newLiteralTable() *literalTable {
	return &literalTable{
		placeholderOf: make(map[any]string),
		valueOf:       make(map[string]any),
	}
}

// intern returns the placeholder token for value, minting a new one on
// first sight.
func (lt *literalTable) intern(value any) string {
	if tok, ok := lt.placeholderOf[value]; ok {
		return tok
	}

	tok := fmt.Sprintf("???%d??", len(lt.placeholderOf))
	lt.placeholderOf[value] = tok
	lt.valueOf[tok] = value

	return tok
}

// materialize splits staged on the literal marker sequence `??`, replaces
// every placeholder island with a single positional `?`, and returns the
// parameter vector in the order the placeholders were encountered in the
// text — not the order they were first interned, so a literal referenced
// twice appears twice in the result.
func (lt *literalTable) materialize(staged string) (string, []any) {
	parts := strings.Split(staged, "??")

	var out strings.Builder

	params := make([]any, 0, len(parts))

	for _, tok := range parts {
		if strings.HasPrefix(tok, "?") {
			full := "??" + tok + "??"
			params = append(params, lt.valueOf[full])
			out.WriteByte('?')

			continue
		}

		out.WriteString(tok)
	}

	return out.String(), params
}
