package kgraph

import "strings"

// quoteIdent double-quotes a column or alias identifier, doubling any
// embedded double quote. Table aliases produced by this compiler are always
// alphanumeric (see aliasForClause) and are emitted unquoted.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
