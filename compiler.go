package kgraph

import (
	"context"
	"sort"
	"strings"
)

// restriction is one `alias."column" = rhs` entry. rhs is already-lowered
// relational text: either a literal placeholder or a translated expression.
type restriction struct {
	Col sqlColumn
	RHS string
}

// graphEntry is one `(table, clause-alias)` pair contributed by a match
// clause.
type graphEntry struct {
	Table, Alias string
}

// Compiler owns the mutable state of a single compilation: it is not safe
// for concurrent use, but independent compilations (even against the same
// Store) may run on separate goroutines.
type Compiler struct {
	store      Store
	resolver   *graphResolver
	parameters map[string]any

	litmap       *literalTable
	varmap       *variableBindings
	restrictions map[restriction]struct{}
	graphs       map[graphEntry]struct{}
	aliasToTable map[string]string
}

// NewCompiler creates a compiler bound to store, the ordered list of
// registered edge-file paths, and an optional parameter map for resolving
// `$name` references.
func NewCompiler(store Store, files []string, parameters map[string]any) *Compiler {
	if parameters == nil {
		parameters = map[string]any{}
	}

	return &Compiler{
		store:        store,
		resolver:     newGraphResolver(files),
		parameters:   parameters,
		litmap:       newLiteralTable(),
		varmap:       newVariableBindings(),
		restrictions: make(map[restriction]struct{}),
		graphs:       make(map[graphEntry]struct{}),
		aliasToTable: make(map[string]string),
	}
}

func (c *Compiler) addRestriction(col sqlColumn, rhs string) {
	c.restrictions[restriction{Col: col, RHS: rhs}] = struct{}{}
}

func aliasForClause(table string, clauseIndex int) string {
	return table + "_c" + itoa(clauseIndex)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}

	var digits [20]byte

	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}

	return string(digits[i:])
}

// Compile translates q into a relational query against the clauses'
// resolved graph tables, returning the finished, positionally-parameterized
// query text and its parameter vector.
func (c *Compiler) Compile(ctx context.Context, q Query) (string, []any, error) {
	clauses := q.GetMatchClauses()
	aliases := make([]string, len(clauses))

	for i, clause := range clauses {
		handle := clauseGraphHandle(clause, c.resolver)

		// A clause without a handle reads the default graph directly, so that
		// file stays usable even after an explicit handle has claimed it.
		path := handle
		if clause.Node1.Graph != nil || path == "" {
			resolved, err := c.resolver.resolve(handle)
			if err != nil {
				return "", nil, err
			}

			path = resolved
		}

		if err := c.store.AddGraph(ctx, path); err != nil {
			return "", nil, err
		}

		table, err := c.store.GetFileGraph(path)
		if err != nil {
			return "", nil, err
		}

		alias := aliasForClause(table, i+1)
		aliases[i] = alias
		c.graphs[graphEntry{Table: table, Alias: alias}] = struct{}{}
		c.aliasToTable[alias] = table

		c.translateClauseStructure(clause, alias)
	}

	for i, clause := range clauses {
		if err := c.translateClauseProperties(clause, aliases[i]); err != nil {
			return "", nil, err
		}
	}

	selectText, groupBy, err := c.translateReturn(q.GetReturnClause())
	if err != nil {
		return "", nil, err
	}

	var staged strings.Builder

	staged.WriteString("SELECT ")
	staged.WriteString(selectText)
	staged.WriteString("\nFROM ")
	staged.WriteString(c.fromList())

	where := q.GetWhereClause()

	restrictionList := c.sortedRestrictions()
	joins := c.varmap.sortedJoins()

	if len(restrictionList) > 0 || len(joins) > 0 || where != nil {
		staged.WriteString("\nWHERE TRUE")
	}

	for _, r := range restrictionList {
		staged.WriteString("\nAND ")
		staged.WriteString(r.Col.Alias)
		staged.WriteByte('.')
		staged.WriteString(quoteIdent(r.Col.Column))
		staged.WriteString(" = ")
		staged.WriteString(r.RHS)
	}

	for _, j := range joins {
		staged.WriteString("\nAND ")
		staged.WriteString(j.Left.Alias)
		staged.WriteByte('.')
		staged.WriteString(quoteIdent(j.Left.Column))
		staged.WriteString(" = ")
		staged.WriteString(j.Right.Alias)
		staged.WriteByte('.')
		staged.WriteString(quoteIdent(j.Right.Column))
	}

	if err := c.ensureIndexes(ctx, restrictionList, joins); err != nil {
		return "", nil, err
	}

	if where != nil {
		whereText, err := c.translateExpr(where.Expression, true)
		if err != nil {
			return "", nil, err
		}

		staged.WriteString("\nAND ")
		staged.WriteString(whereText)
	}

	if groupBy != "" {
		staged.WriteString("\n")
		staged.WriteString(groupBy)
	}

	if order := q.GetOrderClause(); order != nil {
		orderText, err := c.translateOrder(order)
		if err != nil {
			return "", nil, err
		}

		staged.WriteString("\n")
		staged.WriteString(orderText)
	}

	limitText, err := c.translateLimit(q.GetSkipClause(), q.GetLimitClause())
	if err != nil {
		return "", nil, err
	}

	if limitText != "" {
		staged.WriteString("\n")
		staged.WriteString(limitText)
	}

	scrubbed := strings.ReplaceAll(staged.String(), " TRUE\nAND", "")
	finalText, params := c.litmap.materialize(scrubbed)

	return finalText, params, nil
}

// fromList renders the FROM clause entries, sorted by (table, alias).
func (c *Compiler) fromList() string {
	entries := make([]graphEntry, 0, len(c.graphs))
	for g := range c.graphs {
		entries = append(entries, g)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Table != entries[j].Table {
			return entries[i].Table < entries[j].Table
		}

		return entries[i].Alias < entries[j].Alias
	})

	parts := make([]string, len(entries))
	for i, g := range entries {
		parts[i] = g.Table + " " + g.Alias
	}

	return strings.Join(parts, ", ")
}

// sortedRestrictions returns the restriction set as a canonically sorted
// slice: (alias, column, rhs) order.
func (c *Compiler) sortedRestrictions() []restriction {
	out := make([]restriction, 0, len(c.restrictions))
	for r := range c.restrictions {
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Col != out[j].Col {
			return out[i].Col.less(out[j].Col)
		}

		return out[i].RHS < out[j].RHS
	})

	return out
}

// ensureIndexes requests supporting indexes from the store. Joins shadow
// restrictions: when any join exists, indexes are requested on every
// joined column; only absent that, indexes are requested on restricted
// columns.
func (c *Compiler) ensureIndexes(ctx context.Context, restrictions []restriction, joins []joinPair) error {
	ensure := func(col sqlColumn) error {
		table := c.aliasToTable[col.Alias]
		unique := strings.EqualFold(col.Column, "id")

		return c.store.EnsureGraphIndex(ctx, table, col.Column, unique)
	}

	if len(joins) > 0 {
		for _, j := range joins {
			if err := ensure(j.Left); err != nil {
				return err
			}

			if err := ensure(j.Right); err != nil {
				return err
			}
		}

		return nil
	}

	for _, r := range restrictions {
		if err := ensure(r.Col); err != nil {
			return err
		}
	}

	return nil
}

func (c *Compiler) translateOrder(order *OrderClause) (string, error) {
	items := make([]string, len(order.Items))

	for i, item := range order.Items {
		expr, err := c.translateExpr(item.Expression, true)
		if err != nil {
			return "", err
		}

		direction := strings.ToUpper(item.Direction)
		if strings.HasPrefix(direction, "ASC") {
			items[i] = expr
		} else {
			items[i] = expr + " " + direction
		}
	}

	return "ORDER BY " + strings.Join(items, ", "), nil
}

func (c *Compiler) translateLimit(skip *SkipClause, limit *LimitClause) (string, error) {
	if skip == nil && limit == nil {
		return "", nil
	}

	text := "LIMIT"

	if limit != nil {
		expr, err := c.translateExpr(limit.Expression, false)
		if err != nil {
			return "", err
		}

		text += " " + expr
	} else {
		text += " -1"
	}

	if skip != nil {
		expr, err := c.translateExpr(skip.Expression, false)
		if err != nil {
			return "", err
		}

		text += " OFFSET " + expr
	}

	return text, nil
}
