package kgraph

import "sort"

// sqlColumn is a concrete `(table-alias, column)` reference a pattern-language
// variable or restriction resolves to.
type sqlColumn struct {
	Alias  string
	Column string
}

// less implements the canonical ordering used to sort restrictions and
// joins: alias first, then column.
func (c sqlColumn) less(o sqlColumn) bool {
	if c.Alias != o.Alias {
		return c.Alias < o.Alias
	}

	return c.Column < o.Column
}

// joinPair is a canonicalized equi-join edge: Left always orders before (or
// equals, which never happens in practice) Right.
type joinPair struct {
	Left, Right sqlColumn
}

func canonicalJoinPair(a, b sqlColumn) joinPair {
	if a.less(b) {
		return joinPair{Left: a, Right: b}
	}

	return joinPair{Left: b, Right: a}
}

// variableBindings is the compiler's varmap: an insertion-ordered mapping
// from pattern-language variable name to the small vector of concrete
// columns it has been registered against, plus the join edges those
// registrations implied. A plain slice (not a hash set) keeps the "first
// reference" used when a variable is read as a scalar deterministic.
type variableBindings struct {
	refs  map[string][]sqlColumn
	order []string
	joins map[joinPair]struct{}
}

func newVariableBindings() *variableBindings {
	return &variableBindings{
		refs:  make(map[string][]sqlColumn),
		joins: make(map[joinPair]struct{}),
	}
}

// register binds query variable `name` to `col`. The first registration of
// a variable simply records it. A later registration against a column
// already on file is a no-op. Otherwise it picks a "best" existing
// reference to equi-join against and records that join edge.
//
// The best-reference scan below reproduces a quirk in the reference
// behavior this was modeled on: walking the existing references in
// insertion order, `best` is reassigned on every iteration — not only when
// an alias match is found — so unless some existing reference shares the
// new column's alias, `best` ends up being simply the last existing
// reference. Only a same-alias match stops the scan early. This is
// preserved verbatim rather than "fixed" because changing it would
// silently alter which columns get equi-joined for any variable with more
// than one existing reference.
func (vb *variableBindings) register(name string, col sqlColumn) {
	existing, ok := vb.refs[name]
	if !ok {
		vb.refs[name] = []sqlColumn{col}
		vb.order = append(vb.order, name)

		return
	}

	for _, e := range existing {
		if e == col {
			return
		}
	}

	var best sqlColumn
	for _, e := range existing {
		best = e
		if e.Alias == col.Alias {
			break
		}
	}

	vb.refs[name] = append(existing, col)
	vb.joins[canonicalJoinPair(best, col)] = struct{}{}
}

// first returns the canonical (first-inserted) reference for `name`, used
// whenever the variable is read as a scalar SQL expression.
func (vb *variableBindings) first(name string) (sqlColumn, bool) {
	refs, ok := vb.refs[name]
	if !ok || len(refs) == 0 {
		return sqlColumn{}, false
	}

	return refs[0], true
}

// defined reports whether `name` has at least one registered reference.
func (vb *variableBindings) defined(name string) bool {
	_, ok := vb.refs[name]

	return ok
}

// sortedJoins returns the join set as a canonically sorted slice, suitable
// for deterministic emission.
func (vb *variableBindings) sortedJoins() []joinPair {
	out := make([]joinPair, 0, len(vb.joins))
	for j := range vb.joins {
		out = append(out, j)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Left != out[j].Left {
			return out[i].Left.less(out[j].Left)
		}

		return out[i].Right.less(out[j].Right)
	})

	return out
}
