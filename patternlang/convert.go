package patternlang

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/HardiRathod/kgraph"
)

// Query is the parsed, converted form of one pattern-language query. It
// implements kgraph.Query.
type Query struct {
	matchClauses []*kgraph.MatchClause
	where        *kgraph.WhereClause
	ret          *kgraph.ReturnClause
	order        *kgraph.OrderClause
	skip         *kgraph.SkipClause
	limit        *kgraph.LimitClause
}

func (q *Query) GetMatchClauses() []*kgraph.MatchClause { return q.matchClauses }
func (q *Query) GetWhereClause() *kgraph.WhereClause     { return q.where }
func (q *Query) GetReturnClause() *kgraph.ReturnClause   { return q.ret }
func (q *Query) GetOrderClause() *kgraph.OrderClause     { return q.order }
func (q *Query) GetSkipClause() *kgraph.SkipClause       { return q.skip }
func (q *Query) GetLimitClause() *kgraph.LimitClause     { return q.limit }

func build(s *Script) (*Query, error) {
	q := &Query{}
	anon := 0

	for _, c := range s.Match.Clauses {
		clause, err := buildClause(c, &anon)
		if err != nil {
			return nil, err
		}

		q.matchClauses = append(q.matchClauses, clause)
	}

	if s.Where != nil {
		expr, err := convertOr(s.Where.Expr)
		if err != nil {
			return nil, err
		}

		q.where = &kgraph.WhereClause{Expression: expr}
	}

	ret, err := buildReturn(s.Return)
	if err != nil {
		return nil, err
	}

	q.ret = ret

	if s.Order != nil {
		order, err := buildOrder(s.Order)
		if err != nil {
			return nil, err
		}

		q.order = order
	}

	if s.Skip != nil {
		expr, err := convertOr(s.Skip.Expr)
		if err != nil {
			return nil, err
		}

		q.skip = &kgraph.SkipClause{Expression: expr}
	}

	if s.Limit != nil {
		expr, err := convertOr(s.Limit.Expr)
		if err != nil {
			return nil, err
		}

		q.limit = &kgraph.LimitClause{Expression: expr}
	}

	return q, nil
}

func buildClause(c *clauseGrammar, anon *int) (*kgraph.MatchClause, error) {
	node1, err := buildNode(c.Node1, c.Graph, anon)
	if err != nil {
		return nil, err
	}

	node2, err := buildNode(c.Node2, nil, anon)
	if err != nil {
		return nil, err
	}

	rel, err := buildRel(c.Rel, anon)
	if err != nil {
		return nil, err
	}

	return &kgraph.MatchClause{Node1: node1, Relationship: rel, Node2: node2}, nil
}

// buildVariable converts a parsed variable name into a PatternVariable. An
// anonymous pattern (no name written) still gets a unique internal name —
// distinct per occurrence — so that two unrelated anonymous patterns across
// different clauses never collide in the compiler's variable binding map
// and spuriously equi-join columns that share no real query variable.
func buildVariable(name *string, anon *int) *kgraph.PatternVariable {
	if name == nil {
		*anon++

		return &kgraph.PatternVariable{Name: fmt.Sprintf("_anon%d", *anon), Anonymous: true}
	}

	return &kgraph.PatternVariable{Name: *name}
}

func buildProps(m *propMapGrammar) (map[string]kgraph.Expr, error) {
	if m == nil || len(m.Entries) == 0 {
		return nil, nil
	}

	out := make(map[string]kgraph.Expr, len(m.Entries))

	for _, e := range m.Entries {
		expr, err := convertOr(e.Value)
		if err != nil {
			return nil, err
		}

		out[e.Key] = expr
	}

	return out, nil
}

func buildNode(n *nodeGrammar, graph *string, anon *int) (*kgraph.NodePattern, error) {
	props, err := buildProps(n.Props)
	if err != nil {
		return nil, err
	}

	return &kgraph.NodePattern{
		Variable:   buildVariable(n.Variable, anon),
		Labels:     n.Labels,
		Graph:      graph,
		Properties: props,
	}, nil
}

func buildRel(r *relGrammar, anon *int) (*kgraph.RelationshipPattern, error) {
	props, err := buildProps(r.Props)
	if err != nil {
		return nil, err
	}

	return &kgraph.RelationshipPattern{
		Variable:   buildVariable(r.Variable, anon),
		Labels:     r.Labels,
		Properties: props,
	}, nil
}

func buildReturn(r *returnStmt) (*kgraph.ReturnClause, error) {
	items := make([]*kgraph.ReturnItem, len(r.Items))

	for i, item := range r.Items {
		expr, err := convertOr(item.Expr)
		if err != nil {
			return nil, err
		}

		alias := ""
		if item.Alias != nil {
			alias = *item.Alias
		}

		items[i] = &kgraph.ReturnItem{Expression: expr, Alias: alias}
	}

	return &kgraph.ReturnClause{Distinct: r.Distinct, Items: items}, nil
}

func buildOrder(o *orderStmt) (*kgraph.OrderClause, error) {
	items := make([]*kgraph.OrderItem, len(o.Items))

	for i, item := range o.Items {
		expr, err := convertOr(item.Expr)
		if err != nil {
			return nil, err
		}

		direction := "ASC"
		if item.Dir != nil {
			direction = strings.ToUpper(*item.Dir)
		}

		items[i] = &kgraph.OrderItem{Expression: expr, Direction: direction}
	}

	return &kgraph.OrderClause{Items: items}, nil
}

func convertOr(e *orExpr) (kgraph.Expr, error) {
	left, err := convertXor(e.Left)
	if err != nil {
		return nil, err
	}

	for _, r := range e.Right {
		right, err := convertXor(r)
		if err != nil {
			return nil, err
		}

		left = &kgraph.BinaryExpr{Op: kgraph.OpOr, Left: left, Right: right}
	}

	return left, nil
}

func convertXor(e *xorExpr) (kgraph.Expr, error) {
	left, err := convertAnd(e.Left)
	if err != nil {
		return nil, err
	}

	for _, r := range e.Right {
		right, err := convertAnd(r)
		if err != nil {
			return nil, err
		}

		left = &kgraph.Xor{Left: left, Right: right}
	}

	return left, nil
}

func convertAnd(e *andExpr) (kgraph.Expr, error) {
	left, err := convertNot(e.Left)
	if err != nil {
		return nil, err
	}

	for _, r := range e.Right {
		right, err := convertNot(r)
		if err != nil {
			return nil, err
		}

		left = &kgraph.BinaryExpr{Op: kgraph.OpAnd, Left: left, Right: right}
	}

	return left, nil
}

func convertNot(e *notExpr) (kgraph.Expr, error) {
	inner, err := convertComparison(e.Expr)
	if err != nil {
		return nil, err
	}

	if e.Not {
		return &kgraph.Not{Arg: inner}, nil
	}

	return inner, nil
}

var comparisonOps = map[string]kgraph.BinaryOp{
	"=": kgraph.OpEq, "!=": kgraph.OpNeq,
	"<": kgraph.OpLt, ">": kgraph.OpGt,
	"<=": kgraph.OpLte, ">=": kgraph.OpGte,
}

func convertComparison(e *comparisonExpr) (kgraph.Expr, error) {
	left, err := convertAdditive(e.Left)
	if err != nil {
		return nil, err
	}

	if e.Op == nil {
		return left, nil
	}

	right, err := convertAdditive(e.Right)
	if err != nil {
		return nil, err
	}

	switch *e.Op {
	case "IN":
		return &kgraph.In{Left: left, Right: right}, nil
	case "=~":
		return &kgraph.Regex{Left: left, Right: right}, nil
	default:
		op, ok := comparisonOps[*e.Op]
		if !ok {
			return nil, fmt.Errorf("patternlang: unknown comparison operator %q", *e.Op)
		}

		return &kgraph.BinaryExpr{Op: op, Left: left, Right: right}, nil
	}
}

var additiveOps = map[string]kgraph.BinaryOp{"+": kgraph.OpAdd, "-": kgraph.OpSub}

func convertAdditive(e *additiveExpr) (kgraph.Expr, error) {
	left, err := convertMultiplicative(e.Left)
	if err != nil {
		return nil, err
	}

	for i, r := range e.Right {
		right, err := convertMultiplicative(r)
		if err != nil {
			return nil, err
		}

		left = &kgraph.BinaryExpr{Op: additiveOps[e.Ops[i]], Left: left, Right: right}
	}

	return left, nil
}

var multiplicativeOps = map[string]kgraph.BinaryOp{"*": kgraph.OpMul, "/": kgraph.OpDiv}

func convertMultiplicative(e *multiplicativeExpr) (kgraph.Expr, error) {
	left, err := convertUnary(e.Left)
	if err != nil {
		return nil, err
	}

	for i, r := range e.Right {
		right, err := convertUnary(r)
		if err != nil {
			return nil, err
		}

		left = &kgraph.BinaryExpr{Op: multiplicativeOps[e.Ops[i]], Left: left, Right: right}
	}

	return left, nil
}

func convertUnary(e *unaryExpr) (kgraph.Expr, error) {
	atom, err := convertAtom(e.Atom)
	if err != nil {
		return nil, err
	}

	if e.Minus {
		return &kgraph.Minus{Arg: atom}, nil
	}

	return atom, nil
}

func convertAtom(a *atom) (kgraph.Expr, error) {
	switch {
	case a.Paren != nil:
		return convertOr(a.Paren)

	case a.List != nil:
		elems := make([]kgraph.Expr, len(a.List.Elements))

		for i, el := range a.List.Elements {
			expr, err := convertOr(el)
			if err != nil {
				return nil, err
			}

			elems[i] = expr
		}

		return &kgraph.List{Elements: elems}, nil

	case a.Call != nil:
		return convertCall(a.Call)

	case a.Parameter != nil:
		return &kgraph.Parameter{Name: *a.Parameter}, nil

	case a.Variable != nil:
		if len(a.Variable.Properties) == 0 {
			return &kgraph.Variable{Name: a.Variable.Name}, nil
		}

		return &kgraph.PropertyLookup{
			Base:       &kgraph.Variable{Name: a.Variable.Name},
			Properties: a.Variable.Properties,
		}, nil

	case a.Literal != nil:
		return convertLiteral(a.Literal)

	default:
		return nil, fmt.Errorf("patternlang: empty expression atom")
	}
}

func convertCall(c *callGrammar) (kgraph.Expr, error) {
	if c.Star {
		return &kgraph.Call{Function: c.Function, Distinct: c.Distinct, Args: []kgraph.Expr{&kgraph.Variable{Name: "*"}}}, nil
	}

	args := make([]kgraph.Expr, len(c.Args))

	for i, a := range c.Args {
		expr, err := convertOr(a)
		if err != nil {
			return nil, err
		}

		args[i] = expr
	}

	return &kgraph.Call{Function: c.Function, Distinct: c.Distinct, Args: args}, nil
}

func convertLiteral(l *literalGrammar) (kgraph.Expr, error) {
	switch {
	case l.Null:
		return &kgraph.Literal{Value: nil}, nil
	case l.True:
		return &kgraph.Literal{Value: true}, nil
	case l.False:
		return &kgraph.Literal{Value: false}, nil
	case l.Float != nil:
		return &kgraph.Literal{Value: *l.Float}, nil
	case l.Int != nil:
		return &kgraph.Literal{Value: *l.Int}, nil
	case l.String != nil:
		s, err := unquote(*l.String)
		if err != nil {
			return nil, err
		}

		return &kgraph.Literal{Value: s}, nil
	default:
		return nil, fmt.Errorf("patternlang: empty literal")
	}
}

// unquote strips a single- or double-quoted string token's delimiters and
// resolves backslash escapes.
func unquote(tok string) (string, error) {
	if len(tok) < 2 {
		return "", fmt.Errorf("patternlang: malformed string literal %q", tok)
	}

	if tok[0] == '"' {
		return strconv.Unquote(tok)
	}

	body := tok[1 : len(tok)-1]
	body = strings.ReplaceAll(body, `\'`, `'`)
	body = strings.ReplaceAll(body, `\\`, `\`)

	return body, nil
}
