// Package kgraph compiles a small property-graph pattern language into
// relational queries addressed to a wide-row edge store.
package kgraph

// Expr is the tagged-variant expression tree handed to the compiler by the
// pattern-language parser. The compiler treats it as a read-only contract:
// it never constructs or mutates Expr nodes of its own, only walks them.
type Expr interface {
	exprNode()
}

// Literal is a constant value (string, number, bool) appearing in a query.
type Literal struct {
	Value any
}

// Parameter is a `$name` reference resolved against the externally supplied
// parameter map at compile time.
type Parameter struct {
	Name string
}

// Variable is a bare pattern-language variable reference, including the
// special "*" used in `count(*)`.
type Variable struct {
	Name string
}

// List is a bracketed list of expressions. Its elements may not reference
// variables; embedding a Variable inside one is an IllegalContext error at
// translation time, not a parse error.
type List struct {
	Elements []Expr
}

// Minus is unary negation, `-x`.
type Minus struct {
	Arg Expr
}

// BinaryOp identifies the operator carried by a BinaryExpr.
type BinaryOp string

// Supported binary operators. Xor and Hat (^) are intentionally absent —
// they are reserved but unsupported, see the Xor and Hat types below.
const (
	OpAdd BinaryOp = "+"
	OpSub BinaryOp = "-"
	OpMul BinaryOp = "*"
	OpDiv BinaryOp = "/"
	OpEq  BinaryOp = "="
	OpNeq BinaryOp = "!="
	OpLt  BinaryOp = "<"
	OpGt  BinaryOp = ">"
	OpLte BinaryOp = "<="
	OpGte BinaryOp = ">="
	OpAnd BinaryOp = "AND"
	OpOr  BinaryOp = "OR"
)

// BinaryExpr covers arithmetic, comparison, and logical and/or operators.
type BinaryExpr struct {
	Op          BinaryOp
	Left, Right Expr
}

// Not is logical negation.
type Not struct {
	Arg Expr
}

// Call is a function application, e.g. `count(distinct a.prop)`. CAST is
// special-cased by the translator: it must carry exactly two args, the
// second being a Variable naming the target type.
type Call struct {
	Function string
	Args     []Expr
	Distinct bool
}

// PropertyLookup is a variable followed by one or more dotted property
// names, e.g. `r2.label` or `n.prop.sub`. Base is always a *Variable.
type PropertyLookup struct {
	Base       Expr
	Properties []string
}

// In is membership testing, `a IN b`.
type In struct {
	Left, Right Expr
}

// Regex is case-sensitive regex matching, `a =~ b`, lowered to a
// store-registered user function.
type Regex struct {
	Left, Right Expr
}

// Xor, Hat, and Case are reserved grammar productions the compiler refuses
// to translate (UnsupportedSyntax). They exist so an exhaustive switch over
// Expr compiles without a silent default case swallowing them.
type (
	Xor  struct{ Left, Right Expr }
	Hat  struct{ Left, Right Expr }
	Case struct{}
)

func (Literal) exprNode()        {}
func (Parameter) exprNode()      {}
func (Variable) exprNode()       {}
func (List) exprNode()           {}
func (Minus) exprNode()          {}
func (BinaryExpr) exprNode()     {}
func (Not) exprNode()            {}
func (Call) exprNode()           {}
func (PropertyLookup) exprNode() {}
func (In) exprNode()             {}
func (Regex) exprNode()          {}
func (Xor) exprNode()            {}
func (Hat) exprNode()            {}
func (Case) exprNode()           {}

// PatternVariable is a pattern-language variable occurrence on a node or
// relationship pattern. Anonymous variables (`()`, the default when a
// pattern carries no name) never contribute join edges.
type PatternVariable struct {
	Name      string
	Anonymous bool
}

// NodePattern is one endpoint of a match clause, e.g. `(a:Person {name: x})`.
// Graph is only meaningful on a clause's first node; it names the graph
// handle the clause should resolve against.
type NodePattern struct {
	Variable   *PatternVariable
	Labels     []string
	Graph      *string
	Properties map[string]Expr
}

// RelationshipPattern is the relationship leg of a match clause, e.g.
// `-[r:loves {since: y}]->`.
type RelationshipPattern struct {
	Variable   *PatternVariable
	Labels     []string
	Properties map[string]Expr
}

// MatchClause is one `(node1)-[rel]->(node2)` triple. A query may carry
// several, comma-separated, sharing variables across clauses.
type MatchClause struct {
	Node1        *NodePattern
	Relationship *RelationshipPattern
	Node2        *NodePattern
}

// WhereClause holds the top-level boolean expression of a WHERE clause.
type WhereClause struct {
	Expression Expr
}

// ReturnItem is one projected column of a RETURN clause, optionally aliased.
type ReturnItem struct {
	Expression Expr
	Alias      string // empty when the item carries no "AS alias"
}

// ReturnClause is the projection list of a query.
type ReturnClause struct {
	Distinct bool
	Items    []*ReturnItem
}

// OrderItem is one sort key of an ORDER BY clause.
type OrderItem struct {
	Expression Expr
	Direction  string // "ASC" or "DESC", case-insensitive as supplied
}

// OrderClause is the sort-key list of a query.
type OrderClause struct {
	Items []*OrderItem
}

// SkipClause holds the SKIP (OFFSET) expression.
type SkipClause struct {
	Expression Expr
}

// LimitClause holds the LIMIT expression.
type LimitClause struct {
	Expression Expr
}

// Query is the shape the external pattern-language parser must hand to the
// compiler. The compiler only reads from it.
type Query interface {
	GetMatchClauses() []*MatchClause
	GetWhereClause() *WhereClause
	GetReturnClause() *ReturnClause
	GetOrderClause() *OrderClause
	GetSkipClause() *SkipClause
	GetLimitClause() *LimitClause
}
