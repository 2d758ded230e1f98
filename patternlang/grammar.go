package patternlang

import "github.com/alecthomas/participle/v2/lexer"

// Script is the top-level parse of one pattern-language query.
type Script struct {
	Pos    lexer.Position
	Match  *matchStmt  `@@`
	Where  *whereStmt  `@@?`
	Return *returnStmt `@@`
	Order  *orderStmt  `@@?`
	Skip   *skipStmt   `@@?`
	Limit  *limitStmt  `@@?`
}

type matchStmt struct {
	Pos     lexer.Position
	Clauses []*clauseGrammar `"MATCH" @@ ("," @@)*`
}

type clauseGrammar struct {
	Pos   lexer.Position
	Graph *string      `(@Ident ":")?`
	Node1 *nodeGrammar `@@`
	Rel   *relGrammar  `"-" "[" @@ "]" Arrow`
	Node2 *nodeGrammar `@@`
}

type nodeGrammar struct {
	Pos      lexer.Position
	Variable *string         `"(" (@Ident)?`
	Labels   []string        `(":" @Ident)*`
	Props    *propMapGrammar `@@? ")"`
}

type relGrammar struct {
	Pos      lexer.Position
	Variable *string         `(@Ident)?`
	Labels   []string        `(":" @Ident)*`
	Props    *propMapGrammar `@@?`
}

type propMapGrammar struct {
	Pos     lexer.Position
	Entries []*propEntry `"{" (@@ ("," @@)*)? "}"`
}

type propEntry struct {
	Pos   lexer.Position
	Key   string  `@Ident ":"`
	Value *orExpr `@@`
}

type whereStmt struct {
	Pos  lexer.Position
	Expr *orExpr `"WHERE" @@`
}

type returnStmt struct {
	Pos      lexer.Position
	Distinct bool                 `"RETURN" @"DISTINCT"?`
	Items    []*returnItemGrammar `@@ ("," @@)*`
}

type returnItemGrammar struct {
	Pos   lexer.Position
	Expr  *orExpr `@@`
	Alias *string `("AS" @Ident)?`
}

type orderStmt struct {
	Pos   lexer.Position
	Items []*orderItemGrammar `"ORDER" "BY" @@ ("," @@)*`
}

type orderItemGrammar struct {
	Pos  lexer.Position
	Expr *orExpr `@@`
	Dir  *string `(@("ASC" | "DESC"))?`
}

type skipStmt struct {
	Pos  lexer.Position
	Expr *orExpr `"SKIP" @@`
}

type limitStmt struct {
	Pos  lexer.Position
	Expr *orExpr `"LIMIT" @@`
}

// Expression grammar, lowest to highest precedence: or, xor, and, not,
// comparison (non-chaining), additive, multiplicative, unary, atom.

type orExpr struct {
	Pos   lexer.Position
	Left  *xorExpr   `@@`
	Right []*xorExpr `("OR" @@)*`
}

type xorExpr struct {
	Pos   lexer.Position
	Left  *andExpr   `@@`
	Right []*andExpr `("XOR" @@)*`
}

type andExpr struct {
	Pos   lexer.Position
	Left  *notExpr   `@@`
	Right []*notExpr `("AND" @@)*`
}

type notExpr struct {
	Pos  lexer.Position
	Not  bool            `@"NOT"?`
	Expr *comparisonExpr `@@`
}

type comparisonExpr struct {
	Pos   lexer.Position
	Left  *additiveExpr  `@@`
	Op    *string        `( @("=" | "!=" | "<=" | ">=" | "<" | ">" | "=~" | "IN")`
	Right *additiveExpr  `  @@ )?`
}

type additiveExpr struct {
	Pos   lexer.Position
	Left  *multiplicativeExpr   `@@`
	Ops   []string              `( @("+" | "-")`
	Right []*multiplicativeExpr `  @@ )*`
}

type multiplicativeExpr struct {
	Pos   lexer.Position
	Left  *unaryExpr   `@@`
	Ops   []string     `( @("*" | "/")`
	Right []*unaryExpr `  @@ )*`
}

type unaryExpr struct {
	Pos   lexer.Position
	Minus bool  `@"-"?`
	Atom  *atom `@@`
}

// Literal is tried before Variable: the keyword literals (NULL, TRUE,
// FALSE) lex as plain Ident tokens and must be claimed before the generic
// variable-chain alternative would otherwise swallow them as names.
type atom struct {
	Pos       lexer.Position
	Paren     *orExpr          `  "(" @@ ")"`
	List      *listGrammar     `| @@`
	Call      *callGrammar     `| @@`
	Parameter *string          `| ( "$" @Ident )`
	Literal   *literalGrammar  `| @@`
	Variable  *varChainGrammar `| @@`
}

// varChainGrammar is a bare identifier optionally followed by a chain of
// dotted property names.
type varChainGrammar struct {
	Pos        lexer.Position
	Name       string   `@Ident`
	Properties []string `("." @Ident)*`
}

type listGrammar struct {
	Pos      lexer.Position
	Elements []*orExpr `"[" (@@ ("," @@)*)? "]"`
}

type callGrammar struct {
	Pos      lexer.Position
	Function string    `@Ident "("`
	Distinct bool      `@"DISTINCT"?`
	Star     bool      `(  @"*"`
	Args     []*orExpr `  | (@@ ("," @@)*)? ) ")"`
}

type literalGrammar struct {
	Pos    lexer.Position
	Null   bool     `  @"NULL"`
	True   bool     `| @"TRUE"`
	False  bool     `| @"FALSE"`
	Float  *float64 `| @Float`
	Int    *int64   `| @Int`
	String *string  `| @String`
}
