package kgraph

import "strings"

// translateExpr recursively lowers a pattern-language expression into
// relational expression text. allowVars is false inside List elements and
// LIMIT/SKIP expressions, where a bare Variable is an IllegalContext error.
func (c *Compiler) translateExpr(expr Expr, allowVars bool) (string, error) {
	switch e := expr.(type) {
	case *Literal:
		return c.litmap.intern(e.Value), nil

	case *Parameter:
		value, ok := c.parameters[e.Name]
		if !ok {
			return "", newCompileError("translate expression", KindUnboundParameter,
				"undefined query parameter: %q", e.Name)
		}

		return c.litmap.intern(value), nil

	case *Variable:
		return c.translateVariable(e, allowVars)

	case *List:
		parts := make([]string, len(e.Elements))

		for i, el := range e.Elements {
			s, err := c.translateExpr(el, false)
			if err != nil {
				return "", err
			}

			parts[i] = s
		}

		return "(" + strings.Join(parts, ", ") + ")", nil

	case *Minus:
		arg, err := c.translateExpr(e.Arg, allowVars)
		if err != nil {
			return "", err
		}

		return "(- " + arg + ")", nil

	case *BinaryExpr:
		return c.translateBinary(e, allowVars)

	case *Not:
		arg, err := c.translateExpr(e.Arg, allowVars)
		if err != nil {
			return "", err
		}

		return "(NOT " + arg + ")", nil

	case *Call:
		return c.translateCall(e, allowVars)

	case *PropertyLookup:
		return c.translatePropertyLookup(e, allowVars)

	case *In:
		left, right, err := c.translatePair(e.Left, e.Right, allowVars)
		if err != nil {
			return "", err
		}

		return "(" + left + " in " + right + ")", nil

	case *Regex:
		left, right, err := c.translatePair(e.Left, e.Right, allowVars)
		if err != nil {
			return "", err
		}

		if err := c.store.LoadUserFunction("KGTK_REGEX", true); err != nil {
			return "", err
		}

		return "KGTK_REGEX(" + left + ", " + right + ")", nil

	case *Xor:
		return "", newCompileError("translate expression", KindUnsupportedSyntax, "unsupported operator: XOR")
	case *Hat:
		return "", newCompileError("translate expression", KindUnsupportedSyntax, "unsupported operator: ^")
	case *Case:
		return "", newCompileError("translate expression", KindUnsupportedSyntax, "unsupported operator: CASE")

	default:
		return "", newCompileError("translate expression", KindUnsupportedSyntax, "unhandled expression node: %T", expr)
	}
}

func (c *Compiler) translateVariable(e *Variable, allowVars bool) (string, error) {
	if e.Name == "*" {
		return "*", nil
	}

	if !allowVars {
		return "", newCompileError("translate expression", KindIllegalContext,
			"illegal context for variable: %s", e.Name)
	}

	col, ok := c.varmap.first(e.Name)
	if !ok {
		return "", newCompileError("translate expression", KindUnboundVariable, "undefined variable: %s", e.Name)
	}

	return col.Alias + "." + quoteIdent(col.Column), nil
}

func (c *Compiler) translatePair(left, right Expr, allowVars bool) (string, string, error) {
	l, err := c.translateExpr(left, allowVars)
	if err != nil {
		return "", "", err
	}

	r, err := c.translateExpr(right, allowVars)
	if err != nil {
		return "", "", err
	}

	return l, r, nil
}

func (c *Compiler) translateBinary(e *BinaryExpr, allowVars bool) (string, error) {
	left, right, err := c.translatePair(e.Left, e.Right, allowVars)
	if err != nil {
		return "", err
	}

	return "(" + left + " " + string(e.Op) + " " + right + ")", nil
}

// translateCall lowers a function application. CAST is special-cased to
// SQLite's `CAST(expr AS type)` syntax since the pattern language has no
// native cast expression. Any other call notifies the store that its
// function name may need registering as a user-defined function; this is
// non-fatal, since built-in relational functions never need registration.
func (c *Compiler) translateCall(e *Call, allowVars bool) (string, error) {
	if strings.EqualFold(e.Function, "CAST") {
		if len(e.Args) == 2 {
			if typ, ok := e.Args[1].(*Variable); ok {
				arg, err := c.translateExpr(e.Args[0], allowVars)
				if err != nil {
					return "", err
				}

				return "CAST(" + arg + " AS " + typ.Name + ")", nil
			}
		}

		return "", newCompileError("translate expression", KindIllegalExpression, "illegal CAST expression")
	}

	args := make([]string, len(e.Args))

	for i, a := range e.Args {
		s, err := c.translateExpr(a, allowVars)
		if err != nil {
			return "", err
		}

		args[i] = s
	}

	if err := c.store.LoadUserFunction(e.Function, false); err != nil {
		return "", err
	}

	distinct := ""
	if e.Distinct {
		distinct = "DISTINCT "
	}

	return e.Function + "(" + distinct + strings.Join(args, ", ") + ")", nil
}

const kgtkFunctionPrefix = "KGTK_"

// translatePropertyLookup folds a chain of dotted property names onto a
// variable's emitted column reference. Each step either rewrites the
// reference into a call to a registered KGTK-namespace function, swaps a
// relationship's "id" column for the named property column, or widens a
// node column into its virtualized "<col>;<prop>" form.
func (c *Compiler) translatePropertyLookup(e *PropertyLookup, allowVars bool) (string, error) {
	base, ok := e.Base.(*Variable)
	if !ok {
		return "", newCompileError("translate expression", KindUnsupportedSyntax,
			"property lookup base must be a variable")
	}

	cur, err := c.translateExpr(base, allowVars)
	if err != nil {
		return "", err
	}

	for _, prop := range e.Properties {
		switch {
		case strings.HasPrefix(strings.ToUpper(prop), kgtkFunctionPrefix) && c.store.IsUserFunction(prop):
			if err := c.store.LoadUserFunction(prop, true); err != nil {
				return "", err
			}

			cur = prop + "(" + cur + ")"

		case strings.HasSuffix(strings.ToUpper(cur), `."ID"`):
			cur = cur[:len(cur)-3] + prop + `"`

		default:
			cur = cur[:len(cur)-1] + ";" + prop + `"`
		}
	}

	return cur, nil
}
