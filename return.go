package kgraph

import "strings"

// translateReturn lowers a RETURN clause into SELECT item text and, when the
// projection mixes aggregate and non-aggregate items, a synthesized GROUP BY
// clause. The source language has no GROUP BY syntax of its own: grouping is
// inferred from which projected items are themselves aggregate calls.
func (c *Compiler) translateReturn(ret *ReturnClause) (string, string, error) {
	if ret == nil || len(ret.Items) == 0 {
		return "*", "", nil
	}

	items := make([]string, len(ret.Items))
	// aggInfo[i] is "" (null) when item i is, or contains, an aggregate call;
	// otherwise it holds that item's group-key text (its alias if present,
	// else its raw emitted expression text).
	aggInfo := make([]string, len(ret.Items))
	isNull := make([]bool, len(ret.Items))

	for i, item := range ret.Items {
		text, err := c.translateExpr(item.Expression, true)
		if err != nil {
			return "", "", err
		}

		if item.Alias != "" {
			items[i] = text + " AS " + quoteIdent(item.Alias)
		} else {
			items[i] = text
		}

		isAgg, err := c.isAggregateExpr(item.Expression)
		if err != nil {
			return "", "", err
		}

		if isAgg {
			isNull[i] = true
		} else if item.Alias != "" {
			aggInfo[i] = quoteIdent(item.Alias)
		} else {
			aggInfo[i] = text
		}
	}

	selectText := strings.Join(items, ", ")
	if ret.Distinct {
		selectText = "DISTINCT " + selectText
	}

	firstReg := -1
	lastAgg := -1

	for i := range ret.Items {
		if isNull[i] {
			lastAgg = i
		} else if firstReg == -1 {
			firstReg = i
		}
	}

	if firstReg == -1 || lastAgg <= firstReg {
		return selectText, "", nil
	}

	var keys []string

	for i := 0; i < lastAgg; i++ {
		if !isNull[i] {
			keys = append(keys, aggInfo[i])
		}
	}

	return selectText, "GROUP BY " + strings.Join(keys, ", "), nil
}

// isAggregateExpr reports whether expr is, or contains, a call to a
// store-classified aggregate function. A PropertyLookup's base is always a
// bare variable, so it never carries an aggregate call; every other node
// that can wrap a Call is inspected.
func (c *Compiler) isAggregateExpr(expr Expr) (bool, error) {
	switch e := expr.(type) {
	case *Call:
		if c.store.IsAggregateFunction(e.Function) {
			return true, nil
		}

		for _, a := range e.Args {
			agg, err := c.isAggregateExpr(a)
			if err != nil {
				return false, err
			}

			if agg {
				return true, nil
			}
		}

		return false, nil

	case *Minus:
		return c.isAggregateExpr(e.Arg)

	case *Not:
		return c.isAggregateExpr(e.Arg)

	case *BinaryExpr:
		left, err := c.isAggregateExpr(e.Left)
		if err != nil || left {
			return left, err
		}

		return c.isAggregateExpr(e.Right)

	case *In:
		return c.isAggregateExpr(&BinaryExpr{Left: e.Left, Right: e.Right})

	case *Regex:
		return c.isAggregateExpr(&BinaryExpr{Left: e.Left, Right: e.Right})

	case *List:
		for _, el := range e.Elements {
			if agg, err := c.isAggregateExpr(el); err != nil || agg {
				return agg, err
			}
		}

		return false, nil

	default:
		return false, nil
	}
}
