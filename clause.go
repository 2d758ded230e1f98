package kgraph

import "sort"

// clauseGraphHandle returns the graph handle a match clause's first node
// requests, or the resolver's default graph when the node carries none.
func clauseGraphHandle(clause *MatchClause, resolver *graphResolver) string {
	if clause.Node1.Graph != nil {
		return *clause.Node1.Graph
	}

	return resolver.defaultGraph()
}

// translateClauseStructure is pass 1 over a match clause: it resolves
// label restrictions and registers the clause's named variables against
// node1, node2, and the relationship's id column, in that order.
func (c *Compiler) translateClauseStructure(clause *MatchClause, alias string) {
	node1 := clause.Node1
	if len(node1.Labels) > 0 {
		tok := c.litmap.intern(node1.Labels[0])
		c.addRestriction(sqlColumn{alias, "node1"}, tok)
	}

	if node1.Variable != nil && !node1.Variable.Anonymous {
		c.varmap.register(node1.Variable.Name, sqlColumn{alias, "node1"})
	}

	node2 := clause.Node2
	if len(node2.Labels) > 0 {
		tok := c.litmap.intern(node2.Labels[0])
		c.addRestriction(sqlColumn{alias, "node2"}, tok)
	}

	if node2.Variable != nil && !node2.Variable.Anonymous {
		c.varmap.register(node2.Variable.Name, sqlColumn{alias, "node2"})
	}

	rel := clause.Relationship
	if len(rel.Labels) > 0 {
		tok := c.litmap.intern(rel.Labels[0])
		c.addRestriction(sqlColumn{alias, "label"}, tok)
	}

	if rel.Variable != nil && !rel.Variable.Anonymous {
		c.varmap.register(rel.Variable.Name, sqlColumn{alias, "id"})
	}
}

// translateClauseProperties is pass 2 over a match clause: it lowers each
// pattern's property map into restrictions on extension columns. It runs
// after every clause has completed pass 1, so property-driven variable
// registrations never influence the label-based join choices made there.
func (c *Compiler) translateClauseProperties(clause *MatchClause, alias string) error {
	if err := c.translatePatternProperties(clause.Node1.Properties, clause.Node1.Variable, false, alias, "node1"); err != nil {
		return err
	}

	if err := c.translatePatternProperties(clause.Node2.Properties, clause.Node2.Variable, false, alias, "node2"); err != nil {
		return err
	}

	return c.translatePatternProperties(clause.Relationship.Properties, clause.Relationship.Variable, true, alias, "id")
}

// translatePatternProperties lowers one node or relationship pattern's
// property map. column is the pattern's base column ("node1", "node2", or
// "id"); isRelationship selects between a relation-level column name and a
// virtualized endpoint column of the form "<base-column>;<prop>".
func (c *Compiler) translatePatternProperties(props map[string]Expr, variable *PatternVariable, isRelationship bool, alias, column string) error {
	if len(props) == 0 {
		return nil
	}

	if variable != nil {
		c.varmap.register(variable.Name, sqlColumn{alias, column})
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		propCol := column + ";" + name
		if isRelationship {
			propCol = name
		}

		expr := props[name]
		if v, ok := expr.(*Variable); ok {
			c.varmap.register(v.Name, sqlColumn{alias, propCol})
		}

		rhs, err := c.translateExpr(expr, true)
		if err != nil {
			return err
		}

		c.addRestriction(sqlColumn{alias, propCol}, rhs)
	}

	return nil
}
