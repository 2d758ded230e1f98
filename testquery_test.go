package kgraph

// testQuery is a hand-built kgraph.Query for white-box compiler tests that
// don't need a real parser.
type testQuery struct {
	matches []*MatchClause
	where   *WhereClause
	ret     *ReturnClause
	order   *OrderClause
	skip    *SkipClause
	limit   *LimitClause
}

func (q *testQuery) GetMatchClauses() []*MatchClause { return q.matches }
func (q *testQuery) GetWhereClause() *WhereClause     { return q.where }
func (q *testQuery) GetReturnClause() *ReturnClause   { return q.ret }
func (q *testQuery) GetOrderClause() *OrderClause     { return q.order }
func (q *testQuery) GetSkipClause() *SkipClause       { return q.skip }
func (q *testQuery) GetLimitClause() *LimitClause     { return q.limit }

func namedVar(name string) *PatternVariable { return &PatternVariable{Name: name} }

func anonVar() *PatternVariable { return &PatternVariable{Anonymous: true} }

func lovesClause(node1, node2 *PatternVariable, graph *string) *MatchClause {
	return &MatchClause{
		Node1:        &NodePattern{Variable: node1, Graph: graph},
		Relationship: &RelationshipPattern{Labels: []string{"loves"}},
		Node2:        &NodePattern{Variable: node2},
	}
}
