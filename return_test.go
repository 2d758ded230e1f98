package kgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateReturn_NilOrEmptyClauseReturnsStar(t *testing.T) {
	t.Parallel()

	c := newTestCompiler()

	selectText, groupBy, err := c.translateReturn(nil)
	require.NoError(t, err)
	assert.Equal(t, "*", selectText)
	assert.Empty(t, groupBy)

	selectText, groupBy, err = c.translateReturn(&ReturnClause{})
	require.NoError(t, err)
	assert.Equal(t, "*", selectText)
	assert.Empty(t, groupBy)
}

func TestTranslateReturn_Distinct(t *testing.T) {
	t.Parallel()

	c := newTestCompiler()
	c.varmap.register("a", sqlColumn{"c1", "node1"})

	selectText, _, err := c.translateReturn(&ReturnClause{
		Distinct: true,
		Items:    []*ReturnItem{{Expression: &Variable{Name: "a"}}},
	})
	require.NoError(t, err)
	assert.Equal(t, `DISTINCT c1."node1"`, selectText)
}

func TestTranslateReturn_AliasedItem(t *testing.T) {
	t.Parallel()

	c := newTestCompiler()
	c.varmap.register("a", sqlColumn{"c1", "node1"})

	selectText, groupBy, err := c.translateReturn(&ReturnClause{
		Items: []*ReturnItem{{Expression: &Variable{Name: "a"}, Alias: "who"}},
	})
	require.NoError(t, err)
	assert.Equal(t, `c1."node1" AS "who"`, selectText)
	assert.Empty(t, groupBy)
}

func TestTranslateReturn_SingleAggregateNoGroupBy(t *testing.T) {
	t.Parallel()

	c := newTestCompiler()

	_, groupBy, err := c.translateReturn(&ReturnClause{
		Items: []*ReturnItem{{Expression: &Call{Function: "COUNT", Args: []Expr{&Variable{Name: "*"}}}}},
	})
	require.NoError(t, err)
	assert.Empty(t, groupBy, "an all-aggregate projection needs no GROUP BY")
}

func TestTranslateReturn_OneNonAggregateBeforeAggregate(t *testing.T) {
	t.Parallel()

	c := newTestCompiler()
	c.varmap.register("a", sqlColumn{"c1", "node1"})

	_, groupBy, err := c.translateReturn(&ReturnClause{
		Items: []*ReturnItem{
			{Expression: &Variable{Name: "a"}},
			{Expression: &Call{Function: "COUNT", Args: []Expr{&Variable{Name: "*"}}}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, `GROUP BY c1."node1"`, groupBy)
}

func TestTranslateReturn_AggregateBeforeNonAggregateOmitsGroupBy(t *testing.T) {
	t.Parallel()

	c := newTestCompiler()
	c.varmap.register("a", sqlColumn{"c1", "node1"})

	// The non-aggregate item comes after the last aggregate, so nothing
	// qualifies as a group key: this is the firstReg > lastAgg case.
	_, groupBy, err := c.translateReturn(&ReturnClause{
		Items: []*ReturnItem{
			{Expression: &Call{Function: "COUNT", Args: []Expr{&Variable{Name: "*"}}}},
			{Expression: &Variable{Name: "a"}},
		},
	})
	require.NoError(t, err)
	assert.Empty(t, groupBy)
}

func TestTranslateReturn_MultipleNonAggregateItemsAllBecomeGroupKeys(t *testing.T) {
	t.Parallel()

	c := newTestCompiler()
	c.varmap.register("a", sqlColumn{"c1", "node1"})
	c.varmap.register("b", sqlColumn{"c1", "node2"})

	_, groupBy, err := c.translateReturn(&ReturnClause{
		Items: []*ReturnItem{
			{Expression: &Variable{Name: "a"}},
			{Expression: &Variable{Name: "b"}, Alias: "second"},
			{Expression: &Call{Function: "COUNT", Args: []Expr{&Variable{Name: "*"}}}},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, `GROUP BY c1."node1", "second"`, groupBy)
}

func TestIsAggregateExpr_DetectsNestedCall(t *testing.T) {
	t.Parallel()

	c := newTestCompiler()

	isAgg, err := c.isAggregateExpr(&BinaryExpr{
		Op:    OpAdd,
		Left:  &Literal{Value: int64(1)},
		Right: &Call{Function: "SUM", Args: []Expr{&Variable{Name: "*"}}},
	})
	require.NoError(t, err)
	assert.True(t, isAgg)
}

func TestIsAggregateExpr_PlainExpressionIsNotAggregate(t *testing.T) {
	t.Parallel()

	c := newTestCompiler()

	isAgg, err := c.isAggregateExpr(&BinaryExpr{
		Op:    OpAdd,
		Left:  &Literal{Value: int64(1)},
		Right: &Literal{Value: int64(2)},
	})
	require.NoError(t, err)
	assert.False(t, isAgg)
}
