package filter

import (
	"testing"

	"hrgraph/internal/graph"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodes() []*graph.Node {
	return []*graph.Node{
		{ID: "A", Company: "A사", Department: "개발팀"},
		{ID: "B", Company: "B사", Department: "영업팀"},
		{ID: "C", Company: "A사"},
	}
}

func TestApply_NodeFilters(t *testing.T) {
	t.Run("Empty sets show everything", func(t *testing.T) {
		vis := Apply(nodes(), nil, State{})
		assert.True(t, vis.NodeVisible("A"))
		assert.True(t, vis.NodeVisible("B"))
		assert.True(t, vis.NodeVisible("C"))
	})

	t.Run("Company and department are combined", func(t *testing.T) {
		vis := Apply(nodes(), nil, State{Companies: NewSet("A사"), Departments: NewSet("개발팀")})
		assert.True(t, vis.NodeVisible("A"))
		assert.False(t, vis.NodeVisible("B"))
		assert.False(t, vis.NodeVisible("C"))
		assert.Equal(t, OpacityFiltered, vis.NodeOpacity("C"))
		assert.Equal(t, OpacityVisible, vis.NodeOpacity("A"))
	})
}

func TestApply_RelationAllowSet(t *testing.T) {
	edges := []graph.Edge{
		{Source: "A", Target: "B", Relation: "colleague"},
		{Source: "A", Target: "C", Relation: "affiliation"},
		{Source: "B", Target: "C", Relation: "소속"},
	}

	vis := Apply(nodes(), edges, State{Relations: NewSet("affiliation"), SensitiveVisible: true})
	assert.Equal(t, []bool{false, true, true}, vis.Edges)
	assert.Equal(t, OpacityFiltered, vis.EdgeOpacity(0))
	assert.Equal(t, OpacityFiltered, vis.EdgeOpacity(9))
}

func TestApply_SensitiveAndLowWeight(t *testing.T) {
	edges := []graph.Edge{
		{Source: "A", Target: "B", Relation: "배우자"},
		{Source: "A", Target: "C", Relation: "kinship"},
		{Source: "B", Target: "C", Relation: "project"},
		{Source: "A", Target: "B", Relation: "superior"},
	}

	vis := Apply(nodes(), edges, State{})
	assert.Equal(t, []bool{false, false, true, true}, vis.Edges)

	vis = Apply(nodes(), edges, State{SensitiveVisible: true, HideLowWeight: true})
	assert.Equal(t, []bool{true, true, false, true}, vis.Edges)
	assert.Equal(t, 3, vis.VisibleEdges())
}

func TestApply_EdgeLimitEvictsLowestWeight(t *testing.T) {
	edges := []graph.Edge{
		{Source: "A", Target: "B", Relation: "spouse"},
		{Source: "A", Target: "C", Relation: "colleague"},
		{Source: "B", Target: "C", Relation: "affiliation"},
	}

	vis := Apply(nodes(), edges, State{SensitiveVisible: true, EdgeLimit: 2})
	assert.Equal(t, []bool{true, false, true}, vis.Edges)
	assert.Equal(t, 1, vis.Evicted)

	t.Run("Ties keep input order", func(t *testing.T) {
		ties := []graph.Edge{
			{Source: "A", Target: "B", Relation: "colleague"},
			{Source: "A", Target: "C", Relation: "project"},
			{Source: "B", Target: "C", Relation: "colleague"},
		}
		vis := Apply(nodes(), ties, State{EdgeLimit: 2})
		assert.Equal(t, []bool{true, true, false}, vis.Edges)
	})

	t.Run("Zero limit disables the cap", func(t *testing.T) {
		vis := Apply(nodes(), edges, State{SensitiveVisible: true})
		assert.Equal(t, 3, vis.VisibleEdges())
	})
}

func TestCollectOptions(t *testing.T) {
	opts := CollectOptions(nodes(), []graph.Edge{
		{Relation: "소속"}, {Relation: "colleague"}, {Relation: "소속"},
	})
	require.NotNil(t, opts.Companies)
	assert.Equal(t, []string{"A사", "B사"}, opts.Companies)
	assert.Equal(t, []string{"개발팀", "영업팀"}, opts.Departments)
	assert.Equal(t, []string{"colleague", "소속"}, opts.Relations)
}
