package dsutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTopoSortOrdersDependenciesFirst(t *testing.T) {
	nodes := []Node[string]{
		{Name: "app", DependsOn: []string{"lib", "util"}},
		{Name: "lib", DependsOn: []string{"util"}},
		{Name: "util", DependsOn: nil},
	}

	order, err := TopoSort(nodes)
	require.NoError(t, err)
	require.Len(t, order, 3)

	pos := make(map[string]int, len(order))
	for i, n := range order {
		pos[n.Name] = i
	}
	assert.Less(t, pos["util"], pos["lib"])
	assert.Less(t, pos["lib"], pos["app"])
}

func TestTopoSortDetectsCycle(t *testing.T) {
	nodes := []Node[string]{
		{Name: "a", DependsOn: []string{"b"}},
		{Name: "b", DependsOn: []string{"c"}},
		{Name: "c", DependsOn: []string{"a"}},
	}

	_, err := TopoSort(nodes)
	require.Error(t, err)

	var cycleErr *CycleError[string]
	require.ErrorAs(t, err, &cycleErr)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, cycleErr.Nodes)
}

func TestTopoSortIndependentNodes(t *testing.T) {
	nodes := []Node[string]{
		{Name: "x"},
		{Name: "y"},
	}
	order, err := TopoSort(nodes)
	require.NoError(t, err)
	assert.Len(t, order, 2)
}
