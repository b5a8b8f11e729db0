package algorithms_test

import (
	"fmt"
	"testing"

	"github.com/katalvlaran/graphengine/algorithms"
	"github.com/stretchr/testify/require"
)

func TestAttributePropagation_ForwardFlowAccumulatesAncestors(t *testing.T) {
	depth := 4
	g := buildBinaryTree(depth)
	n := g.NumberOfVertices()

	initial := make([][]string, n)
	for i := uint32(0); i < n; i++ {
		initial[i] = []string{fmt.Sprintf("%d", i)}
	}

	result, err := algorithms.AttributePropagation(g, initial, false, depth+2, true, nil, nil)
	require.NoError(t, err)

	// Root (index 0, depth 0) has only its own label.
	require.Len(t, result.Labels[0], 1)

	// A leftmost-path vertex at depth d should carry d+1 labels: itself
	// plus every ancestor on the path back to the root.
	v := uint32(0)
	for d := 0; d <= depth; d++ {
		require.Len(t, result.Labels[v], d+1, "depth %d", d)
		v = 2*v + 1
	}
}

func TestAttributePropagation_BackwardFlowAccumulatesDescendants(t *testing.T) {
	depth := 3
	g := buildBinaryTree(depth)
	n := g.NumberOfVertices()

	initial := make([][]string, n)
	for i := uint32(0); i < n; i++ {
		initial[i] = []string{fmt.Sprintf("%d", i)}
	}

	result, err := algorithms.AttributePropagation(g, initial, true, depth+2, true, nil, nil)
	require.NoError(t, err)

	// Root's backward set is the whole tree.
	require.Len(t, result.Labels[0], int(n))

	// A leaf has only its own label (no descendants).
	require.Len(t, result.Labels[n-1], 1)
}

func TestAttributePropagation_TerminatesOnZeroDiff(t *testing.T) {
	g := buildBinaryTree(2)
	n := g.NumberOfVertices()

	initial := make([][]string, n)
	for i := range initial {
		initial[i] = []string{"shared"}
	}

	result, err := algorithms.AttributePropagation(g, initial, false, 20, true, nil, nil)
	require.NoError(t, err)
	require.Less(t, result.Steps, 20)
}
