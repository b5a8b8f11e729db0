package store_test

// NeighbourIndex itself is unexported; it is exercised indirectly
// through Graph's OutNeighbours/InNeighbours/OutDegree/InDegree in
// graph_test.go. This file covers the CSR properties that matter
// independently of Graph: self-loops and parallel edges are counted in
// OutDegree/InDegree, and a vertex with only in-edges has out-degree 0.

import (
	"testing"

	"github.com/katalvlaran/graphengine/store"
	"github.com/stretchr/testify/require"
)

func TestGraph_SelfLoopAndParallelEdgesSurviveIndexing(t *testing.T) {
	g := store.New(false, nil)

	a, _ := g.InsertVertex([]byte("V/a"), nil)
	b, _ := g.InsertVertex([]byte("V/b"), nil)
	require.NoError(t, g.SealVertices())

	require.NoError(t, g.InsertEdge(a, a)) // self-loop
	require.NoError(t, g.InsertEdge(a, b))
	require.NoError(t, g.InsertEdge(a, b)) // parallel edge
	require.NoError(t, g.SealEdges())
	require.NoError(t, g.IndexEdges(true, true))

	outDeg, err := g.OutDegree(a)
	require.NoError(t, err)
	require.Equal(t, uint64(3), outDeg)

	inDeg, err := g.InDegree(b)
	require.NoError(t, err)
	require.Equal(t, uint64(2), inDeg)

	noOutDeg, err := g.OutDegree(b)
	require.NoError(t, err)
	require.Equal(t, uint64(0), noOutDeg)
}
