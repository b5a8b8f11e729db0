package algorithms_test

import (
	"testing"

	"github.com/katalvlaran/graphengine/algorithms"
	"github.com/katalvlaran/graphengine/store"
	"github.com/stretchr/testify/require"
)

func TestSCC_TwoNodeCycleIsOneComponent(t *testing.T) {
	g := store.New(true, nil)
	_, _ = g.InsertVertex([]byte("V/A"), nil)
	_, _ = g.InsertVertex([]byte("V/B"), nil)
	require.NoError(t, g.SealVertices())
	require.NoError(t, g.InsertEdge(0, 1))
	require.NoError(t, g.InsertEdge(1, 0))
	require.NoError(t, g.SealEdges())
	require.NoError(t, g.IndexEdges(true, false))

	result, err := algorithms.SCC(g, nil)
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)
	require.Equal(t, result.Rep[0], result.Rep[1])
}

func TestSCC_RemovingBackEdgeYieldsTwoComponents(t *testing.T) {
	g := store.New(true, nil)
	_, _ = g.InsertVertex([]byte("V/A"), nil)
	_, _ = g.InsertVertex([]byte("V/B"), nil)
	require.NoError(t, g.SealVertices())
	require.NoError(t, g.InsertEdge(0, 1))
	require.NoError(t, g.SealEdges())
	require.NoError(t, g.IndexEdges(true, false))

	result, err := algorithms.SCC(g, nil)
	require.NoError(t, err)
	require.Equal(t, 2, result.Count)
	require.NotEqual(t, result.Rep[0], result.Rep[1])
}

func TestSCC_CycleOfLengthNIsOneComponentOfSizeN(t *testing.T) {
	g := buildCycle(10)

	result, err := algorithms.SCC(g, nil)
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)

	want := result.Rep[0]
	for i := 1; i < 10; i++ {
		require.Equal(t, want, result.Rep[i])
	}
}

func TestSCC_MissingFromIndexFails(t *testing.T) {
	g := store.New(false, nil)
	_, _ = g.InsertVertex([]byte("V/a"), nil)
	require.NoError(t, g.SealVertices())
	require.NoError(t, g.SealEdges())

	_, err := algorithms.SCC(g, nil)
	require.ErrorIs(t, err, store.ErrMissingFromIndex)
}
