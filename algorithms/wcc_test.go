package algorithms_test

import (
	"testing"

	"github.com/katalvlaran/graphengine/algorithms"
	"github.com/katalvlaran/graphengine/store"
	"github.com/stretchr/testify/require"
)

func TestWCC_CycleOfTenIsOneComponent(t *testing.T) {
	g := buildCycle(10)

	result, err := algorithms.WCC(g, nil)
	require.NoError(t, err)
	require.Equal(t, 1, result.Count)

	want := result.Representative[0]
	for i := 1; i < 10; i++ {
		require.Equal(t, want, result.Representative[i])
	}
}

func TestWCC_EmptyEdgeSetEachVertexIsOwnComponent(t *testing.T) {
	g := store.New(false, nil)
	for i := 0; i < 5; i++ {
		_, _ = g.InsertVertex([]byte{byte('a' + i)}, nil)
	}
	require.NoError(t, g.SealVertices())
	require.NoError(t, g.SealEdges())

	result, err := algorithms.WCC(g, nil)
	require.NoError(t, err)
	require.Equal(t, 5, result.Count)
	for i, r := range result.Representative {
		require.Equal(t, uint32(i), r)
	}
}
