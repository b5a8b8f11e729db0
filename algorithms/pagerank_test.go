package algorithms_test

import (
	"testing"

	"github.com/katalvlaran/graphengine/algorithms"
	"github.com/katalvlaran/graphengine/store"
	"github.com/stretchr/testify/require"
)

func TestPageRank_StarGraphConvergesToKnownRanks(t *testing.T) {
	g := buildStar(10)

	result, err := algorithms.PageRank(g, 0.85, 70, nil)
	require.NoError(t, err)
	require.GreaterOrEqual(t, result.Steps, 1)
	require.LessOrEqual(t, result.Steps, 70)

	require.InDelta(t, 0.495, result.Rank[0], 0.015)
	for i := 1; i < 10; i++ {
		require.InDelta(t, 0.055, result.Rank[i], 0.015)
	}
}

func TestPageRank_DirectedCycleAllEntriesEqualOneOverN(t *testing.T) {
	g := buildCycle(6)

	result, err := algorithms.PageRank(g, 0.85, 50, nil)
	require.NoError(t, err)

	want := 1.0 / 6.0
	for _, r := range result.Rank {
		require.InDelta(t, want, r, 1e-6)
	}
}

func TestIRank_RequiresCollectionColumn(t *testing.T) {
	g := store.New(false, nil)
	_, _ = g.InsertVertex([]byte("V/a"), nil)
	require.NoError(t, g.SealVertices())
	require.NoError(t, g.SealEdges())
	require.NoError(t, g.IndexEdges(true, false))

	_, err := algorithms.IRank(g, 0.85, 10, nil)
	require.ErrorIs(t, err, algorithms.ErrMissingColumn)
}

func TestIRank_UsesCollectionSizeAsBaselineDenominator(t *testing.T) {
	g := store.New(false, []string{store.CollectionNameColumn})
	_, _ = g.InsertVertex([]byte("A/1"), []interface{}{"A"})
	_, _ = g.InsertVertex([]byte("A/2"), []interface{}{"A"})
	_, _ = g.InsertVertex([]byte("B/1"), []interface{}{"B"})
	require.NoError(t, g.SealVertices())
	require.NoError(t, g.SealEdges())
	require.NoError(t, g.IndexEdges(true, false))

	result, err := algorithms.IRank(g, 0.85, 10, nil)
	require.NoError(t, err)
	require.Len(t, result.Rank, 3)

	// With no edges every vertex shares the same dangling redistribution,
	// so ranks differ only by the baseline (1-d)/|collection|:
	// 0.15/1 - 0.15/2 = 0.075.
	require.InDelta(t, result.Rank[0], result.Rank[1], 1e-12)
	require.InDelta(t, 0.075, result.Rank[2]-result.Rank[0], 1e-9)
}
