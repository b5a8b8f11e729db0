package store_test

import (
	"testing"

	"github.com/katalvlaran/graphengine/store"
	"github.com/stretchr/testify/require"
)

func TestGraph_FullLifecycleHappyPath(t *testing.T) {
	g := store.New(true, []string{"weight", store.CollectionNameColumn})

	a, err := g.InsertVertex([]byte("V/a"), []interface{}{1.0, store.CollectionOf([]byte("V/a"))})
	require.NoError(t, err)
	b, err := g.InsertVertex([]byte("V/b"), []interface{}{2.0, store.CollectionOf([]byte("V/b"))})
	require.NoError(t, err)

	require.NoError(t, g.SealVertices())

	require.NoError(t, g.InsertEdgeBetweenKeys([]byte("V/a"), []byte("V/b")))
	require.NoError(t, g.SealEdges())
	require.NoError(t, g.IndexEdges(true, true))

	require.Equal(t, uint32(2), g.NumberOfVertices())
	require.Equal(t, uint64(1), g.NumberOfEdges())

	out, err := g.OutNeighbours(a)
	require.NoError(t, err)
	require.Equal(t, []uint32{b}, out)

	in, err := g.InNeighbours(b)
	require.NoError(t, err)
	require.Equal(t, []uint32{a}, in)

	key, err := g.KeyAt(a)
	require.NoError(t, err)
	require.Equal(t, []byte("V/a"), key)

	colIdx, err := g.ColumnIndex(store.CollectionNameColumn)
	require.NoError(t, err)
	require.Equal(t, "V", g.Column(colIdx)[a])
}

func TestGraph_InsertVertexAfterSealIsRejected(t *testing.T) {
	g := store.New(false, nil)
	_, err := g.InsertVertex([]byte("V/a"), nil)
	require.NoError(t, err)
	require.NoError(t, g.SealVertices())

	_, err = g.InsertVertex([]byte("V/b"), nil)
	require.ErrorIs(t, err, store.ErrVerticesAlreadySealed)
}

func TestGraph_InsertEdgeBeforeVertexSealIsRejected(t *testing.T) {
	g := store.New(false, nil)
	_, _ = g.InsertVertex([]byte("V/a"), nil)

	err := g.InsertEdge(0, 0)
	require.ErrorIs(t, err, store.ErrVerticesNotSealed)
}

func TestGraph_InsertEdgeOutOfRangeIndexFails(t *testing.T) {
	g := store.New(false, nil)
	_, _ = g.InsertVertex([]byte("V/a"), nil)
	require.NoError(t, g.SealVertices())

	err := g.InsertEdge(0, 99)
	require.ErrorIs(t, err, store.ErrVertexIndexOutOfRange)
}

func TestGraph_InsertEdgeBetweenKeysDanglingFails(t *testing.T) {
	g := store.New(false, nil)
	_, _ = g.InsertVertex([]byte("V/a"), nil)
	require.NoError(t, g.SealVertices())

	err := g.InsertEdgeBetweenKeys([]byte("V/a"), []byte("V/ghost"))
	require.ErrorIs(t, err, store.ErrDanglingEdge)
	require.Equal(t, uint64(0), g.NumberOfEdges())
}

func TestGraph_NeighboursWithoutIndexFails(t *testing.T) {
	g := store.New(false, nil)
	_, _ = g.InsertVertex([]byte("V/a"), nil)
	require.NoError(t, g.SealVertices())
	require.NoError(t, g.SealEdges())

	_, err := g.OutNeighbours(0)
	require.ErrorIs(t, err, store.ErrMissingFromIndex)

	_, err = g.InNeighbours(0)
	require.ErrorIs(t, err, store.ErrMissingToIndex)
}

func TestGraph_KeyAtWithoutStoreKeysFails(t *testing.T) {
	g := store.New(false, nil)
	_, _ = g.InsertVertex([]byte("V/a"), nil)

	_, err := g.KeyAt(0)
	require.ErrorIs(t, err, store.ErrKeysNotStored)
}

func TestGraph_ColumnCountMismatchFails(t *testing.T) {
	g := store.New(false, []string{"weight"})

	_, err := g.InsertVertex([]byte("V/a"), []interface{}{1.0, 2.0})
	require.ErrorIs(t, err, store.ErrColumnCountMismatch)
}

func TestGraph_DropRejectsFurtherBuilderCalls(t *testing.T) {
	g := store.New(false, nil)
	g.Drop()

	_, err := g.InsertVertex([]byte("V/a"), nil)
	require.ErrorIs(t, err, store.ErrGraphDropped)

	_, ok := g.ResolveKey([]byte("V/a"))
	require.False(t, ok)
}

func TestGraph_MemoryUsageGrowsWithVerticesAndEdges(t *testing.T) {
	empty := store.New(false, nil)
	totalEmpty, _, _ := empty.MemoryUsage()

	g := store.New(true, []string{"weight"})
	for i := 0; i < 10; i++ {
		_, _ = g.InsertVertex([]byte{byte('a' + i)}, []interface{}{float64(i)})
	}
	require.NoError(t, g.SealVertices())
	require.NoError(t, g.InsertEdge(0, 1))
	require.NoError(t, g.SealEdges())
	require.NoError(t, g.IndexEdges(true, true))

	total, perVertex, perEdge := g.MemoryUsage()
	require.Greater(t, total, totalEmpty)
	require.Greater(t, perVertex, uint64(0))
	require.Greater(t, perEdge, uint64(0))
}

func TestCollectionOf(t *testing.T) {
	require.Equal(t, "Vertices", store.CollectionOf([]byte("Vertices/123")))
	require.Equal(t, "bare", store.CollectionOf([]byte("bare")))
}
