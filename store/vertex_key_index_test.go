package store_test

import (
	"testing"

	"github.com/katalvlaran/graphengine/store"
	"github.com/stretchr/testify/require"
)

func TestVertexKeyIndex_AddAssignsDenseOrderedIndices(t *testing.T) {
	vki := store.NewVertexKeyIndex()

	keys := []string{"V/A", "V/B", "V/C", "V/D"}
	for i, k := range keys {
		idx := vki.Add([]byte(k))
		require.Equal(t, uint32(i), idx, "indices must be assigned in call order starting at 0")
	}
	require.Equal(t, len(keys), vki.Count())
}

func TestVertexKeyIndex_ResolveRoundTrip(t *testing.T) {
	vki := store.NewVertexKeyIndex()

	idx := vki.Add([]byte("V/hello"))
	got, ok := vki.Resolve([]byte("V/hello"))
	require.True(t, ok)
	require.Equal(t, idx, got)
}

func TestVertexKeyIndex_ResolveUnknownKey(t *testing.T) {
	vki := store.NewVertexKeyIndex()
	vki.Add([]byte("V/known"))

	_, ok := vki.Resolve([]byte("V/unknown"))
	require.False(t, ok)
}

func TestVertexKeyIndex_ResolveHashUnambiguousCase(t *testing.T) {
	vki := store.NewVertexKeyIndex()
	idx := vki.Add([]byte("V/only"))

	h := store.HashKey([]byte("V/only"))
	got, ok := vki.ResolveHash(h)
	require.True(t, ok)
	require.Equal(t, idx, got)
}
