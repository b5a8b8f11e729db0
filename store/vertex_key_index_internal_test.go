package store

// Internal (white-box) tests live in package store so they can reach
// unexported constructors, mirroring matrix/export_privates_for_test.go's
// test-bridge idiom in the teacher repo.

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// forcedCollisionHash sends "V/A" and "V/B" to the same hash bucket while
// every other key falls back to the real fixed-seed hash, letting the
// test exercise the collision-marker path deterministically instead of
// searching for a natural xxhash collision.
func forcedCollisionHash(key []byte) uint64 {
	switch string(key) {
	case "V/A", "V/B":
		return 0xC0111DE
	default:
		return hashKey(key)
	}
}

func TestVertexKeyIndex_ForcedCollision(t *testing.T) {
	vki := newVertexKeyIndexWithHash(forcedCollisionHash)

	idxA := vki.Add([]byte("V/A"))
	idxB := vki.Add([]byte("V/B"))
	require.NotEqual(t, idxA, idxB)

	// The colliding bucket must be marked.
	entry, ok := vki.hashToIndex[0xC0111DE]
	require.True(t, ok)
	require.NotZero(t, entry&collisionMarker, "first entry in a collided bucket must carry the marker")

	// The second key must have an exceptions record.
	eh, ok := vki.exceptions["V/B"]
	require.True(t, ok)
	require.NotEqual(t, uint64(0xC0111DE), eh)

	resolvedA, ok := vki.Resolve([]byte("V/A"))
	require.True(t, ok)
	require.Equal(t, idxA, resolvedA)

	resolvedB, ok := vki.Resolve([]byte("V/B"))
	require.True(t, ok)
	require.Equal(t, idxB, resolvedB)
}

func TestVertexKeyIndex_ForcedCollision_ThreeWay(t *testing.T) {
	vki := newVertexKeyIndexWithHash(func(key []byte) uint64 {
		switch string(key) {
		case "V/A", "V/B", "V/C":
			return 0xDEADBEEF
		default:
			return hashKey(key)
		}
	})

	idxA := vki.Add([]byte("V/A"))
	idxB := vki.Add([]byte("V/B"))
	idxC := vki.Add([]byte("V/C"))

	for key, want := range map[string]uint32{"V/A": idxA, "V/B": idxB, "V/C": idxC} {
		got, ok := vki.Resolve([]byte(key))
		require.True(t, ok, key)
		require.Equal(t, want, got, key)
	}
}
