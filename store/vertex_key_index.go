package store

import (
	"crypto/rand"
	"encoding/binary"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// hashSeed fixes the vertex-hash function so that the same key always
// hashes the same way across a process lifetime and across engine
// instances. It is mixed in as an 8-byte little-endian prefix ahead of
// the key bytes, following the "fixed-seed" requirement of spec.md §3.
const hashSeed uint64 = 0x9ae16a3b2f90404f

// collisionMarker is OR'd into a hash_to_index entry to flag that the
// hash bucket is ambiguous and must be disambiguated through the
// exceptions map. Vertex indices are therefore limited to 2^31-1, which
// is far beyond any graph this engine is sized for (spec.md's size
// budget is per-process, not per-vertex-count, but N_v in the billions
// would already have exhausted memory long before the index space).
const collisionMarker uint32 = 1 << 31

// HashKey computes the fixed-seed 64-bit vertex hash for key, exposed so
// that clients which already know a key can precompute its hash for the
// KeyOrHash wire encoding (spec.md §4.8) without re-deriving the hash
// function themselves.
func HashKey(key []byte) uint64 { return hashKey(key) }

// hashKey computes the fixed-seed 64-bit vertex hash for key. See
// SPEC_FULL.md §3 for why cespare/xxhash/v2 stands in for "XXH3".
func hashKey(key []byte) uint64 {
	var seedBuf [8]byte
	binary.LittleEndian.PutUint64(seedBuf[:], hashSeed)

	d := xxhash.New()
	d.Write(seedBuf[:])
	d.Write(key)

	return d.Sum64()
}

// VertexKeyIndex interns opaque vertex keys into a dense, stable index
// space in [0, N), resolving both key→index and hash→index lookups.
//
// Indices are assigned in call order starting at 0 and are never reused
// or reordered (spec.md §4.1). The mapping is injective on keys only if
// callers never insert the same key twice — duplicate insertion is not
// detected (see DESIGN.md, Open Question #1).
//
// A second key whose natural hash collides with an already-registered
// hash is given a freshly drawn random "exceptional hash" instead of
// displacing the original entry; the original entry's hash_to_index slot
// is marked (collisionMarker) so that later lookups know to consult
// exceptions. This trades exact hash-equality guarantees for O(1)
// expected lookup in the overwhelmingly common collision-free case.
type VertexKeyIndex struct {
	mu sync.RWMutex

	hashFn func([]byte) uint64 // fixed-seed vertex-key hash; overridable in white-box tests only

	indexToHash []uint64          // index -> hash registered for it (natural or exceptional)
	hashToIndex map[uint64]uint32 // hash -> index, collisionMarker bit set if ambiguous
	exceptions  map[string]uint64 // key -> exceptional hash, only for non-first colliders
}

// NewVertexKeyIndex returns an empty VertexKeyIndex.
func NewVertexKeyIndex() *VertexKeyIndex {
	return newVertexKeyIndexWithHash(hashKey)
}

// newVertexKeyIndexWithHash is the same constructor with an injectable
// hash function, used only by vertex_key_index_internal_test.go to force
// a hash collision deterministically (spec.md §8, scenario 6).
func newVertexKeyIndexWithHash(hashFn func([]byte) uint64) *VertexKeyIndex {
	return &VertexKeyIndex{
		hashFn:      hashFn,
		hashToIndex: make(map[uint64]uint32),
		exceptions:  make(map[string]uint64),
	}
}

// Add interns key, returning its newly assigned dense index.
//
// Callers must not insert the same key twice; Add does not check for
// duplicates (spec.md §3, DESIGN.md Open Question #1). Add never fails.
func (vki *VertexKeyIndex) Add(key []byte) uint32 {
	h := vki.hashFn(key)

	vki.mu.Lock()
	defer vki.mu.Unlock()

	newIndex := uint32(len(vki.indexToHash))

	existing, collided := vki.hashToIndex[h]
	if !collided {
		vki.hashToIndex[h] = newIndex
		vki.indexToHash = append(vki.indexToHash, h)
		return newIndex
	}

	// Mark the bucket ambiguous, preserving whatever index was already
	// registered for the natural hash (idempotent if already marked).
	vki.hashToIndex[h] = (existing &^ collisionMarker) | collisionMarker

	eh := vki.drawExceptionalHash()
	vki.hashToIndex[eh] = newIndex
	vki.exceptions[string(key)] = eh
	vki.indexToHash = append(vki.indexToHash, eh)

	return newIndex
}

// drawExceptionalHash returns a random 64-bit value not already present
// as a key in hashToIndex. Called with mu held for writing.
func (vki *VertexKeyIndex) drawExceptionalHash() uint64 {
	var buf [8]byte
	for {
		if _, err := rand.Read(buf[:]); err != nil {
			// crypto/rand failure is unrecoverable process state; the
			// teacher's own code never attempts to handle it either
			// (math/rand is infallible by construction), so this is
			// the one place this package can panic.
			panic("store: failed to draw exceptional hash: " + err.Error())
		}
		eh := binary.LittleEndian.Uint64(buf[:])
		if _, used := vki.hashToIndex[eh]; !used {
			return eh
		}
	}
}

// Resolve looks up the dense index assigned to key, returning ok=false
// if key was never interned.
func (vki *VertexKeyIndex) Resolve(key []byte) (index uint32, ok bool) {
	h := vki.hashFn(key)

	vki.mu.RLock()
	defer vki.mu.RUnlock()

	entry, present := vki.hashToIndex[h]
	if !present {
		return 0, false
	}
	if entry&collisionMarker == 0 {
		return entry, true
	}

	// Ambiguous bucket: the original colliding key resolves directly
	// (with the marker stripped); every other key must have its own
	// exceptional-hash record.
	if eh, isException := vki.exceptions[string(key)]; isException {
		idx, found := vki.hashToIndex[eh]
		if !found {
			return 0, false
		}
		return idx &^ collisionMarker, true
	}

	return entry &^ collisionMarker, true
}

// ResolveHash looks up the index registered for a hash the caller
// already computed. It cannot disambiguate a collided bucket — callers
// that need certainty in the presence of collisions must use Resolve
// with the original key (spec.md §3).
func (vki *VertexKeyIndex) ResolveHash(hash uint64) (index uint32, ok bool) {
	vki.mu.RLock()
	defer vki.mu.RUnlock()

	entry, present := vki.hashToIndex[hash]
	if !present {
		return 0, false
	}

	return entry &^ collisionMarker, true
}

// Count returns the number of keys interned so far.
func (vki *VertexKeyIndex) Count() int {
	vki.mu.RLock()
	defer vki.mu.RUnlock()

	return len(vki.indexToHash)
}
