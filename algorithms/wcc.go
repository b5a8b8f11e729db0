package algorithms

import "github.com/katalvlaran/graphengine/store"

// WCCResult is the outcome of a weakly-connected-components pass:
// representative[v] is the canonical vertex of v's component, and
// next[v] chains every vertex sharing a component into a singly linked
// list rooted at its representative (mirrors the shape original_source
// returns so downstream result enumeration needs no extra bookkeeping).
type WCCResult struct {
	Count          int
	Representative []uint32
	Next           []uint32
}

// wccCancelBatch is the edge-batch size at which WCC samples
// isCancelled — a coarse iteration boundary per spec.md §5's
// "per edge-batch" example.
const wccCancelBatch = 4096

// WCC computes weakly connected components by scanning the edge list
// once and merging the disjoint-set-by-linked-list structure of the two
// endpoints' components. It needs no NeighbourIndex — only the raw edge
// list, which is always available once edges are sealed.
//
// Disjoint sets are represented as representative[v] (the set's root)
// plus a singly linked list next[v] threading every member of a set
// together, rather than union-by-rank: merging points the smaller-
// indexed-representative list's tail at the other list's head so the
// representative of the merged set is always the smaller of the two
// previous representatives, and the full membership can be walked via
// next[] without a second pass over all vertices.
//
// isCancelled, if non-nil, is sampled every wccCancelBatch edges; once
// it reports true, WCC stops and returns ErrCancelled.
func WCC(g *store.Graph, isCancelled func() bool) (WCCResult, error) {
	n := g.NumberOfVertices()

	representative := make([]uint32, n)
	next := make([]uint32, n)
	tail := make([]uint32, n) // tail[r] = last vertex in the list rooted at r, valid only for roots
	for v := uint32(0); v < n; v++ {
		representative[v] = v
		next[v] = v // self-loop sentinel: a singleton list ends at itself
		tail[v] = v
	}

	count := int(n)
	if count <= 1 {
		return WCCResult{Count: count, Representative: representative, Next: next}, nil
	}

	for i, e := range g.EdgeList() {
		if isCancelled != nil && i%wccCancelBatch == 0 && isCancelled() {
			return WCCResult{}, ErrCancelled
		}

		ru, rv := representative[e[0]], representative[e[1]]
		if ru == rv {
			continue
		}

		// Keep the smaller representative as the merged root; splice the
		// other list onto its tail in O(1) and repoint every member of the
		// absorbed list to the surviving representative.
		root, absorbed := ru, rv
		if absorbed < root {
			root, absorbed = absorbed, root
		}

		next[tail[root]] = absorbed
		tail[root] = tail[absorbed]

		for v := absorbed; ; v = next[v] {
			representative[v] = root
			if v == tail[root] {
				break
			}
		}

		count--
	}

	return WCCResult{Count: count, Representative: representative, Next: next}, nil
}
