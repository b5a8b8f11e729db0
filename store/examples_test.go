package store_test

// Fixture builders mirroring the teacher's examples/ package: small,
// named graph shapes. _test.go files cannot be imported, so other
// packages do not use these; algorithms/fixtures_test.go keeps its own
// copies.

import (
	"fmt"

	"github.com/katalvlaran/graphengine/store"
)

// buildCycle returns a directed n-cycle: 0->1->2->...->(n-1)->0, fully
// indexed in both directions. Used by WCC/SCC fixtures (spec.md §8).
func buildCycle(n int) *store.Graph {
	g := store.New(true, nil)
	for i := 0; i < n; i++ {
		_, _ = g.InsertVertex([]byte(fmt.Sprintf("V/%d", i)), nil)
	}
	mustSealVertices(g)

	for i := 0; i < n; i++ {
		mustInsertEdge(g, uint32(i), uint32((i+1)%n))
	}
	mustSealEdges(g)
	mustIndex(g)

	return g
}

// buildStar returns a directed star graph with a center vertex 0 and
// n-1 leaves, edges directed leaf->center. Used by PageRank fixtures
// (spec.md §8, "10-vertex star").
func buildStar(n int) *store.Graph {
	g := store.New(true, nil)
	for i := 0; i < n; i++ {
		_, _ = g.InsertVertex([]byte(fmt.Sprintf("V/%d", i)), nil)
	}
	mustSealVertices(g)

	for i := 1; i < n; i++ {
		mustInsertEdge(g, uint32(i), 0)
	}
	mustSealEdges(g)
	mustIndex(g)

	return g
}

// buildTwoNodeCycle returns the minimal non-trivial SCC fixture: two
// vertices with edges in both directions (spec.md §8, "2-node SCC").
func buildTwoNodeCycle() *store.Graph {
	return buildCycle(2)
}

func mustSealVertices(g *store.Graph) {
	if err := g.SealVertices(); err != nil {
		panic(err)
	}
}

func mustInsertEdge(g *store.Graph, from, to uint32) {
	if err := g.InsertEdge(from, to); err != nil {
		panic(err)
	}
}

func mustSealEdges(g *store.Graph) {
	if err := g.SealEdges(); err != nil {
		panic(err)
	}
}

func mustIndex(g *store.Graph) {
	if err := g.IndexEdges(true, true); err != nil {
		panic(err)
	}
}
