package algorithms_test

// Small graph builders mirroring store/examples_test.go's fixtures,
// duplicated here because _test.go files are compiled only into their
// own package's test binary and cannot be imported from algorithms_test.

import (
	"fmt"

	"github.com/katalvlaran/graphengine/store"
)

func buildCycle(n int) *store.Graph {
	g := store.New(true, nil)
	for i := 0; i < n; i++ {
		_, _ = g.InsertVertex([]byte(fmt.Sprintf("V/%d", i)), nil)
	}
	must(g.SealVertices())

	for i := 0; i < n; i++ {
		must(g.InsertEdge(uint32(i), uint32((i+1)%n)))
	}
	must(g.SealEdges())
	must(g.IndexEdges(true, true))

	return g
}

func buildStar(n int) *store.Graph {
	g := store.New(true, nil)
	for i := 0; i < n; i++ {
		_, _ = g.InsertVertex([]byte(fmt.Sprintf("V/%d", i)), nil)
	}
	must(g.SealVertices())

	for i := 1; i < n; i++ {
		must(g.InsertEdge(uint32(i), 0))
	}
	must(g.SealEdges())
	must(g.IndexEdges(true, true))

	return g
}

// buildBinaryTree builds a complete binary tree of the given depth
// (root at depth 0), edges directed parent->child, fully indexed.
func buildBinaryTree(depth int) *store.Graph {
	g := store.New(true, nil)

	n := (1 << (depth + 1)) - 1
	for i := 0; i < n; i++ {
		_, _ = g.InsertVertex([]byte(fmt.Sprintf("V/%d", i)), nil)
	}
	must(g.SealVertices())

	for i := 0; i < n; i++ {
		left := 2*i + 1
		right := 2*i + 2
		if left < n {
			must(g.InsertEdge(uint32(i), uint32(left)))
		}
		if right < n {
			must(g.InsertEdge(uint32(i), uint32(right)))
		}
	}
	must(g.SealEdges())
	must(g.IndexEdges(true, true))

	return g
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
