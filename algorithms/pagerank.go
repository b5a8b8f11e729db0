package algorithms

import "github.com/katalvlaran/graphengine/store"

// pageRankConvergenceEpsilon is the max-absolute-delta threshold below
// which PageRank is considered converged (spec.md §4.5).
const pageRankConvergenceEpsilon = 1e-7

// PageRankResult is the outcome of a PageRank (or iRank) pass.
type PageRankResult struct {
	Rank  []float64
	Steps int
}

// PageRank runs the standard push-style iteration over g's by-from
// NeighbourIndex: every vertex distributes d*rank[v]/out_degree(v)
// across its out-neighbours each step, dangling (zero-out-degree) mass
// is collected and redistributed uniformly, and a baseline (1-d)/N is
// added to every vertex every step. Iteration stops when the max
// absolute per-vertex delta drops below 1e-7 or supersteps is reached,
// whichever comes first.
//
// isCancelled, if non-nil, is sampled once per superstep; once it
// reports true, PageRank stops and returns ErrCancelled.
func PageRank(g *store.Graph, damping float64, supersteps int, isCancelled func() bool) (PageRankResult, error) {
	return pageRank(g, damping, supersteps, nil, isCancelled)
}

// pageRank is the shared push-iteration core for PageRank and iRank;
// baselineWeight, when non-nil, holds vertex v's personalised baseline
// denominator source (iRank's |collection(v)|) instead of the uniform N.
func pageRank(g *store.Graph, damping float64, supersteps int, baselineWeight []float64, isCancelled func() bool) (PageRankResult, error) {
	n := g.NumberOfVertices()
	if n == 0 {
		return PageRankResult{Rank: nil, Steps: 0}, nil
	}

	outDeg := make([]uint64, n)
	for v := uint32(0); v < n; v++ {
		d, err := g.OutDegree(v)
		if err != nil {
			return PageRankResult{}, err
		}
		outDeg[v] = d
	}

	rank := make([]float64, n)
	initial := 1.0 / float64(n)
	for v := range rank {
		rank[v] = initial
	}

	next := make([]float64, n)
	steps := 0

	for steps < supersteps {
		if isCancelled != nil && isCancelled() {
			return PageRankResult{}, ErrCancelled
		}

		for v := range next {
			next[v] = 0
		}

		var danglingMass float64
		for v := uint32(0); v < n; v++ {
			if outDeg[v] == 0 {
				danglingMass += damping * rank[v]
				continue
			}

			share := damping * rank[v] / float64(outDeg[v])
			neighbours, err := g.OutNeighbours(v)
			if err != nil {
				return PageRankResult{}, err
			}
			for _, w := range neighbours {
				next[w] += share
			}
		}

		danglingShare := danglingMass / float64(n)

		maxDelta := 0.0
		for v := uint32(0); v < n; v++ {
			baseline := (1 - damping) / float64(n)
			if baselineWeight != nil {
				baseline = (1 - damping) / baselineWeight[v]
			}

			newRank := next[v] + danglingShare + baseline
			delta := newRank - rank[v]
			if delta < 0 {
				delta = -delta
			}
			if delta > maxDelta {
				maxDelta = delta
			}
			rank[v] = newRank
		}

		steps++
		if maxDelta < pageRankConvergenceEpsilon {
			break
		}
	}

	return PageRankResult{Rank: rank, Steps: steps}, nil
}
