package algorithms

import "github.com/katalvlaran/graphengine/store"

// IRank runs the iRank variant of PageRank: the baseline term added
// every step is (1-d)/|collection(v)| instead of the uniform (1-d)/N,
// where |collection(v)| is the number of vertices sharing v's
// @collection_name column value. Requires that column to exist.
//
// isCancelled, if non-nil, is sampled once per superstep; once it
// reports true, IRank stops and returns ErrCancelled.
func IRank(g *store.Graph, damping float64, supersteps int, isCancelled func() bool) (PageRankResult, error) {
	colIdx, err := g.ColumnIndex(store.CollectionNameColumn)
	if err != nil {
		return PageRankResult{}, ErrMissingColumn
	}

	column := g.Column(colIdx)
	counts := make(map[interface{}]float64, len(column))
	for _, v := range column {
		counts[v]++
	}

	weight := make([]float64, len(column))
	for i, v := range column {
		weight[i] = counts[v]
	}

	return pageRank(g, damping, supersteps, weight, isCancelled)
}
