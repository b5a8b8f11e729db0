package algorithms

import (
	"math/rand"
	"sort"

	"github.com/katalvlaran/graphengine/store"
)

// TieBreak selects how LabelPropagation resolves a multi-way tie among
// the most frequent neighbour labels.
type TieBreak int

const (
	// TieBreakDeterministic picks the lexicographically smallest tied
	// label, making the whole pass a pure function of the graph and
	// initial labels.
	TieBreakDeterministic TieBreak = iota
	// TieBreakRandom picks uniformly among tied labels.
	TieBreakRandom
)

// LabelPropagationResult is the outcome of a label-propagation pass.
type LabelPropagationResult struct {
	Labels        []string
	TotalByteSize int64
	Steps         int
}

// LabelPropagation propagates string labels along edges in both
// directions (undirected flow: a vertex's neighbours are the union of
// its out- and in-neighbours) until no label changes in a pass or
// supersteps is exhausted. Requires both NeighbourIndex tables.
//
// sync chooses between writing every updated label into a shadow array
// and swapping at the end of the pass (sync=true) or updating labels in
// place within the pass (sync=false, the asynchronous variant). The
// asynchronous variant visits vertices in an order shuffled by rng on
// every pass when rng is non-nil, and in index order when rng is nil;
// only the nil-rng, TieBreakDeterministic combination is reproducible.
//
// isCancelled, if non-nil, is sampled once per superstep; once it
// reports true, LabelPropagation stops and returns ErrCancelled.
func LabelPropagation(g *store.Graph, initial []string, sync bool, tieBreak TieBreak, supersteps int, rng *rand.Rand, isCancelled func() bool) (LabelPropagationResult, error) {
	n := g.NumberOfVertices()
	labels := append([]string(nil), initial...)

	order := make([]uint32, n)
	for i := range order {
		order[i] = uint32(i)
	}

	steps := 0
	for steps < supersteps {
		if isCancelled != nil && isCancelled() {
			return LabelPropagationResult{}, ErrCancelled
		}

		if !sync && rng != nil {
			rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		}

		var shadow []string
		if sync {
			shadow = append([]string(nil), labels...)
		}

		changed := false
		for _, v := range order {
			neighbourLabels, err := collectNeighbourLabels(g, labels, v)
			if err != nil {
				return LabelPropagationResult{}, err
			}
			if len(neighbourLabels) == 0 {
				continue
			}

			newLabel := pickMostFrequent(neighbourLabels, tieBreak, rng)
			if newLabel == labels[v] {
				continue
			}

			changed = true
			if sync {
				shadow[v] = newLabel
			} else {
				labels[v] = newLabel
			}
		}

		if sync {
			labels = shadow
		}

		steps++
		if !changed {
			break
		}
	}

	var totalSize int64
	for _, l := range labels {
		totalSize += int64(len(l))
	}

	return LabelPropagationResult{Labels: labels, TotalByteSize: totalSize, Steps: steps}, nil
}

func collectNeighbourLabels(g *store.Graph, labels []string, v uint32) ([]string, error) {
	out, err := g.OutNeighbours(v)
	if err != nil {
		return nil, err
	}
	in, err := g.InNeighbours(v)
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, len(out)+len(in))
	for _, w := range out {
		result = append(result, labels[w])
	}
	for _, w := range in {
		result = append(result, labels[w])
	}
	return result, nil
}

// pickMostFrequent returns the label with the highest multiplicity in
// values, resolving ties per tieBreak.
func pickMostFrequent(values []string, tieBreak TieBreak, rng *rand.Rand) string {
	counts := make(map[string]int, len(values))
	for _, v := range values {
		counts[v]++
	}

	best := 0
	for _, c := range counts {
		if c > best {
			best = c
		}
	}

	tied := make([]string, 0, 4)
	for label, c := range counts {
		if c == best {
			tied = append(tied, label)
		}
	}

	if len(tied) == 1 {
		return tied[0]
	}

	sort.Strings(tied)
	if tieBreak == TieBreakDeterministic || rng == nil {
		return tied[0]
	}

	return tied[rng.Intn(len(tied))]
}
