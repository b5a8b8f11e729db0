package algorithms

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/katalvlaran/graphengine/store"
)

// AttributePropagationResult is the outcome of an attribute-propagation
// pass: Labels[v] is the final sorted set of interned label ids carried
// by vertex v, rendered back to strings for the caller.
type AttributePropagationResult struct {
	Labels        [][]string
	TotalByteSize int64
	Steps         int
}

// AttributePropagation unions each vertex's label set with its
// neighbours' sets, direction controlled by backwards: false (forward
// flow) pulls from in-neighbours and therefore requires to_index;
// true (backward flow) pulls from out-neighbours and requires
// from_index. Labels are interned into a per-run dictionary so the
// working set stays bounded integers rather than repeated strings.
// Terminates when a pass produces no set growth or supersteps is
// exhausted.
//
// initial[v] holds v's starting labels, already flattened from a
// scalar/array/null column value by the caller (ingest or the job that
// invokes this algorithm) — this function deals only in string slices.
//
// isCancelled, if non-nil, is sampled once per superstep; once it
// reports true, AttributePropagation stops and returns ErrCancelled.
func AttributePropagation(g *store.Graph, initial [][]string, backwards bool, supersteps int, sync bool, rng *rand.Rand, isCancelled func() bool) (AttributePropagationResult, error) {
	n := g.NumberOfVertices()

	dict := make(map[string]int)
	var dictSlice []string
	intern := func(s string) int {
		if id, ok := dict[s]; ok {
			return id
		}
		id := len(dictSlice)
		dict[s] = id
		dictSlice = append(dictSlice, s)
		return id
	}

	sets := make([]map[int]struct{}, n)
	for v := uint32(0); v < n; v++ {
		s := make(map[int]struct{})
		if int(v) < len(initial) {
			for _, label := range initial[v] {
				s[intern(label)] = struct{}{}
			}
		}
		sets[v] = s
	}

	neighboursOf := func(v uint32) ([]uint32, error) {
		if backwards {
			return g.OutNeighbours(v)
		}
		return g.InNeighbours(v)
	}

	order := make([]uint32, n)
	for i := range order {
		order[i] = uint32(i)
	}

	steps := 0
	for steps < supersteps {
		if isCancelled != nil && isCancelled() {
			return AttributePropagationResult{}, ErrCancelled
		}

		if !sync && rng != nil {
			rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		}

		var shadow []map[int]struct{}
		if sync {
			shadow = make([]map[int]struct{}, n)
			for v := range shadow {
				shadow[v] = cloneSet(sets[v])
			}
		}

		diffCount := 0
		for _, v := range order {
			neighbours, err := neighboursOf(v)
			if err != nil {
				return AttributePropagationResult{}, err
			}

			target := sets[v]
			if sync {
				target = shadow[v]
			}

			for _, w := range neighbours {
				for label := range sets[w] {
					if _, present := target[label]; !present {
						target[label] = struct{}{}
						diffCount++
					}
				}
			}
		}

		if sync {
			sets = shadow
		}

		steps++
		if diffCount == 0 {
			break
		}
	}

	labels := make([][]string, n)
	var totalSize int64
	for v := uint32(0); v < n; v++ {
		out := make([]string, 0, len(sets[v]))
		for id := range sets[v] {
			s := dictSlice[id]
			out = append(out, s)
			totalSize += int64(len(s))
		}
		sort.Strings(out)
		labels[v] = out
	}

	return AttributePropagationResult{Labels: labels, TotalByteSize: totalSize, Steps: steps}, nil
}

func cloneSet(s map[int]struct{}) map[int]struct{} {
	out := make(map[int]struct{}, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// FlattenColumnValue normalises a vertex column cell (as produced by
// ingest from a scalar, array, or null JSON value) into the string
// label slice AttributePropagation's initial set expects.
func FlattenColumnValue(value interface{}) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, e := range v {
			out = append(out, fmt.Sprintf("%v", e))
		}
		return out
	default:
		return []string{fmt.Sprintf("%v", v)}
	}
}
