package algorithms

import "github.com/katalvlaran/graphengine/store"

// SCCResult is the outcome of a strongly-connected-components pass:
// Rep[v] is the smallest vertex index in v's component.
type SCCResult struct {
	Count int
	Rep   []uint32
}

// frame is one level of the explicit DFS stack, replacing call-stack
// recursion so arbitrarily deep graphs never risk a goroutine stack
// overflow (dfs/dfs.go recurses directly; SCC's path-compression state
// is easier to keep correct with an explicit frame carrying the
// iteration cursor than by threading it through recursive calls).
type frame struct {
	v      uint32
	arcPos int
	arcs   []uint32
}

// SCC computes strongly connected components with Tarjan's single-pass
// DFS, using an explicit stack for traversal and a second stack to track
// the current strongly-connected prefix (the low-link set). It requires
// the by-from NeighbourIndex.
//
// isCancelled, if non-nil, is sampled once per DFS tree root (the outer
// loop's coarse iteration boundary); once it reports true, SCC stops
// and returns ErrCancelled.
//
// Returns ErrMissingFromIndex wrapped as-is from store.Graph if the
// by-from index was never built.
func SCC(g *store.Graph, isCancelled func() bool) (SCCResult, error) {
	n := g.NumberOfVertices()

	const unvisited = ^uint32(0)
	index := make([]uint32, n)
	lowlink := make([]uint32, n)
	onStack := make([]bool, n)
	for i := range index {
		index[i] = unvisited
	}

	rep := make([]uint32, n)
	for i := range rep {
		rep[i] = uint32(i)
	}

	var (
		nextIndex uint32
		sccStack  []uint32
		count     int
	)

	for start := uint32(0); start < n; start++ {
		if index[start] != unvisited {
			continue
		}
		if isCancelled != nil && isCancelled() {
			return SCCResult{}, ErrCancelled
		}

		arcs, err := g.OutNeighbours(start)
		if err != nil {
			return SCCResult{}, err
		}

		stack := []frame{{v: start, arcs: arcs}}
		index[start] = nextIndex
		lowlink[start] = nextIndex
		nextIndex++
		sccStack = append(sccStack, start)
		onStack[start] = true

		for len(stack) > 0 {
			top := &stack[len(stack)-1]

			if top.arcPos < len(top.arcs) {
				w := top.arcs[top.arcPos]
				top.arcPos++

				if index[w] == unvisited {
					wArcs, err := g.OutNeighbours(w)
					if err != nil {
						return SCCResult{}, err
					}
					index[w] = nextIndex
					lowlink[w] = nextIndex
					nextIndex++
					sccStack = append(sccStack, w)
					onStack[w] = true
					stack = append(stack, frame{v: w, arcs: wArcs})
				} else if onStack[w] {
					if index[w] < lowlink[top.v] {
						lowlink[top.v] = index[w]
					}
				}
				continue
			}

			// All arcs of top.v explored: propagate lowlink to the parent
			// frame, and if top.v is a component root, pop its members off
			// sccStack and assign them the smallest index among them.
			v := top.v
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				parent := &stack[len(stack)-1]
				if lowlink[v] < lowlink[parent.v] {
					lowlink[parent.v] = lowlink[v]
				}
			}

			if lowlink[v] == index[v] {
				var members []uint32
				for {
					w := sccStack[len(sccStack)-1]
					sccStack = sccStack[:len(sccStack)-1]
					onStack[w] = false
					members = append(members, w)
					if w == v {
						break
					}
				}

				smallest := members[0]
				for _, m := range members {
					if m < smallest {
						smallest = m
					}
				}
				for _, m := range members {
					rep[m] = smallest
				}
				count++
			}
		}
	}

	return SCCResult{Count: count, Rep: rep}, nil
}
