// Package algorithms implements the engine's read-only analytical passes
// over a sealed store.Graph: weakly and strongly connected components,
// PageRank and its iRank variant, and label/attribute propagation in
// their synchronous and asynchronous forms.
//
// Every algorithm here takes a *store.Graph already past the indices it
// needs and returns a plain result value; none of them mutate the graph
// or retain a reference to it beyond the call. Cancellation, where
// supported, is cooperative: callers pass a func() bool polled at
// superstep boundaries.
package algorithms
