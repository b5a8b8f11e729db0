package algorithms

import "errors"

// ErrMissingColumn is returned by IRank when the graph was not
// constructed with the @collection_name column it depends on.
var ErrMissingColumn = errors.New("algorithms: required column not present on graph")

// ErrCancelled is returned when isCancelled reported true at a coarse
// iteration boundary (spec.md §5); the caller's partial state is
// discarded.
var ErrCancelled = errors.New("algorithms: cancelled")
