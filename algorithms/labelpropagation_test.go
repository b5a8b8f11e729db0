package algorithms_test

import (
	"testing"

	"github.com/katalvlaran/graphengine/algorithms"
	"github.com/stretchr/testify/require"
)

func TestLabelPropagation_DeterministicTiebreakIsPureFunctionOfInputs(t *testing.T) {
	g := buildCycle(4)
	initial := []string{"a", "b", "c", "d"}

	r1, err := algorithms.LabelPropagation(g, initial, true, algorithms.TieBreakDeterministic, 20, nil, nil)
	require.NoError(t, err)
	r2, err := algorithms.LabelPropagation(g, initial, true, algorithms.TieBreakDeterministic, 20, nil, nil)
	require.NoError(t, err)

	require.Equal(t, r1.Labels, r2.Labels)
}

func TestLabelPropagation_TerminatesWhenNoChange(t *testing.T) {
	g := buildCycle(4)
	initial := []string{"x", "x", "x", "x"}

	result, err := algorithms.LabelPropagation(g, initial, true, algorithms.TieBreakDeterministic, 20, nil, nil)
	require.NoError(t, err)
	require.Less(t, result.Steps, 20)
	for _, l := range result.Labels {
		require.Equal(t, "x", l)
	}
}
