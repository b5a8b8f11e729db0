package wire_test

import (
	"testing"

	"github.com/katalvlaran/graphengine/store"
	"github.com/katalvlaran/graphengine/wire"
	"github.com/stretchr/testify/require"
)

func TestClassify_StateViolation(t *testing.T) {
	classified := wire.Classify(store.ErrVerticesAlreadySealed)
	require.Equal(t, wire.KindStateViolation, classified.Kind)
}

func TestClassify_BadRequestShape(t *testing.T) {
	classified := wire.Classify(store.ErrEmptyKey)
	require.Equal(t, wire.KindBadRequestShape, classified.Kind)
}

func TestClassify_UnknownErrorIsInternal(t *testing.T) {
	classified := wire.Classify(assertUnknownError{})
	require.Equal(t, wire.KindInternal, classified.Kind)
}

type assertUnknownError struct{}

func (assertUnknownError) Error() string { return "boom" }

func TestKind_HTTPStatusMapping(t *testing.T) {
	require.Equal(t, 400, wire.KindBadRequestShape.HTTPStatus())
	require.Equal(t, 404, wire.KindNotFound.HTTPStatus())
	require.Equal(t, 500, wire.KindInternal.HTTPStatus())
}
