package wire

import (
	"errors"
	"net/http"

	"github.com/katalvlaran/graphengine/algorithms"
	"github.com/katalvlaran/graphengine/store"
)

// Kind is the closed set of error categories shared by both the binary
// and JSON HTTP surfaces (spec.md §7). It is a classification, not a
// wrapped error hierarchy: internal packages keep returning their own
// sentinel errors, and api/ classifies them into a Kind only at the
// response boundary.
type Kind int

const (
	KindBadRequestShape Kind = iota
	KindNotFound
	KindStateViolation
	KindUpstream
	KindJobNotReady
	KindUnknownAlgorithm
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindBadRequestShape:
		return "BadRequestShape"
	case KindNotFound:
		return "NotFound"
	case KindStateViolation:
		return "StateViolation"
	case KindUpstream:
		return "Upstream"
	case KindJobNotReady:
		return "JobNotReady"
	case KindUnknownAlgorithm:
		return "UnknownAlgorithm"
	default:
		return "Internal"
	}
}

// HTTPStatus maps a Kind to the REST status convention spec.md §7 names.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindBadRequestShape:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindStateViolation:
		return http.StatusBadRequest
	case KindUpstream:
		return http.StatusServiceUnavailable
	case KindJobNotReady:
		return http.StatusServiceUnavailable
	case KindUnknownAlgorithm:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error is the classified error carried across the HTTP boundary: a
// Kind, a human-readable message, and (Upstream only) the source
// database's own status code.
type Error struct {
	Kind           Kind
	Message        string
	UpstreamStatus int
	UpstreamCode   string
}

func (e *Error) Error() string { return e.Message }

// New constructs a classified Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Upstream constructs a KindUpstream Error preserving the source
// database's status code and message (spec.md §7).
func Upstream(status int, code, message string) *Error {
	return &Error{Kind: KindUpstream, Message: message, UpstreamStatus: status, UpstreamCode: code}
}

// Classify maps an internal sentinel error to its wire Kind, per
// spec.md §7's StateViolation/NotFound/UnknownAlgorithm groupings. An
// error already of type *Error passes through unchanged. Anything
// unrecognised classifies as KindInternal.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	switch {
	case errors.Is(err, store.ErrVerticesAlreadySealed),
		errors.Is(err, store.ErrVerticesNotSealed),
		errors.Is(err, store.ErrEdgesAlreadySealed),
		errors.Is(err, store.ErrEdgesNotSealed),
		errors.Is(err, store.ErrMissingFromIndex),
		errors.Is(err, store.ErrMissingToIndex),
		errors.Is(err, store.ErrUnknownColumn),
		errors.Is(err, store.ErrKeysNotStored),
		errors.Is(err, store.ErrGraphDropped),
		errors.Is(err, algorithms.ErrMissingColumn):
		return New(KindStateViolation, err.Error())

	case errors.Is(err, store.ErrEmptyKey),
		errors.Is(err, store.ErrColumnCountMismatch),
		errors.Is(err, store.ErrVertexIndexOutOfRange):
		return New(KindBadRequestShape, err.Error())

	case errors.Is(err, store.ErrDanglingEdge):
		return New(KindBadRequestShape, err.Error())

	default:
		return New(KindInternal, err.Error())
	}
}
