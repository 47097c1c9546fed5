package profilestate

import "errors"

var (
	// ErrNotObject is returned when a target or source root is not an object.
	ErrNotObject = errors.New("document root is not an object")
	// ErrUnknownOperation is returned for an Operation outside the defined set.
	ErrUnknownOperation = errors.New("unknown operation")
	// ErrMaxDepth is returned when a source nests deeper than the engine allows.
	ErrMaxDepth = errors.New("maximum nesting depth exceeded")
	// ErrNilDocument is returned when a nil target is supplied.
	ErrNilDocument = errors.New("nil document")
)
