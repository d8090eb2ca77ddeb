package grammar

import "github.com/pkg/errors"

// Errors reported while building a grammar. Clients should test for them
// with errors.Cause, as they will usually be wrapped with context.
var (
	ErrUnsupportedShape = errors.New("unsupported grammar shape")
	ErrArityMismatch    = errors.New("label used with inconsistent arity")
	ErrUnknownLabel     = errors.New("unknown label")
	ErrNegativeCost     = errors.New("cost must not be negative")
)
