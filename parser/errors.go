package parser

import (
	"fmt"

	"github.com/npillmayer/lcfrs/chart"
	"github.com/npillmayer/lcfrs/grammar"
	"github.com/pkg/errors"
)

// Errors returned by parsers. A failed search ("no parse") is not an error.
var (
	ErrInvariant        = errors.New("internal invariant violated")
	ErrPopLimit         = errors.New("maximum number of agenda pops exceeded")
	ErrSentenceTooLong  = errors.New("sentence length out of range")
	ErrState            = errors.New("parser not ready")
	ErrNoDerivation     = errors.New("no derivation available")
	ErrUnknownWordOrTag = errors.New("unknown word or tag")
)

// InvariantError reports an item violating the ordering of its ranges,
// or an item proven twice. This indicates an error in grammar compilation
// or clause classification, not a property of the input. It fails the
// current parse only.
type InvariantError struct {
	Item   chart.Item
	Clause *grammar.Clause // nil for seed items
	Reason string
}

func (e *InvariantError) Error() string {
	if e.Clause == nil {
		return fmt.Sprintf("%v: %s for item %v", ErrInvariant, e.Reason, &e.Item)
	}
	return fmt.Sprintf("%v: %s for item %v from clause #%d (%s)", ErrInvariant, e.Reason,
		&e.Item, e.Clause.ID, e.Clause.Join)
}

// Cause makes InvariantError work with errors.Cause.
func (e *InvariantError) Cause() error {
	return ErrInvariant
}

// Unwrap makes InvariantError work with errors.Is.
func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}
