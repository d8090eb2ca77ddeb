/*
Package estimate computes context-summary estimates for A* parsing.

Estimates are computed once per grammar and a maximum sentence length,
independently of any input. They are read-only afterwards and may be
shared between parsers running concurrently.

Inside estimates

An inside estimator runs a uniform-cost fixed point over items of the
form (label, signature), where a signature abstracts from concrete input
positions. Estimator Length uses the number of positions covered as
signature, estimator Bitset uses a bit-pattern of the argument lengths
(see lcfrs.Pattern). The resulting Table holds, for every reachable
(label, signature), the minimum cost of any derivation of label with
that signature. Combinations exceeding the maximum length are not
considered.

Outside estimates

The parser's priority needs a lower bound of the cost still to come.
Outside, modelled after the SX estimate with sentence length and span
length, derives this bound from an inside table: for a label covering
n positions of a sentence of length m, it is the cheapest way to
complete the label to the start symbol covering m positions, where the
material added is accounted for by its inside estimate.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package estimate

import (
	"strings"

	"github.com/npillmayer/lcfrs"
	"github.com/npillmayer/lcfrs/grammar"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pkg/errors"
)

// tracer traces to a global core tracer
func tracer() tracing.Trace {
	return gtrace.CoreTracer
}

// Errors of this package.
var (
	ErrHorizon = errors.New("invalid maximum length for estimates")
	ErrKind    = errors.New("unknown kind of estimates")
)

// Kind selects the granularity of estimates.
type Kind string

// Kinds of estimates.
const (
	Off    Kind = "off"    // no estimates; parsing degrades to uniform-cost search
	Len    Kind = "length" // signatures are span lengths
	Bits   Kind = "bitset" // signatures are argument-length patterns
	noKind Kind = ""
)

// ParseKind checks a name for a kind of estimates.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Off, Len, Bits:
		return k, nil
	}
	return noKind, errors.Wrapf(ErrKind, "%q", s)
}

// Estimator computes inside estimates for a grammar, up to a maximum
// span length.
type Estimator interface {
	Estimate(g *grammar.Grammar, maxlen int) (*Table, error)
}

// Heuristic is consulted by the parser for every item it creates. It
// returns a lower bound of the outside cost of label covering span s
// of a sentence of length n.
type Heuristic interface {
	Estimate(label grammar.Label, s lcfrs.Span, n int) float64
}

// Zero is the trivial heuristic.
type Zero struct{}

// Estimate returns 0.
func (Zero) Estimate(grammar.Label, lcfrs.Span, int) float64 {
	return 0
}

// Build computes a heuristic of the given kind for g.
func Build(g *grammar.Grammar, kind Kind, maxlen int) (Heuristic, error) {
	var est Estimator
	switch kind {
	case Off:
		return Zero{}, nil
	case Len:
		est = Length{}
	case Bits:
		est = Bitset{}
	default:
		return nil, errors.Wrapf(ErrKind, "%q", kind)
	}
	inside, err := est.Estimate(g, maxlen)
	if err != nil {
		return nil, err
	}
	return NewOutside(g, inside), nil
}
