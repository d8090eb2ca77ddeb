/*
Package grammar represents binary grammars with a fan-out of at most two.

Clauses are written in sRCG notation, where every argument of the left
hand side predicate is a concatenation of variables from the children:

	A(X Y, Z) → B(X, Z) C(Y)

A clause's yield function records, for every variable of the left hand
side, whether it stems from the left or from the right child. Variables
of a child are consumed in order, i.e. the i-th variable of the left
child in the yield function is the i-th argument of the left child.

On insertion, every clause is classified into one of 14 join types
(see type JoinType). A join type determines which boundaries of the
children's ranges have to meet, and how the parent's ranges are built.
Grammars for which classification fails cannot be handled by the
fan-out-two parser.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package grammar

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces to a global core tracer
func tracer() tracing.Trace {
	return gtrace.CoreTracer
}
