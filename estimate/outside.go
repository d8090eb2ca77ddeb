package estimate

import (
	"math"

	"github.com/npillmayer/lcfrs"
	"github.com/npillmayer/lcfrs/agenda"
	"github.com/npillmayer/lcfrs/grammar"
)

// Outside holds outside estimates per label, sentence length and number of
// covered positions. It is computed from an inside table and implements
// Heuristic.
type Outside struct {
	maxlen  int
	nlabels int
	costs   []float64
}

// NewOutside computes outside estimates for g from an inside table.
// The horizon is the inside table's maximum length.
//
// The fixed point is seeded with the start symbol covering a full sentence
// at cost 0, for every sentence length. Popping (A, m, n) with cost o then
// proposes, for every clause A → B C and every split n = nB + nC,
// (B, m, nB) with cost o + inside(C, nC) + cost of the clause, and
// symmetrically for C. Unary clauses propagate o plus the clause cost.
func NewOutside(g *grammar.Grammar, inside *Table) *Outside {
	o := &Outside{
		maxlen:  inside.MaxLen(),
		nlabels: g.Dict.Size(),
	}
	o.costs = make([]float64, o.nlabels*(o.maxlen+1)*(o.maxlen+1))
	for i := range o.costs {
		o.costs[i] = math.Inf(1)
	}
	done := make([]bool, len(o.costs))
	ag := agenda.New()
	push := func(l grammar.Label, m, n int, cost float64) {
		if math.IsInf(cost, 1) {
			return
		}
		if i := o.index(l, m, n); !done[i] {
			ag.Push(uint64(i), cost, i)
		}
	}
	for m := 1; m <= o.maxlen; m++ {
		push(g.Start(), m, m, 0)
	}
	for {
		_, cost, i, ok := ag.Pop()
		if !ok {
			break
		}
		done[i] = true
		o.costs[i] = cost
		l, m, n := o.unpack(i)
		for _, c := range g.ByLHS(l) {
			if c.IsUnary() {
				push(c.Left, m, n, cost+c.Cost)
				continue
			}
			al, ar := g.Arity(c.Left), g.Arity(c.Right)
			for nl := al; nl <= n-ar; nl++ {
				nr := n - nl
				push(c.Left, m, nl, cost+inside.ByLength(c.Right, nr)+c.Cost)
				push(c.Right, m, nr, cost+inside.ByLength(c.Left, nl)+c.Cost)
			}
		}
	}
	tracer().Infof("outside estimates for %d labels, maxlen=%d; %s", o.nlabels, o.maxlen, ag)
	return o
}

func (o *Outside) index(l grammar.Label, m, n int) int {
	return (int(l)*(o.maxlen+1)+m)*(o.maxlen+1) + n
}

func (o *Outside) unpack(i int) (grammar.Label, int, int) {
	n := i % (o.maxlen + 1)
	i /= o.maxlen + 1
	m := i % (o.maxlen + 1)
	return grammar.Label(i / (o.maxlen + 1)), m, n
}

// MaxLen is the horizon of the estimates.
func (o *Outside) MaxLen() int {
	return o.maxlen
}

// Lookup returns the outside estimate for label covering n positions of
// a sentence of length m. For sentences longer than the horizon, or for
// labels created after the estimates, no estimate is known and Lookup
// returns 0. Unreachable entries are +Inf.
func (o *Outside) Lookup(label grammar.Label, m, n int) float64 {
	if m > o.maxlen || m < 1 || int(label) < 0 || int(label) >= o.nlabels {
		return 0
	}
	if n < 1 || n > m {
		return math.Inf(1)
	}
	return o.costs[o.index(label, m, n)]
}

// Estimate is part of interface Heuristic.
func (o *Outside) Estimate(label grammar.Label, s lcfrs.Span, n int) float64 {
	return o.Lookup(label, n, s.Len())
}
