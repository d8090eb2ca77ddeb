package estimate

import (
	"math"

	"github.com/npillmayer/lcfrs"
	"github.com/npillmayer/lcfrs/agenda"
	"github.com/npillmayer/lcfrs/grammar"
	"github.com/pkg/errors"
)

// Length computes inside estimates with span lengths as signatures.
type Length struct{}

// Estimate runs the fixed point for g, up to span length maxlen.
func (Length) Estimate(g *grammar.Grammar, maxlen int) (*Table, error) {
	if maxlen < 1 {
		return nil, errors.Wrapf(ErrHorizon, "length estimates for maxlen=%d", maxlen)
	}
	return fixpoint(g, lengths{maxlen: maxlen}), nil
}

// Bitset computes inside estimates with argument-length patterns as
// signatures. As patterns are held in a machine word, maxlen may not
// exceed 60.
type Bitset struct{}

// MaxBitsetLen is the largest horizon for bitset estimates.
const MaxBitsetLen = lcfrs.MaxPatternWidth - 3

// Estimate runs the fixed point for g, up to span length maxlen.
func (Bitset) Estimate(g *grammar.Grammar, maxlen int) (*Table, error) {
	if maxlen < 1 || maxlen > MaxBitsetLen {
		return nil, errors.Wrapf(ErrHorizon, "bitset estimates for maxlen=%d", maxlen)
	}
	return fixpoint(g, patterns{maxlen: maxlen}), nil
}

// signatures abstracts spans for the inside fixed point.
type signatures interface {
	kind() Kind
	horizon() int
	seed() uint64
	join(c *grammar.Clause, left, right uint64) (uint64, bool)
	length(sig uint64) int
}

type lengths struct {
	maxlen int
}

func (lengths) kind() Kind { return Len }
func (sg lengths) horizon() int { return sg.maxlen }
func (lengths) seed() uint64 { return 1 }
func (lengths) length(sig uint64) int { return int(sig) }
func (sg lengths) join(c *grammar.Clause, left, right uint64) (uint64, bool) {
	if n := left + right; n <= uint64(sg.maxlen) {
		return n, true
	}
	return 0, false
}

type patterns struct {
	maxlen int
}

func (patterns) kind() Kind { return Bits }
func (sg patterns) horizon() int { return sg.maxlen }
func (patterns) seed() uint64 { return uint64(lcfrs.PatternOf(1)) }
func (patterns) length(sig uint64) int { return lcfrs.Pattern(sig).Len() }

// join splices the argument lengths of the children's patterns as
// prescribed by the clause's yield function.
func (sg patterns) join(c *grammar.Clause, left, right uint64) (uint64, bool) {
	largs, rargs := lcfrs.Pattern(left).Args(), lcfrs.Pattern(right).Args()
	_, al, ar := c.Join.Arities()
	if len(largs) != al || len(rargs) != ar {
		return 0, false
	}
	var args [2]int
	li, ri, total := 0, 0, 0
	for i, arg := range c.Yield {
		for _, fromRight := range arg {
			if fromRight {
				args[i] += rargs[ri]
				ri++
			} else {
				args[i] += largs[li]
				li++
			}
		}
		total += args[i]
	}
	if total > sg.maxlen {
		return 0, false
	}
	p := lcfrs.PatternOf(args[:len(c.Yield)]...)
	return uint64(p), p != 0
}

// fixpoint computes inside estimates by uniform-cost search over
// (label, signature) items, seeded with pre-terminals at cost 0.
// The first time an item is popped its cost is final.
func fixpoint(g *grammar.Grammar, sg signatures) *Table {
	t := newTable(sg.kind(), sg.horizon())
	ag := agenda.New()
	var keys []entryKey
	ids := make(map[entryKey]int)
	final := make(map[grammar.Label][]uint64)
	push := func(l grammar.Label, sig uint64, cost float64) {
		k := entryKey{label: l, sig: sig}
		if _, done := t.costs[k]; done {
			return
		}
		id, ok := ids[k]
		if !ok {
			id = len(keys)
			keys = append(keys, k)
			ids[k] = id
		}
		ag.Push(uint64(id), cost, id)
	}
	for _, pt := range g.Preterminals() {
		push(pt, sg.seed(), 0)
	}
	for {
		_, cost, id, ok := ag.Pop()
		if !ok {
			break
		}
		k := keys[id]
		t.set(k, sg.length(k.sig), cost)
		final[k.label] = append(final[k.label], k.sig)
		for _, c := range g.ByLeft(k.label) {
			if c.IsUnary() {
				push(c.LHS, k.sig, cost+c.Cost)
				continue
			}
			for _, rsig := range final[c.Right] {
				if p, ok := sg.join(c, k.sig, rsig); ok {
					push(c.LHS, p, cost+t.costs[entryKey{c.Right, rsig}]+c.Cost)
				}
			}
		}
		for _, c := range g.ByRight(k.label) {
			for _, lsig := range final[c.Left] {
				if p, ok := sg.join(c, lsig, k.sig); ok {
					push(c.LHS, p, t.costs[entryKey{c.Left, lsig}]+cost+c.Cost)
				}
			}
		}
	}
	tracer().Infof("%s inside estimates: %d entries, maxlen=%d; %s", t.kind, t.Size(), t.maxlen, ag)
	return t
}

// --- Table -----------------------------------------------------------------

type entryKey struct {
	label grammar.Label
	sig   uint64
}

type lengthKey struct {
	label grammar.Label
	n     int
}

// Table holds inside estimates, i.e. minimum costs per label and
// signature. Tables are read-only once computed.
type Table struct {
	kind     Kind
	maxlen   int
	costs    map[entryKey]float64
	byLength map[lengthKey]float64
}

func newTable(kind Kind, maxlen int) *Table {
	return &Table{
		kind:     kind,
		maxlen:   maxlen,
		costs:    make(map[entryKey]float64),
		byLength: make(map[lengthKey]float64),
	}
}

func (t *Table) set(k entryKey, n int, cost float64) {
	t.costs[k] = cost
	lk := lengthKey{label: k.label, n: n}
	if c, ok := t.byLength[lk]; !ok || cost < c {
		t.byLength[lk] = cost
	}
}

// Kind tells the granularity of signatures.
func (t *Table) Kind() Kind {
	return t.kind
}

// MaxLen is the horizon the table has been computed for.
func (t *Table) MaxLen() int {
	return t.maxlen
}

// Size is the number of entries.
func (t *Table) Size() int {
	return len(t.costs)
}

// Lookup returns the estimate for label and signature sig, which is a
// length or an lcfrs.Pattern, depending on the kind of the table.
// Missing entries have cost +Inf.
func (t *Table) Lookup(label grammar.Label, sig uint64) float64 {
	if c, ok := t.costs[entryKey{label: label, sig: sig}]; ok {
		return c
	}
	return math.Inf(1)
}

// LookupSpan returns the estimate for label covering s.
func (t *Table) LookupSpan(label grammar.Label, s lcfrs.Span) float64 {
	return t.Lookup(label, t.Signature(s))
}

// Signature abstracts a span according to the kind of the table.
func (t *Table) Signature(s lcfrs.Span) uint64 {
	if t.kind == Bits {
		return uint64(s.Pattern())
	}
	return uint64(s.Len())
}

// ByLength returns the minimum estimate for label over all signatures
// covering n positions. Missing entries have cost +Inf.
func (t *Table) ByLength(label grammar.Label, n int) float64 {
	if c, ok := t.byLength[lengthKey{label: label, n: n}]; ok {
		return c
	}
	return math.Inf(1)
}

// Each calls f for every entry of the table, in no particular order.
func (t *Table) Each(f func(label grammar.Label, sig uint64, cost float64)) {
	for k, c := range t.costs {
		f(k.label, k.sig, c)
	}
}
