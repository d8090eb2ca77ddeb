package parser

import (
	"github.com/npillmayer/lcfrs"
	"github.com/npillmayer/lcfrs/agenda"
	"github.com/npillmayer/lcfrs/chart"
	"github.com/npillmayer/lcfrs/grammar"
)

// Naming in this file: b is the span of the left child, c the span of the
// right child. For every join type, join checks the boundary conditions
// and builds the parent's span. Conditions are written in terms of
// half-open ranges, i.e. "C starts where B ends" is c.L1 == b.R1.

// join combines the spans of a left and a right child according to join
// type jt. For unary join types, c is ignored. ok is false if the
// children do not fit together.
func join(jt grammar.JoinType, b, c lcfrs.Span) (lcfrs.Span, bool) {
	_, al, ar := jt.Arities()
	if b.Arity() != al || (ar > 0 && c.Arity() != ar) {
		return lcfrs.Span{}, false
	}
	switch jt {
	case grammar.CopyOne, grammar.CopyTwo:
		return b, true
	case grammar.Concat: // A(XY) → B(X) C(Y)
		if c.L1 == b.R1 {
			return lcfrs.One(b.L1, c.R1), true
		}
	case grammar.Juxtapose: // A(X,Y) → B(X) C(Y)
		if c.L1 > b.R1 {
			return lcfrs.Two(b.L1, b.R1, c.L1, c.R1), true
		}
	case grammar.FillGap: // A(XYZ) → B(X,Z) C(Y)
		if c.L1 == b.R1 && c.R1 == b.L2 {
			return lcfrs.One(b.L1, b.R2), true
		}
	case grammar.AppendSecond: // A(X,YZ) → B(X,Y) C(Z)
		if c.L1 == b.R2 {
			return lcfrs.Two(b.L1, b.R1, b.L2, c.R1), true
		}
	case grammar.PrependSecond: // A(X,YZ) → B(X,Z) C(Y)
		if c.L1 > b.R1 && c.R1 == b.L2 {
			return lcfrs.Two(b.L1, b.R1, c.L1, b.R2), true
		}
	case grammar.AppendFirst: // A(XY,Z) → B(X,Z) C(Y)
		if c.L1 == b.R1 && c.R1 < b.L2 {
			return lcfrs.Two(b.L1, c.R1, b.L2, b.R2), true
		}
	case grammar.PrependFirst: // A(XY,Z) → B(X) C(Y,Z)
		if c.L1 == b.R1 {
			return lcfrs.Two(b.L1, c.R1, c.L2, c.R2), true
		}
	case grammar.Zip: // A(XY,ZU) → B(X,Z) C(Y,U)
		if c.L1 == b.R1 && c.R1 < b.L2 && c.L2 == b.R2 {
			return lcfrs.Two(b.L1, c.R1, b.L2, c.R2), true
		}
	case grammar.Nest: // A(XY,ZU) → B(X,U) C(Y,Z)
		if c.L1 == b.R1 && c.R2 == b.L2 {
			return lcfrs.Two(b.L1, c.R1, c.L2, b.R2), true
		}
	case grammar.WrapSecond: // A(X,YZU) → B(X,Z) C(Y,U)
		if c.L1 > b.R1 && c.R1 == b.L2 && c.L2 == b.R2 {
			return lcfrs.Two(b.L1, b.R1, c.L1, c.R2), true
		}
	case grammar.WrapFirst: // A(XYZ,U) → B(X,Z) C(Y,U)
		if c.L1 == b.R1 && c.R1 == b.L2 && c.L2 > b.R2 {
			return lcfrs.Two(b.L1, b.R2, c.L2, c.R2), true
		}
	case grammar.Interlock: // A(XYZU) → B(X,Z) C(Y,U)
		if c.L1 == b.R1 && c.R1 == b.L2 && c.L2 == b.R2 {
			return lcfrs.One(b.L1, c.R2), true
		}
	}
	return lcfrs.Span{}, false
}

// query describes which chart items are candidate siblings of an item.
type query struct {
	arity    int
	boundary chart.Boundary
	pos      int
}

// rightSibling returns the query for right children of clauses of join
// type jt, given the span b of the left child. Candidates still have to
// be checked with join.
func rightSibling(jt grammar.JoinType, b lcfrs.Span) query {
	switch jt {
	case grammar.Concat, grammar.FillGap, grammar.AppendFirst:
		return query{1, chart.Start, b.R1}
	case grammar.Juxtapose:
		return query{1, chart.Any, 0}
	case grammar.AppendSecond:
		return query{1, chart.Start, b.R2}
	case grammar.PrependSecond:
		return query{1, chart.End, b.L2}
	case grammar.PrependFirst, grammar.Zip, grammar.Nest, grammar.WrapFirst, grammar.Interlock:
		return query{2, chart.Start, b.R1}
	case grammar.WrapSecond:
		return query{2, chart.End, b.L2}
	}
	return query{}
}

// leftSibling returns the query for left children of clauses of join
// type jt, given the span c of the right child.
func leftSibling(jt grammar.JoinType, c lcfrs.Span) query {
	switch jt {
	case grammar.Concat, grammar.PrependFirst:
		return query{1, chart.End, c.L1}
	case grammar.Juxtapose:
		return query{1, chart.Any, 0}
	case grammar.FillGap, grammar.AppendFirst, grammar.Zip, grammar.Nest, grammar.WrapFirst,
		grammar.Interlock:
		return query{2, chart.End, c.L1}
	case grammar.AppendSecond:
		return query{2, chart.SecondEnd, c.L1}
	case grammar.PrependSecond, grammar.WrapSecond:
		return query{2, chart.SecondStart, c.R1}
	}
	return query{}
}

func (p *Parser) lookup(label grammar.Label, q query) []chart.ItemID {
	switch q.arity {
	case 1:
		return p.chart.LookupOne(label, q.boundary, q.pos)
	case 2:
		return p.chart.LookupTwo(label, q.boundary, q.pos)
	}
	return nil
}

// combine proposes all items derivable from a newly proven item and the
// items already in the chart.
func (p *Parser) combine(id chart.ItemID) error {
	it := *p.arena.At(id)
	for _, c := range p.g.ByLeft(it.Label) {
		if c.IsUnary() {
			if s, ok := join(c.Join, it.Span, lcfrs.Span{}); ok {
				if err := p.propose(c, s, id, chart.NoItem, it.Inside+c.Cost); err != nil {
					return err
				}
			}
			continue
		}
		for _, sid := range p.lookup(c.Right, rightSibling(c.Join, it.Span)) {
			sib := p.arena.At(sid)
			if s, ok := join(c.Join, it.Span, sib.Span); ok {
				if err := p.propose(c, s, id, sid, it.Inside+sib.Inside+c.Cost); err != nil {
					return err
				}
			}
		}
	}
	for _, c := range p.g.ByRight(it.Label) {
		for _, sid := range p.lookup(c.Left, leftSibling(c.Join, it.Span)) {
			sib := p.arena.At(sid)
			if s, ok := join(c.Join, sib.Span, it.Span); ok {
				if err := p.propose(c, s, sid, id, sib.Inside+it.Inside+c.Cost); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// propose pushes a candidate item onto the agenda, unless it has already
// been proven. A cheaper candidate replaces a queued one in place.
func (p *Parser) propose(c *grammar.Clause, s lcfrs.Span, left, right chart.ItemID, inside float64) error {
	cand := chart.Item{
		Label:  c.LHS,
		Span:   s,
		Inside: inside,
		Clause: c,
		Left:   left,
		Right:  right,
	}
	if !s.Valid() {
		tracer().Errorf("invalid span %v from clause %s", s, c.Format(p.g.Dict))
		return &InvariantError{Item: cand, Clause: c, Reason: "malformed span"}
	}
	if p.chart.Contains(c.LHS, s) {
		return nil
	}
	cand.Total = inside + p.h.Estimate(c.LHS, s, p.n)
	p.enqueue(cand)
	return nil
}

func (p *Parser) enqueue(cand chart.Item) {
	id := p.arena.Add(cand)
	out, stored := p.ag.Push(uint64(cand.Key()), cand.Total, int(id))
	switch out {
	case agenda.Ignored:
		p.arena.Release(id)
	case agenda.Improved:
		*p.arena.At(chart.ItemID(stored)) = cand
		p.arena.Release(id)
	}
	if p.trace {
		tracer().P("push", out).Debugf("%s %v in=%.4g tot=%.4g", p.g.Dict.Name(cand.Label),
			cand.Span, cand.Inside, cand.Total)
	}
}
