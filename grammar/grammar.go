package grammar

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/pkg/errors"
)

// Grammar is a binary grammar with fan-out of at most two. Clauses are
// indexed by their children and by their left hand side.
//
// A grammar is built incrementally, but must not be modified any more
// once estimates have been computed for it or parsers are using it.
// From then on it is safe for concurrent use.
type Grammar struct {
	Dict         *Dictionary
	start        Label
	clauses      []*Clause
	byLeft       map[Label][]*Clause
	byRight      map[Label][]*Clause
	byLHS        map[Label][]*Clause
	arity        map[Label]int
	preterminals map[Label]bool
	dedup        map[clauseKey]*Clause
}

// New creates an empty grammar with start symbol start.
func New(start string) *Grammar {
	g := &Grammar{
		Dict:         NewDictionary(),
		byLeft:       make(map[Label][]*Clause),
		byRight:      make(map[Label][]*Clause),
		byLHS:        make(map[Label][]*Clause),
		arity:        make(map[Label]int),
		preterminals: make(map[Label]bool),
		dedup:        make(map[clauseKey]*Clause),
	}
	g.start = g.Dict.Intern(start)
	g.arity[g.start] = 1
	return g
}

// Start returns the start symbol.
func (g *Grammar) Start() Label {
	return g.start
}

// Label looks up a label by name.
func (g *Grammar) Label(name string) (Label, error) {
	if l, ok := g.Dict.Lookup(name); ok {
		return l, nil
	}
	return NoLabel, errors.Wrapf(ErrUnknownLabel, "%q", name)
}

// AddPreterminal registers a POS tag. Pre-terminals always have arity 1.
func (g *Grammar) AddPreterminal(name string) (Label, error) {
	l := g.Dict.Intern(name)
	if err := g.checkArity(l, 1); err != nil {
		return NoLabel, err
	}
	g.arity[l] = 1
	g.preterminals[l] = true
	return l, nil
}

// IsPreterminal is true for registered POS tags.
func (g *Grammar) IsPreterminal(l Label) bool {
	return g.preterminals[l]
}

// Preterminals returns all registered POS tags in ascending order.
func (g *Grammar) Preterminals() []Label {
	pts := make([]Label, 0, len(g.preterminals))
	for l := range g.preterminals {
		pts = append(pts, l)
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i] < pts[j] })
	return pts
}

// AddClause classifies and inserts a clause. For unary clauses right has
// to be empty. If an identical clause is already present, the cheaper
// cost is kept and the existing clause is returned.
func (g *Grammar) AddClause(lhs, left, right string, yf YieldFunction, cost float64) (*Clause, error) {
	if cost < 0 || math.IsNaN(cost) {
		return nil, errors.Wrapf(ErrNegativeCost, "clause for %s", lhs)
	}
	unary := right == ""
	jt, err := Classify(yf, unary)
	if err != nil {
		tracer().Errorf("cannot classify clause %s → %s %s: %v", lhs, left, right, err)
		return nil, errors.Wrapf(err, "clause for %s", lhs)
	}
	c := &Clause{
		LHS:   g.Dict.Intern(lhs),
		Left:  g.Dict.Intern(left),
		Right: NoLabel,
		Yield: yf,
		Cost:  cost,
		Join:  jt,
	}
	if !unary {
		c.Right = g.Dict.Intern(right)
	}
	a, al, ar := jt.Arities()
	arities := []labelArity{{c.LHS, a}, {c.Left, al}}
	if !unary {
		arities = append(arities, labelArity{c.Right, ar})
	}
	pending := make(map[Label]int, 3)
	for _, la := range arities {
		if err := g.checkArity(la.l, la.a); err != nil {
			return nil, err
		}
		if p, ok := pending[la.l]; ok && p != la.a {
			return nil, errors.Wrapf(ErrArityMismatch, "label %s used with arities %d and %d",
				g.Dict.Name(la.l), p, la.a)
		}
		pending[la.l] = la.a
	}
	for l, a := range pending {
		g.arity[l] = a
	}
	if prev, ok := g.dedup[c.key()]; ok {
		if cost < prev.Cost {
			prev.Cost = cost
		}
		return prev, nil
	}
	c.ID = len(g.clauses)
	g.clauses = append(g.clauses, c)
	g.dedup[c.key()] = c
	g.byLeft[c.Left] = append(g.byLeft[c.Left], c)
	if !unary {
		g.byRight[c.Right] = append(g.byRight[c.Right], c)
	}
	g.byLHS[c.LHS] = append(g.byLHS[c.LHS], c)
	tracer().P("join", jt).Debugf("added clause %s", c.Format(g.Dict))
	return c, nil
}

type labelArity struct {
	l Label
	a int
}

func (g *Grammar) checkArity(l Label, a int) error {
	if have, ok := g.arity[l]; ok && have != a {
		return errors.Wrapf(ErrArityMismatch, "label %s has arity %d, used with %d",
			g.Dict.Name(l), have, a)
	}
	return nil
}

// Arity returns the number of arguments of a label, or 0 for unknown labels.
func (g *Grammar) Arity(l Label) int {
	return g.arity[l]
}

// Clauses returns all clauses, ordered by ID.
func (g *Grammar) Clauses() []*Clause {
	return g.clauses
}

// ByLeft returns all clauses with l as their left (or only) child.
func (g *Grammar) ByLeft(l Label) []*Clause {
	return g.byLeft[l]
}

// ByRight returns all binary clauses with l as their right child.
func (g *Grammar) ByRight(l Label) []*Clause {
	return g.byRight[l]
}

// ByLHS returns all clauses with l as their left hand side.
func (g *Grammar) ByLHS(l Label) []*Clause {
	return g.byLHS[l]
}

// Stats counts clauses per join type.
func (g *Grammar) Stats() *Stats {
	m := treemap.NewWith(utils.IntComparator)
	for _, c := range g.clauses {
		n := 0
		if v, ok := m.Get(int(c.Join)); ok {
			n = v.(int)
		}
		m.Put(int(c.Join), n+1)
	}
	return &Stats{counts: m, labels: g.Dict.Size(), preterminals: len(g.preterminals)}
}

// Stats is a summary of a grammar.
type Stats struct {
	counts       *treemap.Map
	labels       int
	preterminals int
}

// Count returns the number of clauses of join type jt.
func (s *Stats) Count(jt JoinType) int {
	if v, ok := s.counts.Get(int(jt)); ok {
		return v.(int)
	}
	return 0
}

func (s *Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d labels, %d pre-terminals; clauses by join type:", s.labels, s.preterminals)
	it := s.counts.Iterator()
	for it.Next() {
		fmt.Fprintf(&b, " %s=%d", JoinType(it.Key().(int)), it.Value().(int))
	}
	return b.String()
}
