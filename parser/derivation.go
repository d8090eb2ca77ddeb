package parser

import (
	"sort"
	"strconv"
	"strings"

	"github.com/npillmayer/lcfrs"
	"github.com/npillmayer/lcfrs/chart"
	"github.com/npillmayer/lcfrs/grammar"
)

// Derivation is a tree built from the backpointers of a goal item.
// Leaves are seed items, i.e. pre-terminals covering a single position.
type Derivation struct {
	Label    grammar.Label
	Name     string
	Span     lcfrs.Span
	Cost     float64 // inside cost
	Children []*Derivation
}

// Derivation returns the tree of the cheapest derivation found by the
// last parse. If the parser has been created with WithDebinarize(true),
// nodes of artificial labels are removed.
func (p *Parser) Derivation() (*Derivation, error) {
	if p.state != Succeeded {
		return nil, ErrNoDerivation
	}
	d := p.derive(p.goal)
	if p.debinarize {
		d.Debinarize(p.g.Dict)
	}
	return d, nil
}

func (p *Parser) derive(id chart.ItemID) *Derivation {
	it := p.arena.At(id)
	d := &Derivation{
		Label: it.Label,
		Name:  p.g.Dict.Name(it.Label),
		Span:  it.Span,
		Cost:  it.Inside,
	}
	left, right := it.Left, it.Right
	if left != chart.NoItem {
		d.Children = append(d.Children, p.derive(left))
	}
	if right != chart.NoItem {
		d.Children = append(d.Children, p.derive(right))
	}
	return d
}

// IsLeaf is true for pre-terminal nodes.
func (d *Derivation) IsLeaf() bool {
	return len(d.Children) == 0
}

// Leaves returns the positions covered by the leaves of d, in tree order.
func (d *Derivation) Leaves() []int {
	var pos []int
	d.walk(func(n *Derivation) {
		if n.IsLeaf() {
			pos = append(pos, n.Span.Positions()...)
		}
	})
	return pos
}

func (d *Derivation) walk(f func(*Derivation)) {
	f(d)
	for _, c := range d.Children {
		c.walk(f)
	}
}

// Debinarize removes nodes of artificial labels (see
// grammar.ArtificialPrefix), making their children children of the
// parent. Children are ordered by the first position they cover.
// The root is never removed.
func (d *Derivation) Debinarize(dict *grammar.Dictionary) {
	var children []*Derivation
	for _, c := range d.Children {
		c.Debinarize(dict)
		if !c.IsLeaf() && dict.IsArtificial(c.Label) {
			children = append(children, c.Children...)
		} else {
			children = append(children, c)
		}
	}
	sort.SliceStable(children, func(i, j int) bool {
		return children[i].Span.L1 < children[j].Span.L1
	})
	d.Children = children
}

// String renders d in bracket notation, with leaves showing their
// position, e.g. "(S (VP (V 1) (N 0)) (A 2))".
func (d *Derivation) String() string {
	var b strings.Builder
	d.bracket(&b)
	return b.String()
}

func (d *Derivation) bracket(b *strings.Builder) {
	b.WriteByte('(')
	b.WriteString(d.Name)
	if d.IsLeaf() {
		for _, pos := range d.Span.Positions() {
			b.WriteByte(' ')
			b.WriteString(strconv.Itoa(pos))
		}
	}
	for _, c := range d.Children {
		b.WriteByte(' ')
		c.bracket(b)
	}
	b.WriteByte(')')
}
