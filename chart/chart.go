/*
Package chart holds the items of a parse.

Items live in an Arena and are addressed by index. A Chart records which
items have been proven, and indexes them by label and by the boundaries
of their ranges, as needed to find siblings for each join type.

Proven items are never revised. A chart is not safe for concurrent
mutation; every parser owns a chart of its own.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package chart

import (
	"github.com/npillmayer/lcfrs"
	"github.com/npillmayer/lcfrs/grammar"
	"github.com/pkg/errors"
)

// ErrDuplicate is returned when an item is inserted twice.
var ErrDuplicate = errors.New("item already in chart")

// Boundary selects one of the four boundaries of a span for lookup.
type Boundary uint8

// Boundaries of spans. Any selects all items of a label.
const (
	Any         Boundary = iota
	Start                // start of the first range
	End                  // end of the first range
	SecondStart          // start of the second range
	SecondEnd            // end of the second range
)

func (b Boundary) of(s lcfrs.Span) int {
	switch b {
	case Start:
		return s.L1
	case End:
		return s.R1
	case SecondStart:
		return s.L2
	case SecondEnd:
		return s.R2
	}
	return lcfrs.Unset
}

func (b Boundary) String() string {
	switch b {
	case Start:
		return "start"
	case End:
		return "end"
	case SecondStart:
		return "second-start"
	case SecondEnd:
		return "second-end"
	}
	return "any"
}

type indexKey struct {
	label    grammar.Label
	arity    int8
	boundary Boundary
	pos      int32
}

// Chart holds proven items.
type Chart struct {
	arena *Arena
	items map[Key]ItemID
	index map[indexKey][]ItemID
}

// New creates a chart for items of arena a.
func New(a *Arena) *Chart {
	return &Chart{
		arena: a,
		items: make(map[Key]ItemID),
		index: make(map[indexKey][]ItemID),
	}
}

// Insert marks an item as proven. Every (label, span) may be inserted
// only once.
func (c *Chart) Insert(id ItemID) error {
	it := c.arena.At(id)
	key := it.Key()
	if _, ok := c.items[key]; ok {
		return errors.Wrapf(ErrDuplicate, "%v", it)
	}
	c.items[key] = id
	arity := int8(it.Span.Arity())
	c.add(indexKey{label: it.Label, arity: arity, boundary: Any}, id)
	last := End
	if arity == 2 {
		last = SecondEnd
	}
	for b := Start; b <= last; b++ {
		c.add(indexKey{label: it.Label, arity: arity, boundary: b, pos: int32(b.of(it.Span))}, id)
	}
	return nil
}

func (c *Chart) add(k indexKey, id ItemID) {
	c.index[k] = append(c.index[k], id)
}

// Get returns the proven item for label and span, if any.
func (c *Chart) Get(label grammar.Label, s lcfrs.Span) (ItemID, bool) {
	id, ok := c.items[KeyOf(label, s)]
	return id, ok
}

// Contains is true if an item for label and span has been proven.
func (c *Chart) Contains(label grammar.Label, s lcfrs.Span) bool {
	_, ok := c.items[KeyOf(label, s)]
	return ok
}

// LookupOne returns all one-range items of label with boundary b at
// position pos. Valid boundaries are Start, End and Any (ignoring pos).
// The result must not be modified.
func (c *Chart) LookupOne(label grammar.Label, b Boundary, pos int) []ItemID {
	return c.lookup(label, 1, b, pos)
}

// LookupTwo returns all two-range items of label with boundary b at
// position pos. With b = Any, pos is ignored.
// The result must not be modified.
func (c *Chart) LookupTwo(label grammar.Label, b Boundary, pos int) []ItemID {
	return c.lookup(label, 2, b, pos)
}

func (c *Chart) lookup(label grammar.Label, arity int8, b Boundary, pos int) []ItemID {
	if b == Any {
		pos = 0
	}
	return c.index[indexKey{label: label, arity: arity, boundary: b, pos: int32(pos)}]
}

// Size is the number of proven items.
func (c *Chart) Size() int {
	return len(c.items)
}

// Each calls f for every proven item, in no particular order.
func (c *Chart) Each(f func(ItemID, *Item)) {
	for _, id := range c.items {
		f(id, c.arena.At(id))
	}
}

// Reset empties the chart. The arena is not touched.
func (c *Chart) Reset() {
	for k := range c.items {
		delete(c.items, k)
	}
	for k := range c.index {
		delete(c.index, k)
	}
}
