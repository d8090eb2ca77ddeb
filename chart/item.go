package chart

import (
	"fmt"

	"github.com/npillmayer/lcfrs"
	"github.com/npillmayer/lcfrs/grammar"
)

// ItemID addresses an item within an Arena.
type ItemID int32

// NoItem is a missing backpointer.
const NoItem ItemID = -1

// Item is a partial derivation: a label spanning one or two ranges of
// the input. Total is the inside cost plus an estimate of the outside
// cost and is used as the item's priority.
//
// Seed items (pre-terminals) have neither a clause nor backpointers.
// Items of unary clauses have a left backpointer only.
type Item struct {
	Label  grammar.Label
	Span   lcfrs.Span
	Inside float64
	Total  float64
	Clause *grammar.Clause
	Left   ItemID
	Right  ItemID
}

// Key returns the chart key of an item.
func (it *Item) Key() Key {
	return KeyOf(it.Label, it.Span)
}

func (it *Item) String() string {
	return fmt.Sprintf("<%d %v | in=%.4g, tot=%.4g>", it.Label, it.Span, it.Inside, it.Total)
}

// Arena stores items and hands out indices for them. Backpointers
// are arena indices, so dropping a whole parse is a matter of resetting
// the arena.
type Arena struct {
	items []Item
}

// NewArena creates an arena with capacity for n items.
func NewArena(n int) *Arena {
	return &Arena{items: make([]Item, 0, n)}
}

// Add stores a copy of it.
func (a *Arena) Add(it Item) ItemID {
	a.items = append(a.items, it)
	return ItemID(len(a.items) - 1)
}

// At returns the item at id. The pointer is valid until the next call to
// Add or Release.
func (a *Arena) At(id ItemID) *Item {
	return &a.items[id]
}

// Release gives back the storage of id, if it is the most recently added
// item. Otherwise Release is a no-op.
func (a *Arena) Release(id ItemID) {
	if int(id) == len(a.items)-1 {
		a.items = a.items[:id]
	}
}

// Len is the number of items in the arena.
func (a *Arena) Len() int {
	return len(a.items)
}

// Reset drops all items, keeping allocated memory.
func (a *Arena) Reset() {
	a.items = a.items[:0]
}

// --- Keys ------------------------------------------------------------------

// Key packs a label and a span into a single integer.
// Every boundary occupies 10 bits, the label the remaining upper bits.
type Key uint64

// MaxPosition is the largest input position a key is able to encode.
const MaxPosition = 1<<10 - 2

// KeyOf packs label and span into a key. Span boundaries must be in
// range [-1 … MaxPosition].
func KeyOf(label grammar.Label, s lcfrs.Span) Key {
	k := Key(label)
	for _, b := range [4]int{s.L1, s.R1, s.L2, s.R2} {
		k = k<<10 | Key(b+1)
	}
	return k
}

// Label unpacks the label of a key.
func (k Key) Label() grammar.Label {
	return grammar.Label(k >> 40)
}

// Span unpacks the span of a key.
func (k Key) Span() lcfrs.Span {
	var b [4]int
	for i := 3; i >= 0; i-- {
		b[i] = int(k&(1<<10-1)) - 1
		k >>= 10
	}
	return lcfrs.Span{L1: b[0], R1: b[1], L2: b[2], R2: b[3]}
}
