/*
Package agenda implements a priority queue with decrease-key.

An agenda holds at most one entry per key. Pushing a key which is already
queued will lower its priority in place, if the new priority is better,
and will be a no-op otherwise. Entries carry an opaque integer value,
usually an index into an arena of items held by the client.

Ties are broken by order of insertion, making pop order deterministic.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package agenda

import (
	"container/heap"
	"fmt"
)

// Outcome tells what a push did to the agenda.
type Outcome int8

// Outcomes of Push.
const (
	Ignored  Outcome = iota // key present with equal or better priority
	Inserted                // new entry
	Improved                // priority of an existing entry decreased
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Improved:
		return "improved"
	}
	return "ignored"
}

type entry struct {
	key   uint64
	prio  float64
	value int
	seq   uint64
	pos   int // position in heap
}

// Agenda is a min-queue of keyed entries. The zero value is not usable,
// clients have to call New.
type Agenda struct {
	heap    entries
	index   map[uint64]*entry
	seq     uint64
	maxSize int
	pushes  int
}

// New creates an empty agenda.
func New() *Agenda {
	return &Agenda{index: make(map[uint64]*entry)}
}

// Push enqueues value with key and priority prio.
// If key is already queued with a priority not worse than prio, nothing
// happens. If the new priority is better, the entry's priority is
// decreased, and value has to replace the value stored with the entry,
// which is the second return value.
//
// For inserts and no-ops, the stored value returned is the current value
// of the entry.
func (a *Agenda) Push(key uint64, prio float64, value int) (Outcome, int) {
	a.pushes++
	if e, ok := a.index[key]; ok {
		if prio >= e.prio {
			return Ignored, e.value
		}
		e.prio = prio
		heap.Fix(&a.heap, e.pos)
		return Improved, e.value
	}
	e := &entry{key: key, prio: prio, value: value, seq: a.seq}
	a.seq++
	heap.Push(&a.heap, e)
	a.index[key] = e
	if len(a.heap) > a.maxSize {
		a.maxSize = len(a.heap)
	}
	return Inserted, value
}

// Pop removes the entry with the lowest priority. ok is false if the
// agenda is empty.
func (a *Agenda) Pop() (key uint64, prio float64, value int, ok bool) {
	if len(a.heap) == 0 {
		return 0, 0, 0, false
	}
	e := heap.Pop(&a.heap).(*entry)
	delete(a.index, e.key)
	return e.key, e.prio, e.value, true
}

// Peek returns the priority of the top entry without removing it.
func (a *Agenda) Peek() (float64, bool) {
	if len(a.heap) == 0 {
		return 0, false
	}
	return a.heap[0].prio, true
}

// Priority returns the priority of a queued key.
func (a *Agenda) Priority(key uint64) (float64, bool) {
	if e, ok := a.index[key]; ok {
		return e.prio, true
	}
	return 0, false
}

// Len is the number of queued entries.
func (a *Agenda) Len() int {
	return len(a.heap)
}

// MaxSize is the maximum number of entries queued at any time since the
// last reset.
func (a *Agenda) MaxSize() int {
	return a.maxSize
}

// Pushes counts calls to Push since the last reset, including no-ops.
func (a *Agenda) Pushes() int {
	return a.pushes
}

// Reset empties the agenda and clears its statistics. Memory already
// allocated is kept for re-use.
func (a *Agenda) Reset() {
	for i := range a.heap {
		a.heap[i] = nil
	}
	a.heap = a.heap[:0]
	for k := range a.index {
		delete(a.index, k)
	}
	a.seq, a.maxSize, a.pushes = 0, 0, 0
}

func (a *Agenda) String() string {
	return fmt.Sprintf("agenda: max size %d, pushes %d", a.maxSize, a.pushes)
}

// --- heap.Interface --------------------------------------------------------

type entries []*entry

func (h entries) Len() int { return len(h) }

func (h entries) Less(i, j int) bool {
	if h[i].prio == h[j].prio {
		return h[i].seq < h[j].seq
	}
	return h[i].prio < h[j].prio
}

func (h entries) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].pos = i
	h[j].pos = j
}

func (h *entries) Push(x interface{}) {
	e := x.(*entry)
	e.pos = len(*h)
	*h = append(*h, e)
}

func (h *entries) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}
