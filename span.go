package lcfrs

import (
	"fmt"
	"math/bits"
)

// Unset marks the boundaries of an absent second range.
const Unset = -1

// Span is the yield of a constituent with fan-out of at most two: one or
// two half-open ranges [L1,R1) and [L2,R2) of input positions. For a
// one-range span L2 and R2 are Unset.
type Span struct {
	L1, R1 int
	L2, R2 int
}

// One creates a span of a single range [l,r).
func One(l, r int) Span {
	return Span{L1: l, R1: r, L2: Unset, R2: Unset}
}

// Two creates a span of two ranges [l1,r1) and [l2,r2).
func Two(l1, r1, l2, r2 int) Span {
	return Span{L1: l1, R1: r1, L2: l2, R2: r2}
}

// Arity is the number of ranges of s, i.e. 1 or 2.
func (s Span) Arity() int {
	if s.L2 == Unset {
		return 1
	}
	return 2
}

// Len is the number of input positions covered by s.
func (s Span) Len() int {
	if s.L2 == Unset {
		return s.R1 - s.L1
	}
	return s.R1 - s.L1 + s.R2 - s.L2
}

// Valid checks the ordering of boundaries. Ranges must not be empty,
// and two ranges must neither overlap nor touch; otherwise they would
// have to be a single range.
func (s Span) Valid() bool {
	if s.L1 < 0 || s.L1 >= s.R1 {
		return false
	}
	if s.L2 == Unset {
		return s.R2 == Unset
	}
	return s.R1 < s.L2 && s.L2 < s.R2
}

// Positions lists the input positions covered by s, in ascending order.
func (s Span) Positions() []int {
	pos := make([]int, 0, s.Len())
	for i := s.L1; i < s.R1; i++ {
		pos = append(pos, i)
	}
	if s.L2 != Unset {
		for i := s.L2; i < s.R2; i++ {
			pos = append(pos, i)
		}
	}
	return pos
}

// Pattern returns the bit-pattern signature of s.
func (s Span) Pattern() Pattern {
	if s.L2 == Unset {
		return PatternOf(s.R1 - s.L1)
	}
	return PatternOf(s.R1-s.L1, s.R2-s.L2)
}

func (s Span) String() string {
	if s.L2 == Unset {
		return fmt.Sprintf("[%d,%d)", s.L1, s.R1)
	}
	return fmt.Sprintf("[%d,%d)+[%d,%d)", s.L1, s.R1, s.L2, s.R2)
}

// --- Patterns ---------------------------------------------------------

// Pattern is a position-independent summary of a span: a run of 1-bits
// per argument, arguments separated by a single 0-bit. A leading
// sentinel bit marks the start of the pattern, making patterns of
// different widths distinct.
//
// A span [0,2)+[5,6) will have pattern 1|11 0 1.
type Pattern uint64

// MaxPatternWidth is the maximum number of positions and gaps a
// pattern is able to hold.
const MaxPatternWidth = 63

// PatternOf creates a pattern for arguments of the given lengths.
// Returns 0 if the pattern would exceed MaxPatternWidth.
func PatternOf(lengths ...int) Pattern {
	p := Pattern(1)
	w := 0
	for i, l := range lengths {
		if i > 0 {
			p <<= 1
			w++
		}
		w += l
		if w > MaxPatternWidth {
			return 0
		}
		p = p<<uint(l) | (1<<uint(l) - 1)
	}
	return p
}

// Width is the number of positions plus gaps of p.
func (p Pattern) Width() int {
	if p == 0 {
		return 0
	}
	return bits.Len64(uint64(p)) - 1
}

// Len is the number of positions covered by p.
func (p Pattern) Len() int {
	if p == 0 {
		return 0
	}
	return bits.OnesCount64(uint64(p)) - 1
}

// Args returns the lengths of the arguments of p, from left to right.
func (p Pattern) Args() []int {
	var args []int
	l := 0
	for i := p.Width() - 1; i >= 0; i-- {
		if p&(1<<uint(i)) != 0 {
			l++
		} else {
			args = append(args, l)
			l = 0
		}
	}
	return append(args, l)
}

func (p Pattern) String() string {
	if p == 0 {
		return "<none>"
	}
	b := make([]byte, 0, p.Width())
	for i := p.Width() - 1; i >= 0; i-- {
		if p&(1<<uint(i)) != 0 {
			b = append(b, '1')
		} else {
			b = append(b, '0')
		}
	}
	return string(b)
}
