package grammar

import (
	"fmt"
	"strings"
)

// YieldFunction tells for every argument of a clause's left hand side
// which child each of its variables comes from: false for the left
// child, true for the right child.
//
//	A(X Y, Z) → B(X, Z) C(Y)   has yield function [[false true] [false]]
type YieldFunction [][]bool

// Arity is the number of arguments of the left hand side.
func (yf YieldFunction) Arity() int {
	return len(yf)
}

// ChildArities counts the variables stemming from the left and the
// right child.
func (yf YieldFunction) ChildArities() (left, right int) {
	for _, arg := range yf {
		for _, fromRight := range arg {
			if fromRight {
				right++
			} else {
				left++
			}
		}
	}
	return
}

func (yf YieldFunction) shape() string {
	var b strings.Builder
	for i, arg := range yf {
		if i > 0 {
			b.WriteByte('|')
		}
		for _, fromRight := range arg {
			if fromRight {
				b.WriteByte('R')
			} else {
				b.WriteByte('L')
			}
		}
	}
	return b.String()
}

func (yf YieldFunction) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, arg := range yf {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('[')
		for j, fromRight := range arg {
			if j > 0 {
				b.WriteByte(',')
			}
			if fromRight {
				b.WriteByte('1')
			} else {
				b.WriteByte('0')
			}
		}
		b.WriteByte(']')
	}
	b.WriteByte(']')
	return b.String()
}

// Clause is a weighted binary clause. Right is NoLabel for unary clauses.
// Clauses are immutable once they are part of a grammar.
type Clause struct {
	ID    int
	LHS   Label
	Left  Label
	Right Label
	Yield YieldFunction
	Cost  float64 // non-negative, usually a negative log-probability
	Join  JoinType
}

// IsUnary is true for clauses with a single child.
func (c *Clause) IsUnary() bool {
	return c.Right == NoLabel
}

// Format returns a clause in sRCG notation, using label names from d.
func (c *Clause) Format(d *Dictionary) string {
	vars := "XYZUVW"
	var lhs, left, right []string
	var l, r []byte
	n := 0
	for _, arg := range c.Yield {
		var a []byte
		for _, fromRight := range arg {
			v := vars[n%len(vars)]
			n++
			a = append(a, v)
			if fromRight {
				r = append(r, v)
			} else {
				l = append(l, v)
			}
		}
		lhs = append(lhs, string(a))
	}
	for _, v := range l {
		left = append(left, string(v))
	}
	for _, v := range r {
		right = append(right, string(v))
	}
	s := fmt.Sprintf("%s(%s) → %s(%s)", d.Name(c.LHS), strings.Join(lhs, ","),
		d.Name(c.Left), strings.Join(left, ","))
	if !c.IsUnary() {
		s += fmt.Sprintf(" %s(%s)", d.Name(c.Right), strings.Join(right, ","))
	}
	return s + fmt.Sprintf(" @ %g", c.Cost)
}

type clauseKey struct {
	lhs, left, right Label
	shape            string
}

func (c *Clause) key() clauseKey {
	return clauseKey{lhs: c.LHS, left: c.Left, right: c.Right, shape: c.Yield.shape()}
}

// YieldOf creates a yield function from a shape string, using 'L' for
// variables of the left child, 'R' for variables of the right child, and
// '|' as an argument separator, e.g. "LR|L" for A(XY,Z) → B(X,Z) C(Y).
// Other characters are ignored.
func YieldOf(shape string) YieldFunction {
	yf := YieldFunction{[]bool{}}
	for _, ch := range shape {
		switch ch {
		case 'L':
			yf[len(yf)-1] = append(yf[len(yf)-1], false)
		case 'R':
			yf[len(yf)-1] = append(yf[len(yf)-1], true)
		case '|':
			yf = append(yf, []bool{})
		}
	}
	return yf
}
