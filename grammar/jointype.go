package grammar

import (
	"strings"

	"github.com/pkg/errors"
)

// JoinType classifies a clause by the way the ranges of its children are
// stitched together to form the ranges of the parent. In the comments
// below, B is the left child and C is the right child.
type JoinType uint8

// The join types. Their numeric values are stable.
const (
	NoJoin        JoinType = iota
	CopyOne                // A(X) → B(X)
	CopyTwo                // A(X,Y) → B(X,Y)
	Concat                 // A(XY) → B(X) C(Y)
	Juxtapose              // A(X,Y) → B(X) C(Y)
	FillGap                // A(XYZ) → B(X,Z) C(Y)
	AppendSecond           // A(X,YZ) → B(X,Y) C(Z)
	PrependSecond          // A(X,YZ) → B(X,Z) C(Y)
	AppendFirst            // A(XY,Z) → B(X,Z) C(Y)
	PrependFirst           // A(XY,Z) → B(X) C(Y,Z)
	Zip                    // A(XY,ZU) → B(X,Z) C(Y,U)
	Nest                   // A(XY,ZU) → B(X,U) C(Y,Z)
	WrapSecond             // A(X,YZU) → B(X,Z) C(Y,U)
	WrapFirst              // A(XYZ,U) → B(X,Z) C(Y,U)
	Interlock              // A(XYZU) → B(X,Z) C(Y,U)
)

// JoinTypeCount is the number of join types, not counting NoJoin.
const JoinTypeCount = 14

// shapes holds the yield function of each join type, written with 'L'
// for variables of the left child, 'R' for variables of the right child,
// and '|' between arguments.
var shapes = [...]string{
	NoJoin:        "",
	CopyOne:       "L",
	CopyTwo:       "L|L",
	Concat:        "LR",
	Juxtapose:     "L|R",
	FillGap:       "LRL",
	AppendSecond:  "L|LR",
	PrependSecond: "L|RL",
	AppendFirst:   "LR|L",
	PrependFirst:  "LR|R",
	Zip:           "LR|LR",
	Nest:          "LR|RL",
	WrapSecond:    "L|RLR",
	WrapFirst:     "LRL|R",
	Interlock:     "LRLR",
}

var joinTypeByShape map[string]JoinType

func init() {
	joinTypeByShape = make(map[string]JoinType, JoinTypeCount)
	for jt := CopyOne; jt <= Interlock; jt++ {
		joinTypeByShape[shapes[jt]] = jt
	}
}

// Classify determines the join type for a yield function.
// Yield functions which are not in the closed set of fan-out-two shapes
// result in an error wrapping ErrUnsupportedShape. This includes
// yield functions where the right child's variables precede the left
// child's, as binarization is expected to produce left-first clauses.
func Classify(yf YieldFunction, unary bool) (JoinType, error) {
	shape := yf.shape()
	jt, ok := joinTypeByShape[shape]
	if !ok {
		return NoJoin, errors.Wrapf(ErrUnsupportedShape, "yield function %s", yf)
	}
	if jt.IsUnary() != unary {
		if unary {
			return NoJoin, errors.Wrapf(ErrUnsupportedShape, "yield function %s for unary clause", yf)
		}
		return NoJoin, errors.Wrapf(ErrUnsupportedShape, "yield function %s for binary clause", yf)
	}
	return jt, nil
}

// IsUnary is true for the copy-up join types.
func (jt JoinType) IsUnary() bool {
	return jt == CopyOne || jt == CopyTwo
}

// Arities returns the number of arguments of the parent, the left child
// and the right child, respectively.
func (jt JoinType) Arities() (lhs, left, right int) {
	if jt == NoJoin || int(jt) >= len(shapes) {
		return 0, 0, 0
	}
	s := shapes[jt]
	return strings.Count(s, "|") + 1, strings.Count(s, "L"), strings.Count(s, "R")
}

func (jt JoinType) String() string {
	switch jt {
	case CopyOne:
		return "CopyOne"
	case CopyTwo:
		return "CopyTwo"
	case Concat:
		return "Concat"
	case Juxtapose:
		return "Juxtapose"
	case FillGap:
		return "FillGap"
	case AppendSecond:
		return "AppendSecond"
	case PrependSecond:
		return "PrependSecond"
	case AppendFirst:
		return "AppendFirst"
	case PrependFirst:
		return "PrependFirst"
	case Zip:
		return "Zip"
	case Nest:
		return "Nest"
	case WrapSecond:
		return "WrapSecond"
	case WrapFirst:
		return "WrapFirst"
	case Interlock:
		return "Interlock"
	}
	return "NoJoin"
}
