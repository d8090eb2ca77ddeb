/*
Package notation reads grammars written in a compact textual notation.

Every line holds a single statement. Clauses are written in sRCG notation,
optionally followed by a cost (default 0):

	S(X Y) -> VP(X, Y) @ 0.5
	VP(X, Y Z) -> V(X, Z) N(Y) @ 1.2
	N(X) -> NN(X)

Lexical entries relate a pre-terminal to a word:

	NN -> "Haus" @ 0.7

A directive sets the start symbol (default "S"):

	%start ROOT

Everything after '#' is a comment. Labels consist of letters, digits and
any of "_|<>.$^+*'=:", and must not start with a digit. Non-ASCII letters
are restricted to those encoded in two bytes of UTF-8. Labels starting
with '@' denote artificial labels introduced by binarization. Instead of
"->", an arrow '→' may be used.

Syntax is checked per line with an Earley recognizer; the grammar of the
notation itself is available as NotationGrammar.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package notation

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/npillmayer/gorgo/lr"
	"github.com/npillmayer/gorgo/lr/earley"
	"github.com/npillmayer/gorgo/lr/scanner"
	"github.com/npillmayer/lcfrs/grammar"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pkg/errors"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// tracer traces to a global core tracer
func tracer() tracing.Trace {
	return gtrace.CoreTracer
}

// ErrSyntax is wrapped by all errors about malformed input.
var ErrSyntax = errors.New("syntax error")

// DefaultStart is the start symbol if no %start directive is present.
const DefaultStart = "S"

// Token values. Single-character tokens use their rune value.
const (
	tokIdent  = scanner.Ident
	tokNumber = scanner.Float
	tokString = scanner.String
	tokArrow  = 1001
)

// --- Grammar of the notation -----------------------------------------------

var notationGrammar *lr.LRAnalysis

var initGrammar sync.Once

// NotationGrammar returns the analysed grammar of the clause notation.
func NotationGrammar() *lr.LRAnalysis {
	initGrammar.Do(func() {
		notationGrammar = newNotationGrammar()
	})
	return notationGrammar
}

func newNotationGrammar() *lr.LRAnalysis {
	b := lr.NewGrammarBuilder("sRCG")
	b.LHS("Line").N("Clause").End()
	b.LHS("Line").N("Entry").End()
	b.LHS("Line").N("Directive").End()
	//
	b.LHS("Directive").T(tok('%')).T(tok(tokIdent)).T(tok(tokIdent)).End()
	//
	b.LHS("Clause").N("Pred").T(tok(tokArrow)).N("Children").End()
	b.LHS("Clause").N("Pred").T(tok(tokArrow)).N("Children").T(tok('@')).T(tok(tokNumber)).End()
	b.LHS("Children").N("Pred").End()
	b.LHS("Children").N("Pred").N("Pred").End()
	b.LHS("Pred").T(tok(tokIdent)).T(tok('(')).N("Args").T(tok(')')).End()
	b.LHS("Args").N("Arg").End()
	b.LHS("Args").N("Args").T(tok(',')).N("Arg").End()
	b.LHS("Arg").T(tok(tokIdent)).End()
	b.LHS("Arg").N("Arg").T(tok(tokIdent)).End()
	//
	b.LHS("Entry").T(tok(tokIdent)).T(tok(tokArrow)).T(tok(tokString)).End()
	b.LHS("Entry").T(tok(tokIdent)).T(tok(tokArrow)).T(tok(tokString)).T(tok('@')).T(tok(tokNumber)).End()
	g, err := b.Grammar()
	if err != nil {
		panic(err)
	}
	return lr.Analysis(g)
}

func tok(tokval int) (string, int) {
	switch tokval {
	case tokIdent:
		return ":ident", tokval
	case tokNumber:
		return ":number", tokval
	case tokString:
		return ":string", tokval
	case tokArrow:
		return ":arrow", tokval
	}
	return ":" + string(rune(tokval)), tokval
}

// --- Lexer -----------------------------------------------------------------

// Identifiers may contain letters from the two-byte range of UTF-8, which
// covers Latin, Greek and Cyrillic scripts.
const (
	letter    = "([a-zA-Z_]|[\xc2-\xdf][\x80-\xbf])"
	identRune = "([a-zA-Z0-9_|<>.$^+*'=:]|[\xc2-\xdf][\x80-\xbf])"
)

var literals = []string{"(", ")", ",", "@", "%", "->", "→"}

var tokenIds = map[string]int{
	"(": '(', ")": ')', ",": ',', "@": '@', "%": '%',
	"->": tokArrow, "→": tokArrow,
}

var lmAdapter *scanner.LMAdapter

var initLexer sync.Once

func lexerAdapter() *scanner.LMAdapter {
	initLexer.Do(func() {
		var err error
		lmAdapter, err = scanner.NewLMAdapter(initTokens, literals, nil, tokenIds)
		if err != nil {
			panic(err)
		}
	})
	return lmAdapter
}

func initTokens(l *lexmachine.Lexer) {
	l.Add([]byte(`#[^\n]*`), scanner.Skip)
	l.Add([]byte(`[ \t\r]+`), scanner.Skip)
	l.Add([]byte(`@?`+letter+identRune+`*`), scanner.MakeToken(":ident", tokIdent))
	l.Add([]byte(`[0-9]+(\.[0-9]*)?([eE][\-+]?[0-9]+)?|\.[0-9]+`), scanner.MakeToken(":number", tokNumber))
	l.Add([]byte(`"([^"\\]|\\.)*"`), scanner.MakeToken(":string", tokString))
}

type token struct {
	val  int
	text string
	col  int
}

// lexer tokenizes a single line and keeps the tokens it has handed out.
// It implements gorgo's scanner.Tokenizer.
type lexer struct {
	lms    *scanner.LMScanner
	tokens []token
	err    error
}

func newLexer(line string) (*lexer, error) {
	lms, err := lexerAdapter().Scanner(line)
	if err != nil {
		return nil, errors.Wrap(ErrSyntax, err.Error())
	}
	lx := &lexer{lms: lms}
	lms.SetErrorHandler(func(e error) {
		if lx.err != nil {
			return
		}
		if ui, ok := e.(*machines.UnconsumedInput); ok {
			end := ui.FailTC
			if end <= ui.StartTC {
				end = ui.StartTC + 1
			}
			if end > len(ui.Text) {
				end = len(ui.Text)
			}
			lx.err = errors.Errorf("column %d: unexpected %q", ui.StartColumn,
				string(ui.Text[ui.StartTC:end]))
			return
		}
		lx.err = e
	})
	return lx, nil
}

// NextToken is part of interface scanner.Tokenizer.
func (lx *lexer) NextToken(expected []int) (int, interface{}, uint64, uint64) {
	val, v, start, length := lx.lms.NextToken(expected)
	if val != scanner.EOF {
		t := v.(*lexmachine.Token)
		lx.tokens = append(lx.tokens, token{val, string(t.Lexeme), t.StartColumn})
	}
	return val, v, start, length
}

// SetErrorHandler is part of interface scanner.Tokenizer. Errors are
// reported after recognition instead.
func (lx *lexer) SetErrorHandler(h func(error)) {}

// --- Reader ----------------------------------------------------------------

type predicate struct {
	label string
	args  [][]string
}

type clause struct {
	line  int
	lhs   predicate
	rhs   []predicate
	cost  float64
	word  string // for lexical entries
	entry bool
}

// Read reads a grammar and a lexicon in clause notation. Errors carry the
// number of the offending line.
func Read(r io.Reader) (*grammar.Grammar, *grammar.Lexicon, error) {
	start := DefaultStart
	var clauses []clause
	ga := NotationGrammar()
	lines := bufio.NewScanner(r)
	for n := 1; lines.Scan(); n++ {
		line := strings.TrimSpace(lines.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lx, err := newLexer(line)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "line %d", n)
		}
		parser := earley.NewParser(ga)
		accept, err := parser.Parse(lx, nil)
		if lx.err != nil {
			return nil, nil, errors.Wrapf(ErrSyntax, "line %d: %v", n, lx.err)
		}
		if err != nil || !accept {
			return nil, nil, errors.Wrapf(ErrSyntax, "line %d: %s", n, unexpected(lx, err))
		}
		w := walker{tokens: lx.tokens}
		if w.peek().val == '%' {
			if err := w.directive(&start); err != nil {
				return nil, nil, errors.Wrapf(err, "line %d", n)
			}
			continue
		}
		c, err := w.statement()
		if err != nil {
			return nil, nil, errors.Wrapf(err, "line %d", n)
		}
		c.line = n
		clauses = append(clauses, c)
	}
	if err := lines.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "cannot read grammar")
	}
	g := grammar.New(start)
	lex := grammar.NewLexicon()
	for _, c := range clauses {
		if err := build(g, lex, c); err != nil {
			return nil, nil, errors.Wrapf(err, "line %d", c.line)
		}
	}
	tracer().Infof("read %d clauses, %d lexical entries; %s", len(g.Clauses()), lex.Size(), g.Stats())
	return g, lex, nil
}

func unexpected(lx *lexer, err error) string {
	if err != nil {
		return err.Error()
	}
	if len(lx.tokens) == 0 {
		return "incomplete statement"
	}
	last := lx.tokens[len(lx.tokens)-1]
	return fmt.Sprintf("malformed statement, last token %q at column %d", last.text, last.col)
}

// walker builds a statement from the tokens of a line which has been
// recognized by the Earley parser.
type walker struct {
	tokens []token
	pos    int
}

func (w *walker) peek() token {
	if w.pos >= len(w.tokens) {
		return token{val: scanner.EOF}
	}
	return w.tokens[w.pos]
}

func (w *walker) next() token {
	t := w.peek()
	w.pos++
	return t
}

func (w *walker) directive(start *string) error {
	w.next() // '%'
	name, arg := w.next(), w.next()
	if name.text != "start" {
		return errors.Wrapf(ErrSyntax, "unknown directive %%%s", name.text)
	}
	*start = arg.text
	return nil
}

func (w *walker) statement() (clause, error) {
	var c clause
	if w.tokens[1].val == tokArrow { // lexical entry
		c.entry = true
		c.lhs.label = w.next().text
		w.next()
		word, err := strconv.Unquote(w.next().text)
		if err != nil {
			return c, errors.Wrapf(ErrSyntax, "malformed word: %v", err)
		}
		c.word = word
	} else {
		c.lhs = w.predicate()
		w.next() // arrow
		for w.peek().val == tokIdent {
			c.rhs = append(c.rhs, w.predicate())
		}
	}
	if w.peek().val == '@' {
		w.next()
		cost, err := strconv.ParseFloat(w.next().text, 64)
		if err != nil {
			return c, errors.Wrapf(ErrSyntax, "malformed cost: %v", err)
		}
		c.cost = cost
	}
	return c, nil
}

func (w *walker) predicate() predicate {
	p := predicate{label: w.next().text}
	w.next() // '('
	var arg []string
	for t := w.next(); t.val != ')'; t = w.next() {
		if t.val == ',' {
			p.args = append(p.args, arg)
			arg = nil
			continue
		}
		arg = append(arg, t.text)
	}
	p.args = append(p.args, arg)
	return p
}

// build adds a statement to g or to lex.
func build(g *grammar.Grammar, lex *grammar.Lexicon, c clause) error {
	if c.entry {
		return lex.Add(g, c.word, c.lhs.label, c.cost)
	}
	yf, err := yieldOf(c.lhs, c.rhs)
	if err != nil {
		return err
	}
	right := ""
	if len(c.rhs) == 2 {
		right = c.rhs[1].label
	}
	_, err = g.AddClause(c.lhs.label, c.rhs[0].label, right, yf, c.cost)
	return err
}

// yieldOf derives the yield function of a clause from its variables.
// Every argument of a child has to be a single variable, every variable
// has to occur exactly once on either side, and the variables of a child
// have to occur on the left hand side in the order of the child's
// arguments.
func yieldOf(lhs predicate, rhs []predicate) (grammar.YieldFunction, error) {
	type origin struct {
		right bool
		index int
	}
	vars := make(map[string]origin)
	for i, p := range rhs {
		for j, arg := range p.args {
			if len(arg) != 1 {
				return nil, errors.Wrapf(ErrSyntax, "argument %d of %s is not a single variable",
					j+1, p.label)
			}
			if _, dup := vars[arg[0]]; dup {
				return nil, errors.Wrapf(ErrSyntax, "variable %s used twice", arg[0])
			}
			vars[arg[0]] = origin{right: i == 1, index: j}
		}
	}
	var next [2]int
	yf := make(grammar.YieldFunction, len(lhs.args))
	for i, arg := range lhs.args {
		for _, v := range arg {
			o, ok := vars[v]
			if !ok {
				return nil, errors.Wrapf(ErrSyntax, "variable %s not bound by a child", v)
			}
			child := 0
			if o.right {
				child = 1
			}
			if o.index != next[child] {
				return nil, errors.Wrapf(grammar.ErrUnsupportedShape,
					"variables of %s out of order", rhs[child].label)
			}
			next[child]++
			delete(vars, v)
			yf[i] = append(yf[i], o.right)
		}
	}
	for v := range vars {
		return nil, errors.Wrapf(ErrSyntax, "variable %s unused", v)
	}
	return yf, nil
}
