package parser

import (
	"math"
	"sort"
	"strings"
	"testing"

	"github.com/npillmayer/lcfrs"
	"github.com/npillmayer/lcfrs/chart"
	"github.com/npillmayer/lcfrs/estimate"
	"github.com/npillmayer/lcfrs/grammar"
	"github.com/npillmayer/lcfrs/grammar/notation"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pkg/errors"
)

const eps = 1e-9

const simple = `
S(X Y) -> A(X) B(Y)
A -> "a" @ 0.1
B -> "b" @ 0.2
`

const gapped = `
S(X Y Z) -> D(X, Z) B(Y)
D(X, Y) -> A(X) C(Y)
A -> "a"
B -> "b"
C -> "c"
`

const copyUp = `
%start ROOT
ROOT(X) -> S(X) @ 0.5
S(X Y Z) -> T(X, Z) B(Y)
T(X, Y) -> D(X, Y) @ 0.25
D(X, Y) -> A(X) A(Y)
A -> "a"
B -> "b"
`

// mixed is ambiguous and uses unary chains and several join types
const mixed = `
S(X Y) -> A(X) B(Y) @ 1.0
S(X Y Z) -> D(X, Z) B(Y) @ 0.5
S(X Y Z) -> E(X, Z) B(Y) @ 0.25
D(X, Y) -> A(X) A(Y) @ 0.2
D(X, Y Z) -> D(X, Y) A(Z) @ 0.3
E(X Y, Z) -> D(X, Z) B(Y) @ 0.1
A(X) -> a(X)
B(X) -> b(X) @ 0.4
B(X) -> A(X) @ 0.7
A(X Y) -> A(X) B(Y) @ 0.6
a -> "a"
b -> "b"
`

func read(t *testing.T, src string) (*grammar.Grammar, *grammar.Lexicon) {
	g, lex, err := notation.Read(strings.NewReader(src))
	if err != nil {
		t.Fatalf("cannot read test grammar: %v", err)
	}
	return g, lex
}

func tag(t *testing.T, g *grammar.Grammar, lex *grammar.Lexicon, words string) Sentence {
	s, err := Tag(g, lex, strings.Fields(words), nil)
	if err != nil {
		t.Fatalf("cannot tag %q: %v", words, err)
	}
	return s
}

func TestScenarioConcat(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	g, lex := read(t, simple)
	p := New(g, nil, WithLexicon(lex))
	if p.State() != Initialized {
		t.Fatalf("expected new parser to be initialized, is %s", p.State())
	}
	res, err := p.Parse(tag(t, g, lex, "a b"))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found || p.State() != Succeeded {
		t.Fatalf("expected parse to succeed, state is %s", p.State())
	}
	if math.Abs(res.Cost-0.3) > eps {
		t.Errorf("expected cost 0.3, have %g", res.Cost)
	}
	goal := p.Item(res.Goal)
	if goal.Label != g.Start() || goal.Span != lcfrs.One(0, 2) {
		t.Errorf("unexpected goal item %v", &goal)
	}
	d, err := p.Derivation()
	if err != nil {
		t.Fatal(err)
	}
	if d.String() != "(S (A 0) (B 1))" {
		t.Errorf("unexpected derivation %s", d)
	}
	t.Logf("%s", p.Stats())
}

func TestScenarioGap(t *testing.T) {
	b, c := lcfrs.Two(0, 1, 3, 4), lcfrs.One(1, 3)
	if s, ok := join(grammar.AppendFirst, b, c); ok {
		t.Errorf("expected join of %v and %v to be rejected, is %v", b, c, s)
	}
	c = lcfrs.One(1, 2)
	if s, ok := join(grammar.AppendFirst, b, c); !ok || s != lcfrs.Two(0, 2, 3, 4) {
		t.Errorf("expected join of %v and %v to be [0,2)+[3,4), is %v", b, c, s)
	}
	//
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	g, lex := read(t, gapped)
	p := New(g, nil, WithLexicon(lex))
	res, err := p.Parse(tag(t, g, lex, "a b c"))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found {
		t.Fatalf("expected to find a parse for discontinuous D")
	}
	d, _ := p.Derivation()
	if d.String() != "(S (D (A 0) (C 2)) (B 1))" {
		t.Errorf("unexpected derivation %s", d)
	}
	dspan := d.Children[0].Span
	if dspan != lcfrs.Two(0, 1, 2, 3) {
		t.Errorf("expected D to span [0,1)+[2,3), is %v", dspan)
	}
}

func TestScenarioExhausted(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelInfo)
	//
	g, lex := read(t, simple)
	p := New(g, nil, WithLexicon(lex))
	res, err := p.Parse(tag(t, g, lex, "a a"))
	if err != nil {
		t.Fatalf("no parse should not be an error, have %v", err)
	}
	if res.Found || p.State() != Exhausted {
		t.Fatalf("expected parser to be exhausted, is %s", p.State())
	}
	if p.Chart().Size() == 0 {
		t.Errorf("expected partial items in chart")
	}
	p.Chart().Each(func(id chart.ItemID, it *chart.Item) {
		if it.Label == g.Start() {
			t.Errorf("unexpected item for start symbol: %v", it)
		}
	})
	if _, err := p.Derivation(); err != ErrNoDerivation {
		t.Errorf("expected no derivation, have %v", err)
	}
}

func TestUnaryCopyUp(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	g, lex := read(t, copyUp)
	p := New(g, nil, WithLexicon(lex))
	res, err := p.Parse(tag(t, g, lex, "a b a"))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Found || math.Abs(res.Cost-0.75) > eps {
		t.Fatalf("expected parse with cost 0.75, have %v", res)
	}
	d, _ := p.Derivation()
	if d.String() != "(ROOT (S (T (D (A 0) (A 2))) (B 1)))" {
		t.Errorf("unexpected derivation %s", d)
	}
	tnode := d.Children[0].Children[0]
	if tnode.Span != lcfrs.Two(0, 1, 2, 3) || len(tnode.Children) != 1 {
		t.Errorf("expected unary T over [0,1)+[2,3), is %v", tnode)
	}
}

func TestKnownCosts(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelInfo)
	//
	g, lex := read(t, mixed)
	for _, kind := range []estimate.Kind{estimate.Off, estimate.Len, estimate.Bits} {
		h, err := estimate.Build(g, kind, 8)
		if err != nil {
			t.Fatal(err)
		}
		for words, cost := range map[string]float64{
			"a b":     1.4,
			"a b a":   1.1,
			"a a b a": 1.65,
		} {
			p := New(g, h, WithLexicon(lex))
			res, err := p.Parse(tag(t, g, lex, words))
			if err != nil {
				t.Fatal(err)
			}
			if !res.Found || math.Abs(res.Cost-cost) > eps {
				t.Errorf("%s: expected cost %g for %q, have %v", kind, cost, words, res)
			}
		}
	}
}

var sentences = []string{
	"a", "b", "a b", "b a", "a a", "a b a", "a a b", "a a b a", "a b b a",
	"a a a b", "a b a b a", "a a b a b b", "b a a b a a", "a b a a b a b",
}

func TestAStarMatchesUniformCost(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelInfo)
	//
	g, lex := read(t, mixed)
	var heuristics []estimate.Heuristic
	for _, kind := range []estimate.Kind{estimate.Len, estimate.Bits} {
		h, err := estimate.Build(g, kind, 6) // some sentences exceed the horizon
		if err != nil {
			t.Fatal(err)
		}
		heuristics = append(heuristics, h)
	}
	for _, words := range sentences {
		s := tag(t, g, lex, words)
		ucs := New(g, nil, WithLexicon(lex))
		want, err := ucs.Parse(s)
		if err != nil {
			t.Fatal(err)
		}
		for _, h := range heuristics {
			astar := New(g, h, WithLexicon(lex))
			have, err := astar.Parse(s)
			if err != nil {
				t.Fatal(err)
			}
			if have.Found != want.Found || math.Abs(have.Cost-want.Cost) > eps {
				t.Errorf("%q: A* found %v, uniform cost search %v", words, have, want)
			}
			if have.Found && astar.Stats().Pops > ucs.Stats().Pops {
				t.Logf("%q: A* needed more pops (%d) than uniform cost search (%d)", words,
					astar.Stats().Pops, ucs.Stats().Pops)
			}
		}
	}
}

func TestCoverage(t *testing.T) {
	g, lex := read(t, mixed)
	h, _ := estimate.Build(g, estimate.Bits, 8)
	p := New(g, h, WithLexicon(lex))
	for _, words := range sentences {
		p.Reset()
		s := tag(t, g, lex, words)
		res, err := p.Parse(s)
		if err != nil {
			t.Fatal(err)
		}
		if !res.Found {
			continue
		}
		d, _ := p.Derivation()
		leaves := d.Leaves()
		sort.Ints(leaves)
		if len(leaves) != len(s) {
			t.Errorf("%q: derivation %s covers %d positions", words, d, len(leaves))
			continue
		}
		for i, pos := range leaves {
			if pos != i {
				t.Errorf("%q: derivation %s does not cover position %d exactly once", words, d, i)
				break
			}
		}
	}
}

func TestIdempotence(t *testing.T) {
	g, lex := read(t, mixed)
	h, _ := estimate.Build(g, estimate.Len, 8)
	p := New(g, h, WithLexicon(lex))
	s := tag(t, g, lex, "a a b a b b")
	first, err := p.Parse(s)
	if err != nil || !first.Found {
		t.Fatalf("expected a parse, have %v, %v", first, err)
	}
	d1, _ := p.Derivation()
	stats := p.Stats()
	if _, err := p.Parse(s); errors.Cause(err) != ErrState {
		t.Errorf("expected parsing without reset to fail, have %v", err)
	}
	p.Reset()
	if p.State() != Initialized || p.Chart().Size() != 0 {
		t.Fatalf("expected reset parser to be initialized and empty")
	}
	second, err := p.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	d2, _ := p.Derivation()
	if first.Cost != second.Cost || d1.String() != d2.String() {
		t.Errorf("second parse differs: %g %s vs. %g %s", first.Cost, d1, second.Cost, d2)
	}
	if p.Stats() != stats {
		t.Errorf("second parse did different work: %s vs. %s", p.Stats(), stats)
	}
}

func TestSingleFinalization(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelInfo)
	//
	g, lex := read(t, mixed)
	h, _ := estimate.Build(g, estimate.Len, 8)
	for _, words := range []string{"b b b", "a a b a b b"} {
		p := New(g, h, WithLexicon(lex))
		if _, err := p.Parse(tag(t, g, lex, words)); err != nil {
			t.Fatal(err)
		}
		st := p.Stats()
		if st.Pops != st.ChartSize {
			t.Errorf("%q: %d pops, but %d chart items", words, st.Pops, st.ChartSize)
		}
		seen := make(map[chart.Key]bool)
		p.Chart().Each(func(id chart.ItemID, it *chart.Item) {
			if seen[it.Key()] {
				t.Errorf("item %v finalized twice", it)
			}
			seen[it.Key()] = true
		})
	}
}

func TestStatsString(t *testing.T) {
	s := Stats{MaxAgenda: 4, Pushes: 9, ChartSize: 7, Pops: 7}
	if s.String() != "agenda: max size 4, pushes 9; chart: 7 items; pops 7" {
		t.Errorf("unexpected stats string %q", s)
	}
}

func TestPopLimit(t *testing.T) {
	g, lex := read(t, mixed)
	p := New(g, nil, WithLexicon(lex), WithMaxPops(2))
	_, err := p.Parse(tag(t, g, lex, "a b a"))
	if errors.Cause(err) != ErrPopLimit {
		t.Errorf("expected pop limit to be exceeded, have %v", err)
	}
	if p.State() != Failed {
		t.Errorf("expected parser to fail, is %s", p.State())
	}
}

func TestInvariantViolation(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelInfo)
	//
	g, lex := read(t, gapped)
	p := New(g, nil, WithLexicon(lex))
	p.state, p.n = Running, 4
	c := g.Clauses()[0]
	err := p.propose(c, lcfrs.Two(0, 2, 1, 3), chart.NoItem, chart.NoItem, 0)
	var ierr *InvariantError
	if !errors.As(err, &ierr) {
		t.Fatalf("expected invariant error, have %v", err)
	}
	if errors.Cause(err) != ErrInvariant || ierr.Clause != c {
		t.Errorf("unexpected invariant error %v", err)
	}
	t.Logf("%v", err)
	if p.ag.Len() != 0 {
		t.Errorf("malformed item must not be queued")
	}
}

func TestSentenceLength(t *testing.T) {
	g, _ := read(t, simple)
	p := New(g, nil)
	if _, err := p.Parse(nil); errors.Cause(err) != ErrSentenceTooLong {
		t.Errorf("expected empty sentence to be rejected, have %v", err)
	}
	if _, err := p.Parse(make(Sentence, chart.MaxPosition+1)); errors.Cause(err) != ErrSentenceTooLong {
		t.Errorf("expected long sentence to be rejected, have %v", err)
	}
	if p.State() != Initialized {
		t.Errorf("rejected sentence should leave parser initialized, is %s", p.State())
	}
}

func TestTag(t *testing.T) {
	g, lex := read(t, simple)
	if _, err := Tag(g, lex, []string{"a", "x"}, nil); errors.Cause(err) != ErrUnknownWordOrTag {
		t.Errorf("expected unknown word, have %v", err)
	}
	if _, err := Tag(g, lex, []string{"a"}, []string{"S"}); errors.Cause(err) != ErrUnknownWordOrTag {
		t.Errorf("expected S not to be a tag, have %v", err)
	}
	s, err := Tag(g, lex, []string{"x", "b"}, []string{"A", "B"})
	if err != nil {
		t.Fatal(err)
	}
	if s[0].Word != -1 || s[1].Word < 0 {
		t.Errorf("unexpected word IDs in %v", s)
	}
	// unknown words parse without lexical cost
	p := New(g, nil, WithLexicon(lex))
	res, _ := p.Parse(s)
	if !res.Found || math.Abs(res.Cost-0.2) > eps {
		t.Errorf("expected cost 0.2, have %v", res)
	}
}
