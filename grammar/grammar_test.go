package grammar

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/testconfig"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pkg/errors"
)

func TestClassifyAllShapes(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	//
	for jt := CopyOne; jt <= Interlock; jt++ {
		yf := YieldOf(shapes[jt])
		got, err := Classify(yf, jt.IsUnary())
		if err != nil {
			t.Errorf("%s: unexpected error %v", jt, err)
			continue
		}
		if got != jt {
			t.Errorf("expected yield function %s to be of type %s, is %s", yf, jt, got)
		}
		if int(got) < 1 || int(got) > JoinTypeCount {
			t.Errorf("join type %s out of range: %d", got, got)
		}
	}
}

func TestClassifyArities(t *testing.T) {
	a, l, r := AppendFirst.Arities()
	if a != 2 || l != 2 || r != 1 {
		t.Errorf("expected arities 2/2/1 for %s, have %d/%d/%d", AppendFirst, a, l, r)
	}
	a, l, r = CopyOne.Arities()
	if a != 1 || l != 1 || r != 0 {
		t.Errorf("expected arities 1/1/0 for %s, have %d/%d/%d", CopyOne, a, l, r)
	}
}

func TestClassifyUnsupported(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	//
	unsupported := []struct {
		shape string
		unary bool
	}{
		{"RL", false},      // right child first
		{"L|R|L", false},   // three arguments
		{"LRLRL", false},   // fan-out three child
		{"LL", true},       // unary with concatenated arguments
		{"L", false},       // binary clause without right variable
		{"LR", true},       // unary clause with right variable
		{"L|", false},      // empty argument
		{"LRR", false},     // right child with adjacent arguments
		{"LRL|RL", false},  // too many variables
		{"", true},         // no arguments
		{"R|L", false},     // right child first
		{"LRL|RLR", false}, // too many variables
	}
	for _, u := range unsupported {
		_, err := Classify(YieldOf(u.shape), u.unary)
		if err == nil {
			t.Errorf("expected shape %q to be rejected", u.shape)
		} else if errors.Cause(err) != ErrUnsupportedShape {
			t.Errorf("expected unsupported-shape error for %q, have %v", u.shape, err)
		}
	}
}

func TestGrammarIndexes(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	//
	g := New("S")
	if _, err := g.AddPreterminal("A"); err != nil {
		t.Fatal(err)
	}
	c1, err := g.AddClause("S", "A", "B", YieldOf("LR"), 0.5)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := g.AddClause("B", "A", "", YieldOf("L"), 0.1); err != nil {
		t.Fatal(err)
	}
	a, _ := g.Label("A")
	b, _ := g.Label("B")
	if len(g.ByLeft(a)) != 2 {
		t.Errorf("expected 2 clauses with left child A, have %d", len(g.ByLeft(a)))
	}
	if len(g.ByRight(b)) != 1 || g.ByRight(b)[0] != c1 {
		t.Errorf("expected clause %d to be indexed by right child B", c1.ID)
	}
	if len(g.ByLHS(g.Start())) != 1 {
		t.Errorf("expected 1 clause for start symbol")
	}
	if c1.Join != Concat {
		t.Errorf("expected join type Concat, have %s", c1.Join)
	}
	if !g.IsPreterminal(a) || g.IsPreterminal(b) {
		t.Errorf("pre-terminal registry wrong")
	}
	if _, err := g.Label("nope"); errors.Cause(err) != ErrUnknownLabel {
		t.Errorf("expected unknown-label error, have %v", err)
	}
	t.Logf("clause: %s", c1.Format(g.Dict))
}

func TestGrammarDeduplicates(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	//
	g := New("S")
	c1, _ := g.AddClause("S", "A", "B", YieldOf("LR"), 0.5)
	c2, _ := g.AddClause("S", "A", "B", YieldOf("LR"), 0.2)
	c3, _ := g.AddClause("S", "A", "B", YieldOf("LR"), 0.9)
	if c1 != c2 || c2 != c3 {
		t.Fatalf("expected identical clauses to be merged")
	}
	if c1.Cost != 0.2 {
		t.Errorf("expected cheaper cost 0.2 to be kept, have %g", c1.Cost)
	}
	if len(g.Clauses()) != 1 {
		t.Errorf("expected 1 clause, have %d", len(g.Clauses()))
	}
}

func TestGrammarArityMismatch(t *testing.T) {
	teardown := testconfig.QuickConfig(t)
	defer teardown()
	//
	g := New("S")
	if _, err := g.AddClause("S", "A", "B", YieldOf("LR"), 0); err != nil {
		t.Fatal(err)
	}
	_, err := g.AddClause("A", "B", "C", YieldOf("L|R"), 0)
	if errors.Cause(err) != ErrArityMismatch {
		t.Errorf("expected arity mismatch for A, have %v", err)
	}
	_, err = g.AddClause("D", "E", "E", YieldOf("LRL"), 0)
	if errors.Cause(err) != ErrArityMismatch {
		t.Errorf("expected arity mismatch for E, have %v", err)
	}
	if g.Arity(g.Dict.Intern("D")) != 0 {
		t.Errorf("failed clause must not register arities")
	}
	_, err = g.AddClause("S", "A", "B", YieldOf("LR"), -1)
	if errors.Cause(err) != ErrNegativeCost {
		t.Errorf("expected negative cost to be rejected, have %v", err)
	}
}

func TestGrammarStats(t *testing.T) {
	g := New("S")
	g.AddClause("S", "A", "B", YieldOf("LR"), 0)
	g.AddClause("S", "B", "A", YieldOf("LR"), 0)
	g.AddClause("D", "C", "A", YieldOf("LR|L"), 0)
	st := g.Stats()
	if st.Count(Concat) != 2 || st.Count(AppendFirst) != 1 || st.Count(Zip) != 0 {
		t.Errorf("unexpected stats: %s", st)
	}
	if !strings.Contains(st.String(), "Concat=2") {
		t.Errorf("unexpected stats string: %s", st)
	}
}

func TestDictionaryNormalizes(t *testing.T) {
	d := NewDictionary()
	l1 := d.Intern("Ve\u0301rb") // decomposed
	l2 := d.Intern("V\u00e9rb")  // precomposed
	if l1 != l2 {
		t.Errorf("expected canonically equivalent names to intern to the same label")
	}
	if d.Size() != 1 {
		t.Errorf("expected 1 label, have %d", d.Size())
	}
	if !d.IsArtificial(d.Intern("@VP|<NP>")) || d.IsArtificial(l1) {
		t.Errorf("artificial label detection wrong")
	}
}

func TestLexicon(t *testing.T) {
	g := New("S")
	lex := NewLexicon()
	if err := lex.Add(g, "saw", "V", 0.7); err != nil {
		t.Fatal(err)
	}
	lex.Add(g, "saw", "N", 1.2)
	lex.Add(g, "saw", "V", 0.3)
	w, ok := lex.Word("saw")
	if !ok {
		t.Fatalf("word not found")
	}
	v, _ := g.Label("V")
	if c, ok := lex.Cost(w, v); !ok || c != 0.3 {
		t.Errorf("expected cost 0.3, have %g", c)
	}
	if len(lex.Tags(w)) != 2 || lex.Size() != 2 {
		t.Errorf("expected 2 tags for 'saw'")
	}
	if !g.IsPreterminal(v) {
		t.Errorf("lexicon tag should be a pre-terminal")
	}
}
