package grammar

import (
	"math"

	"github.com/pkg/errors"
	"golang.org/x/text/unicode/norm"
)

// Lexicon holds costs for tagging a word with a POS tag.
// Words are interned to small integers, in NFC normalization form.
type Lexicon struct {
	words map[string]int
	costs map[lexKey]float64
	tags  map[int][]Label
}

type lexKey struct {
	word int
	tag  Label
}

// NewLexicon creates an empty lexicon.
func NewLexicon() *Lexicon {
	return &Lexicon{
		words: make(map[string]int),
		costs: make(map[lexKey]float64),
		tags:  make(map[int][]Label),
	}
}

// Add enters a word with a tag and a cost. The tag is registered as a
// pre-terminal of g. Adding the same pair twice keeps the cheaper cost.
func (lex *Lexicon) Add(g *Grammar, word, tag string, cost float64) error {
	if cost < 0 || math.IsNaN(cost) {
		return errors.Wrapf(ErrNegativeCost, "lexical entry %s/%s", word, tag)
	}
	t, err := g.AddPreterminal(tag)
	if err != nil {
		return err
	}
	w := lex.intern(word)
	key := lexKey{word: w, tag: t}
	if prev, ok := lex.costs[key]; ok {
		if cost < prev {
			lex.costs[key] = cost
		}
		return nil
	}
	lex.costs[key] = cost
	lex.tags[w] = append(lex.tags[w], t)
	return nil
}

func (lex *Lexicon) intern(word string) int {
	word = norm.NFC.String(word)
	if w, ok := lex.words[word]; ok {
		return w
	}
	w := len(lex.words)
	lex.words[word] = w
	return w
}

// Word returns the ID of a word, if it is known.
func (lex *Lexicon) Word(word string) (int, bool) {
	w, ok := lex.words[norm.NFC.String(word)]
	return w, ok
}

// Cost returns the cost of tagging word w with tag t.
func (lex *Lexicon) Cost(w int, t Label) (float64, bool) {
	c, ok := lex.costs[lexKey{word: w, tag: t}]
	return c, ok
}

// Tags returns the tags known for word w.
func (lex *Lexicon) Tags(w int) []Label {
	return lex.tags[w]
}

// Size is the number of (word, tag) entries.
func (lex *Lexicon) Size() int {
	return len(lex.costs)
}
