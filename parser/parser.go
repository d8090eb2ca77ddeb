/*
Package parser implements an A* chart parser for binary grammars with a
fan-out of at most two.

Items are proposed to an agenda, ordered by their inside cost plus an
estimate of their outside cost (see package estimate). The cheapest item is
popped, recorded in the chart, and combined with items already in the
chart. Given an admissible estimate, the first time an item is popped its
cost is optimal, so every (label, span) enters the chart at most once.
Parsing ends as soon as the start symbol covering the whole sentence is
popped, or when the agenda runs empty.

Combination is specialized per join type of a clause (see
grammar.JoinType): the boundaries a sibling has to share with an item are
known in advance and looked up in the chart's boundary indexes.

A parser works on one sentence at a time and is not safe for concurrent
use. Grammar and estimates are read-only during parsing and may be shared
by any number of parsers. Use a Pool for parsing sentences concurrently.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parser

import (
	"fmt"
	"math"

	"github.com/npillmayer/lcfrs"
	"github.com/npillmayer/lcfrs/agenda"
	"github.com/npillmayer/lcfrs/chart"
	"github.com/npillmayer/lcfrs/estimate"
	"github.com/npillmayer/lcfrs/grammar"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/pkg/errors"
)

// tracer traces to a global core tracer
func tracer() tracing.Trace {
	return gtrace.CoreTracer
}

// State is the state of a parser.
type State int8

// States of a parser. Succeeded, Exhausted and Failed are terminal; a
// parser has to be reset before it parses the next sentence.
const (
	Initialized State = iota
	Running
	Succeeded
	Exhausted
	Failed
)

func (s State) String() string {
	switch s {
	case Initialized:
		return "initialized"
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Exhausted:
		return "exhausted"
	}
	return "failed"
}

// Token is a word of the input, tagged with a pre-terminal.
// Word is a word ID of a lexicon, or -1 for words without lexical costs.
type Token struct {
	Word int
	Tag  grammar.Label
}

// Sentence is a tagged input sentence.
type Sentence []Token

// Result of a parse. If no derivation of the start symbol covering the
// whole sentence exists, Found is false.
type Result struct {
	Found bool
	Goal  chart.ItemID
	Cost  float64
}

// Parser is a best-first chart parser.
type Parser struct {
	g          *grammar.Grammar
	h          estimate.Heuristic
	lex        *grammar.Lexicon
	maxPops    int
	debinarize bool
	arena      *chart.Arena
	chart      *chart.Chart
	ag         *agenda.Agenda
	state      State
	n          int
	pops       int
	goal       chart.ItemID
	trace      bool
}

// Option configures a parser.
type Option func(p *Parser)

// WithLexicon sets lexical costs for seed items.
func WithLexicon(lex *grammar.Lexicon) Option {
	return func(p *Parser) {
		p.lex = lex
	}
}

// WithMaxPops bounds the number of agenda pops per parse. n ≤ 0 means
// unbounded.
func WithMaxPops(n int) Option {
	return func(p *Parser) {
		p.maxPops = n
	}
}

// WithDebinarize makes Derivation remove nodes of artificial labels.
func WithDebinarize(on bool) Option {
	return func(p *Parser) {
		p.debinarize = on
	}
}

// New creates a parser for grammar g, guided by heuristic h. If h is nil,
// the parser performs uniform-cost search.
func New(g *grammar.Grammar, h estimate.Heuristic, opts ...Option) *Parser {
	if h == nil {
		h = estimate.Zero{}
	}
	arena := chart.NewArena(256)
	p := &Parser{
		g:     g,
		h:     h,
		arena: arena,
		chart: chart.New(arena),
		ag:    agenda.New(),
		goal:  chart.NoItem,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the current state of the parser.
func (p *Parser) State() State {
	return p.state
}

// Reset discards all items of the previous parse and makes the parser
// ready for the next sentence.
func (p *Parser) Reset() {
	p.arena.Reset()
	p.chart.Reset()
	p.ag.Reset()
	p.state = Initialized
	p.n = 0
	p.pops = 0
	p.goal = chart.NoItem
}

// Parse searches for the cheapest derivation of the start symbol covering
// sentence s. Not finding one is not an error: in this case the parser
// ends up in state Exhausted and Result.Found is false.
//
// Parse returns an *InvariantError if an item violates the ordering of
// its ranges or is proven twice, and ErrPopLimit if the search has been
// cut off. Both leave the parser in state Failed.
func (p *Parser) Parse(s Sentence) (Result, error) {
	if p.state != Initialized {
		return Result{}, errors.Wrapf(ErrState, "parser is %s", p.state)
	}
	if len(s) == 0 || len(s) > chart.MaxPosition {
		return Result{}, errors.Wrapf(ErrSentenceTooLong, "length %d not in [1…%d]",
			len(s), chart.MaxPosition)
	}
	p.state = Running
	p.n = len(s)
	p.trace = tracer().GetTraceLevel() >= tracing.LevelDebug
	for i, tok := range s {
		p.seed(i, tok)
	}
	goal := lcfrs.One(0, p.n)
	for {
		_, _, v, ok := p.ag.Pop()
		if !ok {
			p.state = Exhausted
			tracer().Infof("no parse for sentence of length %d; %s", p.n, p.Stats())
			return Result{}, nil
		}
		p.pops++
		if p.maxPops > 0 && p.pops > p.maxPops {
			p.state = Failed
			return Result{}, errors.Wrapf(ErrPopLimit, "after %d pops", p.maxPops)
		}
		id := chart.ItemID(v)
		if err := p.chart.Insert(id); err != nil {
			it := p.arena.At(id)
			tracer().Errorf("%v: %v", err, it)
			return p.fail(&InvariantError{Item: *it, Clause: it.Clause, Reason: "item proven twice"})
		}
		it := p.arena.At(id)
		if p.trace {
			tracer().P("pop", p.pops).Debugf("%s %v in=%.4g tot=%.4g", p.g.Dict.Name(it.Label),
				it.Span, it.Inside, it.Total)
		}
		if it.Label == p.g.Start() && it.Span == goal {
			p.state = Succeeded
			p.goal = id
			tracer().Infof("parse found with cost %.4g; %s", it.Inside, p.Stats())
			return Result{Found: true, Goal: id, Cost: it.Inside}, nil
		}
		if err := p.combine(id); err != nil {
			return p.fail(err)
		}
	}
}

func (p *Parser) seed(pos int, tok Token) {
	inside := 0.0
	if p.lex != nil && tok.Word >= 0 {
		if c, ok := p.lex.Cost(tok.Word, tok.Tag); ok {
			inside = c
		}
	}
	s := lcfrs.One(pos, pos+1)
	p.enqueue(chart.Item{
		Label:  tok.Tag,
		Span:   s,
		Inside: inside,
		Total:  inside + p.h.Estimate(tok.Tag, s, p.n),
		Left:   chart.NoItem,
		Right:  chart.NoItem,
	})
}

func (p *Parser) fail(err error) (Result, error) {
	p.state = Failed
	return Result{}, err
}

// Chart returns the chart of the current parse.
func (p *Parser) Chart() *chart.Chart {
	return p.chart
}

// Item returns the item for id. The item is valid until the parser is
// reset.
func (p *Parser) Item(id chart.ItemID) chart.Item {
	return *p.arena.At(id)
}

// Stats are figures about the work done for a parse.
type Stats struct {
	MaxAgenda int // maximum size of the agenda
	Pushes    int // number of agenda pushes
	ChartSize int // number of proven items
	Pops      int // number of agenda pops
}

func (s Stats) String() string {
	return fmt.Sprintf("agenda: max size %d, pushes %d; chart: %d items; pops %d",
		s.MaxAgenda, s.Pushes, s.ChartSize, s.Pops)
}

// Stats returns figures for the current parse.
func (p *Parser) Stats() Stats {
	return Stats{
		MaxAgenda: p.ag.MaxSize(),
		Pushes:    p.ag.Pushes(),
		ChartSize: p.chart.Size(),
		Pops:      p.pops,
	}
}

// Tag builds a sentence from words and tags. If tags is nil, every word is
// tagged with its cheapest tag from the lexicon. Otherwise tags has to
// have the same length as words, and words missing from the lexicon are
// tolerated.
func Tag(g *grammar.Grammar, lex *grammar.Lexicon, words, tags []string) (Sentence, error) {
	if tags != nil && len(tags) != len(words) {
		return nil, errors.Errorf("%d words but %d tags", len(words), len(tags))
	}
	s := make(Sentence, len(words))
	for i, word := range words {
		w, known := -1, false
		if lex != nil {
			w, known = lex.Word(word)
			if !known {
				w = -1
			}
		}
		if tags != nil {
			t, err := g.Label(tags[i])
			if err != nil || !g.IsPreterminal(t) {
				return nil, errors.Wrapf(ErrUnknownWordOrTag, "tag %q", tags[i])
			}
			s[i] = Token{Word: w, Tag: t}
			continue
		}
		if !known {
			return nil, errors.Wrapf(ErrUnknownWordOrTag, "word %q", word)
		}
		best, cost := grammar.NoLabel, math.Inf(1)
		for _, t := range lex.Tags(w) {
			if c, _ := lex.Cost(w, t); c < cost {
				best, cost = t, c
			}
		}
		if best == grammar.NoLabel {
			return nil, errors.Wrapf(ErrUnknownWordOrTag, "word %q without tags", word)
		}
		s[i] = Token{Word: w, Tag: best}
	}
	return s, nil
}
