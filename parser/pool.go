package parser

import (
	"context"

	pool "github.com/jolestar/go-commons-pool"
	"github.com/npillmayer/lcfrs/estimate"
	"github.com/npillmayer/lcfrs/grammar"
	"github.com/pkg/errors"
)

// Pool hands out parsers for a grammar. Parsing sentences concurrently
// needs one parser per goroutine; pooling them keeps charts and agendas
// allocated between sentences.
type Pool struct {
	opool *pool.ObjectPool
	ctx   context.Context
}

// NewPool creates a pool of parsers for g, all sharing heuristic h and
// created with options opts. Pools grow as needed.
func NewPool(ctx context.Context, g *grammar.Grammar, h estimate.Heuristic, opts ...Option) *Pool {
	factory := pool.NewPooledObjectFactorySimple(
		func(context.Context) (interface{}, error) {
			return New(g, h, opts...), nil
		})
	config := pool.NewDefaultPoolConfig()
	config.MaxTotal = -1 // infinity
	config.BlockWhenExhausted = false
	return &Pool{
		opool: pool.NewObjectPool(ctx, factory, config),
		ctx:   ctx,
	}
}

// Get borrows a parser in state Initialized.
func (p *Pool) Get() (*Parser, error) {
	o, err := p.opool.BorrowObject(p.ctx)
	if err != nil {
		return nil, errors.Wrap(err, "cannot borrow parser")
	}
	return o.(*Parser), nil
}

// Put resets a parser and puts it back into the pool. Items of the
// parser are invalid afterwards.
func (p *Pool) Put(parser *Parser) {
	parser.Reset()
	if err := p.opool.ReturnObject(p.ctx, parser); err != nil {
		tracer().Errorf("cannot return parser into pool: %v", err)
	}
}

// Parse borrows a parser, parses s and returns the derivation, if any.
// A nil derivation without error means there is no parse.
func (p *Pool) Parse(s Sentence) (*Derivation, float64, error) {
	parser, err := p.Get()
	if err != nil {
		return nil, 0, err
	}
	defer p.Put(parser)
	res, err := parser.Parse(s)
	if err != nil || !res.Found {
		return nil, 0, err
	}
	d, err := parser.Derivation()
	return d, res.Cost, err
}

// Close releases the pool's resources.
func (p *Pool) Close() {
	p.opool.Close(p.ctx)
}
