/*
Package parser matches token streams against compiled grammars.

Alternations of a rule are tried in order, the first one whose start predicate
accepts is committed to. A failure inside a committed alternation fails the
whole rule unless the rule has a recovery regex, in which case a poisoned
placeholder node replaces the failed match.

Two strategies produce identical trees and errors. Recursive uses native calls
and is limited by DefaultDepthLimit. Worklist keeps activations on an explicit
stack and is only limited by memory unless a depth limit is set.
*/
package parser

import (
	"context"
	"log/slog"

	"github.com/ava12/prd/grammar"
	"github.com/ava12/prd/lexer"
	"github.com/ava12/prd/source"
	"github.com/ava12/prd/tree"
)

type Strategy int

const (
	Worklist Strategy = iota
	Recursive
)

func (s Strategy) String() string {
	if s == Recursive {
		return "recursive"
	}
	return "worklist"
}

// Parser holds grammar and settings, it is safe for concurrent use.
type Parser struct {
	grammar    *grammar.Grammar
	strategy   Strategy
	depthLimit int
	src        *source.Source
	logger     *slog.Logger
}

type Option func(p *Parser)

func WithStrategy(s Strategy) Option {
	return func(p *Parser) {
		p.strategy = s
	}
}

// WithDepthLimit limits rule nesting. Non-positive value selects the default:
// DefaultDepthLimit for Recursive, no limit for Worklist.
func WithDepthLimit(limit int) Option {
	return func(p *Parser) {
		p.depthLimit = limit
	}
}

// WithSource sets the source of tokens, it is used for line and column in error messages.
func WithSource(src *source.Source) Option {
	return func(p *Parser) {
		p.src = src
	}
}

// WithLogger enables debug trace of rule activations.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

func New(g *grammar.Grammar, opts ...Option) *Parser {
	p := &Parser{grammar: g}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Parser) Grammar() *grammar.Grammar {
	return p.grammar
}

func (p *Parser) Strategy() Strategy {
	return p.strategy
}

func (p *Parser) limit() int {
	if p.depthLimit > 0 || p.strategy == Worklist {
		return p.depthLimit
	}
	return DefaultDepthLimit
}

// Parse matches tokens against the root rule. Empty root selects the first rule of the grammar.
// guards and hooks may be nil.
func (p *Parser) Parse(ctx context.Context, root string, tokens []lexer.Token, guards Guards, hooks Hooks) (*tree.Node, error) {
	pc := newContext(ctx, p, tokens, guards, hooks)

	index := 0
	if root != "" {
		var found bool
		index, found = p.grammar.ByName[root]
		if !found {
			return nil, pc.unknownRootError(root)
		}
	}
	if len(p.grammar.Points) == 0 {
		return nil, pc.unknownRootError(root)
	}

	f := pc.newFrame(index, 0)
	if e := ctx.Err(); e != nil {
		return nil, pc.canceledError(&f, e)
	}
	if e := pc.callInit(&f); e != nil {
		return nil, e
	}
	if e := pc.activate(&f); e != nil {
		return nil, e
	}

	var (
		result tree.Node
		e      error
	)
	if p.strategy == Recursive {
		result, e = pc.parseRecursive(f, 0, p.limit())
	} else {
		result, e = pc.parseWorklist(f, p.limit())
	}
	if e != nil {
		return nil, e
	}
	return &result, nil
}

func (pc *Context) callInit(f *frame) error {
	hook, found := pc.hooks[InitHook]
	if !found {
		return nil
	}
	var children []tree.Node
	if _, e := hook(pc, pc.tokens, 0, &children); e != nil {
		return pc.hookError(f, InitHook, e)
	}
	return nil
}

// Parse uses the worklist strategy.
func Parse(ctx context.Context, g *grammar.Grammar, root string, tokens []lexer.Token, guards Guards, hooks Hooks) (*tree.Node, error) {
	return New(g).Parse(ctx, root, tokens, guards, hooks)
}

func ParseRecursive(ctx context.Context, g *grammar.Grammar, root string, tokens []lexer.Token, guards Guards, hooks Hooks) (*tree.Node, error) {
	return New(g, WithStrategy(Recursive)).Parse(ctx, root, tokens, guards, hooks)
}
