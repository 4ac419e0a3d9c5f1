// Package pipeline compiles a grammar once and runs tokenizer and parser over
// any number of sources, optionally in parallel.
package pipeline

import (
	"context"
	"os"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/ava12/prd/grammar"
	"github.com/ava12/prd/langdef"
	"github.com/ava12/prd/lexer"
	"github.com/ava12/prd/parser"
	"github.com/ava12/prd/source"
	"github.com/ava12/prd/tree"
)

// Engine holds a compiled grammar with its tokenizer and parser.
// Engine is safe for concurrent use as long as guards and hooks are.
type Engine struct {
	grammar  *grammar.Grammar
	lexer    *lexer.Lexer
	root     string
	guards   parser.Guards
	hooks    parser.Hooks
	warnings langdef.WarningReporter
	popts    []parser.Option
}

type Option func(*Engine)

// WithRoot sets the root rule, default is the first rule of the grammar.
func WithRoot(root string) Option {
	return func(en *Engine) {
		en.root = root
	}
}

func WithGuards(guards parser.Guards) Option {
	return func(en *Engine) {
		en.guards = guards
	}
}

func WithHooks(hooks parser.Hooks) Option {
	return func(en *Engine) {
		en.hooks = hooks
	}
}

// WithParserOptions passes options to parser.New. WithSource is added for every parsed source.
func WithParserOptions(opts ...parser.Option) Option {
	return func(en *Engine) {
		en.popts = append(en.popts, opts...)
	}
}

// WithWarnings sets the receiver of grammar warnings, used by Compile only.
func WithWarnings(w langdef.WarningReporter) Option {
	return func(en *Engine) {
		en.warnings = w
	}
}

// Compile compiles grammar text and creates Engine for it.
func Compile(name, text string, opts ...Option) (*Engine, error) {
	en := &Engine{}
	for _, opt := range opts {
		opt(en)
	}
	g, e := langdef.Config{Warnings: en.warnings}.Parse(source.FromString(name, text))
	if e != nil {
		return nil, e
	}
	return en.init(g)
}

// New creates Engine for a compiled grammar.
func New(g *grammar.Grammar, opts ...Option) (*Engine, error) {
	en := &Engine{}
	for _, opt := range opts {
		opt(en)
	}
	return en.init(g)
}

func (en *Engine) init(g *grammar.Grammar) (*Engine, error) {
	l, e := lexer.New(g)
	if e != nil {
		return nil, lexerError(e)
	}
	en.grammar = g
	en.lexer = l
	return en, nil
}

func (en *Engine) Grammar() *grammar.Grammar {
	return en.grammar
}

// Result is the outcome of parsing a single source.
// On lexical error Tokens holds the tokens produced before the error and Tree is nil.
type Result struct {
	Source *source.Source
	Tokens []lexer.Token
	Tree   *tree.Node
	Err    error
}

// ParseSource tokenizes and parses src.
func (en *Engine) ParseSource(ctx context.Context, src *source.Source) Result {
	r := Result{Source: src}
	r.Tokens, r.Err = en.lexer.Tokenize(src)
	if r.Err != nil {
		return r
	}

	p := parser.New(en.grammar, append(slices.Clip(en.popts), parser.WithSource(src))...)
	r.Tree, r.Err = p.Parse(ctx, en.root, r.Tokens, en.guards, en.hooks)
	return r
}

// ParseString tokenizes and parses text, name is used in error messages.
func (en *Engine) ParseString(ctx context.Context, name, text string) (*tree.Node, error) {
	r := en.ParseSource(ctx, source.FromString(name, text))
	return r.Tree, r.Err
}

// ParseAll parses sources using up to parallelism goroutines, parallelism <= 0 means GOMAXPROCS.
// Results are in input order, per-source errors are stored in Result.Err.
// The returned error is non-nil only if ctx is done before all sources are parsed.
func (en *Engine) ParseAll(ctx context.Context, sources []*source.Source, parallelism int) ([]Result, error) {
	results := make([]Result, len(sources))
	e := en.run(ctx, len(sources), parallelism, func(ctx context.Context, i int) {
		results[i] = en.ParseSource(ctx, sources[i])
	})
	return results, e
}

// ParseFiles reads and parses files, see ParseAll.
func (en *Engine) ParseFiles(ctx context.Context, names []string, parallelism int) ([]Result, error) {
	results := make([]Result, len(names))
	e := en.run(ctx, len(names), parallelism, func(ctx context.Context, i int) {
		content, e := os.ReadFile(names[i])
		if e != nil {
			results[i] = Result{Source: source.New(names[i], nil), Err: readError(names[i], e)}
			return
		}
		results[i] = en.ParseSource(ctx, source.New(names[i], content))
	})
	return results, e
}

func (en *Engine) run(ctx context.Context, n, parallelism int, task func(context.Context, int)) error {
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(parallelism)
	for i := 0; i < n && gctx.Err() == nil; i++ {
		grp.Go(func() error {
			if e := gctx.Err(); e != nil {
				return e
			}
			task(gctx, i)
			return nil
		})
	}
	if e := grp.Wait(); e != nil {
		return e
	}
	return ctx.Err()
}
