package parser

import (
	"context"
	"log/slog"
	"reflect"

	"github.com/ava12/prd/grammar"
	"github.com/ava12/prd/intern"
	"github.com/ava12/prd/lexer"
	"github.com/ava12/prd/regcache"
	"github.com/ava12/prd/source"
	"github.com/ava12/prd/tree"
)

// GuardFunc decides whether an alternation starting with @guard(name) is taken.
// A non-nil error aborts the whole parse, rule-level recovery is not applied.
type GuardFunc = func(pc *Context, tokens []lexer.Token, pos int) (bool, error)

// HookFunc is called for !hook(name) terms. It may append nodes to children and
// returns the number of tokens consumed starting at pos.
type HookFunc = func(pc *Context, tokens []lexer.Token, pos int, children *[]tree.Node) (int, error)

type Guards map[string]GuardFunc
type Hooks map[string]HookFunc

// InitHook is the name of the hook called once before parsing starts.
const InitHook = "init"

// pollInterval is the number of activations between context checks.
const pollInterval = 1024

// Context is the state of a single parse. It is passed to guards and hooks.
type Context struct {
	ctx     context.Context
	g       *grammar.Grammar
	src     *source.Source
	logger  *slog.Logger
	tokens  []lexer.Token
	guards  Guards
	hooks   Hooks
	data    map[reflect.Type]any
	counter int
}

func newContext(ctx context.Context, p *Parser, tokens []lexer.Token, guards Guards, hooks Hooks) *Context {
	return &Context{
		ctx:    ctx,
		g:      p.grammar,
		src:    p.src,
		logger: p.logger,
		tokens: tokens,
		guards: guards,
		hooks:  hooks,
	}
}

func (pc *Context) Context() context.Context {
	return pc.ctx
}

func (pc *Context) Grammar() *grammar.Grammar {
	return pc.g
}

// Source returns the source set with WithSource or nil.
func (pc *Context) Source() *source.Source {
	return pc.src
}

func (pc *Context) Tokens() []lexer.Token {
	return pc.tokens
}

// Text returns interned string.
func (pc *Context) Text(id intern.ID) string {
	return pc.g.Text(id)
}

// TokenText returns text of the token at index or empty string if index is out of range.
func (pc *Context) TokenText(index int) string {
	if index < 0 || index >= len(pc.tokens) {
		return ""
	}
	return pc.g.Text(pc.tokens[index].Text())
}

// Regex returns full-match regex from the grammar pool, compiling it on first use.
func (pc *Context) Regex(pattern string) (*regcache.Regex, error) {
	return pc.g.Pool.Get(pattern, regcache.Full)
}

// SetData stores a value of type T in the parse context, replacing the previous one.
func SetData[T any](pc *Context, value T) {
	if pc.data == nil {
		pc.data = make(map[reflect.Type]any)
	}
	pc.data[reflect.TypeFor[T]()] = value
}

// Data returns the value of type T stored with SetData.
func Data[T any](pc *Context) (value T, found bool) {
	v, found := pc.data[reflect.TypeFor[T]()]
	if found {
		value = v.(T)
	}
	return value, found
}

func (pc *Context) trace(msg string, f *frame, depth int) {
	if pc.logger == nil {
		return
	}
	pc.logger.DebugContext(pc.ctx, msg,
		slog.String("rule", pc.g.Points[f.point].Name),
		slog.Int("pos", f.pos),
		slog.Int("depth", depth),
	)
}

// activate counts rule activations and polls for cancellation.
func (pc *Context) activate(f *frame) error {
	pc.counter++
	if pc.counter%pollInterval != 0 {
		return nil
	}
	if e := pc.ctx.Err(); e != nil {
		return pc.canceledError(f, e)
	}
	return nil
}
