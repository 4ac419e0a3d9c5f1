package parser

import (
	"github.com/ava12/prd"
	"github.com/ava12/prd/source"
)

// Error codes used by parser:
const (
	UnknownRootError = prd.SyntaxErrors + iota
	MatchTokenError
	MatchRuleError
	HookError
	GuardError
	UnknownGuardError
	UnknownHookError
	DepthLimitError
	CanceledError
)

type baseError = prd.Error

// Error is a parse error.
type Error struct {
	baseError
	// Token is the index of the token where matching stopped, may be equal to number of tokens.
	Token int
	// Rule is the name of the rule being matched.
	Rule string
	// BehalfOf is the name of the node being built, differs from Rule after $become or $rename.
	BehalfOf string
	// Alternation is the index of the alternation or -1 if none was chosen.
	Alternation int
	// Term is the index of the term in Alternation or -1.
	Term int

	cause error
	fatal bool
}

func (e *Error) Unwrap() []error {
	if e.cause == nil {
		return []error{&e.baseError}
	}
	return []error{&e.baseError, e.cause}
}

// Cause returns the error returned by a hook or guard, or nil.
func (e *Error) Cause() error {
	return e.cause
}

// IsFatal tells whether the error bypasses rule-level recovery.
func (e *Error) IsFatal() bool {
	return e.fatal
}

func (pc *Context) errorPos(index int) prd.SourcePos {
	if pc.src == nil {
		return nil
	}
	if index < len(pc.tokens) {
		return pc.tokens[index].Pos(pc.src)
	}
	return source.NewPos(pc.src, pc.src.Len())
}

func (pc *Context) newError(f *frame, code int, msg string, params ...any) *Error {
	return &Error{
		baseError:   *prd.FormatErrorPos(pc.errorPos(f.pos), code, msg, params...),
		Token:       f.pos,
		Rule:        pc.g.Points[f.point].Name,
		BehalfOf:    pc.g.Text(f.name),
		Alternation: f.alt,
		Term:        f.term,
	}
}

func (pc *Context) tokenText(index int) string {
	if index < 0 || index >= len(pc.tokens) {
		return "<no token>"
	}
	return pc.g.Text(pc.tokens[index].Text())
}

func (pc *Context) unknownRootError(name string) *Error {
	return &Error{
		baseError:   *prd.FormatError(UnknownRootError, "unknown root rule %q", name),
		Rule:        name,
		BehalfOf:    name,
		Alternation: -1,
		Term:        -1,
		fatal:       true,
	}
}

func (pc *Context) matchTokenError(f *frame) *Error {
	return pc.newError(f, MatchTokenError, "failed to match token at %d in rule %s alt %d, token is `%s`",
		f.pos, pc.g.Points[f.point].Name, f.alt, pc.tokenText(f.pos))
}

func (pc *Context) matchRuleError(f *frame) *Error {
	e := pc.newError(f, MatchRuleError, "failed to match rule %s at token position %d",
		pc.g.Points[f.point].Name, f.start)
	e.Term = -1
	return e
}

func (pc *Context) hookError(f *frame, name string, cause error) *Error {
	e := pc.newError(f, HookError, "hook %s in rule %s: %s", name, pc.g.Points[f.point].Name, cause.Error())
	e.cause = cause
	return e
}

func (pc *Context) hookCountError(f *frame, name string, count int) *Error {
	return pc.newError(f, HookError, "hook %s in rule %s consumed %d tokens at position %d of %d",
		name, pc.g.Points[f.point].Name, count, f.pos, len(pc.tokens))
}

func (pc *Context) guardError(f *frame, name string, cause error) *Error {
	e := pc.newError(f, GuardError, "guard %s in rule %s: %s", name, pc.g.Points[f.point].Name, cause.Error())
	e.Term = -1
	e.cause = cause
	e.fatal = true
	return e
}

func (pc *Context) unknownGuardError(f *frame, name string) *Error {
	e := pc.newError(f, UnknownGuardError, "unknown guard %s inside of %s", name, pc.g.Text(f.name))
	e.Term = -1
	e.fatal = true
	return e
}

func (pc *Context) unknownHookError(f *frame, name string) *Error {
	e := pc.newError(f, UnknownHookError, "unknown hook %s inside of %s", name, pc.g.Text(f.name))
	e.fatal = true
	return e
}

func (pc *Context) depthLimitError(f *frame, limit int) *Error {
	e := pc.newError(f, DepthLimitError, "exceeded depth limit of %d", limit)
	e.fatal = true
	return e
}

func (pc *Context) canceledError(f *frame, cause error) *Error {
	e := pc.newError(f, CanceledError, "parsing canceled: %s", cause.Error())
	e.cause = cause
	e.fatal = true
	return e
}

// inRule prefixes the message of a child error with the enclosing rule name.
func (pc *Context) inRule(f *frame, e error) error {
	pe, ok := e.(*Error)
	if !ok {
		return e
	}
	result := *pe
	result.Message = "In rule " + pc.g.Points[f.point].Name + ": " + pe.Message
	return &result
}
