// Package grammar defines compiled grammar tables used by lexer and parser.
//
// A Grammar is produced by langdef and is read-only afterwards, except for its
// string table and regex memos which are safe for concurrent use.
package grammar

import (
	"github.com/ava12/prd/intern"
	"github.com/ava12/prd/regcache"
)

// Caps on the size of a single rule.
const (
	MaxAlternations = 60000
	MaxTerms        = 60000
)

// TermKind tells how a Term is matched.
type TermKind int

const (
	// RuleTerm descends into Point number Rule.
	RuleTerm TermKind = iota
	// LiteralTerm matches a token whose text is exactly Text.
	LiteralTerm
	// RegexTerm matches a token accepted by Regex.
	RegexTerm
	// DirectiveTerm applies Directive to the rest of the alternation or to the node built so far.
	DirectiveTerm
	// HookTerm calls the hook named Name.
	HookTerm
	// GuardTerm calls the guard named Name. Start predicate.
	GuardTerm
	// PeekTerm tests the token at Offset against Text. Start predicate.
	PeekTerm
	// PeekRegexTerm tests the token at Offset against Regex. Start predicate.
	PeekRegexTerm
	// PeekReservedTerm is PeekRegexTerm that fails on reserved words. Start predicate.
	PeekReservedTerm
	// EOFTerm succeeds when there are no more tokens. Start predicate.
	EOFTerm
)

var termKindNames = [...]string{
	"rule", "literal", "regex", "directive", "hook", "guard", "peek", "peekr", "peekres", "eof",
}

func (k TermKind) String() string {
	if k < 0 || int(k) >= len(termKindNames) {
		return "unknown"
	}
	return termKindNames[k]
}

// IsPredicate tells whether a term of this kind may only start an alternation.
func (k TermKind) IsPredicate() bool {
	return k >= GuardTerm
}

// Directive is an AST-shaping or control-flow instruction.
type Directive int

const (
	// Become replaces the current rule with the next rule, keeping the node built so far.
	Become Directive = iota
	// BecomeAs is Become that also renames the node to the next rule name.
	BecomeAs
	// Hoist replaces the last child with its children.
	Hoist
	// HoistIfUnit replaces the last child with its children if it has exactly one child.
	HoistIfUnit
	// Drop removes the last child.
	Drop
	// DropIfEmpty removes the last child if it is a parent node.
	DropIfEmpty
	// Any consumes one token unconditionally.
	Any
	// Rename renames the node to the next rule name, the rule itself is skipped.
	Rename
)

var directiveNames = [...]string{
	"become", "become_as", "hoist", "hoist_unit", "drop", "drop_empty", "any", "rename",
}

func (d Directive) String() string {
	if d < 0 || int(d) >= len(directiveNames) {
		return "unknown"
	}
	return directiveNames[d]
}

// DirectiveByName maps directive names (without leading "$") to directives.
var DirectiveByName = map[string]Directive{
	"become":     Become,
	"become_as":  BecomeAs,
	"hoist":      Hoist,
	"hoist_unit": HoistIfUnit,
	"drop":       Drop,
	"drop_empty": DropIfEmpty,
	"any":        Any,
	"rename":     Rename,
}

// NeedsRule tells whether a directive must be followed by a rule reference.
func (d Directive) NeedsRule() bool {
	return d == Become || d == BecomeAs || d == Rename
}

// Term is a single element of an alternation.
// Name holds the rule name, literal text, regex pattern, or hook/guard name,
// whichever applies to Kind.
type Term struct {
	Kind      TermKind
	Rule      int             `json:",omitempty"`
	Text      intern.ID       `json:"-"`
	Name      string          `json:",omitempty"`
	Regex     *regcache.Regex `json:"-"`
	Offset    int             `json:",omitempty"`
	Directive Directive       `json:",omitempty"`
}

// Alternation is an ordered sequence of terms.
type Alternation struct {
	Terms []Term
	// Pruned alternations do not emit leaves for matched terminals.
	Pruned bool `json:",omitempty"`
}

// HasPredicate tells whether the alternation starts with a start predicate.
func (a *Alternation) HasPredicate() bool {
	return len(a.Terms) > 0 && a.Terms[0].Kind.IsPredicate()
}

// Recovery describes rule-level error recovery: on failure the parser skips
// tokens up to (Before) or through the first token accepted by Regex.
type Recovery struct {
	Regex  *regcache.Regex `json:"-"`
	Before bool            `json:",omitempty"`
}

// Point is a compiled rule.
type Point struct {
	Name         string
	NameID       intern.ID `json:"-"`
	Alternations []Alternation
	Recover      *Recovery `json:",omitempty"`
}

// Pair is a pair of delimiters: brackets or comment markers.
type Pair struct {
	Open, Close string
}

// Grammar contains everything needed to tokenize and parse a language.
type Grammar struct {
	// Points are rules in declaration order.
	Points []Point
	// ByName maps rule names to indexes in Points.
	ByName map[string]int `json:"-"`

	// Literals are tokenizer literals in deterministic order.
	Literals []string
	// Regexes are tokenizer patterns, unanchored, in deterministic order.
	Regexes []string

	BracketPairs       []Pair   `json:",omitempty"`
	LineComments       []string `json:",omitempty"`
	CommentPairs       []Pair   `json:",omitempty"`
	NestedCommentPairs []Pair   `json:",omitempty"`
	CommentRegexes     []string `json:",omitempty"`

	// Reserved is full-match regex of reserved words or nil.
	Reserved *regcache.Regex `json:"-"`

	Strings *intern.Table  `json:"-"`
	Pool    *regcache.Pool `json:"-"`
}

// New creates empty grammar with its own string table and regex pool.
func New() *Grammar {
	return &Grammar{
		ByName:  make(map[string]int),
		Strings: intern.NewTable(64),
		Pool:    regcache.NewPool(),
	}
}

// Point returns rule by name.
func (g *Grammar) Point(name string) (*Point, bool) {
	i, has := g.ByName[name]
	if !has {
		return nil, false
	}
	return &g.Points[i], true
}

// Text returns interned string.
func (g *Grammar) Text(id intern.ID) string {
	return g.Strings.Value(id)
}
