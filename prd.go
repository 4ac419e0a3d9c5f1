/*
Package prd is a predicated recursive-descent parsing engine.

A grammar is written in a BNF-like language extended with lookahead predicates,
guards, semantic hooks, tail-call rewriting ($become) and AST-shaping directives.
The grammar description contains no Go code, hooks and guards are bound by name
when a parse starts.

Consists of subpackages:
  - cmd/prdparse: console utility parsing files with a grammar and printing resulting trees;
  - cmd/prdgen: console utility converting grammar description to Go source file;
  - grammar: compiled grammar tables;
  - intern: string interner shared by the grammar, tokens and trees;
  - regcache: regular expressions with memoized match results;
  - langdef: converts grammar description to compiled grammar;
  - lexer: maximal munch tokenizer with comments and bracket pairing;
  - parser: parse driver, guards, hooks;
  - pipeline: compile, tokenize, and parse in one step, concurrent batch parsing;
  - source: source text with line index;
  - tree: syntax tree nodes, traversal, shape strings, selectors.

Typical usage is:

1. Describe grammar. Compile it with langdef.ParseString or embed it with prdgen.

2. Tokenize source text with lexer.Tokenize.

3. Define guards and hooks, then call parser.Parse with the name of the root rule.
*/
package prd

import (
	"fmt"
)

// Error classes used by subpackages, each class contains up to 99 error codes:
const (
	GrammarErrors  = 1   // used by langdef
	LexicalErrors  = 101 // used by lexer
	SyntaxErrors   = 201 // used by parser
	PipelineErrors = 301 // used by pipeline and cmd
)

// Error is the error type used by prd subpackages.
type Error struct {
	// Code contains non-zero error code.
	Code int

	// Message contains non-empty error message including source name and position information if provided.
	Message string

	// SourceName contains source name that caused this error or empty string.
	SourceName string

	// Line contains line number in source file or 0.
	Line int

	// Col contains column number in source file or 0.
	Col int
}

// SourcePos is used to retrieve source name and position information when constructing an error;
// source.Pos implements this interface.
type SourcePos interface {
	// SourceName returns source file name or empty string.
	SourceName() string
	// Line returns line number or 0.
	Line() int
	// Col returns column number or 0.
	Col() int
}

// NewError creates new Error structure.
// name, line, and col will be added to error message if provided (non-zero).
func NewError(code int, msg, name string, line, col int) *Error {
	if line != 0 && col != 0 {
		if name == "" {
			msg += fmt.Sprintf(" at line %d col %d", line, col)
		} else {
			msg += fmt.Sprintf(" in %s at line %d col %d", name, line, col)
		}
	}
	return &Error{code, msg, name, line, col}
}

// Error simply returns Error.Message.
func (e *Error) Error() string {
	return e.Message
}

// FormatError creates Error structure with no source and position information.
// params will be added to error message using fmt.Sprintf function.
func FormatError(code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	return NewError(code, msg, "", 0, 0)
}

// FormatErrorPos creates Error structure with source and position information.
// A nil pos yields the same result as FormatError.
// params will be added to error message using fmt.Sprintf function.
func FormatErrorPos(pos SourcePos, code int, msg string, params ...any) *Error {
	if len(params) > 0 {
		msg = fmt.Sprintf(msg, params...)
	}
	if pos == nil {
		return NewError(code, msg, "", 0, 0)
	}
	return NewError(code, msg, pos.SourceName(), pos.Line(), pos.Col())
}
