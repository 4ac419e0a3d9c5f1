package lexer

import (
	"fmt"
	"unicode/utf8"

	"github.com/ava12/prd"
	"github.com/ava12/prd/source"
)

// Error codes used by lexer:
const (
	// WrongCharError indicates that lexer cannot fetch any token at current position.
	WrongCharError = prd.LexicalErrors + iota

	// UnmatchedBracketError indicates a closing bracket with no opener of the same kind.
	UnmatchedBracketError

	// UnterminatedCommentError indicates a paired comment with no closing delimiter.
	UnterminatedCommentError

	// WrongPatternError indicates a terminal or comment pattern that cannot be compiled.
	WrongPatternError
)

type baseError = prd.Error

// Error is returned by Tokenize. Offset is the byte offset of the failure,
// Count is the number of tokens produced before it.
type Error struct {
	baseError
	Offset int
	Count  int
}

// Unwrap returns embedded *prd.Error.
func (e *Error) Unwrap() error {
	return &e.baseError
}

func newError(src *source.Source, pos, count, code int, msg string, params ...any) *Error {
	return &Error{*prd.FormatErrorPos(source.NewPos(src, pos), code, msg, params...), pos, count}
}

func wrongCharError(src *source.Source, pos, count int) *Error {
	r, _ := utf8.DecodeRune(src.Content()[pos:])
	return newError(src, pos, count, WrongCharError, "wrong char %q (u+%x) at byte %d", r, r, pos)
}

func unmatchedBracketError(src *source.Source, pos, count int, text string) *Error {
	return newError(src, pos, count, UnmatchedBracketError, "unmatched delimiter %q", text)
}

func unterminatedCommentError(src *source.Source, pos, count int, open string) *Error {
	return newError(src, pos, count, UnterminatedCommentError, "unterminated comment starting with %q", open)
}

func wrongPatternError(pattern string, e error) *prd.Error {
	return prd.FormatError(WrongPatternError, "incorrect pattern %s (%s)", pattern, fmt.Sprint(e))
}
