package lexer

import (
	"github.com/ava12/prd/intern"
	"github.com/ava12/prd/source"
)

// Token is a single lexeme. Its text is interned in the grammar string table.
type Token struct {
	text   intern.ID
	pair   int32
	offset int
}

// NewToken creates a token, used mostly by hooks and tests.
func NewToken(text intern.ID, pair, offset int) Token {
	return Token{text, int32(pair), offset}
}

// Text returns interned token text.
func (t Token) Text() intern.ID {
	return t.text
}

// Pair returns signed distance in tokens to the matching bracket or 0 if the token is not paired.
// An opener has positive distance, a closer has negative one.
func (t Token) Pair() int {
	return int(t.pair)
}

// Offset returns byte offset of the token in its source.
func (t Token) Offset() int {
	return t.offset
}

// Pos resolves token position in src.
func (t Token) Pos(src *source.Source) source.Pos {
	return source.NewPos(src, t.offset)
}

// Texts converts token texts to strings, handy for debugging.
func Texts(tokens []Token, strs *intern.Table) []string {
	res := make([]string, len(tokens))
	for i, t := range tokens {
		res[i] = strs.Value(t.text)
	}
	return res
}
