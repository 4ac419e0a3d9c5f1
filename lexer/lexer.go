// Package lexer defines maximal munch tokenizer driven by a compiled grammar.
package lexer

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/ava12/prd/grammar"
	"github.com/ava12/prd/intern"
	"github.com/ava12/prd/regcache"
	"github.com/ava12/prd/source"
)

// Lexer splits source text into tokens.
// Lexer is immutable and safe for concurrent use, it only adds token texts
// to the grammar string table, which is synchronized.
type Lexer struct {
	strs           *intern.Table
	terminals      []*regcache.Regex
	literals       *regcache.Regex
	commentRegexes []*regcache.Regex
	lineComments   []string
	nested         []grammar.Pair
	pairs          []grammar.Pair
	openers        map[intern.ID]int
	closers        map[intern.ID]int
	brackets       []grammar.Pair
}

// New creates lexer for the terminal set of g.
// Literals fully matched by some tokenizer regex are left to that regex.
func New(g *grammar.Grammar) (*Lexer, error) {
	l := &Lexer{
		strs:         g.Strings,
		lineComments: g.LineComments,
		nested:       g.NestedCommentPairs,
		pairs:        g.CommentPairs,
		openers:      make(map[intern.ID]int, len(g.BracketPairs)),
		closers:      make(map[intern.ID]int, len(g.BracketPairs)),
		brackets:     g.BracketPairs,
	}

	full := make([]*regcache.Regex, 0, len(g.Regexes))
	for _, p := range g.Regexes {
		r, e := g.Pool.Get(p, regcache.Munch)
		if e != nil {
			return nil, wrongPatternError(p, e)
		}
		l.terminals = append(l.terminals, r)

		r, e = g.Pool.Get(p, regcache.Full)
		if e != nil {
			return nil, wrongPatternError(p, e)
		}
		full = append(full, r)
	}

	lits := make([]string, 0, len(g.Literals))
	for _, lit := range g.Literals {
		covered := slices.ContainsFunc(full, func(r *regcache.Regex) bool {
			return r.MatchString(lit)
		})
		if !covered && lit != "" {
			lits = append(lits, lit)
		}
	}
	if len(lits) > 0 {
		slices.SortStableFunc(lits, func(a, b string) int {
			return len(b) - len(a)
		})
		quoted := make([]string, len(lits))
		for i, lit := range lits {
			quoted[i] = regexp.QuoteMeta(lit)
		}
		p := strings.Join(quoted, "|")
		r, e := g.Pool.Get(p, regcache.Munch)
		if e != nil {
			return nil, wrongPatternError(p, e)
		}
		l.literals = r
	}

	for _, p := range g.CommentRegexes {
		r, e := g.Pool.Get(p, regcache.Munch)
		if e != nil {
			return nil, wrongPatternError(p, e)
		}
		l.commentRegexes = append(l.commentRegexes, r)
	}

	for i, bp := range g.BracketPairs {
		l.openers[l.strs.Intern(bp.Open)] = i
		l.closers[l.strs.Intern(bp.Close)] = i
	}

	return l, nil
}

// Tokenize converts src to tokens.
// On error returns tokens produced so far along with *Error.
func Tokenize(g *grammar.Grammar, name, text string) ([]Token, error) {
	l, e := New(g)
	if e != nil {
		return nil, e
	}
	return l.Tokenize(source.FromString(name, text))
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// Tokenize converts src to tokens.
// On error returns tokens produced so far along with *Error.
func (l *Lexer) Tokenize(src *source.Source) ([]Token, error) {
	text := src.Text()
	tokens := make([]Token, 0, len(text)/4+1)
	stacks := make([][]int, len(l.brackets))

	pos := 0
	for pos < len(text) {
		if isSpace(text[pos]) {
			pos++
			continue
		}

		size, e := l.skipComment(src, text, pos, len(tokens))
		if e != nil {
			return tokens, e
		}
		if size > 0 {
			pos += size
			continue
		}

		size = l.munch(text[pos:])
		if size <= 0 {
			return tokens, wrongCharError(src, pos, len(tokens))
		}

		index := len(tokens)
		id := l.strs.Intern(text[pos : pos+size])
		tokens = append(tokens, Token{text: id, offset: pos})

		if k, ok := l.closers[id]; ok && (l.brackets[k].Open != l.brackets[k].Close || len(stacks[k]) > 0) {
			stack := stacks[k]
			if len(stack) == 0 {
				return tokens[:index], unmatchedBracketError(src, pos, index, l.brackets[k].Close)
			}
			opener := stack[len(stack)-1]
			stacks[k] = stack[:len(stack)-1]
			tokens[opener].pair = int32(index - opener)
			tokens[index].pair = int32(opener - index)
		} else if k, ok := l.openers[id]; ok {
			stacks[k] = append(stacks[k], index)
		}

		pos += size
	}

	return tokens, nil
}

func (l *Lexer) munch(text string) int {
	longest := 0
	for _, r := range l.terminals {
		longest = max(longest, r.FindLen(text))
	}
	if l.literals != nil {
		longest = max(longest, l.literals.FindLen(text))
	}
	return longest
}

func (l *Lexer) skipComment(src *source.Source, text string, pos, count int) (int, error) {
	rest := text[pos:]

	for _, r := range l.commentRegexes {
		if n := r.FindLen(rest); n > 0 {
			return n, nil
		}
	}

	for _, lc := range l.lineComments {
		if lc != "" && strings.HasPrefix(rest, lc) {
			return skipLine(rest, len(lc)), nil
		}
	}

	for _, p := range l.nested {
		if p.Open != "" && strings.HasPrefix(rest, p.Open) {
			n := skipNested(rest, p)
			if n < 0 {
				return 0, unterminatedCommentError(src, pos, count, p.Open)
			}
			return n, nil
		}
	}

	for _, p := range l.pairs {
		if p.Open != "" && strings.HasPrefix(rest, p.Open) {
			i := strings.Index(rest[len(p.Open):], p.Close)
			if i < 0 {
				return 0, unterminatedCommentError(src, pos, count, p.Open)
			}
			return len(p.Open) + i + len(p.Close), nil
		}
	}

	return 0, nil
}

// skipLine returns the length of the comment up to the first unescaped newline.
// A backslash escapes any character, newlines included.
func skipLine(text string, i int) int {
	for i < len(text) {
		switch text[i] {
		case '\n':
			return i
		case '\\':
			i++
			if i >= len(text) {
				return i
			}
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return i
}

// skipNested returns the length of the nested comment or -1 if it is not terminated.
func skipNested(text string, p grammar.Pair) int {
	depth := 1
	i := len(p.Open)
	for i < len(text) {
		rest := text[i:]
		if strings.HasPrefix(rest, p.Close) {
			i += len(p.Close)
			depth--
			if depth == 0 {
				return i
			}
		} else if strings.HasPrefix(rest, p.Open) {
			i += len(p.Open)
			depth++
		} else {
			_, size := utf8.DecodeRuneInString(rest)
			i += size
		}
	}
	return -1
}
