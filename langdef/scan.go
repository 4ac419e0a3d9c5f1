package langdef

import (
	"strings"
	"unicode/utf8"

	"github.com/ava12/prd/source"
)

type itemKind int

const (
	wordItem itemKind = iota
	literalItem
	regexItem
	fullRegexItem
	prefixRegexItem
	callItem
	separatorItem
	pipeItem
)

func (k itemKind) isRegex() bool {
	return k == regexItem || k == fullRegexItem || k == prefixRegexItem
}

// rawTerm is a single item of grammar description.
// value holds unescaped literal text, regex pattern, or call name.
type rawTerm struct {
	kind  itemKind
	text  string
	value string
	args  []rawTerm
	src   *source.Source
	pos   int
}

type rawAlt struct {
	pos   int
	terms []rawTerm
}

type rawRule struct {
	name rawTerm
	alts []rawAlt
}

type scanner struct {
	src  *source.Source
	text string
	pos  int
}

func newScanner(src *source.Source) *scanner {
	return &scanner{src: src, text: src.Text()}
}

var escapeCharMap = map[byte]byte{
	'\\': '\\',
	'"':  '"',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
}

func (s *scanner) isContinuation(pos int) int {
	if pos >= len(s.text) || s.text[pos] != '\\' {
		return 0
	}
	rest := s.text[pos+1:]
	if strings.HasPrefix(rest, "\n") {
		return 2
	}
	if strings.HasPrefix(rest, "\r\n") {
		return 3
	}
	return 0
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\f'
}

// line returns the items of the next logical line.
// more is false when the source is exhausted.
func (s *scanner) line() (items []rawTerm, more bool, e error) {
	if s.pos >= len(s.text) {
		return nil, false, nil
	}

	for s.pos < len(s.text) {
		c := s.text[s.pos]
		switch {
		case c == '\n':
			s.pos++
			return items, true, nil
		case isBlank(c):
			s.pos++
		case s.isContinuation(s.pos) > 0:
			s.pos += s.isContinuation(s.pos)
		case c == '#':
			if i := strings.IndexByte(s.text[s.pos:], '\n'); i >= 0 {
				s.pos += i
			} else {
				s.pos = len(s.text)
			}
		default:
			item, e := s.item(" \t\r\f\n|\"#")
			if e != nil {
				return nil, false, e
			}
			items = append(items, item)
		}
	}
	return items, true, nil
}

func (s *scanner) newItem(kind itemKind, start int, value string) rawTerm {
	return rawTerm{kind: kind, text: s.text[start:s.pos], value: value, src: s.src, pos: start}
}

func (s *scanner) isRegexStart() bool {
	rest := s.text[s.pos:]
	return len(rest) >= 2 && rest[1] == '`' && (rest[0] == 'r' || rest[0] == 'R' || rest[0] == 'A')
}

// item scans the item at current position, stop lists bytes ending a bare word.
func (s *scanner) item(stop string) (rawTerm, error) {
	start := s.pos
	rest := s.text[s.pos:]

	switch {
	case rest[0] == '"':
		return s.literal()
	case s.isRegexStart():
		return s.regex()
	case strings.HasPrefix(rest, "::="):
		s.pos += 3
		return s.newItem(separatorItem, start, "::="), nil
	case rest[0] == '|':
		s.pos++
		return s.newItem(pipeItem, start, "|"), nil
	}

	isCall := rest[0] == '@' || rest[0] == '!'
	if isCall {
		stop += "("
	}
	for s.pos < len(s.text) && strings.IndexByte(stop, s.text[s.pos]) < 0 && s.isContinuation(s.pos) == 0 {
		_, size := utf8.DecodeRuneInString(s.text[s.pos:])
		s.pos += size
	}
	if s.pos == start {
		r, _ := utf8.DecodeRuneInString(rest)
		return rawTerm{}, unexpectedCharError(s.src, start, r)
	}

	name := s.text[start:s.pos]
	if !isCall || s.pos >= len(s.text) || s.text[s.pos] != '(' {
		return s.newItem(wordItem, start, name), nil
	}

	args, e := s.args(start)
	if e != nil {
		return rawTerm{}, e
	}
	item := s.newItem(callItem, start, name)
	item.args = args
	return item, nil
}

// args scans parenthesized comma separated call arguments.
func (s *scanner) args(start int) ([]rawTerm, error) {
	s.pos++
	var args []rawTerm
	expectArg := true
	for s.pos < len(s.text) {
		c := s.text[s.pos]
		switch {
		case isBlank(c):
			s.pos++
		case s.isContinuation(s.pos) > 0:
			s.pos += s.isContinuation(s.pos)
		case c == ')':
			s.pos++
			return args, nil
		case c == ',' && !expectArg:
			s.pos++
			expectArg = true
		case c == '\n' || c == ',' || !expectArg:
			return nil, posError(s.src, s.pos, WrongCallError, "malformed argument list of %s", s.text[start:s.pos])
		default:
			arg, e := s.item(" \t\r\f\n,)\"#|")
			if e != nil {
				return nil, e
			}
			args = append(args, arg)
			expectArg = false
		}
	}
	return nil, posError(s.src, start, WrongCallError, "unterminated argument list")
}

func (s *scanner) literal() (rawTerm, error) {
	start := s.pos
	s.pos++
	var sb strings.Builder
	for s.pos < len(s.text) {
		c := s.text[s.pos]
		switch c {
		case '"':
			s.pos++
			return s.newItem(literalItem, start, sb.String()), nil
		case '\n':
			return rawTerm{}, unterminatedLiteralError(s.src, start)
		case '\\':
			if s.pos+1 < len(s.text) {
				if sub, has := escapeCharMap[s.text[s.pos+1]]; has {
					sb.WriteByte(sub)
					s.pos += 2
					continue
				}
			}
		}
		sb.WriteByte(c)
		s.pos++
	}
	return rawTerm{}, unterminatedLiteralError(s.src, start)
}

func (s *scanner) regex() (rawTerm, error) {
	start := s.pos
	kind := regexItem
	switch s.text[s.pos] {
	case 'R':
		kind = fullRegexItem
	case 'A':
		kind = prefixRegexItem
	}

	s.pos += 2
	var sb strings.Builder
	for s.pos < len(s.text) {
		if strings.HasPrefix(s.text[s.pos:], "`r") {
			s.pos += 2
			return s.newItem(kind, start, sb.String()), nil
		}
		if n := s.isContinuation(s.pos); n > 0 {
			s.pos += n
			continue
		}
		if s.text[s.pos] == '\n' {
			break
		}
		sb.WriteByte(s.text[s.pos])
		s.pos++
	}
	return rawTerm{}, unterminatedRegexError(s.src, start)
}

// splitRules groups logical lines into rules.
// A line whose second item is ::= starts a rule, other lines continue the current one.
func splitRules(src *source.Source) ([]rawRule, error) {
	s := newScanner(src)
	var rules []rawRule

	for {
		items, more, e := s.line()
		if e != nil {
			return nil, e
		}
		if !more {
			break
		}
		if len(items) == 0 {
			continue
		}

		rest := items
		if len(items) >= 2 && items[1].kind == separatorItem {
			if items[0].kind != wordItem {
				return nil, misplacedSeparatorError(src, items[1].pos)
			}
			rules = append(rules, rawRule{name: items[0], alts: []rawAlt{{pos: items[1].pos + 3}}})
			rest = items[2:]
		} else if len(rules) == 0 {
			return nil, missingRuleError(src, items[0].pos)
		}

		rule := &rules[len(rules)-1]
		for _, item := range rest {
			switch item.kind {
			case separatorItem:
				return nil, misplacedSeparatorError(src, item.pos)
			case pipeItem:
				rule.alts = append(rule.alts, rawAlt{pos: item.pos + 1})
			default:
				alt := &rule.alts[len(rule.alts)-1]
				alt.terms = append(alt.terms, item)
			}
		}
	}

	return rules, nil
}
