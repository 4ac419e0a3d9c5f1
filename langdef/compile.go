package langdef

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/btree"

	"github.com/ava12/prd"
	"github.com/ava12/prd/grammar"
	"github.com/ava12/prd/internal/ints"
	"github.com/ava12/prd/internal/queue"
	"github.com/ava12/prd/regcache"
	"github.com/ava12/prd/source"
)

// Magic pseudo-rule names.
const (
	BracketPairsRule       = "__BRACKET_PAIRS"
	CommentsRule           = "__COMMENTS"
	CommentPairsRule       = "__COMMENT_PAIRS"
	NestedCommentPairsRule = "__COMMENT_PAIRS_NESTED"
	CommentRegexesRule     = "__COMMENT_REGEXES"
	ReservedWordsRule      = "__RESERVED_WORDS"
)

var magicRules = map[string]bool{
	BracketPairsRule:       true,
	CommentsRule:           true,
	CommentPairsRule:       true,
	NestedCommentPairsRule: true,
	CommentRegexesRule:     true,
	ReservedWordsRule:      true,
}

type compiler struct {
	src      *source.Source
	g        *grammar.Grammar
	rules    []rawRule
	magic    map[string]rawRule
	// altIndex maps compiled alternation indexes to indexes in rules.
	altIndex [][]int
	literals btree.Map[string, bool]
	regexes  btree.Map[string, bool]
	warnings []*prd.Error
}

func newCompiler(src *source.Source, rules []rawRule) *compiler {
	return &compiler{
		src:   src,
		g:     grammar.New(),
		rules: rules,
		magic: make(map[string]rawRule),
	}
}

func (c *compiler) registerRules(e error) error {
	if e != nil {
		return e
	}

	rules := c.rules[:0:0]
	for _, r := range c.rules {
		name := r.name.value
		_, isRule := c.g.ByName[name]
		_, isMagic := c.magic[name]
		if isRule || isMagic {
			return duplicateRuleError(r.name, name)
		}

		if magicRules[name] {
			c.magic[name] = r
			continue
		}

		c.g.ByName[name] = len(rules)
		rules = append(rules, r)
		c.g.Points = append(c.g.Points, grammar.Point{
			Name:   name,
			NameID: c.g.Strings.Intern(name),
		})
	}
	c.rules = rules

	if len(c.rules) == 0 {
		return noRulesError(c.src)
	}
	return nil
}

func (c *compiler) compileRules(e error) error {
	if e != nil {
		return e
	}

	c.altIndex = make([][]int, len(c.rules))
	for i, r := range c.rules {
		if len(r.alts) > grammar.MaxAlternations {
			return tooManyAlternationsError(r.name, r.name.value)
		}

		p := &c.g.Points[i]
		p.Alternations = make([]grammar.Alternation, 0, len(r.alts))
		c.altIndex[i] = make([]int, 0, len(r.alts))
		for j, ra := range r.alts {
			if len(ra.terms) > grammar.MaxTerms {
				return tooManyTermsError(r.name, r.name.value)
			}

			alt, keep, e := c.compileAlternation(p, ra)
			if e != nil {
				return e
			}
			if keep {
				p.Alternations = append(p.Alternations, alt)
				c.altIndex[i] = append(c.altIndex[i], j)
			}
		}
	}
	return nil
}

func (c *compiler) regex(t rawTerm, register bool) (*regcache.Regex, error) {
	mode := regcache.Full
	if t.kind == prefixRegexItem {
		mode = regcache.Prefix
	}
	r, e := c.g.Pool.Get(t.value, mode)
	if e != nil {
		return nil, wrongRegexError(t, e)
	}

	if register && t.kind == regexItem {
		if _, e := c.g.Pool.Get(t.value, regcache.Munch); e != nil {
			return nil, wrongRegexError(t, e)
		}
		c.regexes.Set(t.value, true)
	}
	return r, nil
}

func (c *compiler) literal(t rawTerm) (grammar.Term, error) {
	if t.value == "" {
		return grammar.Term{}, emptyLiteralError(t)
	}
	c.literals.Set(t.value, true)
	return grammar.Term{Kind: grammar.LiteralTerm, Text: c.g.Strings.Intern(t.value), Name: t.value}, nil
}

func (c *compiler) compileAlternation(p *grammar.Point, ra rawAlt) (alt grammar.Alternation, keep bool, e error) {
	hadRecover := false
	terms := make([]grammar.Term, 0, len(ra.terms))
	add := func(t rawTerm, term grammar.Term) error {
		if term.Kind.IsPredicate() && len(terms) > 0 {
			return predicatePositionError(t)
		}
		terms = append(terms, term)
		return nil
	}

	for i := 0; i < len(ra.terms) && e == nil; i++ {
		t := ra.terms[i]
		var next *rawTerm
		if i+1 < len(ra.terms) {
			next = &ra.terms[i+1]
		}

		switch t.kind {
		case literalItem:
			var term grammar.Term
			term, e = c.literal(t)
			if e == nil {
				e = add(t, term)
			}

		case regexItem, fullRegexItem, prefixRegexItem:
			var r *regcache.Regex
			r, e = c.regex(t, true)
			if e == nil {
				e = add(t, grammar.Term{Kind: grammar.RegexTerm, Regex: r, Name: t.value})
			}

		case callItem:
			var term grammar.Term
			term, e = c.call(t)
			if e == nil {
				e = add(t, term)
			}

		case wordItem:
			switch t.value {
			case "@eof":
				e = add(t, grammar.Term{Kind: grammar.EOFTerm})

			case "@auto":
				if next == nil || (next.kind != literalItem && !next.kind.isRegex()) {
					return alt, false, autoTargetError(t)
				}
				var peek grammar.Term
				peek, e = c.peek(*next, 0)
				if e == nil {
					e = add(t, peek)
				}
				if e == nil {
					e = add(t, grammar.Term{Kind: grammar.DirectiveTerm, Directive: grammar.Any})
				}
				i++

			case "@recover", "@recover_before":
				if next == nil || !next.kind.isRegex() {
					return alt, false, recoverTargetError(t)
				}
				if p.Recover != nil {
					return alt, false, multipleRecoverError(t, p.Name)
				}
				var r *regcache.Regex
				r, e = c.regex(*next, true)
				if e == nil {
					p.Recover = &grammar.Recovery{Regex: r, Before: t.value == "@recover_before"}
					hadRecover = true
				}
				i++

			case "$pruned":
				alt.Pruned = true

			default:
				e = c.word(t, next, add)
			}

		default:
			e = unknownTermError(t)
		}
	}

	if e != nil {
		return alt, false, e
	}

	alt.Terms = terms
	return alt, !hadRecover || len(terms) > 0, nil
}

func (c *compiler) word(t rawTerm, next *rawTerm, add func(rawTerm, grammar.Term) error) error {
	name := t.value
	switch name[0] {
	case '$':
		d, has := grammar.DirectiveByName[name[1:]]
		if !has {
			return unknownTermError(t)
		}
		if d.NeedsRule() {
			if next == nil || next.kind != wordItem {
				return directiveTargetError(t)
			}
			if _, isRule := c.g.ByName[next.value]; !isRule {
				return directiveTargetError(t)
			}
		}
		return add(t, grammar.Term{Kind: grammar.DirectiveTerm, Directive: d, Name: name[1:]})

	case '@', '!':
		switch name {
		case "@peek", "@peekr", "@peekres", "@guard", "!hook":
			return wrongCallError(t, name+"(...)")
		}
		return unknownTermError(t)
	}

	index, has := c.g.ByName[name]
	if !has {
		if magicRules[name] {
			return unknownTermError(t)
		}
		return undefinedRuleError(t)
	}
	return add(t, grammar.Term{Kind: grammar.RuleTerm, Rule: index, Name: name})
}

// peek builds zero-width test of token at offset against a literal or a regex.
func (c *compiler) peek(arg rawTerm, offset int) (grammar.Term, error) {
	if arg.kind == literalItem {
		term, e := c.literal(arg)
		term.Kind = grammar.PeekTerm
		term.Offset = offset
		return term, e
	}

	r, e := c.regex(arg, true)
	if e != nil {
		return grammar.Term{}, e
	}
	return grammar.Term{Kind: grammar.PeekRegexTerm, Regex: r, Offset: offset, Name: arg.value}, nil
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z_0-9]*$`)

func (c *compiler) call(t rawTerm) (grammar.Term, error) {
	switch t.value {
	case "@peek", "@peekr", "@peekres":
		expected := t.value + "(N, regex)"
		if t.value == "@peek" {
			expected = "@peek(N, \"literal\")"
		}
		if len(t.args) != 2 || t.args[0].kind != wordItem {
			return grammar.Term{}, wrongCallError(t, expected)
		}
		offset, e := strconv.Atoi(t.args[0].value)
		if e != nil {
			return grammar.Term{}, wrongCallError(t, expected)
		}

		arg := t.args[1]
		if t.value == "@peek" {
			if arg.kind != literalItem {
				return grammar.Term{}, wrongCallError(t, expected)
			}
			return c.peek(arg, offset)
		}

		if !arg.kind.isRegex() {
			return grammar.Term{}, wrongCallError(t, expected)
		}
		term, e := c.peek(arg, offset)
		if t.value == "@peekres" {
			term.Kind = grammar.PeekReservedTerm
		}
		return term, e

	case "@guard", "!hook":
		if len(t.args) != 1 || t.args[0].kind != wordItem || !identRe.MatchString(t.args[0].value) {
			return grammar.Term{}, wrongCallError(t, t.value+"(name)")
		}
		kind := grammar.GuardTerm
		if t.value == "!hook" {
			kind = grammar.HookTerm
		}
		return grammar.Term{Kind: kind, Name: t.args[0].value}, nil
	}

	return grammar.Term{}, unknownTermError(t)
}

func (c *compiler) compileMagic(e error) error {
	if e != nil {
		return e
	}

	for _, name := range []string{
		BracketPairsRule, CommentsRule, CommentPairsRule, NestedCommentPairsRule,
		CommentRegexesRule, ReservedWordsRule,
	} {
		r, has := c.magic[name]
		if !has {
			continue
		}

		switch name {
		case BracketPairsRule:
			e = c.magicPairs(r, &c.g.BracketPairs, true)
		case CommentPairsRule:
			e = c.magicPairs(r, &c.g.CommentPairs, false)
		case NestedCommentPairsRule:
			e = c.magicPairs(r, &c.g.NestedCommentPairs, false)
		case CommentsRule:
			e = c.magicComments(r)
		case CommentRegexesRule:
			e = c.magicCommentRegexes(r)
		case ReservedWordsRule:
			e = c.magicReserved(r)
		}
		if e != nil {
			return e
		}
	}
	return nil
}

func isWordOrLiteral(t rawTerm) bool {
	return (t.kind == wordItem || t.kind == literalItem) && t.value != ""
}

func (c *compiler) magicPairs(r rawRule, pairs *[]grammar.Pair, exact bool) error {
	for _, alt := range r.alts {
		if len(alt.terms) == 0 && !exact {
			continue
		}
		if len(alt.terms)%2 != 0 || len(alt.terms) == 0 || (exact && len(alt.terms) != 2) {
			t := rawTerm{src: c.src, pos: alt.pos, text: strconv.Itoa(len(alt.terms)) + " items"}
			if len(alt.terms) > 0 {
				t.pos = alt.terms[0].pos
			}
			return magicRuleError(t, r.name.value, "pairs of delimiters")
		}
		for i := 0; i < len(alt.terms); i += 2 {
			opener, closer := alt.terms[i], alt.terms[i+1]
			if !isWordOrLiteral(opener) {
				return magicRuleError(opener, r.name.value, "delimiter")
			}
			if !isWordOrLiteral(closer) {
				return magicRuleError(closer, r.name.value, "delimiter")
			}
			*pairs = append(*pairs, grammar.Pair{Open: opener.value, Close: closer.value})
		}
	}
	return nil
}

func (c *compiler) magicComments(r rawRule) error {
	for _, alt := range r.alts {
		for _, t := range alt.terms {
			if !isWordOrLiteral(t) {
				return magicRuleError(t, r.name.value, "comment delimiter")
			}
			c.g.LineComments = append(c.g.LineComments, t.value)
		}
	}
	return nil
}

func (c *compiler) magicCommentRegexes(r rawRule) error {
	for _, alt := range r.alts {
		for _, t := range alt.terms {
			if !t.kind.isRegex() {
				return magicRuleError(t, r.name.value, "regex")
			}
			if _, e := c.g.Pool.Get(t.value, regcache.Munch); e != nil {
				return wrongRegexError(t, e)
			}
			c.g.CommentRegexes = append(c.g.CommentRegexes, t.value)
		}
	}
	return nil
}

func (c *compiler) magicReserved(r rawRule) error {
	var parts []string
	for _, alt := range r.alts {
		for _, t := range alt.terms {
			switch {
			case isWordOrLiteral(t):
				parts = append(parts, regexp.QuoteMeta(t.value))
			case t.kind.isRegex():
				parts = append(parts, t.value)
			default:
				return magicRuleError(t, r.name.value, "word or regex")
			}
		}
	}
	if len(parts) == 0 {
		return nil
	}

	reserved, e := c.g.Pool.Get(strings.Join(parts, "|"), regcache.Full)
	if e != nil {
		return wrongRegexError(r.name, e)
	}
	c.g.Reserved = reserved
	return nil
}

// findUnreachable warns about alternations following an alternation with no start predicate.
func (c *compiler) findUnreachable() {
	for i, p := range c.g.Points {
		for j, alt := range p.Alternations {
			if !alt.HasPredicate() && j+1 < len(p.Alternations) {
				raw := c.altIndex[i][j+1]
				pos := c.rules[i].name
				pos.pos = c.rules[i].alts[raw].pos
				c.warnings = append(c.warnings, unreachableAlternationWarning(pos, p.Name, raw))
				break
			}
		}
	}
}

// findUnusedRules warns about rules unreachable from the first one.
func (c *compiler) findUnusedRules() {
	unreached := ints.NewSet()
	for i := range c.g.Points {
		unreached.Add(i)
	}

	searchQueue := queue.New(0)
	for {
		index, fetched := searchQueue.First()
		if !fetched {
			break
		}
		if !unreached.Contains(index) {
			continue
		}

		unreached.Remove(index)
		for _, alt := range c.g.Points[index].Alternations {
			for _, t := range alt.Terms {
				if t.Kind == grammar.RuleTerm && unreached.Contains(t.Rule) {
					searchQueue.Append(t.Rule)
				}
			}
		}
	}

	if unreached.IsEmpty() {
		return
	}
	var names []string
	for _, i := range unreached.ToSlice() {
		names = append(names, c.g.Points[i].Name)
	}
	c.warnings = append(c.warnings, unusedRuleWarning(names))
}

func (c *compiler) buildGrammar(e error) (*grammar.Grammar, error) {
	if e != nil {
		return nil, e
	}

	c.g.Literals = make([]string, 0, c.literals.Len())
	c.literals.Scan(func(lit string, _ bool) bool {
		c.g.Literals = append(c.g.Literals, lit)
		return true
	})
	c.g.Regexes = make([]string, 0, c.regexes.Len())
	c.regexes.Scan(func(p string, _ bool) bool {
		c.g.Regexes = append(c.g.Regexes, p)
		return true
	})
	return c.g, nil
}
