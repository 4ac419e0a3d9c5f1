package langdef

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/prd"
	"github.com/ava12/prd/grammar"
	. "github.com/ava12/prd/internal/test"
	"github.com/ava12/prd/regcache"
	"github.com/ava12/prd/source"
)

func sourceOf(text string) *source.Source {
	return source.FromString("test", text)
}

func compile(t *testing.T, text string) (*grammar.Grammar, []*prd.Error) {
	t.Helper()
	var warnings []*prd.Error
	c := Config{Warnings: func(w *prd.Error) { warnings = append(warnings, w) }}
	g, e := c.Parse(sourceOf(text))
	require.NoError(t, e, "grammar %q", text)
	return g, warnings
}

func kinds(alt grammar.Alternation) []grammar.TermKind {
	result := make([]grammar.TermKind, len(alt.Terms))
	for i, t := range alt.Terms {
		result[i] = t.Kind
	}
	return result
}

func TestNestedParens(t *testing.T) {
	g, warnings := compile(t, `S ::= @peek(0, "(") "(" S ")" | "x"`)
	assert.Empty(t, warnings)
	require.Len(t, g.Points, 1)

	p := g.Points[0]
	assert.Equal(t, "S", p.Name)
	assert.Equal(t, "S", g.Text(p.NameID))
	require.Len(t, p.Alternations, 2)
	assert.Equal(t, []grammar.TermKind{
		grammar.PeekTerm, grammar.LiteralTerm, grammar.RuleTerm, grammar.LiteralTerm,
	}, kinds(p.Alternations[0]))
	assert.Equal(t, []grammar.TermKind{grammar.LiteralTerm}, kinds(p.Alternations[1]))
	assert.Equal(t, 0, p.Alternations[0].Terms[2].Rule)
	assert.Equal(t, "(", g.Text(p.Alternations[0].Terms[0].Text))
	assert.Equal(t, []string{"(", ")", "x"}, g.Literals)
	assert.Empty(t, g.Regexes)
}

func TestMultiLineRules(t *testing.T) {
	text := "# list of items\n" +
		"list ::= item $become list\n" +
		"  | @eof\n" +
		"item ::= r`[a-z]+`r \\\n" +
		"  \";\"\n" +
		"\n" +
		"other ::= \"x\" | \"y\"\n"
	g, warnings := compile(t, text)
	require.Len(t, g.Points, 3)

	list, has := g.Point("list")
	require.True(t, has)
	require.Len(t, list.Alternations, 2)
	assert.Equal(t, []grammar.TermKind{grammar.RuleTerm, grammar.DirectiveTerm, grammar.RuleTerm}, kinds(list.Alternations[0]))
	assert.Equal(t, grammar.Become, list.Alternations[0].Terms[1].Directive)
	assert.Equal(t, []grammar.TermKind{grammar.EOFTerm}, kinds(list.Alternations[1]))

	item, _ := g.Point("item")
	require.Len(t, item.Alternations, 1)
	assert.Equal(t, []grammar.TermKind{grammar.RegexTerm, grammar.LiteralTerm}, kinds(item.Alternations[0]))
	assert.Equal(t, regcache.Full, item.Alternations[0].Terms[0].Regex.Mode())
	assert.Equal(t, []string{"[a-z]+"}, g.Regexes)
	assert.Equal(t, []string{";", "x", "y"}, g.Literals)

	codes := make([]int, len(warnings))
	for i, w := range warnings {
		codes[i] = w.Code
	}
	assert.Equal(t, []int{UnreachableAlternationWarning, UnreachableAlternationWarning, UnusedRuleWarning}, codes)
	assert.Contains(t, warnings[0].Message, `"list"`)
	assert.Contains(t, warnings[1].Message, `"other"`)
	assert.Contains(t, warnings[2].Message, "other")
}

func TestUnreachableAfterRecover(t *testing.T) {
	g, warnings := compile(t, "S ::= \"a\"\n  | @recover r`;`r\n  | \"b\"\n")
	require.Len(t, g.Points[0].Alternations, 2)
	require.NotNil(t, g.Points[0].Recover)
	require.Len(t, warnings, 1)
	ExpectErrorCode(t, UnreachableAlternationWarning, warnings[0])
	ExpectInt(t, 3, warnings[0].Line)
	assert.Contains(t, warnings[0].Message, "alternation #2 ")
}

func TestRegexForms(t *testing.T) {
	g, _ := compile(t, "S ::= R`[0-9]+`r A`[a-z]`r r`_+`r")
	terms := g.Points[0].Alternations[0].Terms
	require.Len(t, terms, 3)
	assert.Equal(t, regcache.Full, terms[0].Regex.Mode())
	assert.Equal(t, regcache.Prefix, terms[1].Regex.Mode())
	assert.True(t, terms[1].Regex.MatchString("abc"))
	assert.False(t, terms[0].Regex.MatchString("12a"))
	assert.Equal(t, []string{"_+"}, g.Regexes)
}

func TestPredicates(t *testing.T) {
	text := `S ::= @guard(is_type) r` + "`[a-z]+`r" + `
		| @peekr(-1, r` + "`[0-9]+`r" + `) "x"
		| @peekres(1, R` + "`[a-z]+`r" + `) $any
		| @auto "+" !hook(plus)
		| $pruned "-" !hook(minus)
		|
	__RESERVED_WORDS ::= if else "for"`
	g, _ := compile(t, text)
	alts := g.Points[0].Alternations
	require.Len(t, alts, 6)

	assert.Equal(t, grammar.GuardTerm, alts[0].Terms[0].Kind)
	assert.Equal(t, "is_type", alts[0].Terms[0].Name)

	assert.Equal(t, grammar.PeekRegexTerm, alts[1].Terms[0].Kind)
	assert.Equal(t, -1, alts[1].Terms[0].Offset)

	assert.Equal(t, grammar.PeekReservedTerm, alts[2].Terms[0].Kind)
	assert.Equal(t, 1, alts[2].Terms[0].Offset)
	assert.Equal(t, grammar.Any, alts[2].Terms[1].Directive)

	assert.Equal(t, []grammar.TermKind{grammar.PeekTerm, grammar.DirectiveTerm, grammar.HookTerm}, kinds(alts[3]))
	assert.Equal(t, grammar.Any, alts[3].Terms[1].Directive)
	assert.Equal(t, "plus", alts[3].Terms[2].Name)

	assert.True(t, alts[4].Pruned)
	assert.False(t, alts[3].Pruned)
	assert.Empty(t, alts[5].Terms)

	require.NotNil(t, g.Reserved)
	assert.True(t, g.Reserved.MatchString("if"))
	assert.True(t, g.Reserved.MatchString("for"))
	assert.False(t, g.Reserved.MatchString("iffy"))
	assert.Equal(t, []string{"[0-9]+", "[a-z]+"}, g.Regexes)
	assert.Equal(t, []string{"+", "-", "x"}, g.Literals)
}

func TestRecover(t *testing.T) {
	text := "stmt ::= expr \";\"\n" +
		"  | @recover r`;`r\n" +
		"expr ::= @recover_before r`[;}]`r\n" +
		"  | r`[a-z]+`r\n"
	g, warnings := compile(t, text)
	assert.Empty(t, warnings)

	stmt, _ := g.Point("stmt")
	require.NotNil(t, stmt.Recover)
	assert.False(t, stmt.Recover.Before)
	assert.True(t, stmt.Recover.Regex.MatchString(";"))
	assert.Len(t, stmt.Alternations, 1)

	expr, _ := g.Point("expr")
	require.NotNil(t, expr.Recover)
	assert.True(t, expr.Recover.Before)
	assert.Len(t, expr.Alternations, 1)
	assert.Equal(t, []string{";", "[;}]", "[a-z]+"}, g.Regexes)
}

func TestDirectives(t *testing.T) {
	text := "S ::= A $hoist B $hoist_unit A $drop B $drop_empty $rename B $become_as A\n" +
		"A ::= \"a\"\n" +
		"B ::= \"b\"\n"
	g, _ := compile(t, text)
	terms := g.Points[0].Alternations[0].Terms
	var directives []grammar.Directive
	for _, term := range terms {
		if term.Kind == grammar.DirectiveTerm {
			directives = append(directives, term.Directive)
		}
	}
	assert.Equal(t, []grammar.Directive{
		grammar.Hoist, grammar.HoistIfUnit, grammar.Drop, grammar.DropIfEmpty, grammar.Rename, grammar.BecomeAs,
	}, directives)
}

func TestMagicRules(t *testing.T) {
	text := "S ::= \"x\"\n" +
		"__BRACKET_PAIRS ::= ( ) | \"[\" \"]\"\n" +
		"__COMMENTS ::= // | --\n" +
		"__COMMENT_PAIRS ::= /* */ <!-- -->\n" +
		"__COMMENT_PAIRS_NESTED ::= (* *)\n" +
		"__COMMENT_REGEXES ::= r`#[^\\n]*`r\n"
	g, _ := compile(t, text)
	require.Len(t, g.Points, 1)
	assert.Equal(t, []grammar.Pair{{Open: "(", Close: ")"}, {Open: "[", Close: "]"}}, g.BracketPairs)
	assert.Equal(t, []string{"//", "--"}, g.LineComments)
	assert.Equal(t, []grammar.Pair{{Open: "/*", Close: "*/"}, {Open: "<!--", Close: "-->"}}, g.CommentPairs)
	assert.Equal(t, []grammar.Pair{{Open: "(*", Close: "*)"}}, g.NestedCommentPairs)
	assert.Equal(t, []string{`#[^\n]*`}, g.CommentRegexes)
	assert.Nil(t, g.Reserved)
	_, has := g.ByName[BracketPairsRule]
	assert.False(t, has)
}

func TestLiteralEscapes(t *testing.T) {
	g, _ := compile(t, `S ::= "a\"b" "\\" "\t" "\q"`)
	assert.Equal(t, []string{"\t", `\`, `\q`, `a"b`}, g.Literals)
}

func TestErrors(t *testing.T) {
	samples := []struct {
		text string
		code int
	}{
		{"S ::= \"x", UnterminatedLiteralError},
		{"S ::= r`x", UnterminatedRegexError},
		{"| \"x\"", MissingRuleError},
		{"S ::= \"x\" ::= \"y\"", MisplacedSeparatorError},
		{"\"S\" ::= \"x\"", MisplacedSeparatorError},
		{"S ::= \"x\"\nS ::= \"y\"", DuplicateRuleError},
		{"S ::= T", UndefinedRuleError},
		{"S ::= @peek(x, \"a\")", WrongCallError},
		{"S ::= @peek(0, r`a`r)", WrongCallError},
		{"S ::= @peekr(0, \"a\")", WrongCallError},
		{"S ::= @guard(a, b)", WrongCallError},
		{"S ::= !hook(\"a\")", WrongCallError},
		{"S ::= @peek(0 \"a\")", WrongCallError},
		{"S ::= @guard(a", WrongCallError},
		{"S ::= @peek", WrongCallError},
		{"S ::= r`(`r", WrongRegexError},
		{"S ::= @auto S", AutoTargetError},
		{"S ::= @auto", AutoTargetError},
		{"S ::= \"x\" | @recover r`;`r | @recover r`,`r", MultipleRecoverError},
		{"S ::= @recover \"x\"", RecoverTargetError},
		{"S ::= $become", DirectiveTargetError},
		{"S ::= $rename \"x\"", DirectiveTargetError},
		{"S ::= \"x\" @eof", PredicatePositionError},
		{"S ::= \"x\" @guard(g)", PredicatePositionError},
		{"S ::= \"\"", EmptyLiteralError},
		{"S ::= \"x\"\n__BRACKET_PAIRS ::= ( ) [", MagicRuleError},
		{"S ::= \"x\"\n__COMMENT_PAIRS ::= /*", MagicRuleError},
		{"S ::= \"x\"\n__COMMENT_REGEXES ::= \"#\"", MagicRuleError},
		{"S ::= \"x\"\n__RESERVED_WORDS ::= @guard(x)", MagicRuleError},
		{"S ::= $frobnicate", UnknownTermError},
		{"S ::= @foo", UnknownTermError},
		{"S ::= __COMMENTS", UnknownTermError},
		{"# nothing\n", NoRulesError},
		{"__COMMENTS ::= //", NoRulesError},
	}

	for i, s := range samples {
		_, e := ParseString("test", s.text)
		if ErrorCode(e) != s.code {
			t.Errorf("sample #%d %q: expecting error code %d, got %v", i, s.text, s.code, e)
		}
	}
}

func TestErrorPosition(t *testing.T) {
	_, e := ParseString("test.bnf", "S ::= A\nA ::= \"a\" B\n")
	ExpectErrorCode(t, UndefinedRuleError, e)

	var pe *prd.Error
	require.ErrorAs(t, e, &pe)
	assert.Equal(t, "test.bnf", pe.SourceName)
	assert.Equal(t, 2, pe.Line)
	assert.Equal(t, 11, pe.Col)
	assert.Contains(t, pe.Message, `"B"`)
}

func TestCaps(t *testing.T) {
	var text []byte
	text = append(text, "S ::= "...)
	for i := 0; i <= grammar.MaxTerms; i++ {
		text = append(text, "\"x\" "...)
	}
	_, e := ParseBytes("caps", text)
	ExpectErrorCode(t, TooManyTermsError, e)
}

func TestMustParseString(t *testing.T) {
	assert.NotPanics(t, func() { MustParseString("ok", `S ::= "x"`) })
	assert.Panics(t, func() { MustParseString("bad", `S ::= T`) })
}
