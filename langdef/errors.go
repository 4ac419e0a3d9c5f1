package langdef

import (
	"strings"

	"github.com/ava12/prd"
	"github.com/ava12/prd/source"
)

// Error and warning codes used by langdef:
const (
	UnexpectedCharError = prd.GrammarErrors + iota
	UnterminatedLiteralError
	UnterminatedRegexError
	MissingRuleError
	MisplacedSeparatorError
	DuplicateRuleError
	UndefinedRuleError
	WrongCallError
	WrongRegexError
	TooManyAlternationsError
	TooManyTermsError
	AutoTargetError
	MultipleRecoverError
	RecoverTargetError
	DirectiveTargetError
	PredicatePositionError
	EmptyLiteralError
	MagicRuleError
	UnknownTermError
	NoRulesError

	UnreachableAlternationWarning
	UnusedRuleWarning
)

func posError(src *source.Source, pos, code int, msg string, params ...any) *prd.Error {
	return prd.FormatErrorPos(source.NewPos(src, pos), code, msg, params...)
}

func unexpectedCharError(src *source.Source, pos int, c rune) *prd.Error {
	return posError(src, pos, UnexpectedCharError, "unexpected char %q", c)
}

func unterminatedLiteralError(src *source.Source, pos int) *prd.Error {
	return posError(src, pos, UnterminatedLiteralError, "unterminated string literal")
}

func unterminatedRegexError(src *source.Source, pos int) *prd.Error {
	return posError(src, pos, UnterminatedRegexError, "unterminated regex")
}

func missingRuleError(src *source.Source, pos int) *prd.Error {
	return posError(src, pos, MissingRuleError, "alternation outside of any rule, missing ::=")
}

func misplacedSeparatorError(src *source.Source, pos int) *prd.Error {
	return posError(src, pos, MisplacedSeparatorError, "::= must be the second item on a line")
}

func duplicateRuleError(t rawTerm, name string) *prd.Error {
	return posError(t.src, t.pos, DuplicateRuleError, "rule %q already defined, use alternations instead", name)
}

func undefinedRuleError(t rawTerm) *prd.Error {
	return posError(t.src, t.pos, UndefinedRuleError, "undefined rule %q", t.text)
}

func wrongCallError(t rawTerm, expected string) *prd.Error {
	return posError(t.src, t.pos, WrongCallError, "malformed %s, expecting %s", t.text, expected)
}

func wrongRegexError(t rawTerm, e error) *prd.Error {
	return posError(t.src, t.pos, WrongRegexError, "incorrect regex %s (%s)", t.text, e.Error())
}

func tooManyAlternationsError(t rawTerm, name string) *prd.Error {
	return posError(t.src, t.pos, TooManyAlternationsError, "too many alternations in rule %q", name)
}

func tooManyTermsError(t rawTerm, name string) *prd.Error {
	return posError(t.src, t.pos, TooManyTermsError, "too many terms in an alternation of rule %q", name)
}

func autoTargetError(t rawTerm) *prd.Error {
	return posError(t.src, t.pos, AutoTargetError, "@auto must be followed by a literal or a regex")
}

func multipleRecoverError(t rawTerm, name string) *prd.Error {
	return posError(t.src, t.pos, MultipleRecoverError, "rule %q already has a recovery regex", name)
}

func recoverTargetError(t rawTerm) *prd.Error {
	return posError(t.src, t.pos, RecoverTargetError, "%s must be followed by a regex", t.text)
}

func directiveTargetError(t rawTerm) *prd.Error {
	return posError(t.src, t.pos, DirectiveTargetError, "%s must be followed by a rule name", t.text)
}

func predicatePositionError(t rawTerm) *prd.Error {
	return posError(t.src, t.pos, PredicatePositionError, "%s is only allowed at the start of an alternation", t.text)
}

func emptyLiteralError(t rawTerm) *prd.Error {
	return posError(t.src, t.pos, EmptyLiteralError, "empty literal")
}

func magicRuleError(t rawTerm, name, expected string) *prd.Error {
	return posError(t.src, t.pos, MagicRuleError, "%s: expecting %s, got %s", name, expected, t.text)
}

func unknownTermError(t rawTerm) *prd.Error {
	return posError(t.src, t.pos, UnknownTermError, "unknown term %s", t.text)
}

func noRulesError(src *source.Source) *prd.Error {
	return prd.FormatError(NoRulesError, "no rules defined in %s", src.Name())
}

func unreachableAlternationWarning(t rawTerm, name string, index int) *prd.Error {
	return posError(t.src, t.pos, UnreachableAlternationWarning,
		"rule %q: alternation #%d and following ones are unreachable", name, index)
}

func unusedRuleWarning(names []string) *prd.Error {
	return prd.FormatError(UnusedRuleWarning, "unused rules: %s", strings.Join(names, ", "))
}
