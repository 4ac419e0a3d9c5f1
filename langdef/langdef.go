package langdef

import (
	"github.com/ava12/prd"
	"github.com/ava12/prd/grammar"
	"github.com/ava12/prd/source"
)

// WarningReporter receives non-fatal diagnostics produced while compiling a grammar.
type WarningReporter func(w *prd.Error)

// Config controls grammar compilation. The zero value discards warnings.
type Config struct {
	Warnings WarningReporter
}

// Parse compiles grammar description. Compilation either succeeds completely or
// returns the first error found.
func (c Config) Parse(src *source.Source) (*grammar.Grammar, error) {
	rules, e := splitRules(src)
	if e != nil {
		return nil, e
	}

	comp := newCompiler(src, rules)
	e = comp.registerRules(nil)
	e = comp.compileRules(e)
	e = comp.compileMagic(e)
	g, e := comp.buildGrammar(e)
	if e != nil {
		return nil, e
	}

	comp.findUnreachable()
	comp.findUnusedRules()
	if c.Warnings != nil {
		for _, w := range comp.warnings {
			c.Warnings(w)
		}
	}
	return g, nil
}

// Parse compiles grammar description with default Config.
func Parse(src *source.Source) (*grammar.Grammar, error) {
	return Config{}.Parse(src)
}

// ParseString compiles grammar description, name is used in error messages.
func ParseString(name, content string) (*grammar.Grammar, error) {
	return Parse(source.New(name, []byte(content)))
}

func ParseBytes(name string, content []byte) (*grammar.Grammar, error) {
	return Parse(source.New(name, content))
}

// MustParseString is ParseString that panics on error. Intended for grammars
// embedded in programs.
func MustParseString(name, content string) *grammar.Grammar {
	g, e := ParseString(name, content)
	if e != nil {
		panic(e)
	}
	return g
}
