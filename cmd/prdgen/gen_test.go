package main

import (
	"encoding/json"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/prd/langdef"
)

const sampleGrammar = "list ::= @eof | item $become list\n" +
	"item ::= @peek(0, \"(\") \"(\" list_body \")\" | r`[a-z]+`r | @recover r`\\)`r\n" +
	"list_body ::= @peek(0, \")\") | item $become list_body\n"

func TestMakeGo(t *testing.T) {
	g := langdef.MustParseString("list.bnf", sampleGrammar)
	content, e := makeGo(g, "list.bnf", sampleGrammar, genOptions{outFileName: "/tmp/sexpr/list.go"})
	require.NoError(t, e)

	text := string(content)
	assert.True(t, strings.HasPrefix(text, "// Code generated with prdgen. DO NOT EDIT.\n\npackage sexpr\n"))
	assert.Contains(t, text, "var list = langdef.MustParseString(\"list.bnf\", \"list ::= @eof")
	assert.Contains(t, text, "// item(1): 2 alternation(s), recovers at \\)\n")

	_, e = parser.ParseFile(token.NewFileSet(), "list.go", content, parser.AllErrors)
	assert.NoError(t, e)
}

func TestMakeGoRawString(t *testing.T) {
	text := `S ::= "a" | "b"`
	g := langdef.MustParseString("s.bnf", text)
	content, e := makeGo(g, "s.bnf", text, genOptions{packageName: "gram", varName: "Grammar"})
	require.NoError(t, e)
	assert.Contains(t, string(content), "var Grammar = langdef.MustParseString(\"s.bnf\", `"+text+"`)")
}

func TestMakeGoNames(t *testing.T) {
	g := langdef.MustParseString("s.bnf", `S ::= "a"`)
	_, e := makeGo(g, "s.bnf", "", genOptions{packageName: "my-pkg"})
	assert.EqualError(t, e, "invalid package name: my-pkg")
	_, e = makeGo(g, "s.bnf", "", genOptions{packageName: "p", varName: "1st"})
	assert.EqualError(t, e, "invalid variable name: 1st")
}

func TestMakeJson(t *testing.T) {
	g := langdef.MustParseString("list.bnf", sampleGrammar)
	content, e := makeJson(g)
	require.NoError(t, e)

	var dump struct {
		Points []struct {
			Name         string
			Alternations []json.RawMessage
		}
		Literals []string
		Regexes  []string
	}
	require.NoError(t, json.Unmarshal(content, &dump))
	require.Len(t, dump.Points, 3)
	assert.Equal(t, "list_body", dump.Points[2].Name)
	assert.Equal(t, []string{"(", ")"}, dump.Literals)
	assert.Equal(t, []string{"[a-z]+", `\)`}, dump.Regexes)
}
