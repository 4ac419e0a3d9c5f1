package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/prd"
	. "github.com/ava12/prd/internal/test"
	"github.com/ava12/prd/langdef"
	"github.com/ava12/prd/lexer"
	"github.com/ava12/prd/parser"
	"github.com/ava12/prd/source"
	"github.com/ava12/prd/tree"
)

const listGrammar = `
list ::= @eof | item $become list
item ::= @peek(0, "[") "[" list_body "]" | r` + "`[0-9]+`" + `r
list_body ::= @peek(0, "]") | item $become list_body
unused ::= "x"
__BRACKET_PAIRS ::= [ ]
`

var nodeCmp = cmp.AllowUnexported(tree.Node{})

func compileList(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := Compile("list", listGrammar, opts...)
	require.NoError(t, err)
	return e
}

func TestCompile(t *testing.T) {
	var warnings []*prd.Error
	e := compileList(t, WithWarnings(func(w *prd.Error) {
		warnings = append(warnings, w)
	}))
	require.Len(t, warnings, 1)
	assert.Equal(t, langdef.UnusedRuleWarning, warnings[0].Code)
	assert.Equal(t, "list", e.Grammar().Points[0].Name)

	_, err := Compile("bad", `a ::= b`)
	ExpectErrorCode(t, langdef.UndefinedRuleError, err)
}

func TestParseString(t *testing.T) {
	e := compileList(t)
	n, err := e.ParseString(context.Background(), "input", "1 [2 [3]] []")
	require.NoError(t, err)
	assert.Equal(t, "++.-+.++.-+.++.--.--.-+.+-.--", tree.Shape(n))
	assert.Equal(t, 9, n.TokenCount())

	_, err = e.ParseString(context.Background(), "input", "1 [2")
	ExpectErrorCode(t, parser.MatchTokenError, err)
	var pe *parser.Error
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "input", pe.SourceName)

	_, err = e.ParseString(context.Background(), "input", "1 ]")
	ExpectErrorCode(t, lexer.UnmatchedBracketError, err)
}

func TestRoot(t *testing.T) {
	e := compileList(t, WithRoot("item"))
	n, err := e.ParseString(context.Background(), "", "[1 2]")
	require.NoError(t, err)
	assert.Equal(t, "item", e.Grammar().Text(n.Text))

	e = compileList(t, WithRoot("nope"))
	_, err = e.ParseString(context.Background(), "", "1")
	ExpectErrorCode(t, parser.UnknownRootError, err)
}

func TestHooksAndOptions(t *testing.T) {
	count := 0
	g, err := langdef.ParseString("g", `S ::= "a" !hook(h) "b"`)
	require.NoError(t, err)
	e, err := New(g,
		WithHooks(parser.Hooks{"h": func(*parser.Context, []lexer.Token, int, *[]tree.Node) (int, error) {
			count++
			return 0, nil
		}}),
		WithParserOptions(parser.WithStrategy(parser.Recursive), parser.WithDepthLimit(1)),
	)
	require.NoError(t, err)
	_, err = e.ParseString(context.Background(), "", "a b")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func makeSources(n int) []*source.Source {
	sources := make([]*source.Source, n)
	for i := range sources {
		text := strings.Repeat(fmt.Sprintf("%d [%d] ", i, i*2), i%7+1)
		if i%10 == 9 {
			text += "["
		}
		sources[i] = source.FromString(fmt.Sprintf("src%d", i), text)
	}
	return sources
}

func TestParseAll(t *testing.T) {
	e := compileList(t)
	sources := makeSources(50)

	results, err := e.ParseAll(context.Background(), sources, 4)
	require.NoError(t, err)
	require.Len(t, results, len(sources))

	for i, r := range results {
		assert.Same(t, sources[i], r.Source)
		expected := e.ParseSource(context.Background(), sources[i])
		if i%10 == 9 {
			ExpectErrorCode(t, parser.MatchTokenError, r.Err)
			assert.Nil(t, r.Tree)
			assert.Equal(t, expected.Err.Error(), r.Err.Error())
			continue
		}
		require.NoError(t, r.Err, "source #%d", i)
		assert.Empty(t, cmp.Diff(expected.Tree, r.Tree, nodeCmp), "source #%d", i)
		assert.Equal(t, len(r.Tokens), r.Tree.TokenCount())
	}

	results, err = e.ParseAll(context.Background(), sources, 0)
	require.NoError(t, err)
	assert.Len(t, results, len(sources))
}

func TestParseAllCanceled(t *testing.T) {
	e := compileList(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := e.ParseAll(ctx, makeSources(10), 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseFiles(t *testing.T) {
	e := compileList(t)
	dir := t.TempDir()
	good := filepath.Join(dir, "good.txt")
	bad := filepath.Join(dir, "bad.txt")
	require.NoError(t, os.WriteFile(good, []byte("1 2\n[3]\n"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("1\n  ?"), 0o644))

	results, err := e.ParseFiles(context.Background(), []string{good, bad, filepath.Join(dir, "missing.txt")}, 2)
	require.NoError(t, err)
	require.Len(t, results, 3)

	require.NoError(t, results[0].Err)
	assert.Equal(t, 5, results[0].Tree.TokenCount())

	ExpectErrorCode(t, lexer.WrongCharError, results[1].Err)
	var pe *prd.Error
	require.ErrorAs(t, results[1].Err, &pe)
	assert.Equal(t, 2, pe.Line)
	assert.Equal(t, 3, pe.Col)
	assert.Len(t, results[1].Tokens, 1)

	ExpectErrorCode(t, ReadError, results[2].Err)
}
