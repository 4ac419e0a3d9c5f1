package parser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/ava12/prd/grammar"
	"github.com/ava12/prd/langdef"
	"github.com/ava12/prd/lexer"
	"github.com/ava12/prd/tree"
)

// compileGrammar compiles grammar text, "~" stands for backquote.
func compileGrammar(t *testing.T, text string) *grammar.Grammar {
	t.Helper()
	g, e := langdef.ParseString("test", strings.ReplaceAll(text, "~", "`"))
	require.NoError(t, e)
	return g
}

func tokenize(t *testing.T, g *grammar.Grammar, input string) []lexer.Token {
	t.Helper()
	tokens, e := lexer.Tokenize(g, "input", input)
	require.NoError(t, e, "input %q", input)
	return tokens
}

// sexpr renders a tree as (name child ...), poisoned parents get "!" after the name.
func sexpr(n *tree.Node, g *grammar.Grammar) string {
	var sb strings.Builder
	var write func(n *tree.Node)
	write = func(n *tree.Node) {
		if n.IsLeaf() {
			sb.WriteString(g.Text(n.Text))
			return
		}
		sb.WriteString("(")
		sb.WriteString(g.Text(n.Text))
		if n.IsPoisoned() {
			sb.WriteString("!")
		}
		for i := range n.Children {
			sb.WriteString(" ")
			write(&n.Children[i])
		}
		sb.WriteString(")")
	}
	write(n)
	return sb.String()
}

var nodeCmp = cmp.AllowUnexported(tree.Node{})

// parseBoth parses tokens with both strategies, checks that results are identical,
// and returns the result of the worklist strategy.
func parseBoth(t *testing.T, g *grammar.Grammar, root string, tokens []lexer.Token, guards Guards, hooks Hooks, opts ...Option) (*tree.Node, error) {
	t.Helper()
	wn, we := New(g, append(opts, WithStrategy(Worklist))...).Parse(context.Background(), root, tokens, guards, hooks)
	rn, re := New(g, append(opts, WithStrategy(Recursive))...).Parse(context.Background(), root, tokens, guards, hooks)

	if we != nil || re != nil {
		require.Error(t, we, "recursive error: %v", re)
		require.Error(t, re, "worklist error: %v", we)
		require.Equal(t, we.Error(), re.Error())
		var wpe, rpe *Error
		require.True(t, errors.As(we, &wpe))
		require.True(t, errors.As(re, &rpe))
		w, r := *wpe, *rpe
		w.cause, r.cause = nil, nil
		require.Equal(t, w, r)
		return nil, we
	}

	require.Empty(t, cmp.Diff(wn, rn, nodeCmp))
	return wn, nil
}

func parseString(t *testing.T, g *grammar.Grammar, root, input string, guards Guards, hooks Hooks) (*tree.Node, error) {
	t.Helper()
	return parseBoth(t, g, root, tokenize(t, g, input), guards, hooks)
}
