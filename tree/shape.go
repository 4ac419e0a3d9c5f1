package tree

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ava12/prd/intern"
)

type shapeRec struct {
	node  *Node
	index int
}

// Shape serializes tree structure, ignoring texts:
// a leaf is ".", a parent is "+" followed by its children and "-",
// a poisoned parent is prefixed with "p".
func Shape(n *Node) string {
	if n == nil {
		return ""
	}

	var sb strings.Builder
	stack := []shapeRec{{n, -1}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.index < 0 {
			if top.node.IsLeaf() {
				sb.WriteByte('.')
				stack = stack[:len(stack)-1]
				continue
			}
			if top.node.IsPoisoned() {
				sb.WriteByte('p')
			}
			sb.WriteByte('+')
			top.index = 0
		}

		if top.index >= len(top.node.Children) {
			sb.WriteByte('-')
			stack = stack[:len(stack)-1]
			continue
		}

		child := &top.node.Children[top.index]
		top.index++
		stack = append(stack, shapeRec{child, -1})
	}
	return sb.String()
}

// Fprint writes indented tree dump to w, one node per line.
// Parents are written as names followed by token count, leaves as quoted texts.
func Fprint(w io.Writer, n *Node, strs *intern.Table) error {
	bw := bufio.NewWriter(w)
	Walk(n, func(c *Node, level int) bool {
		bw.WriteString(strings.Repeat("  ", level))
		if c.IsLeaf() {
			fmt.Fprintf(bw, "%q\n", strs.Value(c.Text))
			return true
		}

		mark := ""
		if c.IsPoisoned() {
			mark = " poisoned"
		}
		fmt.Fprintf(bw, "%s [%d%s]\n", strs.Value(c.Text), c.TokenCount(), mark)
		return true
	})
	return bw.Flush()
}

// Sprint returns Fprint output as a string.
func Sprint(n *Node, strs *intern.Table) string {
	var sb strings.Builder
	Fprint(&sb, n, strs)
	return sb.String()
}
