// Package tree defines syntax tree nodes produced by parser and functions to traverse and query them.
//
// Trees may be as deep as the number of tokens in the input, so every function here
// walks the tree with an explicit stack instead of native recursion.
package tree

import (
	"github.com/ava12/prd/intern"
)

const poisonMask = 0xFFFFFFFF

// Node is either a leaf holding a token text or a parent holding a rule name and children.
// Both kinds carry the number of tokens covered by the node. The count of a poisoned
// node (one containing an error-recovered region) is stored XOR-ed with 0xFFFFFFFF,
// so the high bit of the raw count marks poisoning.
type Node struct {
	// Text is interned token text for a leaf or interned rule name for a parent.
	Text intern.ID
	// Children are nil for a leaf.
	Children []Node

	count  uint32
	parent bool
}

// NewLeaf creates leaf node for a single token.
func NewLeaf(text intern.ID) Node {
	return Node{Text: text, count: 1}
}

// NewParent creates parent node covering count tokens.
// children may be empty.
func NewParent(text intern.ID, children []Node, count int, poisoned bool) Node {
	if children == nil {
		children = []Node{}
	}
	return Node{Text: text, Children: children, count: EncodeCount(count, poisoned), parent: true}
}

// EncodeCount returns raw token count.
func EncodeCount(count int, poisoned bool) uint32 {
	if poisoned {
		return uint32(count) ^ poisonMask
	}
	return uint32(count)
}

// DecodeCount splits raw token count into real count and poisoned flag.
func DecodeCount(raw uint32) (count int, poisoned bool) {
	if raw >= 0x80000000 {
		return int(raw ^ poisonMask), true
	}
	return int(raw), false
}

func (n *Node) IsLeaf() bool {
	return !n.parent
}

func (n *Node) IsParent() bool {
	return n.parent
}

// IsPoisoned tells whether the node covers an error-recovered region.
func (n *Node) IsPoisoned() bool {
	return n.count >= 0x80000000
}

// TokenCount returns the real number of covered tokens.
func (n *Node) TokenCount() int {
	c, _ := DecodeCount(n.count)
	return c
}

// RawCount returns token count as stored, with poisoning encoded.
func (n *Node) RawCount() uint32 {
	return n.count
}

// SetCount replaces token count and poisoned flag.
func (n *Node) SetCount(count int, poisoned bool) {
	n.count = EncodeCount(count, poisoned)
}

// Poison marks the node as poisoned keeping its token count.
func (n *Node) Poison() {
	n.SetCount(n.TokenCount(), true)
}

// Len returns the number of direct children.
func (n *Node) Len() int {
	return len(n.Children)
}

// NthChild returns i-th child, negative i counts from the end (-1 is the last child).
// Returns nil if there is no such child.
func NthChild(n *Node, i int) *Node {
	if n == nil {
		return nil
	}

	if i < 0 {
		i += len(n.Children)
	}
	if i < 0 || i >= len(n.Children) {
		return nil
	}
	return &n.Children[i]
}

// AllLevels makes NumOfChildren count all descendants.
const AllLevels = -1

// NumOfChildren counts descendants down to given depth, 0 means direct children only.
func NumOfChildren(n *Node, levels int) int {
	if n == nil {
		return 0
	}

	res := -1
	Walk(n, func(_ *Node, level int) bool {
		res++
		return levels < 0 || level <= levels
	})
	return res
}

// FirstLeaf returns the first leaf in subtree or nil.
func FirstLeaf(n *Node) *Node {
	var res *Node
	Walk(n, func(c *Node, _ int) bool {
		if res != nil {
			return false
		}
		if c.IsLeaf() {
			res = c
		}
		return true
	})
	return res
}

// LastLeaf returns the last leaf in subtree or nil.
func LastLeaf(n *Node) *Node {
	for n != nil && n.IsParent() {
		var next *Node
		for i := len(n.Children) - 1; i >= 0 && next == nil; i-- {
			c := &n.Children[i]
			if c.IsLeaf() || FirstLeaf(c) != nil {
				next = c
			}
		}
		n = next
	}
	return n
}

// Leaves returns all leaves of subtree in order.
func Leaves(n *Node) []*Node {
	var res []*Node
	Walk(n, func(c *Node, _ int) bool {
		if c.IsLeaf() {
			res = append(res, c)
		}
		return true
	})
	return res
}

// Visitor is called for each visited node with its depth relative to the walk root.
// Returning false skips the children of the node.
type Visitor func(n *Node, level int) bool

type walkRec struct {
	node  *Node
	level int
}

// Walk visits subtree in pre-order, left to right.
func Walk(n *Node, visitor Visitor) {
	if n == nil {
		return
	}

	stack := []walkRec{{n, 0}}
	for len(stack) > 0 {
		rec := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visitor(rec.node, rec.level) || rec.node.IsLeaf() {
			continue
		}

		for i := len(rec.node.Children) - 1; i >= 0; i-- {
			stack = append(stack, walkRec{&rec.node.Children[i], rec.level + 1})
		}
	}
}

// Equal compares two trees.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}

	type pair struct{ a, b *Node }
	stack := []pair{{a, b}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if p.a.Text != p.b.Text || p.a.count != p.b.count || p.a.parent != p.b.parent ||
			len(p.a.Children) != len(p.b.Children) {
			return false
		}
		for i := range p.a.Children {
			stack = append(stack, pair{&p.a.Children[i], &p.b.Children[i]})
		}
	}
	return true
}
