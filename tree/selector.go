package tree

import (
	"github.com/ava12/prd/intern"
)

type NodeFilter func(n *Node) bool
type NodeExtractor func(n *Node) []*Node

// Selector is a chain of extractors applied to a set of nodes, each step
// is applied to every node produced by the previous one.
type Selector struct {
	steps []NodeExtractor
}

func NewSelector() *Selector {
	return &Selector{}
}

// Apply runs the chain on input nodes. Result contains no duplicates and keeps the order of discovery.
func (s *Selector) Apply(input ...*Node) []*Node {
	res := make([]*Node, 0)
	index := make(map[*Node]bool)

	for _, n := range input {
		if n == nil {
			continue
		}

		ns := []*Node{n}
		for _, step := range s.steps {
			var next []*Node
			for _, nn := range ns {
				next = append(next, step(nn)...)
			}
			ns = next
		}

		for _, nn := range ns {
			if !index[nn] {
				index[nn] = true
				res = append(res, nn)
			}
		}
	}

	return res
}

// Extract adds arbitrary step to the chain.
func (s *Selector) Extract(ne NodeExtractor) *Selector {
	if ne != nil {
		s.steps = append(s.steps, ne)
	}
	return s
}

// Filter keeps only nodes accepted by nf.
func (s *Selector) Filter(nf NodeFilter) *Selector {
	return s.Extract(func(n *Node) []*Node {
		if nf(n) {
			return []*Node{n}
		}
		return nil
	})
}

// Search replaces each node with its descendants (the node itself included) accepted by nf.
// Unless deepSearch is set, descendants of accepted nodes are not searched.
func (s *Selector) Search(nf NodeFilter, deepSearch bool) *Selector {
	return s.Extract(func(n *Node) []*Node {
		var res []*Node
		Walk(n, func(nn *Node, _ int) bool {
			if nf(nn) {
				res = append(res, nn)
				return deepSearch
			}
			return true
		})
		return res
	})
}

func IsNot(f NodeFilter) NodeFilter {
	return func(n *Node) bool {
		return !f(n)
	}
}

func IsAny(fs ...NodeFilter) NodeFilter {
	return func(n *Node) bool {
		for _, f := range fs {
			if f(n) {
				return true
			}
		}
		return false
	}
}

func IsAll(fs ...NodeFilter) NodeFilter {
	return func(n *Node) bool {
		for _, f := range fs {
			if !f(n) {
				return false
			}
		}
		return true
	}
}

func lookup(strs *intern.Table, texts []string) []intern.ID {
	ids := make([]intern.ID, 0, len(texts))
	for _, text := range texts {
		if id, ok := strs.Query(text); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func hasID(ids []intern.ID, id intern.ID) bool {
	for _, i := range ids {
		if i == id {
			return true
		}
	}
	return false
}

// IsA accepts parent nodes with one of given names.
func IsA(strs *intern.Table, names ...string) NodeFilter {
	ids := lookup(strs, names)
	return func(n *Node) bool {
		return n.IsParent() && hasID(ids, n.Text)
	}
}

// IsALiteral accepts leaves with one of given texts.
func IsALiteral(strs *intern.Table, texts ...string) NodeFilter {
	ids := lookup(strs, texts)
	return func(n *Node) bool {
		return n.IsLeaf() && hasID(ids, n.Text)
	}
}

func IsLeafNode(n *Node) bool {
	return n.IsLeaf()
}

func IsPoisonedNode(n *Node) bool {
	return n.IsPoisoned()
}

// Any returns the result of the first extractor yielding something.
func Any(nes ...NodeExtractor) NodeExtractor {
	return func(n *Node) (res []*Node) {
		for _, ne := range nes {
			res = ne(n)
			if len(res) > 0 {
				break
			}
		}
		return
	}
}

// All concatenates results of all extractors.
func All(nes ...NodeExtractor) NodeExtractor {
	return func(n *Node) (res []*Node) {
		for _, ne := range nes {
			res = append(res, ne(n)...)
		}
		return
	}
}

// NthChildren extracts children by indexes, see NthChild.
func NthChildren(indexes ...int) NodeExtractor {
	return func(n *Node) []*Node {
		res := make([]*Node, 0, len(indexes))
		for _, i := range indexes {
			if c := NthChild(n, i); c != nil {
				res = append(res, c)
			}
		}
		return res
	}
}

// Children extracts all direct children.
func Children(n *Node) []*Node {
	if n == nil {
		return nil
	}
	res := make([]*Node, len(n.Children))
	for i := range n.Children {
		res[i] = &n.Children[i]
	}
	return res
}
