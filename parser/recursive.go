package parser

import (
	"github.com/ava12/prd/tree"
)

func (pc *Context) parseRecursive(f frame, depth, limit int) (tree.Node, error) {
	pc.trace("enter", &f, depth)

	for {
		call, e := pc.advance(&f, depth)
		if e != nil {
			return tree.Node{}, e
		}
		if !call {
			pc.trace("accept", &f, depth)
			return f.node(), nil
		}

		child := pc.newFrame(f.callee, f.pos)
		var node tree.Node
		if depth+1 > limit {
			e = pc.depthLimitError(&child, limit)
		} else if e = pc.activate(&child); e == nil {
			node, e = pc.parseRecursive(child, depth+1, limit)
		}
		if e = pc.accept(&f, node, e); e != nil {
			return tree.Node{}, e
		}
	}
}
