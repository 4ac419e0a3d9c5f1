package parser

import (
	"github.com/ava12/prd/tree"
)

// frameStack is the explicit activation stack of the worklist strategy.
type frameStack struct {
	frames []frame
}

func newFrameStack() *frameStack {
	return &frameStack{frames: make([]frame, 0, 128)}
}

func (s *frameStack) IsEmpty() bool {
	return len(s.frames) == 0
}

func (s *frameStack) Len() int {
	return len(s.frames)
}

func (s *frameStack) Push(f frame) {
	s.frames = append(s.frames, f)
}

func (s *frameStack) Pop() frame {
	l := len(s.frames) - 1
	f := s.frames[l]
	s.frames[l] = frame{}
	s.frames = s.frames[:l]
	return f
}

func (s *frameStack) Top() *frame {
	if len(s.frames) == 0 {
		return nil
	}
	return &s.frames[len(s.frames)-1]
}

// parseWorklist matches root frame without native recursion, limit <= 0 means no depth limit.
func (pc *Context) parseWorklist(root frame, limit int) (tree.Node, error) {
	stack := newFrameStack()
	stack.Push(root)
	pc.trace("enter", &root, 0)

	var (
		child     tree.Node
		childErr  error
		returning bool
	)

	for {
		f := stack.Top()
		depth := stack.Len() - 1

		if returning {
			returning = false
			if e := pc.accept(f, child, childErr); e != nil {
				if stack.Pop(); stack.IsEmpty() {
					return tree.Node{}, e
				}
				child, childErr, returning = tree.Node{}, e, true
				continue
			}
		}

		call, e := pc.advance(f, depth)
		if e == nil && call {
			next := pc.newFrame(f.callee, f.pos)
			if limit > 0 && depth+1 > limit {
				e = pc.depthLimitError(&next, limit)
			} else if e = pc.activate(&next); e == nil {
				stack.Push(next)
				pc.trace("enter", &next, depth+1)
				continue
			}
			child, childErr, returning = tree.Node{}, e, true
			continue
		}

		if e == nil {
			pc.trace("accept", f, depth)
		}
		done := stack.Pop()
		if stack.IsEmpty() {
			if e != nil {
				return tree.Node{}, e
			}
			return done.node(), nil
		}
		child, childErr, returning = done.node(), e, true
	}
}
