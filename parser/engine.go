package parser

import (
	"github.com/ava12/prd/grammar"
	"github.com/ava12/prd/intern"
	"github.com/ava12/prd/tree"
)

// frame is a single activation: an attempt to match a rule at a token position.
type frame struct {
	// point is the rule being matched, changes on $become.
	point int
	// target is the rule named by the calling term, its recovery applies on failure; -1 for root.
	target int
	// callee is the rule a pending child is matched against.
	callee   int
	name     intern.ID
	children []tree.Node
	start    int
	pos      int
	alt      int
	term     int
	poisoned bool
}

func (pc *Context) newFrame(point, pos int) frame {
	return frame{
		point:  point,
		target: point,
		callee: -1,
		name:   pc.g.Points[point].NameID,
		start:  pos,
		pos:    pos,
		alt:    -1,
		term:   -1,
	}
}

func (f *frame) node() tree.Node {
	return tree.NewParent(f.name, f.children, f.pos-f.start, f.poisoned)
}

func (f *frame) appendLeaf(pc *Context) {
	f.children = append(f.children, tree.NewLeaf(pc.tokens[f.pos].Text()))
	f.pos++
}

// predicate evaluates a start predicate. Non-predicate terms are accepted at zero width.
func (pc *Context) predicate(f *frame, t *grammar.Term) (accepted bool, e error) {
	matchAt := func(offset int) (int, bool) {
		i := f.pos + offset
		return i, i >= 0 && i < len(pc.tokens)
	}

	switch t.Kind {
	case grammar.GuardTerm:
		guard, found := pc.guards[t.Name]
		if !found {
			return false, pc.unknownGuardError(f, t.Name)
		}
		accepted, e = guard(pc, pc.tokens, f.pos)
		if e != nil {
			return false, pc.guardError(f, t.Name, e)
		}
		return accepted, nil

	case grammar.PeekTerm:
		i, valid := matchAt(t.Offset)
		return valid && pc.tokens[i].Text() == t.Text, nil

	case grammar.PeekRegexTerm, grammar.PeekReservedTerm:
		i, valid := matchAt(t.Offset)
		if !valid || !t.Regex.MatchID(pc.tokens[i].Text(), pc.g.Strings) {
			return false, nil
		}
		if t.Kind == grammar.PeekReservedTerm && pc.g.Reserved != nil {
			return !pc.g.Reserved.MatchID(pc.tokens[i].Text(), pc.g.Strings), nil
		}
		return true, nil

	case grammar.EOFTerm:
		return f.pos == len(pc.tokens), nil
	}

	return true, nil
}

// choose selects the first alternation whose start predicate accepts.
func (pc *Context) choose(f *frame) (bool, error) {
	p := &pc.g.Points[f.point]
	for i := range p.Alternations {
		alt := &p.Alternations[i]
		f.alt = i
		f.term = 0
		if len(alt.Terms) == 0 {
			return true, nil
		}

		accepted, e := pc.predicate(f, &alt.Terms[0])
		if e != nil {
			return false, e
		}
		if accepted {
			if alt.Terms[0].Kind.IsPredicate() {
				f.term = 1
			}
			return true, nil
		}
	}
	f.alt = len(p.Alternations)
	return false, nil
}

// advance runs the frame until it either completes (call is false) or needs
// the rule f.callee to be matched at f.pos (call is true).
func (pc *Context) advance(f *frame, depth int) (call bool, e error) {
	for {
		if f.alt < 0 {
			chosen, e := pc.choose(f)
			if e != nil {
				return false, e
			}
			if !chosen {
				return false, pc.matchRuleError(f)
			}
		}

		alt := &pc.g.Points[f.point].Alternations[f.alt]
		become := false
		for f.term < len(alt.Terms) && !become {
			t := &alt.Terms[f.term]
			matched := true

			switch t.Kind {
			case grammar.RuleTerm:
				f.callee = t.Rule
				return true, nil

			case grammar.LiteralTerm, grammar.RegexTerm:
				matched = f.pos < len(pc.tokens)
				if matched && t.Kind == grammar.LiteralTerm {
					matched = pc.tokens[f.pos].Text() == t.Text
				} else if matched {
					matched = t.Regex.MatchID(pc.tokens[f.pos].Text(), pc.g.Strings)
				}
				if matched {
					if alt.Pruned {
						f.pos++
					} else {
						f.appendLeaf(pc)
					}
				}

			case grammar.DirectiveTerm:
				switch t.Directive {
				case grammar.Become, grammar.BecomeAs:
					if e := pc.become(f, alt, t.Directive == grammar.BecomeAs); e != nil {
						return false, e
					}
					pc.trace("become", f, depth)
					become = true
					continue
				case grammar.Rename:
					matched = f.term+1 < len(alt.Terms) && alt.Terms[f.term+1].Kind == grammar.RuleTerm
					if matched {
						f.name = pc.g.Points[alt.Terms[f.term+1].Rule].NameID
						f.term++
					}
				default:
					matched = pc.shape(f, t.Directive)
				}

			case grammar.HookTerm:
				if e := pc.callHook(f, t.Name); e != nil {
					return false, e
				}

			default:
				matched = false
			}

			if !matched {
				return false, pc.matchTokenError(f)
			}
			f.term++
		}

		if !become {
			return false, nil
		}
	}
}

// become replaces the rule of the frame with the rule following the directive.
func (pc *Context) become(f *frame, alt *grammar.Alternation, rename bool) error {
	if f.term+1 >= len(alt.Terms) || alt.Terms[f.term+1].Kind != grammar.RuleTerm {
		return pc.matchTokenError(f)
	}
	f.point = alt.Terms[f.term+1].Rule
	if rename {
		f.name = pc.g.Points[f.point].NameID
	}
	f.alt = -1
	f.term = -1
	return pc.activate(f)
}

// shape applies an AST-shaping directive, false means the directive could not be applied.
func (pc *Context) shape(f *frame, d grammar.Directive) bool {
	if d == grammar.Any {
		if f.pos >= len(pc.tokens) {
			return false
		}
		f.appendLeaf(pc)
		return true
	}

	l := len(f.children)
	if l == 0 {
		return false
	}
	last := f.children[l-1]

	switch d {
	case grammar.Drop:
		f.children = f.children[:l-1]
	case grammar.DropIfEmpty:
		if last.IsParent() {
			f.children = f.children[:l-1]
		}
	case grammar.Hoist:
		f.children = append(f.children[:l-1], last.Children...)
	case grammar.HoistIfUnit:
		if last.IsParent() && len(last.Children) == 1 {
			f.children[l-1] = last.Children[0]
		}
	default:
		return false
	}
	return true
}

func (pc *Context) callHook(f *frame, name string) error {
	hook, found := pc.hooks[name]
	if !found {
		return pc.unknownHookError(f, name)
	}
	count, e := hook(pc, pc.tokens, f.pos, &f.children)
	if e != nil {
		return pc.hookError(f, name, e)
	}
	if count < 0 || f.pos+count > len(pc.tokens) {
		return pc.hookCountError(f, name, count)
	}
	f.pos += count
	return nil
}

// accept attaches the result of matching f.callee to the frame, applying recovery of the callee on failure.
func (pc *Context) accept(f *frame, child tree.Node, e error) error {
	if e != nil {
		recovered := false
		if pe, ok := e.(*Error); !ok || !pe.fatal {
			child, recovered = pc.recover(f.callee, f.pos)
		}
		if !recovered {
			return pc.inRule(f, e)
		}
	}

	if child.IsPoisoned() {
		f.poisoned = true
	}
	f.pos += child.TokenCount()
	f.children = append(f.children, child)
	f.callee = -1
	f.term++
	return nil
}

// recover skips tokens after pos up to the first one accepted by the recovery regex of the rule.
func (pc *Context) recover(rule, pos int) (tree.Node, bool) {
	p := &pc.g.Points[rule]
	if p.Recover == nil {
		return tree.Node{}, false
	}

	j := pos + 1
	for j < len(pc.tokens) && !p.Recover.Regex.MatchID(pc.tokens[j].Text(), pc.g.Strings) {
		j++
	}
	if j >= len(pc.tokens) {
		return tree.Node{}, false
	}
	if !p.Recover.Before {
		j++
	}
	return tree.NewParent(p.NameID, nil, j-pos, true), true
}
