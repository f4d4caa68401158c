package wrapping

import "github.com/termfx/balancedwrap/internal/syntax"

// lineGroup buckets elements by line. Lines keep the order in which they
// were first seen so that ties between equally crowded lines always go the
// same way.
type lineGroup struct {
	order   []int
	buckets map[int][]syntax.Node
}

func newLineGroup() *lineGroup {
	return &lineGroup{buckets: make(map[int][]syntax.Node)}
}

func (g *lineGroup) add(line int, n syntax.Node) {
	if _, ok := g.buckets[line]; !ok {
		g.order = append(g.order, line)
	}
	g.buckets[line] = append(g.buckets[line], n)
}

func (g *lineGroup) has(line int) bool {
	_, ok := g.buckets[line]
	return ok
}

// lines is the number of distinct lines.
func (g *lineGroup) lines() int {
	return len(g.order)
}

// positions flattens the start positions of every element, line by line.
func (g *lineGroup) positions() []syntax.Position {
	var out []syntax.Position
	for _, line := range g.order {
		for _, n := range g.buckets[line] {
			out = append(out, n.Start())
		}
	}
	return out
}

// groupLines buckets children by the line they start on. With includeStart
// the node itself is placed on the reference line. With includeEnd it is
// also placed on its own end line, unless the last child hugs the closing
// delimiter and nothing else already sits on that line.
func groupLines(
	node syntax.Node,
	reference syntax.Position,
	children []syntax.Node,
	includeEnd bool,
	includeStart bool,
) *lineGroup {
	g := newLineGroup()
	if includeStart {
		g.add(reference.Line, node)
	}
	for _, child := range children {
		g.add(child.Start().Line, child)
	}
	if includeEnd {
		end := node.End()
		justBeforeEnd := syntax.Position{Line: end.Line, Column: end.Column - 1}
		hugging := false
		for _, child := range children {
			if child.End() == justBeforeEnd {
				hugging = true
				break
			}
		}
		if !hugging || g.has(end.Line) {
			g.add(end.Line, node)
		}
	}
	return g
}
