package wrapping

import "github.com/termfx/balancedwrap/internal/syntax"

// checkUnder reports the most crowded line of a group that is neither on a
// single line nor one element per line.
func (c *checker) checkUnder(
	node syntax.Node,
	reference syntax.Position,
	children []syntax.Node,
	includeEnd bool,
) {
	c.reportUnder(node, groupLines(node, reference, children, includeEnd, true))
}

func (c *checker) reportUnder(node syntax.Node, g *lineGroup) bool {
	s := summarize(g)
	if s.singleLineOrColumn() {
		return false
	}
	c.emit(newViolation(UnderWrapped, node, startPositions(s.crowded), 0))
	return true
}

func (c *checker) checkClassDef(n syntax.Node) {
	class := n.(*syntax.ClassDef)
	if !class.HasArguments {
		return
	}
	kw := c.tokens.Find(class.First().Index, syntax.TokenName, "class")
	open := c.tokens.Find(kw.Index, syntax.TokenOp, "(")
	children := append(append([]syntax.Node{}, class.Bases...), class.Keywords...)
	c.checkUnder(class, open.End, children, false)
}

func (c *checker) checkFunctionDef(n syntax.Node) {
	def := n.(*syntax.FunctionDef)
	kw := c.tokens.Find(def.First().Index, syntax.TokenName, "def")
	open := c.tokens.Find(kw.Index, syntax.TokenOp, "(")
	c.checkUnder(def, open.End, def.Parameters(), false)
}

func (c *checker) checkList(n syntax.Node) {
	list := n.(*syntax.List)
	c.checkUnder(list, list.Start(), list.Elts, true)
}

func (c *checker) checkSet(n syntax.Node) {
	set := n.(*syntax.Set)
	c.checkUnder(set, set.Start(), set.Elts, true)
}

// checkTuple only looks at parenthesized tuples. A bare tuple has no
// delimiters that could be out of line with its elements.
func (c *checker) checkTuple(n syntax.Node) {
	tuple := n.(*syntax.Tuple)
	if !tuple.Parenthesized {
		return
	}
	c.checkUnder(tuple, tuple.Start(), tuple.Elts, true)
}

// checkDict lets a dict with a single entry hug a value that spans the
// whole interior, as in {'k': Value(\n ...\n)}.
func (c *checker) checkDict(n syntax.Node) {
	dict := n.(*syntax.Dict)
	g := groupLines(dict, dict.Start(), dict.Keys(), true, true)
	s := summarize(g)
	if s.singleLineOrColumn() || huggingSingleEntry(dict) {
		return
	}
	c.emit(newViolation(UnderWrapped, dict, startPositions(s.crowded), 0))
}

func huggingSingleEntry(dict *syntax.Dict) bool {
	if len(dict.Entries) != 1 || dict.Entries[0].Key == nil {
		return false
	}
	value := dict.Entries[0].Value
	return value.Start().Line == dict.Start().Line && value.End().Line == dict.End().Line
}

// checkIfExp treats the three operands as the group. A parenthesized
// expression also owns the lines of its parentheses.
func (c *checker) checkIfExp(n syntax.Node) {
	expr := n.(*syntax.IfExp)
	// Without includeStart the reference position is never read.
	g := groupLines(expr, syntax.Position{}, []syntax.Node{expr.Body, expr.Test, expr.OrElse}, false, false)
	if expr.Parenthesized {
		if open, ok := c.tokens.Prev(expr.First().Index); ok {
			g.add(open.Start.Line, expr)
		}
		if closing, ok := c.tokens.Next(expr.Last().Index); ok {
			g.add(closing.Start.Line, expr)
		}
	}
	c.reportUnder(expr, g)
}

func startPositions(nodes []syntax.Node) []syntax.Position {
	out := make([]syntax.Position, len(nodes))
	for i, n := range nodes {
		out[i] = n.Start()
	}
	return out
}
