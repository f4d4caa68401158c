package wrapping

import "github.com/termfx/balancedwrap/internal/syntax"

// checkOver reports a group that spans more than one line, listing every
// element it holds.
func (c *checker) checkOver(node syntax.Node, g *lineGroup) {
	if g.lines() == 1 {
		return
	}
	c.emit(newViolation(OverWrapped, node, g.positions(), g.lines()))
}

func (c *checker) checkComprehension(n syntax.Node) {
	clause := n.(*syntax.Comprehension)
	children := append([]syntax.Node{clause.Target}, clause.Iter...)
	c.checkOver(clause, groupLines(clause, clause.Start(), children, false, false))
}

func (c *checker) checkCompare(n syntax.Node) {
	cmp := n.(*syntax.Compare)
	c.checkOver(cmp, groupLines(cmp, cmp.Start(), cmp.Operands, true, true))
}
