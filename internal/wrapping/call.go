package wrapping

import "github.com/termfx/balancedwrap/internal/syntax"

// checkCall evaluates positional and keyword arguments separately once the
// call spans more than one line. Positional arguments may hug the opening
// parenthesis while keyword arguments each get their own line, so
//
//	Item(42, 'slug',
//	    display="Thing",
//	    visible=False,
//	)
//
// is balanced.
func (c *checker) checkCall(n syntax.Node) {
	call := n.(*syntax.Call)
	open := c.tokens.Find(call.Callee.Last().Index, syntax.TokenOp, "(")
	reference := open.End

	all := make([]syntax.Node, 0, len(call.Args)+len(call.Keywords))
	all = append(all, call.Args...)
	all = append(all, call.Keywords...)
	if summarize(groupLines(call, reference, all, true, true)).singleLine {
		return
	}

	keywords := summarize(groupLines(call, reference, call.Keywords, true, len(call.Args) == 0))
	if !keywords.singleColumn {
		c.emit(newViolation(UnderWrapped, call, startPositions(keywords.crowded), 0))
	}

	c.reportUnder(call, groupLines(call, reference, call.Args, len(call.Keywords) == 0, true))
}
