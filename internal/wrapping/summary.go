package wrapping

import "github.com/termfx/balancedwrap/internal/syntax"

type summary struct {
	singleLine   bool
	singleColumn bool
	crowdedLine  int
	crowded      []syntax.Node
}

// singleLineOrColumn is the compliance test for under-wrapping: everything
// on one line, or one element per line.
func (s summary) singleLineOrColumn() bool {
	return s.singleLine || s.singleColumn
}

// summarize reduces a line group. The most crowded line is the first line,
// in insertion order, holding the largest bucket.
func summarize(g *lineGroup) summary {
	if g.lines() == 0 {
		panic("wrapping: summarize called on an empty line group")
	}
	s := summary{singleLine: g.lines() == 1}
	for _, line := range g.order {
		if bucket := g.buckets[line]; len(bucket) > len(s.crowded) {
			s.crowdedLine = line
			s.crowded = bucket
		}
	}
	s.singleColumn = len(s.crowded) == 1
	return s
}
