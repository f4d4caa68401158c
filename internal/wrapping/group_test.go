package wrapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termfx/balancedwrap/internal/syntax"
)

// span builds a leaf node from (line, col) to (endLine, endCol).
func span(line, col, endLine, endCol int) syntax.Node {
	return &syntax.Other{Base: syntax.Base{
		FirstToken: syntax.Token{Start: syntax.Position{Line: line, Column: col}},
		LastToken:  syntax.Token{End: syntax.Position{Line: endLine, Column: endCol}},
	}}
}

func lineOf(g *lineGroup) map[int]int {
	out := make(map[int]int)
	for line, bucket := range g.buckets {
		out[line] = len(bucket)
	}
	return out
}

func TestGroupLines(t *testing.T) {
	ref := syntax.Position{Line: 1, Column: 5}

	tests := []struct {
		name         string
		node         syntax.Node
		children     []syntax.Node
		includeEnd   bool
		includeStart bool
		want         map[int]int
		order        []int
	}{
		{
			name:         "start only",
			node:         span(1, 0, 1, 10),
			children:     []syntax.Node{span(1, 5, 1, 6), span(1, 8, 1, 9)},
			includeStart: true,
			want:         map[int]int{1: 3},
			order:        []int{1},
		},
		{
			name:       "children only",
			node:       span(1, 0, 3, 1),
			children:   []syntax.Node{span(2, 4, 2, 5), span(3, 4, 3, 5)},
			includeEnd: false,
			want:       map[int]int{2: 1, 3: 1},
			order:      []int{2, 3},
		},
		{
			name:         "closing line added",
			node:         span(1, 0, 3, 1),
			children:     []syntax.Node{span(2, 4, 2, 5)},
			includeEnd:   true,
			includeStart: true,
			want:         map[int]int{1: 1, 2: 1, 3: 1},
			order:        []int{1, 2, 3},
		},
		{
			name:         "hugging child skips closing line",
			node:         span(1, 0, 3, 2),
			children:     []syntax.Node{span(1, 5, 3, 1)},
			includeEnd:   true,
			includeStart: true,
			want:         map[int]int{1: 2},
			order:        []int{1},
		},
		{
			name:         "hugging child on a populated line",
			node:         span(1, 0, 2, 9),
			children:     []syntax.Node{span(2, 0, 2, 3), span(2, 5, 2, 8)},
			includeEnd:   true,
			includeStart: true,
			want:         map[int]int{1: 1, 2: 3},
			order:        []int{1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := groupLines(tt.node, ref, tt.children, tt.includeEnd, tt.includeStart)
			assert.Equal(t, tt.want, lineOf(g))
			assert.Equal(t, tt.order, g.order)
		})
	}
}

func TestGroupLinesPositionsFollowInsertion(t *testing.T) {
	node := span(5, 0, 7, 1)
	a := span(6, 4, 6, 5)
	b := span(5, 6, 5, 7)

	g := groupLines(node, syntax.Position{Line: 5, Column: 5}, []syntax.Node{a, b}, true, true)

	// Line 5 holds the node and b, line 6 holds a, line 7 the node again.
	assert.Equal(t, []syntax.Position{
		{Line: 5, Column: 0},
		{Line: 5, Column: 6},
		{Line: 6, Column: 4},
		{Line: 5, Column: 0},
	}, g.positions())
	assert.Equal(t, 3, g.lines())
}

func TestSummarize(t *testing.T) {
	t.Run("single line", func(t *testing.T) {
		g := newLineGroup()
		g.add(1, span(1, 0, 1, 1))
		g.add(1, span(1, 2, 1, 3))
		s := summarize(g)
		assert.True(t, s.singleLine)
		assert.False(t, s.singleColumn)
		assert.True(t, s.singleLineOrColumn())
	})

	t.Run("single column", func(t *testing.T) {
		g := newLineGroup()
		g.add(1, span(1, 0, 1, 1))
		g.add(2, span(2, 0, 2, 1))
		s := summarize(g)
		assert.False(t, s.singleLine)
		assert.True(t, s.singleColumn)
		assert.True(t, s.singleLineOrColumn())
	})

	t.Run("crowded", func(t *testing.T) {
		g := newLineGroup()
		g.add(1, span(1, 0, 1, 1))
		g.add(2, span(2, 0, 2, 1))
		g.add(2, span(2, 3, 2, 4))
		s := summarize(g)
		assert.False(t, s.singleLineOrColumn())
		assert.Equal(t, 2, s.crowdedLine)
		assert.Len(t, s.crowded, 2)
	})

	t.Run("ties go to the first inserted line", func(t *testing.T) {
		g := newLineGroup()
		g.add(9, span(9, 0, 9, 1))
		g.add(9, span(9, 2, 9, 3))
		g.add(3, span(3, 0, 3, 1))
		g.add(3, span(3, 2, 3, 3))
		s := summarize(g)
		assert.Equal(t, 9, s.crowdedLine)
	})

	t.Run("empty group panics", func(t *testing.T) {
		assert.Panics(t, func() { summarize(newLineGroup()) })
	})
}

func TestViolation(t *testing.T) {
	call := &syntax.Call{Base: syntax.Base{
		FirstToken: syntax.Token{Start: syntax.Position{Line: 2, Column: 4}},
	}}

	under := newViolation(UnderWrapped, call, []syntax.Position{{Line: 2, Column: 4}, {Line: 2, Column: 21}}, 0)
	assert.Equal(t, "BWR001", under.Code())
	assert.Equal(t, syntax.Position{Line: 2, Column: 4}, under.Position())
	assert.Equal(t, "BWR001 Call is wrapped badly - 2 elements on the same line", under.Message())

	cmp := &syntax.Compare{}
	over := newViolation(OverWrapped, cmp, []syntax.Position{{Line: 1, Column: 6}}, 2)
	assert.Equal(t, "BWR002", over.Code())
	assert.Equal(t, "BWR002 Compare is wrapped unexpectedly over 2 lines", over.String())

	require.Panics(t, func() { newViolation(UnderWrapped, call, nil, 0) })
}
