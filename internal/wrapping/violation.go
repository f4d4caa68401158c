package wrapping

import (
	"fmt"

	"github.com/termfx/balancedwrap/internal/syntax"
)

// ViolationKind tells under-wrapping from over-wrapping.
type ViolationKind int

const (
	// UnderWrapped means several elements share a line in a group that
	// spans more than one line.
	UnderWrapped ViolationKind = iota + 1
	// OverWrapped means a group that should sit on one line was split.
	OverWrapped
)

// Code is the diagnostic code reported for the kind.
func (k ViolationKind) Code() string {
	switch k {
	case UnderWrapped:
		return "BWR001"
	case OverWrapped:
		return "BWR002"
	default:
		return "BWR000"
	}
}

func (k ViolationKind) String() string {
	switch k {
	case UnderWrapped:
		return "UnderWrapped"
	case OverWrapped:
		return "OverWrapped"
	default:
		return "Unknown"
	}
}

// Violation is one badly wrapped group. Positions lists the conflicting
// elements; the first one is where the violation is reported.
type Violation struct {
	Kind      ViolationKind
	Node      syntax.Node
	Positions []syntax.Position
	// Lines is the number of distinct lines an over-wrapped group spans.
	Lines int
}

func newViolation(kind ViolationKind, node syntax.Node, positions []syntax.Position, lines int) Violation {
	if len(positions) == 0 {
		panic(fmt.Sprintf("wrapping: %s violation for %s has no positions", kind, node.Kind()))
	}
	return Violation{Kind: kind, Node: node, Positions: positions, Lines: lines}
}

// Position is the reported anchor.
func (v Violation) Position() syntax.Position {
	return v.Positions[0]
}

// Code is the diagnostic code, BWR001 or BWR002.
func (v Violation) Code() string {
	return v.Kind.Code()
}

// Message is the human readable text, prefixed with the code.
func (v Violation) Message() string {
	if v.Kind == OverWrapped {
		return fmt.Sprintf("%s %s is wrapped unexpectedly over %d lines", v.Code(), v.Node.Kind(), v.Lines)
	}
	return fmt.Sprintf(
		"%s %s is wrapped badly - %d elements on the same line",
		v.Code(),
		v.Node.Kind(),
		len(v.Positions),
	)
}

func (v Violation) String() string {
	return v.Message()
}
