// Package balancedwrap checks that grouped elements in source code, such as
// call arguments, parameters and collection items, are wrapped in a balanced
// way: all on one line, or one per line.
package balancedwrap

import (
	"iter"
	"strings"

	"github.com/termfx/balancedwrap/internal/syntax"
	"github.com/termfx/balancedwrap/internal/wrapping"
)

// Plugin identity.
const (
	Name    = "balanced-wrapping"
	Version = "0.1.0"
)

// Report is one finding. Line is 1-based and Column is 0-based. Fix is
// always nil since no automatic fix is offered.
type Report struct {
	Line    int
	Column  int
	Message string
	Fix     func([]byte) []byte
}

// Code returns the diagnostic code that prefixes Message.
func (r Report) Code() string {
	code, _, _ := strings.Cut(r.Message, " ")
	return code
}

// Run yields the wrapping findings of an already parsed file in traversal
// order.
func Run(file *syntax.File) iter.Seq[Report] {
	return func(yield func(Report) bool) {
		for _, v := range wrapping.Check(file) {
			p := v.Position()
			if !yield(Report{Line: p.Line, Column: p.Column, Message: v.Message()}) {
				return
			}
		}
	}
}
