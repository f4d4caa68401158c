// Package wrapping finds element groups that are wrapped inconsistently:
// every group must either fit on one line or give each element its own
// line.
package wrapping

import "github.com/termfx/balancedwrap/internal/syntax"

type checkFunc func(c *checker, n syntax.Node)

var checkers = map[syntax.Kind]checkFunc{
	syntax.KindCall:             (*checker).checkCall,
	syntax.KindFunctionDef:      (*checker).checkFunctionDef,
	syntax.KindAsyncFunctionDef: (*checker).checkFunctionDef,
	syntax.KindClassDef:         (*checker).checkClassDef,
	syntax.KindList:             (*checker).checkList,
	syntax.KindSet:              (*checker).checkSet,
	syntax.KindTuple:            (*checker).checkTuple,
	syntax.KindDict:             (*checker).checkDict,
	syntax.KindIfExp:            (*checker).checkIfExp,
	syntax.KindCompare:          (*checker).checkCompare,
	syntax.KindComprehension:    (*checker).checkComprehension,
}

type checker struct {
	tokens     syntax.Tokens
	violations []Violation
}

func (c *checker) emit(v Violation) {
	c.violations = append(c.violations, v)
}

// walk visits n before its children. Interpolated strings are skipped
// whole since the positions of their embedded expressions are unreliable.
func (c *checker) walk(n syntax.Node) {
	if n == nil || n.Kind() == syntax.KindFormattedString {
		return
	}
	if check, ok := checkers[n.Kind()]; ok {
		check(c, n)
	}
	for _, child := range n.Children() {
		c.walk(child)
	}
}

// Check returns every wrapping violation in the file, in traversal order.
func Check(file *syntax.File) []Violation {
	if file == nil || file.Root == nil {
		return nil
	}
	c := &checker{tokens: file.Tokens}
	c.walk(file.Root)
	return c.violations
}
