// Package syntax is the grammar-independent view of a parsed file that the
// wrapping checks run against: positions, the token stream and a typed tree
// of the constructs that carry element groupings.
package syntax

import "fmt"

// Position is a location in source. Lines are 1-based, columns are 0-based
// and count code points rather than bytes.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Compare orders positions by line, then column.
func (p Position) Compare(q Position) int {
	switch {
	case p.Line < q.Line:
		return -1
	case p.Line > q.Line:
		return 1
	case p.Column < q.Column:
		return -1
	case p.Column > q.Column:
		return 1
	default:
		return 0
	}
}

// Before reports whether p sorts strictly before q.
func (p Position) Before(q Position) bool {
	return p.Compare(q) < 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
