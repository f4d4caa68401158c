package syntax

import "fmt"

// TokenKind is the lexical class of a token.
type TokenKind int

const (
	TokenOther TokenKind = iota
	TokenName            // identifiers and keywords
	TokenOp              // punctuation and operators
	TokenNumber
	TokenString
)

func (k TokenKind) String() string {
	switch k {
	case TokenName:
		return "NAME"
	case TokenOp:
		return "OP"
	case TokenNumber:
		return "NUMBER"
	case TokenString:
		return "STRING"
	default:
		return "OTHER"
	}
}

// Token is a single lexical unit. Index is its offset in the file's stream.
type Token struct {
	Kind  TokenKind
	Text  string
	Start Position
	End   Position
	Index int
}

// Tokens is the ordered token stream of a whole file. Comments and line
// continuations are not part of it.
type Tokens []Token

// Find returns the first token at or after index from that has the given
// kind and text. Well-formed input always has the token being looked for,
// so a miss is a bug in the caller and panics.
func (ts Tokens) Find(from int, kind TokenKind, text string) Token {
	for i := max(from, 0); i < len(ts); i++ {
		if ts[i].Kind == kind && ts[i].Text == text {
			return ts[i]
		}
	}
	panic(fmt.Sprintf("syntax: no %s token %q at or after token %d", kind, text, from))
}

// Prev returns the token immediately before index i.
func (ts Tokens) Prev(i int) (Token, bool) {
	if i <= 0 || i > len(ts) {
		return Token{}, false
	}
	return ts[i-1], true
}

// Next returns the token immediately after index i.
func (ts Tokens) Next(i int) (Token, bool) {
	if i < -1 || i+1 >= len(ts) {
		return Token{}, false
	}
	return ts[i+1], true
}
