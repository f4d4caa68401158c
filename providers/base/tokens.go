package base

import (
	"sort"
	"unicode"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/balancedwrap/internal/syntax"
)

// TokenRules tells the tokenizer how a grammar's leaves map to tokens.
type TokenRules struct {
	// Skip drops a node and everything below it from the stream.
	Skip map[string]bool
	// Atomic keeps a node as a single token even when it has children.
	Atomic map[string]bool
	// Kinds maps named leaf types to token kinds. Unlisted named leaves
	// become TokenOther.
	Kinds map[string]syntax.TokenKind
}

// TokenIndex is the token stream of one source together with the byte
// offsets needed to map tree nodes onto it.
type TokenIndex struct {
	Tokens syntax.Tokens

	src        []byte
	lineStarts []int
	starts     []uint32
	ends       []uint32
}

// Tokenize flattens the leaves under root into a token stream. Zero-width
// leaves, such as the ones tree-sitter inserts for missing tokens, are left
// out.
func Tokenize(root *sitter.Node, src []byte, rules TokenRules) *TokenIndex {
	idx := &TokenIndex{src: src, lineStarts: lineStarts(src)}
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		typ := n.Type()
		if rules.Skip[typ] {
			return
		}
		if n.ChildCount() > 0 && !rules.Atomic[typ] {
			for i := 0; i < int(n.ChildCount()); i++ {
				visit(n.Child(i))
			}
			return
		}
		if n.EndByte() <= n.StartByte() {
			return
		}
		idx.push(n, tokenKind(n, rules))
	}
	visit(root)
	return idx
}

func (idx *TokenIndex) push(n *sitter.Node, kind syntax.TokenKind) {
	start, end := n.StartByte(), n.EndByte()
	idx.Tokens = append(idx.Tokens, syntax.Token{
		Kind:  kind,
		Text:  string(idx.src[start:end]),
		Start: idx.Position(start),
		End:   idx.Position(end),
		Index: len(idx.Tokens),
	})
	idx.starts = append(idx.starts, start)
	idx.ends = append(idx.ends, end)
}

func tokenKind(n *sitter.Node, rules TokenRules) syntax.TokenKind {
	if n.IsNamed() {
		if kind, ok := rules.Kinds[n.Type()]; ok {
			return kind
		}
		return syntax.TokenOther
	}
	if isWord(n.Type()) {
		return syntax.TokenName
	}
	return syntax.TokenOp
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r != '_' && !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Position converts a byte offset into a 1-based line and a 0-based column
// counted in code points.
func (idx *TokenIndex) Position(offset uint32) syntax.Position {
	off := int(offset)
	line := sort.Search(len(idx.lineStarts), func(i int) bool {
		return idx.lineStarts[i] > off
	}) - 1
	return syntax.Position{
		Line:   line + 1,
		Column: utf8.RuneCount(idx.src[idx.lineStarts[line]:off]),
	}
}

// Span returns the first and last tokens covered by n. ok is false when n
// covers no token at all.
func (idx *TokenIndex) Span(n *sitter.Node) (first, last syntax.Token, ok bool) {
	return idx.SpanBytes(n.StartByte(), n.EndByte())
}

// SpanBytes is Span for an explicit byte range.
func (idx *TokenIndex) SpanBytes(start, end uint32) (first, last syntax.Token, ok bool) {
	i := sort.Search(len(idx.starts), func(k int) bool { return idx.starts[k] >= start })
	j := sort.Search(len(idx.ends), func(k int) bool { return idx.ends[k] > end }) - 1
	if i >= len(idx.Tokens) || j < 0 || i > j {
		return syntax.Token{}, syntax.Token{}, false
	}
	return idx.Tokens[i], idx.Tokens[j], true
}

func lineStarts(src []byte) []int {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}
