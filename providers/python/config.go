package python

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/termfx/balancedwrap/internal/syntax"
	"github.com/termfx/balancedwrap/providers/base"
)

// Config implements LanguageConfig for Python
type Config struct{}

// Language identifier
func (c *Config) Language() string {
	return "python"
}

// Extensions supported
func (c *Config) Extensions() []string {
	return []string{".py", ".pyw", ".pyi"}
}

// GetLanguage returns tree-sitter language for Python
func (c *Config) GetLanguage() *sitter.Language {
	return python.GetLanguage()
}

var tokenRules = base.TokenRules{
	Skip: map[string]bool{
		"comment":           true,
		"line_continuation": true,
	},
	// Strings are single tokens, interpolations included.
	Atomic: map[string]bool{
		"string": true,
	},
	Kinds: map[string]syntax.TokenKind{
		"identifier": syntax.TokenName,
		"true":       syntax.TokenName,
		"false":      syntax.TokenName,
		"none":       syntax.TokenName,
		"integer":    syntax.TokenNumber,
		"float":      syntax.TokenNumber,
		"string":     syntax.TokenString,
		"ellipsis":   syntax.TokenOp,
	},
}

// Lower maps a Python parse tree onto the construct tree.
func (c *Config) Lower(root *sitter.Node, src []byte) (syntax.Node, syntax.Tokens) {
	idx := base.Tokenize(root, src, tokenRules)
	l := &lowerer{
		idx:  idx,
		src:  src,
		memo: make(map[nodeKey]syntax.Node),
	}
	return l.lower(root), idx.Tokens
}
