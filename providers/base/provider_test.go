package base

import (
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termfx/balancedwrap/internal/model"
	"github.com/termfx/balancedwrap/internal/syntax"
)

// mockConfig implements LanguageConfig for testing
type mockConfig struct {
	language   string
	extensions []string
}

func (m *mockConfig) Language() string {
	return m.language
}

func (m *mockConfig) Extensions() []string {
	return m.extensions
}

func (m *mockConfig) GetLanguage() *sitter.Language {
	return golang.GetLanguage()
}

func (m *mockConfig) Lower(root *sitter.Node, src []byte) (syntax.Node, syntax.Tokens) {
	idx := Tokenize(root, src, TokenRules{
		Skip:  map[string]bool{"comment": true, "\n": true},
		Kinds: map[string]syntax.TokenKind{"identifier": syntax.TokenName},
	})
	first, last, ok := idx.Span(root)
	if !ok {
		return nil, idx.Tokens
	}
	return &syntax.Other{Base: syntax.Base{FirstToken: first, LastToken: last}, Type: root.Type()}, idx.Tokens
}

type nilLanguageConfig struct{ mockConfig }

func (nilLanguageConfig) GetLanguage() *sitter.Language { return nil }

func newTestProvider() *Provider {
	config := &mockConfig{
		language:   "go",
		extensions: []string{".go"},
	}
	return New(config)
}

func TestNew(t *testing.T) {
	p := newTestProvider()
	require.NotNil(t, p)
	assert.Equal(t, "go", p.Language())
	assert.Equal(t, []string{".go"}, p.Extensions())
}

func TestNewPanicsWithoutGrammar(t *testing.T) {
	assert.Panics(t, func() {
		New(&nilLanguageConfig{mockConfig{language: "none"}})
	})
}

func TestParse(t *testing.T) {
	p := newTestProvider()
	src := []byte("package main\n\n// hello\nfunc main() {}\n")

	file, err := p.Parse("main.go", src)
	require.NoError(t, err)

	assert.Equal(t, "main.go", file.Path)
	assert.Equal(t, "go", file.Language)
	assert.Equal(t, src, file.Source)
	require.NotNil(t, file.Root)
	assert.Equal(t, syntax.Position{Line: 1, Column: 0}, file.Root.Start())
	assert.Equal(t, syntax.Position{Line: 4, Column: 14}, file.Root.End())

	for i, tok := range file.Tokens {
		assert.Equal(t, i, tok.Index)
		assert.NotContains(t, tok.Text, "hello")
	}
}

func TestParseRejectsSyntaxErrors(t *testing.T) {
	p := newTestProvider()

	_, err := p.Parse("broken.go", []byte("package main\nfunc main( {\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrSyntax)
	assert.Contains(t, err.Error(), "broken.go")
}

func TestValidate(t *testing.T) {
	p := newTestProvider()

	result := p.Validate([]byte("package main\nfunc main() {}\n"))
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)

	result = p.Validate([]byte("package main\nfunc main( {\n"))
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Errors)
}
