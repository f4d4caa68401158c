package base

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/balancedwrap/internal/model"
	"github.com/termfx/balancedwrap/internal/syntax"
	"github.com/termfx/balancedwrap/providers"
)

// LanguageConfig defines language-specific behavior that must be implemented
type LanguageConfig interface {
	// Metadata
	Language() string
	Extensions() []string
	GetLanguage() *sitter.Language

	// Lower maps a parse tree onto the grammar-independent tree the checks
	// run against, together with its token stream.
	Lower(root *sitter.Node, src []byte) (syntax.Node, syntax.Tokens)
}

// Provider parses sources of one language. It owns a tree-sitter parser and
// must not be shared between goroutines.
type Provider struct {
	config LanguageConfig
	parser *sitter.Parser
}

// New creates a base provider with language-specific config
func New(config LanguageConfig) *Provider {
	parser := sitter.NewParser()
	lang := config.GetLanguage()
	if lang == nil {
		panic(fmt.Sprintf("Failed to load %s language for tree-sitter", config.Language()))
	}
	parser.SetLanguage(lang)

	return &Provider{
		config: config,
		parser: parser,
	}
}

// Language returns language identifier
func (p *Provider) Language() string {
	return p.config.Language()
}

// Extensions returns supported file extensions
func (p *Provider) Extensions() []string {
	return p.config.Extensions()
}

// Parse parses src and lowers it. Sources with syntax errors are rejected.
func (p *Provider) Parse(path string, src []byte) (*syntax.File, error) {
	return p.ParseContext(context.Background(), path, src)
}

// ParseContext is Parse with cancellation.
func (p *Provider) ParseContext(ctx context.Context, path string, src []byte) (*syntax.File, error) {
	tree, err := p.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s: no tree produced", path)
	}
	defer tree.Close()

	root := tree.RootNode()
	var errs []string
	findErrors(root, &errs)
	if len(errs) > 0 {
		return nil, fmt.Errorf("%s: %w: %s", path, model.ErrSyntax, strings.Join(errs, "; "))
	}

	node, tokens := p.config.Lower(root, src)
	return &syntax.File{
		Path:     path,
		Language: p.config.Language(),
		Source:   src,
		Tokens:   tokens,
		Root:     node,
	}, nil
}

// Validate checks syntax
func (p *Provider) Validate(src []byte) providers.ValidationResult {
	tree := p.parser.Parse(nil, src)
	if tree == nil {
		return providers.ValidationResult{
			Valid:  false,
			Errors: []string{"Failed to parse source"},
		}
	}
	defer tree.Close()

	var errs []string
	findErrors(tree.RootNode(), &errs)

	return providers.ValidationResult{
		Valid:  len(errs) == 0,
		Errors: errs,
	}
}

// findErrors looks for syntax errors in AST
func findErrors(node *sitter.Node, errs *[]string) {
	switch {
	case node.IsMissing():
		*errs = append(*errs, fmt.Sprintf(
			"Missing %q at line %d, column %d",
			node.Type(),
			node.StartPoint().Row+1,
			node.StartPoint().Column+1,
		))
	case node.Type() == "ERROR":
		*errs = append(*errs, fmt.Sprintf(
			"Syntax error at line %d, column %d",
			node.StartPoint().Row+1,
			node.StartPoint().Column+1,
		))
	}

	if !node.HasError() {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		findErrors(node.Child(i), errs)
	}
}
