package python

import (
	"bytes"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/termfx/balancedwrap/internal/syntax"
	"github.com/termfx/balancedwrap/providers/base"
)

type nodeKey struct {
	start, end uint32
	typ        string
}

// lowerer builds the construct tree. Every tree-sitter node is lowered once,
// so a typed field and the matching entry in Children are the same value.
type lowerer struct {
	idx  *base.TokenIndex
	src  []byte
	memo map[nodeKey]syntax.Node
}

func (l *lowerer) lower(n *sitter.Node) syntax.Node {
	if n == nil {
		return nil
	}
	key := nodeKey{start: n.StartByte(), end: n.EndByte(), typ: n.Type()}
	if node, ok := l.memo[key]; ok {
		return node
	}
	node := l.build(n)
	l.memo[key] = node
	return node
}

func (l *lowerer) lowerAll(nodes []*sitter.Node) []syntax.Node {
	out := make([]syntax.Node, 0, len(nodes))
	for _, n := range nodes {
		if node := l.lower(n); node != nil {
			out = append(out, node)
		}
	}
	return out
}

func (l *lowerer) build(n *sitter.Node) syntax.Node {
	first, last, ok := l.idx.Span(n)
	if !ok {
		return nil
	}
	b := syntax.Base{FirstToken: first, LastToken: last}

	switch n.Type() {
	case "parenthesized_expression":
		// Grouping parentheses are not a node of their own.
		if inner := namedChildren(n); len(inner) == 1 {
			return l.lower(inner[0])
		}
	case "call":
		return l.call(n, b)
	case "function_definition":
		return l.functionDef(n, b)
	case "class_definition":
		return l.classDef(n, b)
	case "list", "list_pattern":
		if inCasePattern(n) {
			break
		}
		elts := l.lowerAll(namedChildren(n))
		b.Nodes = elts
		return &syntax.List{Base: b, Elts: elts}
	case "set":
		elts := l.lowerAll(namedChildren(n))
		b.Nodes = elts
		return &syntax.Set{Base: b, Elts: elts}
	case "tuple", "tuple_pattern":
		if inCasePattern(n) {
			break
		}
		elts := l.lowerAll(namedChildren(n))
		b.Nodes = elts
		return &syntax.Tuple{Base: b, Elts: elts, Parenthesized: true}
	case "expression_list", "pattern_list":
		elts := l.lowerAll(namedChildren(n))
		b.Nodes = elts
		return &syntax.Tuple{Base: b, Elts: elts}
	case "dictionary":
		return l.dict(n, b)
	case "conditional_expression":
		if node := l.ifExp(n, b); node != nil {
			return node
		}
	case "comparison_operator":
		operands := l.lowerAll(namedChildren(n))
		b.Nodes = operands
		return &syntax.Compare{Base: b, Operands: operands}
	case "for_in_clause":
		if node := l.comprehension(n, b); node != nil {
			return node
		}
	case "string":
		if l.formatted(n) {
			return &syntax.FormattedString{Base: b}
		}
		return &syntax.Other{Base: b, Type: n.Type()}
	case "concatenated_string":
		for _, part := range namedChildren(n) {
			if part.Type() == "string" && l.formatted(part) {
				return &syntax.FormattedString{Base: b}
			}
		}
	}

	b.Nodes = l.lowerAll(namedChildren(n))
	return &syntax.Other{Base: b, Type: n.Type()}
}

func (l *lowerer) call(n *sitter.Node, b syntax.Base) syntax.Node {
	call := &syntax.Call{Callee: l.lower(n.ChildByFieldName("function"))}
	b.Nodes = appendNodes(nil, call.Callee)

	args := n.ChildByFieldName("arguments")
	switch {
	case args == nil:
	case args.Type() == "generator_expression":
		// f(x for x in y): the parentheses are shared with the call, so the
		// argument is what sits between them.
		b.Nodes = appendNodes(b.Nodes, l.lower(args))
		if inner := l.between(args); inner != nil {
			call.Args = []syntax.Node{inner}
		}
	default:
		for _, arg := range namedChildren(args) {
			node := l.lower(arg)
			if node == nil {
				continue
			}
			b.Nodes = append(b.Nodes, node)
			switch arg.Type() {
			case "keyword_argument", "dictionary_splat":
				call.Keywords = append(call.Keywords, node)
			default:
				call.Args = append(call.Args, node)
			}
		}
	}

	call.Base = b
	return call
}

func (l *lowerer) functionDef(n *sitter.Node, b syntax.Base) syntax.Node {
	def := &syntax.FunctionDef{Async: hasChild(n, "async")}
	if params := n.ChildByFieldName("parameters"); params != nil {
		l.parameters(def, params)
	}
	def.Returns = l.lower(n.ChildByFieldName("return_type"))
	b.Nodes = l.lowerAll(namedChildren(n))
	def.Base = b
	return def
}

// parameters sorts a parameter list into its declaration groups. The bare
// `/` and `*` markers only move the boundaries.
func (l *lowerer) parameters(def *syntax.FunctionDef, params *sitter.Node) {
	keywordOnly := false
	for _, p := range namedChildren(params) {
		switch p.Type() {
		case "positional_separator":
			def.PosOnly = append(def.PosOnly, def.Params...)
			def.Params = nil
			continue
		case "keyword_separator":
			keywordOnly = true
			continue
		}

		switch splat(p) {
		case "list_splat_pattern":
			def.Vararg = l.afterFirst(p)
			keywordOnly = true
		case "dictionary_splat_pattern":
			def.Kwarg = l.afterFirst(p)
		default:
			node := l.lower(p)
			if node == nil {
				continue
			}
			if keywordOnly {
				def.KwOnly = append(def.KwOnly, node)
			} else {
				def.Params = append(def.Params, node)
			}
		}
	}
}

// splat reports which star pattern, if any, introduces parameter p.
func splat(p *sitter.Node) string {
	switch p.Type() {
	case "list_splat_pattern", "dictionary_splat_pattern":
		return p.Type()
	case "typed_parameter":
		if inner := namedChildren(p); len(inner) > 0 {
			switch inner[0].Type() {
			case "list_splat_pattern", "dictionary_splat_pattern":
				return inner[0].Type()
			}
		}
	}
	return ""
}

func (l *lowerer) classDef(n *sitter.Node, b syntax.Base) syntax.Node {
	class := &syntax.ClassDef{}
	if supers := n.ChildByFieldName("superclasses"); supers != nil {
		class.HasArguments = true
		for _, arg := range namedChildren(supers) {
			node := l.lower(arg)
			if node == nil {
				continue
			}
			switch arg.Type() {
			case "keyword_argument", "dictionary_splat":
				class.Keywords = append(class.Keywords, node)
			default:
				class.Bases = append(class.Bases, node)
			}
		}
	}
	b.Nodes = l.lowerAll(namedChildren(n))
	class.Base = b
	return class
}

func (l *lowerer) dict(n *sitter.Node, b syntax.Base) syntax.Node {
	dict := &syntax.Dict{}
	for _, item := range namedChildren(n) {
		switch item.Type() {
		case "pair":
			key := l.lower(item.ChildByFieldName("key"))
			value := l.lower(item.ChildByFieldName("value"))
			if key == nil || value == nil {
				continue
			}
			dict.Entries = append(dict.Entries, syntax.DictEntry{Key: key, Value: value})
			b.Nodes = append(b.Nodes, key, value)
		case "dictionary_splat":
			inner := namedChildren(item)
			if len(inner) == 0 {
				continue
			}
			if value := l.lower(inner[0]); value != nil {
				dict.Entries = append(dict.Entries, syntax.DictEntry{Value: value})
				b.Nodes = append(b.Nodes, value)
			}
		default:
			b.Nodes = appendNodes(b.Nodes, l.lower(item))
		}
	}
	dict.Base = b
	return dict
}

func (l *lowerer) ifExp(n *sitter.Node, b syntax.Base) syntax.Node {
	operands := l.lowerAll(namedChildren(n))
	if len(operands) != 3 {
		return nil
	}
	parent := n.Parent()
	b.Nodes = operands
	return &syntax.IfExp{
		Base:          b,
		Body:          operands[0],
		Test:          operands[1],
		OrElse:        operands[2],
		Parenthesized: parent != nil && parent.Type() == "parenthesized_expression",
	}
}

func (l *lowerer) comprehension(n *sitter.Node, b syntax.Base) syntax.Node {
	clause := &syntax.Comprehension{}
	for i := 0; i < int(n.ChildCount()); i++ {
		switch n.FieldNameForChild(i) {
		case "left":
			clause.Target = l.lower(n.Child(i))
		case "right":
			clause.Iter = appendNodes(clause.Iter, l.lower(n.Child(i)))
		}
	}
	if clause.Target == nil {
		return nil
	}
	b.Nodes = l.lowerAll(namedChildren(n))
	clause.Base = b
	return clause
}

// inCasePattern reports whether n sits in the pattern of a match case. A
// sequence pattern there destructures the subject and is not a literal.
func inCasePattern(n *sitter.Node) bool {
	for p := n.Parent(); p != nil; p = p.Parent() {
		switch p.Type() {
		case "case_pattern":
			return true
		case "case_clause", "block", "module":
			return false
		}
	}
	return false
}

// formatted reports whether a string literal carries an f prefix.
func (l *lowerer) formatted(n *sitter.Node) bool {
	text := l.src[n.StartByte():n.EndByte()]
	quote := bytes.IndexAny(text, `'"`)
	if quote < 0 {
		return false
	}
	return bytes.ContainsAny(text[:quote], "fF")
}

// between spans the tokens strictly inside n's delimiters.
func (l *lowerer) between(n *sitter.Node) syntax.Node {
	first, last, ok := l.idx.Span(n)
	if !ok || last.Index-first.Index < 2 {
		return nil
	}
	return &syntax.Other{
		Base: syntax.Base{
			FirstToken: l.idx.Tokens[first.Index+1],
			LastToken:  l.idx.Tokens[last.Index-1],
		},
		Type: n.Type(),
	}
}

// afterFirst spans n without its leading token, which for `*args` and
// `**kwargs` leaves the parameter name.
func (l *lowerer) afterFirst(n *sitter.Node) syntax.Node {
	first, last, ok := l.idx.Span(n)
	if !ok || first.Index == last.Index {
		return nil
	}
	return &syntax.Other{
		Base: syntax.Base{
			FirstToken: l.idx.Tokens[first.Index+1],
			LastToken:  last,
		},
		Type: n.Type(),
	}
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if tokenRules.Skip[child.Type()] {
			continue
		}
		out = append(out, child)
	}
	return out
}

func hasChild(n *sitter.Node, typ string) bool {
	for i := 0; i < int(n.ChildCount()); i++ {
		if n.Child(i).Type() == typ {
			return true
		}
	}
	return false
}

func appendNodes(dst []syntax.Node, nodes ...syntax.Node) []syntax.Node {
	for _, n := range nodes {
		if n != nil {
			dst = append(dst, n)
		}
	}
	return dst
}
