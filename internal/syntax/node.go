package syntax

// Kind is the closed set of construct categories the checks know about.
// Everything else is KindOther.
type Kind int

const (
	KindOther Kind = iota
	KindCall
	KindFunctionDef
	KindAsyncFunctionDef
	KindClassDef
	KindList
	KindTuple
	KindSet
	KindDict
	KindIfExp
	KindCompare
	KindComprehension
	KindFormattedString
)

var kindNames = map[Kind]string{
	KindOther:            "Other",
	KindCall:             "Call",
	KindFunctionDef:      "FunctionDef",
	KindAsyncFunctionDef: "AsyncFunctionDef",
	KindClassDef:         "ClassDef",
	KindList:             "List",
	KindTuple:            "Tuple",
	KindSet:              "Set",
	KindDict:             "Dict",
	KindIfExp:            "IfExp",
	KindCompare:          "Compare",
	KindComprehension:    "comprehension",
	KindFormattedString:  "JoinedStr",
}

// String returns the label used in diagnostics.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Other"
}

// Node is a read-only handle into the tree. Start and End come from the
// node's first and last lexical tokens, so leading decorators are never
// part of a definition's span.
type Node interface {
	Kind() Kind
	Start() Position
	End() Position
	First() Token
	Last() Token
	// Children returns every syntactic child in source order. The walker
	// uses it for traversal; typed fields on concrete nodes point into it.
	Children() []Node
}

// Base carries the token span and traversal children shared by all nodes.
type Base struct {
	FirstToken Token
	LastToken  Token
	Nodes      []Node
}

func (b *Base) Start() Position  { return b.FirstToken.Start }
func (b *Base) End() Position    { return b.LastToken.End }
func (b *Base) First() Token     { return b.FirstToken }
func (b *Base) Last() Token      { return b.LastToken }
func (b *Base) Children() []Node { return b.Nodes }

// Other is any construct without a dedicated check. Type is the grammar's
// own name for it.
type Other struct {
	Base
	Type string
}

func (*Other) Kind() Kind { return KindOther }

// Call is a function call. Args holds positional and starred arguments,
// Keywords holds keyword arguments and double-starred mappings.
type Call struct {
	Base
	Callee   Node
	Args     []Node
	Keywords []Node
}

func (*Call) Kind() Kind { return KindCall }

// FunctionDef is a function header. Optional parameters are nil when absent.
type FunctionDef struct {
	Base
	Async   bool
	PosOnly []Node
	Params  []Node
	Vararg  Node
	KwOnly  []Node
	Kwarg   Node
	Returns Node
}

func (f *FunctionDef) Kind() Kind {
	if f.Async {
		return KindAsyncFunctionDef
	}
	return KindFunctionDef
}

// Parameters returns every declared parameter followed by the return
// annotation, in declaration order, skipping the absent ones.
func (f *FunctionDef) Parameters() []Node {
	out := make([]Node, 0, len(f.PosOnly)+len(f.Params)+len(f.KwOnly)+3)
	out = append(out, f.PosOnly...)
	out = append(out, f.Params...)
	if f.Vararg != nil {
		out = append(out, f.Vararg)
	}
	out = append(out, f.KwOnly...)
	if f.Kwarg != nil {
		out = append(out, f.Kwarg)
	}
	if f.Returns != nil {
		out = append(out, f.Returns)
	}
	return out
}

// ClassDef is a class header. HasArguments is false for classes declared
// without a parenthesised base list.
type ClassDef struct {
	Base
	HasArguments bool
	Bases        []Node
	Keywords     []Node
}

func (*ClassDef) Kind() Kind { return KindClassDef }

// List is a list literal or list target.
type List struct {
	Base
	Elts []Node
}

func (*List) Kind() Kind { return KindList }

// Set is a set literal.
type Set struct {
	Base
	Elts []Node
}

func (*Set) Kind() Kind { return KindSet }

// Tuple is a tuple. Bare tuples such as assignment targets or return
// values have Parenthesized unset.
type Tuple struct {
	Base
	Elts          []Node
	Parenthesized bool
}

func (*Tuple) Kind() Kind { return KindTuple }

// DictEntry is one item of a dict literal. Key is nil for a ** spread,
// in which case Value is the spread operand.
type DictEntry struct {
	Key   Node
	Value Node
}

// Dict is a dict literal.
type Dict struct {
	Base
	Entries []DictEntry
}

func (*Dict) Kind() Kind { return KindDict }

// Keys returns the keys of the key/value entries.
func (d *Dict) Keys() []Node {
	keys := make([]Node, 0, len(d.Entries))
	for _, e := range d.Entries {
		if e.Key != nil {
			keys = append(keys, e.Key)
		}
	}
	return keys
}

// IfExp is a conditional expression, `Body if Test else OrElse`.
type IfExp struct {
	Base
	Body          Node
	Test          Node
	OrElse        Node
	Parenthesized bool
}

func (*IfExp) Kind() Kind { return KindIfExp }

// Compare is a comparison chain of two or more operands.
type Compare struct {
	Base
	Operands []Node
}

func (*Compare) Kind() Kind { return KindCompare }

// Comprehension is a single `for target in iter` clause.
type Comprehension struct {
	Base
	Target Node
	Iter   []Node
}

func (*Comprehension) Kind() Kind { return KindComprehension }

// FormattedString is an interpolated string literal.
type FormattedString struct {
	Base
}

func (*FormattedString) Kind() Kind { return KindFormattedString }
