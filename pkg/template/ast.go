package template

// Node is any node in a parsed template tree. Trees are immutable after
// parsing; a single tree may be rendered any number of times, concurrently,
// against different contexts.
type Node interface {
	node()
}

// Document is the root node produced by Parse.
type Document struct {
	Nodes []Node
}

func (*Document) node() {}

// TextNode represents literal text between tags, preserved verbatim.
type TextNode struct {
	Text string
}

func (*TextNode) node() {}

// VariableNode represents a substitution: {{ path }} or
// {{ path | default:'fallback' }}.
type VariableNode struct {
	Path       string
	Default    string
	HasDefault bool
}

func (*VariableNode) node() {}

// ForNode represents an iteration block: {%N for var in list %} ... {%N endfor %}.
type ForNode struct {
	Var   string
	List  string
	Depth int
	Body  []Node
}

func (*ForNode) node() {}

// IfNode represents a conditional block with an optional else branch.
type IfNode struct {
	Cond  Cond
	Depth int
	Then  []Node
	Else  []Node
}

func (*IfNode) node() {}

// Cond is a parsed condition: either a comparison of two operands, or a
// bare truthiness test when Op is empty. Operands are kept as raw text and
// resolved against the context at render time.
type Cond struct {
	Left  string
	Op    string
	Right string
}
