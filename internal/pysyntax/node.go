package pysyntax

import (
	sitter "github.com/smacker/go-tree-sitter"
)

// Node kinds produced by the Python grammar.
const (
	KindModule             = "module"
	KindFunctionDefinition = "function_definition"
	KindAssignment         = "assignment"
	KindIdentifier         = "identifier"
	KindFor                = "for_statement"
	KindWhile              = "while_statement"
	KindIf                 = "if_statement"
	KindElif               = "elif_clause"
	KindElse               = "else_clause"
)

// Node is a syntax node bound to the source it was parsed from.
type Node struct {
	n   *sitter.Node
	src []byte
}

// Kind returns the grammar node type.
func (n Node) Kind() string { return n.n.Type() }

// Text returns the source text covered by the node.
func (n Node) Text() string { return n.n.Content(n.src) }

// Line returns the 1-based starting line.
func (n Node) Line() int { return int(n.n.StartPoint().Row) + 1 }

// Field returns the child stored under the given field name.
func (n Node) Field(name string) (Node, bool) {
	c := n.n.ChildByFieldName(name)
	if c == nil {
		return Node{}, false
	}
	return Node{n: c, src: n.src}, true
}

// Parent returns the enclosing node, if any.
func (n Node) Parent() (Node, bool) {
	p := n.n.Parent()
	if p == nil {
		return Node{}, false
	}
	return Node{n: p, src: n.src}, true
}

// Children returns the named children in source order.
func (n Node) Children() []Node {
	count := int(n.n.NamedChildCount())
	out := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		if c := n.n.NamedChild(i); c != nil {
			out = append(out, Node{n: c, src: n.src})
		}
	}
	return out
}

// IsAsync reports whether a def or for statement carries the async keyword.
func (n Node) IsAsync() bool {
	if n.n.ChildCount() == 0 {
		return false
	}
	first := n.n.Child(0)
	return first != nil && first.Type() == "async"
}

// Wrapper nodes with no counterpart in Python's own syntax tree. Walk looks
// through them so breadth-first order matches ast.walk. An expression
// statement is only a wrapper around assignments; otherwise it stands for
// an Expr node.
var transparent = map[string]bool{
	"block":                true,
	"decorated_definition": true,
	"with_clause":          true,
	"finally_clause":       true,
	KindElse:               true,
}

// walkItem is a queued node. An elif carries the clauses after it, which
// Python nests inside the elif's else branch.
type walkItem struct {
	node Node
	tail []Node
}

// Walk visits n and its descendants breadth-first, in the order ast.walk
// would produce for the same source. Returning false from fn skips the
// children of that node.
func Walk(n Node, fn func(Node) bool) {
	queue := []walkItem{{node: n}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if !fn(cur.node) {
			continue
		}
		queue = append(queue, expand(cur)...)
	}
}

func expand(it walkItem) []walkItem {
	var children, chain []Node
	for _, c := range it.node.Children() {
		if it.node.Kind() == KindIf && (c.Kind() == KindElif || c.Kind() == KindElse) {
			chain = append(chain, c)
			continue
		}
		children = append(children, c)
	}
	if it.node.Kind() == KindElif {
		chain = it.tail
	}
	out := flatten(children)
	if len(chain) > 0 {
		if chain[0].Kind() == KindElif {
			out = append(out, walkItem{node: chain[0], tail: chain[1:]})
		} else {
			out = append(out, flatten(chain[:1])...)
		}
	}
	return out
}

func flatten(nodes []Node) []walkItem {
	var out []walkItem
	for _, n := range nodes {
		if transparent[n.Kind()] || isAssignmentStatement(n) {
			out = append(out, flatten(n.Children())...)
			continue
		}
		out = append(out, walkItem{node: n})
	}
	return out
}

func isAssignmentStatement(n Node) bool {
	if n.Kind() != "expression_statement" {
		return false
	}
	for _, c := range n.Children() {
		if c.Kind() == KindAssignment || c.Kind() == "augmented_assignment" {
			return true
		}
	}
	return false
}
