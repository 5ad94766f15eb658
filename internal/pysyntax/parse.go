package pysyntax

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Version identifies the grammar build and the checks layered on it. Bump it
// whenever Parse accepts or rejects different input.
const Version = "tree-sitter-python-20240827.2"

// SyntaxError reports input that does not parse.
type SyntaxError struct {
	Msg    string
	Line   int
	Column int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s (<unknown>, line %d)", e.Msg, e.Line)
}

// Tree is a parsed Python module. Nodes obtained from a Tree are only valid
// until Close is called.
type Tree struct {
	src  []byte
	tree *sitter.Tree
}

// Parse parses code as a Python module. Malformed input, including
// indentation errors and Python 2 statements, yields a *SyntaxError; other
// errors come from the parser itself.
func Parse(code string) (*Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	src := []byte(code)
	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("parsing python: %w", err)
	}

	root := tree.RootNode()
	if root.HasError() {
		serr := locateError(root)
		if serr == nil {
			serr = newSyntaxError(root, "invalid syntax")
		}
		tree.Close()
		return nil, serr
	}
	if serr := validate(root, src); serr != nil {
		tree.Close()
		return nil, serr
	}
	return &Tree{src: src, tree: tree}, nil
}

// Root returns the module node.
func (t *Tree) Root() Node {
	return Node{n: t.tree.RootNode(), src: t.src}
}

// Close releases the underlying tree.
func (t *Tree) Close() {
	if t.tree != nil {
		t.tree.Close()
		t.tree = nil
	}
}

// locateError finds the first ERROR or MISSING node in document order,
// descending only into subtrees that contain an error.
func locateError(n *sitter.Node) *SyntaxError {
	if n.IsMissing() {
		return newSyntaxError(n, fmt.Sprintf("expected '%s'", n.Type()))
	}
	if n.Type() == "ERROR" {
		return newSyntaxError(n, "invalid syntax")
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !child.HasError() {
			continue
		}
		if serr := locateError(child); serr != nil {
			return serr
		}
	}
	return nil
}

func newSyntaxError(n *sitter.Node, msg string) *SyntaxError {
	p := n.StartPoint()
	return &SyntaxError{
		Msg:    msg,
		Line:   int(p.Row) + 1,
		Column: int(p.Column) + 1,
	}
}
