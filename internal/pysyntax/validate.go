package pysyntax

import (
	"fmt"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// The grammar recovers from several inputs the Python compiler rejects:
// misplaced indentation, empty suites, Python 2 statements and literal
// targets all parse without ERROR nodes. validate rejects them after the
// fact and reports the earliest one.

// headers names the construct that owns a block, as the compiler words it
// in "expected an indented block after ..." messages.
var headers = map[string]string{
	KindFunctionDefinition: "function definition",
	"class_definition":     "class definition",
	KindIf:                 "'if' statement",
	KindElif:               "'elif' statement",
	KindElse:               "'else' statement",
	KindFor:                "'for' statement",
	KindWhile:              "'while' statement",
	"with_statement":       "'with' statement",
	"try_statement":        "'try' statement",
	"except_clause":        "'except' statement",
	"except_group_clause":  "'except*' statement",
	"finally_clause":       "'finally' statement",
	"match_statement":      "'match' statement",
	"case_clause":          "'case' statement",
}

// clauses start logical lines without being statements themselves.
var clauses = map[string]bool{
	KindElif:              true,
	KindElse:              true,
	"except_clause":       true,
	"except_group_clause": true,
	"finally_clause":      true,
}

var literals = map[string]string{
	"integer":             "literal",
	"float":               "literal",
	"string":              "literal",
	"concatenated_string": "literal",
	"ellipsis":            "ellipsis",
	"true":                "True",
	"false":               "False",
	"none":                "None",
}

const (
	msgUnexpectedIndent = "unexpected indent"
	msgUnindent         = "unindent does not match any outer indentation level"
	msgTabs             = "inconsistent use of tabs and spaces in indentation"
)

// logicalLine is the first token of a source line that begins a statement
// or clause.
type logicalLine struct {
	node *sitter.Node
	// indent measured with tabs expanded to 8 columns and to 1 column.
	wide, narrow int
	// opens is set for the first statement of an indented block.
	opens bool
}

func validate(root *sitter.Node, src []byte) *SyntaxError {
	var found []*SyntaxError
	var lines []logicalLine
	seen := map[uint32]bool{}

	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if serr := checkNode(n, src); serr != nil {
			found = append(found, serr)
		}
		if parent := n.Parent(); parent != nil && startsLine(n, parent) {
			row := n.StartPoint().Row
			if wide, narrow, ok := indentOf(n, src); ok && !seen[row] {
				seen[row] = true
				lines = append(lines, logicalLine{
					node:   n,
					wide:   wide,
					narrow: narrow,
					opens:  opensBlock(n, parent),
				})
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if c := n.NamedChild(i); c != nil {
				visit(c)
			}
		}
	}
	visit(root)

	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].node.StartByte() < lines[j].node.StartByte()
	})
	if serr := checkIndentation(lines); serr != nil {
		found = append(found, serr)
	}

	if len(found) == 0 {
		return nil
	}
	sort.SliceStable(found, func(i, j int) bool {
		if found[i].Line != found[j].Line {
			return found[i].Line < found[j].Line
		}
		return found[i].Column < found[j].Column
	})
	return found[0]
}

// startsLine reports whether n begins a logical line of its parent's body.
func startsLine(n, parent *sitter.Node) bool {
	if n.Type() == "comment" {
		return false
	}
	switch parent.Type() {
	case KindModule, "block", "decorated_definition":
		return true
	}
	return clauses[n.Type()]
}

func opensBlock(n, parent *sitter.Node) bool {
	if parent.Type() != "block" {
		return false
	}
	first := firstStatement(parent)
	return first != nil && first.Equal(n)
}

func firstStatement(block *sitter.Node) *sitter.Node {
	for i := 0; i < int(block.NamedChildCount()); i++ {
		c := block.NamedChild(i)
		if c != nil && c.Type() != "comment" {
			return c
		}
	}
	return nil
}

// indentOf measures the whitespace before n when n is the first token on
// its line.
func indentOf(n *sitter.Node, src []byte) (wide, narrow int, ok bool) {
	end := int(n.StartByte())
	start := end
	for start > 0 && src[start-1] != '\n' && src[start-1] != '\r' {
		start--
	}
	for _, b := range src[start:end] {
		switch b {
		case ' ':
			wide++
			narrow++
		case '\t':
			wide = (wide/8 + 1) * 8
			narrow++
		case '\f':
			wide, narrow = 0, 0
		default:
			return 0, 0, false
		}
	}
	return wide, narrow, true
}

// checkIndentation replays the tokenizer's indent stack over the logical
// lines. Widths must agree whether tabs count as 8 columns or as 1.
func checkIndentation(lines []logicalLine) *SyntaxError {
	type level struct{ wide, narrow int }
	stack := []level{{0, 0}}
	for _, ln := range lines {
		top := stack[len(stack)-1]
		switch {
		case ln.wide > top.wide:
			if !ln.opens {
				return newSyntaxError(ln.node, msgUnexpectedIndent)
			}
			if ln.narrow <= top.narrow {
				return newSyntaxError(ln.node, msgTabs)
			}
			stack = append(stack, level{ln.wide, ln.narrow})
			continue
		case ln.wide < top.wide:
			for len(stack) > 1 && ln.wide < stack[len(stack)-1].wide {
				stack = stack[:len(stack)-1]
			}
			top = stack[len(stack)-1]
			if ln.wide != top.wide {
				return newSyntaxError(ln.node, msgUnindent)
			}
		}
		if ln.narrow != top.narrow {
			return newSyntaxError(ln.node, msgTabs)
		}
		if ln.opens {
			return expectedBlock(ln.node.Parent(), ln.node, nil)
		}
	}
	return nil
}

// expectedBlock reports a suite with no indented body. at is the token the
// compiler stopped on; when nil, that is the next line holding code after
// the header, or the end of input.
func expectedBlock(block, at *sitter.Node, src []byte) *SyntaxError {
	msg := "expected an indented block"
	owner := block.Parent()
	if owner != nil {
		if h, ok := headers[owner.Type()]; ok {
			msg = fmt.Sprintf("%s after %s on line %d", msg, h, owner.StartPoint().Row+1)
		}
	}
	if at != nil {
		return newSyntaxError(at, msg)
	}
	// The grammar may start an empty block past the newline; the colon
	// before it marks the header line.
	offset := int(block.StartByte())
	if colon := block.PrevSibling(); colon != nil {
		offset = int(colon.EndByte()) - 1
	}
	return &SyntaxError{Msg: msg, Line: nextCodeLine(src, offset), Column: 1}
}

// nextCodeLine returns the 1-based number of the first line after the one
// containing offset that is neither blank nor a comment.
func nextCodeLine(src []byte, offset int) int {
	lines := strings.SplitAfter(string(src), "\n")
	line, pos := 0, 0
	for line < len(lines) && pos+len(lines[line]) <= offset {
		pos += len(lines[line])
		line++
	}
	for line++; line < len(lines); line++ {
		text := strings.TrimSpace(lines[line])
		if text != "" && !strings.HasPrefix(text, "#") {
			return line + 1
		}
	}
	return strings.Count(string(src), "\n") + 1
}

// checkNode rejects constructs the grammar accepts but the compiler does
// not.
func checkNode(n *sitter.Node, src []byte) *SyntaxError {
	switch n.Type() {
	case "block":
		if firstStatement(n) == nil {
			return expectedBlock(n, nil, src)
		}
	case "print_statement":
		return newSyntaxError(n, "Missing parentheses in call to 'print'. Did you mean print(...)?")
	case "exec_statement":
		return newSyntaxError(n, "Missing parentheses in call to 'exec'. Did you mean exec(...)?")
	case "except_clause":
		for i := 0; i < int(n.ChildCount()); i++ {
			if c := n.Child(i); c != nil && (c.Type() == "," || c.Type() == "expression_list") {
				return newSyntaxError(n, "multiple exception types must be parenthesized")
			}
		}
	case "delete_statement":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if lit := literalTarget(n.NamedChild(i)); lit != nil {
				return newSyntaxError(lit, "cannot delete "+literals[lit.Type()])
			}
		}
	case KindAssignment:
		if lit := literalTarget(n.ChildByFieldName("left")); lit != nil {
			return newSyntaxError(lit, "cannot assign to "+literals[lit.Type()])
		}
	case "augmented_assignment":
		if lit := literalTarget(n.ChildByFieldName("left")); lit != nil {
			return newSyntaxError(lit, fmt.Sprintf("'%s' is an illegal expression for augmented assignment", literals[lit.Type()]))
		}
	}
	return nil
}

// literalTarget returns the first literal inside an assignment or del
// target, looking through tuple and list displays.
func literalTarget(n *sitter.Node) *sitter.Node {
	if n == nil {
		return nil
	}
	if _, ok := literals[n.Type()]; ok {
		return n
	}
	switch n.Type() {
	case "expression_list", "pattern_list", "tuple", "tuple_pattern",
		"list", "list_pattern", "parenthesized_expression":
		for i := 0; i < int(n.NamedChildCount()); i++ {
			if lit := literalTarget(n.NamedChild(i)); lit != nil {
				return lit
			}
		}
	}
	return nil
}
