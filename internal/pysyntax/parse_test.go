package pysyntax

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Valid(t *testing.T) {
	tree, err := Parse("def add(a, b):\n    return a + b\n")
	require.NoError(t, err)
	defer tree.Close()

	root := tree.Root()
	assert.Equal(t, KindModule, root.Kind())
	children := root.Children()
	require.Len(t, children, 1)
	assert.Equal(t, KindFunctionDefinition, children[0].Kind())

	name, ok := children[0].Field("name")
	require.True(t, ok)
	assert.Equal(t, "add", name.Text())
	assert.Equal(t, 1, name.Line())
}

func TestParse_Empty(t *testing.T) {
	tree, err := Parse("")
	require.NoError(t, err)
	defer tree.Close()
	assert.Empty(t, tree.Root().Children())
}

func TestParse_SyntaxError(t *testing.T) {
	tests := []struct {
		name string
		code string
		line int
	}{
		{"unclosed paren", "def f(:\n    pass\n", 1},
		{"stray operator on second line", "x = 1\ny = = 2\n", 2},
		{"missing block", "if x\n    y = 1\n", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := Parse(tt.code)
			require.Error(t, err)
			assert.Nil(t, tree)

			var serr *SyntaxError
			require.True(t, errors.As(err, &serr), "want *SyntaxError, got %T", err)
			assert.Equal(t, tt.line, serr.Line)
			assert.Contains(t, serr.Error(), "(<unknown>, line ")
		})
	}
}

func TestParse_CompilerErrors(t *testing.T) {
	tests := []struct {
		name string
		code string
		line int
		msg  string
	}{
		{"indented first line", "    x = 1\n", 1, "unexpected indent"},
		{"indented after statement", "x = 1\n    y = 2\n", 2, "unexpected indent"},
		{"deeper inside block", "def f():\n    x = 1\n        y = 2\n", 3, "unexpected indent"},
		{"empty suite at end", "def f():\n", 2, "expected an indented block after function definition on line 1"},
		{"unindented suite", "if a:\nx = 1\n", 2, "expected an indented block after 'if' statement on line 1"},
		{"comment only suite", "class A:\n    # nothing\n", 3, "expected an indented block after class definition on line 1"},
		{"dedent to unknown level", "if a:\n        x = 1\n    y = 2\n", 3, "unindent does not match any outer indentation level"},
		{"tab then spaces", "if a:\n\tx = 1\n        y = 2\n", 3, "inconsistent use of tabs and spaces in indentation"},
		{"print statement", "print 'hi'\n", 1, "Missing parentheses in call to 'print'. Did you mean print(...)?"},
		{"exec statement", "exec 'x'\n", 1, "Missing parentheses in call to 'exec'. Did you mean exec(...)?"},
		{"except comma", "try:\n    pass\nexcept ValueError, e:\n    pass\n", 3, "multiple exception types must be parenthesized"},
		{"del literal", "del 1\n", 1, "cannot delete literal"},
		{"del literal in list", "del x, 2\n", 1, "cannot delete literal"},
		{"earliest error wins", "x = 1\n    y = 2\ndel 1\n", 2, "unexpected indent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := Parse(tt.code)
			require.Error(t, err)
			assert.Nil(t, tree)

			var serr *SyntaxError
			require.True(t, errors.As(err, &serr), "want *SyntaxError, got %T", err)
			assert.Equal(t, tt.msg, serr.Msg)
			assert.Equal(t, tt.line, serr.Line)
		})
	}
}

func TestParse_AcceptsValidLayouts(t *testing.T) {
	tests := []struct {
		name string
		code string
	}{
		{"one line suites", "if a: x = 1\nelse: x = 2\n"},
		{"semicolons", "x = 1; y = 2\n"},
		{"decorated method", "class A:\n    @property\n    def v(self):\n        return 1\n"},
		{"if elif else", "if a:\n    x = 1\nelif b:\n    x = 2\nelse:\n    x = 3\n"},
		{"try except finally", "try:\n    pass\nexcept (A, B) as e:\n    pass\nelse:\n    pass\nfinally:\n    pass\n"},
		{"stray comment indentation", "def f():\n    x = 1\n  # note\n    return x\n"},
		{"leading comment in suite", "def f():\n    # note\n    return 1\n"},
		{"bracket continuation", "x = foo(1,\n  2)\ny = [\n        3]\n"},
		{"multi line string", "x = \"\"\"\n  text\n\"\"\"\ny = 1\n"},
		{"consistent tabs", "if a:\n\tx = 1\n\ty = 2\n"},
		{"dedent several levels", "for i in x:\n    if i:\n        while i:\n            i -= 1\nz = 0\n"},
		{"print call", "print('hi')\n"},
		{"del names", "del x, y[0]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := Parse(tt.code)
			require.NoError(t, err)
			tree.Close()
		})
	}
}

func TestSyntaxError_Error(t *testing.T) {
	err := &SyntaxError{Msg: "invalid syntax", Line: 3, Column: 7}
	assert.Equal(t, "invalid syntax (<unknown>, line 3)", err.Error())
}

func TestWalk_BreadthFirst(t *testing.T) {
	code := "def outer():\n    def inner():\n        pass\n\ndef second():\n    pass\n"
	tree, err := Parse(code)
	require.NoError(t, err)
	defer tree.Close()

	var names []string
	Walk(tree.Root(), func(n Node) bool {
		if n.Kind() == KindFunctionDefinition {
			name, _ := n.Field("name")
			names = append(names, name.Text())
		}
		return true
	})
	assert.Equal(t, []string{"outer", "second", "inner"}, names)
}

func TestWalk_MatchesPythonLevels(t *testing.T) {
	code := `if a:
    x1 = 1
elif b:
    x2 = 2
elif c:
    x3 = 3
else:
    x4 = 4
y = 5
`
	tree, err := Parse(code)
	require.NoError(t, err)
	defer tree.Close()

	var targets []string
	Walk(tree.Root(), func(n Node) bool {
		assert.NotEqual(t, "expression_statement", n.Kind())
		assert.NotEqual(t, "block", n.Kind())
		if n.Kind() == KindAssignment {
			left, _ := n.Field("left")
			targets = append(targets, left.Text())
		}
		return true
	})
	// Each elif nests inside the previous one; the else body sits with the
	// last elif.
	assert.Equal(t, []string{"y", "x1", "x2", "x3", "x4"}, targets)
}

func TestWalk_SkipChildren(t *testing.T) {
	tree, err := Parse("def outer():\n    def inner():\n        pass\n")
	require.NoError(t, err)
	defer tree.Close()

	var visited int
	Walk(tree.Root(), func(n Node) bool {
		if n.Kind() == KindFunctionDefinition {
			visited++
			return false
		}
		return true
	})
	assert.Equal(t, 1, visited)
}

func TestNode_IsAsync(t *testing.T) {
	tree, err := Parse("async def fetch():\n    pass\n\ndef run():\n    pass\n")
	require.NoError(t, err)
	defer tree.Close()

	defs := tree.Root().Children()
	require.Len(t, defs, 2)
	assert.True(t, defs[0].IsAsync())
	assert.False(t, defs[1].IsAsync())
}
