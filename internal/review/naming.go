package review

import (
	"fmt"
	"regexp"
	"unicode"

	"github.com/dshills/pyreview/internal/pysyntax"
)

type namingRule struct {
	function *regexp.Regexp
	variable *regexp.Regexp
	constant *regexp.Regexp
}

func (r *namingRule) Name() string { return "naming" }

func (r *namingRule) Description() string {
	return "Checks function, variable and constant names against naming patterns"
}

func (r *namingRule) Check(src *Source, f *Findings) {
	if src.Tree == nil {
		return
	}
	pysyntax.Walk(src.Tree.Root(), func(n pysyntax.Node) bool {
		switch n.Kind() {
		case pysyntax.KindFunctionDefinition:
			r.checkFunction(n, f)
		case pysyntax.KindAssignment:
			r.checkAssignment(n, f)
		}
		return true
	})
}

func (r *namingRule) checkFunction(n pysyntax.Node, f *Findings) {
	if n.IsAsync() {
		return
	}
	nameNode, ok := n.Field("name")
	if !ok {
		return
	}
	name := nameNode.Text()
	if r.function.MatchString(name) {
		return
	}
	f.Add(
		fmt.Sprintf("Function name '%s' doesn't follow snake_case convention", name),
		fmt.Sprintf("Rename '%s' to follow snake_case (lowercase with underscores)", name),
	)
}

// checkAssignment handles a whole `a = b = value` chain from its outermost
// node. Inner links of the chain and annotated assignments are skipped.
func (r *namingRule) checkAssignment(n pysyntax.Node, f *Findings) {
	if parent, ok := n.Parent(); ok && parent.Kind() == pysyntax.KindAssignment {
		return
	}
	if _, annotated := n.Field("type"); annotated {
		return
	}
	for _, target := range assignmentTargets(n) {
		if target.Kind() != pysyntax.KindIdentifier {
			continue
		}
		name := target.Text()
		upper := isUpper(name)
		switch {
		case upper && !r.constant.MatchString(name):
			f.AddIssue(fmt.Sprintf("Constant '%s' doesn't follow UPPER_CASE convention", name))
		case !upper && !r.variable.MatchString(name):
			f.AddIssue(fmt.Sprintf("Variable '%s' doesn't follow snake_case convention", name))
		}
	}
}

func assignmentTargets(n pysyntax.Node) []pysyntax.Node {
	var targets []pysyntax.Node
	for {
		left, ok := n.Field("left")
		if !ok {
			return targets
		}
		targets = append(targets, left)
		right, ok := n.Field("right")
		if !ok || right.Kind() != pysyntax.KindAssignment {
			return targets
		}
		n = right
	}
}

// isUpper reports whether s has at least one cased letter and no lowercase
// or titlecase letters.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsLower(r), unicode.IsTitle(r):
			return false
		case unicode.IsUpper(r):
			cased = true
		}
	}
	return cased
}
