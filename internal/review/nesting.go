package review

import (
	"fmt"

	"github.com/dshills/pyreview/internal/pysyntax"
)

type nestingRule struct {
	threshold int
}

func (r *nestingRule) Name() string { return "nesting" }

func (r *nestingRule) Description() string {
	return fmt.Sprintf("Flags loops or conditionals nested more than %d deep", r.threshold)
}

// Check reports at most one issue: the walk stops at the first branch that
// goes too deep.
func (r *nestingRule) Check(src *Source, f *Findings) {
	if src.Tree == nil {
		return
	}
	if r.tooDeep(src.Tree.Root(), 0) {
		f.Add(
			"Code contains deeply nested loops or conditionals",
			"Consider refactoring to reduce nesting by extracting functions or simplifying logic",
		)
	}
}

func (r *nestingRule) tooDeep(n pysyntax.Node, depth int) bool {
	if opensLevel(n) {
		depth++
		if depth > r.threshold {
			return true
		}
	}
	if n.Kind() == pysyntax.KindIf {
		return r.tooDeepIf(n, depth)
	}
	for _, child := range n.Children() {
		if r.tooDeep(child, depth) {
			return true
		}
	}
	return false
}

// tooDeepIf walks an if statement as a chain: each elif is a conditional one
// level below the branch before it, and the else body sits at the level of
// the last branch.
func (r *nestingRule) tooDeepIf(n pysyntax.Node, depth int) bool {
	for _, child := range n.Children() {
		if child.Kind() != pysyntax.KindElif {
			if r.tooDeep(child, depth) {
				return true
			}
			continue
		}
		depth++
		if depth > r.threshold {
			return true
		}
		for _, c := range child.Children() {
			if r.tooDeep(c, depth) {
				return true
			}
		}
	}
	return false
}

func opensLevel(n pysyntax.Node) bool {
	switch n.Kind() {
	case pysyntax.KindFor:
		return !n.IsAsync()
	case pysyntax.KindWhile, pysyntax.KindIf:
		return true
	default:
		return false
	}
}
