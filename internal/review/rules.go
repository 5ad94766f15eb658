package review

import (
	"strings"

	"github.com/dshills/pyreview/internal/pysyntax"
)

// Source is the input shared by every rule in one review.
type Source struct {
	Text  string
	Lines []string
	Tree  *pysyntax.Tree
}

func newSource(code string, tree *pysyntax.Tree) *Source {
	return &Source{
		Text:  code,
		Lines: strings.Split(code, "\n"),
		Tree:  tree,
	}
}

// Findings collects the issues and suggestions emitted by one rule.
type Findings struct {
	Issues      []string
	Suggestions []string
}

// Add records an issue together with its suggestion.
func (f *Findings) Add(issue, suggestion string) {
	f.Issues = append(f.Issues, issue)
	f.Suggestions = append(f.Suggestions, suggestion)
}

// AddIssue records an issue that has no suggestion.
func (f *Findings) AddIssue(issue string) {
	f.Issues = append(f.Issues, issue)
}

// Rule is one independent check in the review battery.
type Rule interface {
	Name() string
	Description() string
	Check(src *Source, f *Findings)
}

// SyntaxRuleName names the syntax check that gates the battery.
const SyntaxRuleName = "syntax"

// RuleForIssue maps an issue message back to the rule that emits it.
func RuleForIssue(issue string) string {
	switch {
	case strings.HasPrefix(issue, "Syntax error: "):
		return SyntaxRuleName
	case strings.HasPrefix(issue, "Lines "):
		return "line-length"
	case strings.HasPrefix(issue, "Function is "):
		return "function-length"
	case strings.HasPrefix(issue, "Function name "),
		strings.HasPrefix(issue, "Variable "),
		strings.HasPrefix(issue, "Constant "):
		return "naming"
	case strings.HasPrefix(issue, "Code contains deeply"):
		return "nesting"
	case strings.HasPrefix(issue, "Code contains bare"),
		strings.HasPrefix(issue, "Function uses mutable"):
		return "common-bugs"
	default:
		return "unknown"
	}
}
