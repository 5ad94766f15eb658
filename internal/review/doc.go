// Package review contains the rule engine and result types for reviewing
// Python source.
//
// A [Reviewer] parses the code first. Unparseable code yields a single
// "Syntax error: ..." issue and a REQUEST CHANGES verdict without running any
// rule. Otherwise the rules run in a fixed order (line length, function
// length, naming, nesting, common bugs) and their issues and suggestions are
// concatenated in that order. Any issue means REQUEST CHANGES.
//
// Each rule runs inside its own recovery boundary: a rule that panics
// contributes nothing and the remaining rules still run.
//
// A Reviewer holds only immutable configuration and is safe for concurrent
// use.
package review
