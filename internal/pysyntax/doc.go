// Package pysyntax parses Python source into a concrete syntax tree.
//
// It wraps the tree-sitter Python grammar and exposes the handful of node
// kinds the review rules need: function definitions, assignments, names,
// loops and conditionals. Parse reports malformed input as a *SyntaxError
// carrying the position of the first error node.
package pysyntax
