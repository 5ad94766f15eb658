// Pyreview is a rule-based reviewer for Python source.
//
// It parses the code, checks line length, function length, naming
// conventions, nesting depth and common bug patterns, and prints an
// APPROVE or REQUEST CHANGES verdict with deterministic exit codes suitable
// for CI gating.
//
// Usage:
//
//	pyreview review file app.py util.py   # review files
//	pyreview review snippet < code.py     # review code from stdin
//	pyreview demo                         # review a built-in sample
//	pyreview rules                        # list rules in execution order
//
// See https://github.com/dshills/pyreview for full documentation.
package main
