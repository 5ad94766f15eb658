// Package output formats review reports for display or machine consumption.
//
// Four formats are supported:
//   - text: the classic "CODE REVIEW RESULTS" layout with numbered issues
//     and suggestions (default, coloured on terminals)
//   - json: full structured JSON report
//   - markdown: PR-comment-friendly, one section per reviewed input
//   - sarif: SARIF v2.1.0, one result per issue
//
// Use [GetWriter] to obtain a [Writer] for a given format string, or
// [WriteReport] to write straight to a file or stdout.
package output
