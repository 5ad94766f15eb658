package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/dshills/pyreview/internal/review"
)

var (
	approveColor = color.New(color.FgHiGreen, color.Bold).SprintFunc()
	changesColor = color.New(color.FgHiRed, color.Bold).SprintFunc()
	headingColor = color.New(color.FgHiCyan).SprintFunc()
	issueColor   = color.New(color.FgHiYellow).SprintFunc()
)

// TextWriter outputs a human-readable text report.
type TextWriter struct{}

func (t *TextWriter) Write(w io.Writer, report *review.Report) error {
	ew := &errWriter{w: w}

	for i, f := range report.Files {
		if i > 0 {
			ew.println("")
		}
		writeTextResult(ew, f)
	}

	if len(report.Files) > 1 {
		s := report.Summary
		ew.printf("\n%s\n", strings.Repeat("─", 60))
		ew.printf("Reviewed %d files: %d approved, %d need changes (%d issues)\n",
			s.Files, s.Approved, s.ChangesRequested, s.Issues)
	}

	return ew.err
}

func writeTextResult(ew *errWriter, f review.FileReport) {
	res := f.Result

	ew.println(headingColor("===== CODE REVIEW RESULTS ====="))
	if f.Path != "" {
		ew.printf("File: %s\n", f.Path)
	}
	ew.printf("Verdict: %s\n", verdictText(res.Verdict))
	ew.printf("Explanation: %s\n", res.Explanation)

	if len(res.Issues) > 0 {
		ew.println("\nIssues Found:")
		for i, issue := range res.Issues {
			ew.printf("%d. %s\n", i+1, issueColor(issue))
		}
	}

	if len(res.Suggestions) > 0 {
		ew.println("\nSuggestions:")
		for i, s := range res.Suggestions {
			ew.printf("%d. %s\n", i+1, s)
		}
	}
}

func verdictText(v review.Verdict) string {
	if v == review.VerdictApprove {
		return approveColor(v.Label())
	}
	return changesColor(v.Label())
}

// errWriter wraps an io.Writer and captures the first error.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) println(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintln(ew.w, s)
}
