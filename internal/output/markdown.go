package output

import (
	"io"
	"strings"

	"github.com/dshills/pyreview/internal/review"
)

// MarkdownWriter outputs a PR-comment-friendly markdown report.
type MarkdownWriter struct{}

func (m *MarkdownWriter) Write(w io.Writer, report *review.Report) error {
	ew := &errWriter{w: w}
	s := report.Summary

	ew.printf("## pyreview Code Review\n\n")

	ew.printf("| Files | Approved | Changes requested | Issues |\n")
	ew.printf("|-------|----------|-------------------|--------|\n")
	ew.printf("| %d | %d | %d | %d |\n\n", s.Files, s.Approved, s.ChangesRequested, s.Issues)

	for _, f := range report.Files {
		res := f.Result
		title := f.Path
		if title == "" {
			title = "snippet"
		}
		ew.printf("### `%s`\n\n", title)
		ew.printf("**Verdict:** %s %s\n\n", mdVerdictIcon(res.Verdict), res.Verdict.Label())
		ew.printf("> %s\n\n", res.Explanation)

		if len(res.Issues) == 0 {
			ew.println("No issues found. :white_check_mark:")
			ew.println("")
			continue
		}

		ew.printf("<details>\n<summary>Issues (%d)</summary>\n\n", len(res.Issues))
		for i, issue := range res.Issues {
			ew.printf("%d. %s\n", i+1, mdEscape(issue))
		}
		ew.printf("\n</details>\n\n")

		if len(res.Suggestions) > 0 {
			ew.println("**Suggestions:**")
			ew.println("")
			for _, sug := range res.Suggestions {
				ew.printf("- %s\n", mdEscape(sug))
			}
			ew.println("")
		}
	}

	return ew.err
}

func mdVerdictIcon(v review.Verdict) string {
	switch v {
	case review.VerdictApprove:
		return ":white_check_mark:"
	case review.VerdictRequestChanges:
		return ":x:"
	default:
		return ":grey_question:"
	}
}

// mdEscape keeps identifiers like __init__ and <unknown> from being rendered
// as markup.
func mdEscape(s string) string {
	r := strings.NewReplacer("_", `\_`, "*", `\*`, "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
