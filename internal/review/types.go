package review

// Verdict is the overall outcome of a review.
type Verdict string

const (
	VerdictApprove        Verdict = "approve"
	VerdictRequestChanges Verdict = "request changes"
)

// Label returns the verdict as shown to humans.
func (v Verdict) Label() string {
	switch v {
	case VerdictApprove:
		return "APPROVE"
	case VerdictRequestChanges:
		return "REQUEST CHANGES"
	default:
		return "UNKNOWN"
	}
}

// Explanations attached to a Result. Exactly one applies to any review.
const (
	ExplanationSyntaxError = "Code contains syntax errors that must be fixed"
	ExplanationIssues      = "Code has issues that should be addressed"
	ExplanationClean       = "Code looks good and follows best practices"
)

// Result is the outcome of reviewing one piece of code. Issues and
// Suggestions are in rule execution order; a suggestion is recorded alongside
// most issues but the two slices are not index-aligned.
type Result struct {
	Issues      []string `json:"issues"`
	Suggestions []string `json:"suggestions"`
	Verdict     Verdict  `json:"verdict"`
	Explanation string   `json:"explanation"`
}

// Approved reports whether the verdict is APPROVE.
func (r Result) Approved() bool {
	return r.Verdict == VerdictApprove
}

// FileReport is the review of a single input.
type FileReport struct {
	Path   string `json:"path"`
	Cached bool   `json:"cached,omitempty"`
	Result Result `json:"result"`
}

// Summary provides an overview across reviewed inputs.
type Summary struct {
	Files            int `json:"files"`
	Approved         int `json:"approved"`
	ChangesRequested int `json:"changesRequested"`
	Issues           int `json:"issues"`
}

// Report is the top-level output structure.
type Report struct {
	Tool    string       `json:"tool"`
	Version string       `json:"version"`
	Summary Summary      `json:"summary"`
	Files   []FileReport `json:"files"`
}

// ComputeSummary calculates the summary from file reports.
func ComputeSummary(files []FileReport) Summary {
	s := Summary{Files: len(files)}
	for _, f := range files {
		if f.Result.Approved() {
			s.Approved++
		} else {
			s.ChangesRequested++
		}
		s.Issues += len(f.Result.Issues)
	}
	return s
}

// NewReport assembles a report over the given file reviews.
func NewReport(version string, files []FileReport) *Report {
	if files == nil {
		files = []FileReport{}
	}
	return &Report{
		Tool:    "pyreview",
		Version: version,
		Summary: ComputeSummary(files),
		Files:   files,
	}
}

// ChangesRequested reports whether any file in the report needs changes.
func (r *Report) ChangesRequested() bool {
	return r.Summary.ChangesRequested > 0
}
