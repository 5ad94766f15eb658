package review

import "regexp"

// These are plain text searches, so matches inside strings and comments are
// reported too.
var (
	bareExceptPattern  = regexp.MustCompile(`except\s*:`)
	mutableListDefault = regexp.MustCompile(`def\s+[\p{L}\p{N}_]+\([^)]*=\s*\[\s*\]`)
	mutableDictDefault = regexp.MustCompile(`def\s+[\p{L}\p{N}_]+\([^)]*=\s*\{\s*\}`)
)

type commonBugRule struct{}

func (r *commonBugRule) Name() string { return "common-bugs" }

func (r *commonBugRule) Description() string {
	return "Flags bare except clauses and mutable default arguments"
}

func (r *commonBugRule) Check(src *Source, f *Findings) {
	if bareExceptPattern.MatchString(src.Text) {
		f.Add(
			"Code contains bare 'except:' statement",
			"Specify the exceptions you want to catch instead of using bare 'except:'",
		)
	}
	if mutableListDefault.MatchString(src.Text) || mutableDictDefault.MatchString(src.Text) {
		f.Add(
			"Function uses mutable default argument (list or dict)",
			"Use 'None' as default and initialize the mutable object inside the function",
		)
	}
}
