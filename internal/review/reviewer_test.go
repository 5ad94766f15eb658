package review

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const demoSnippet = `def calculateSum(a, b=[]):
    # This function calculates the sum of a number and a list
    result = a
    for item in b:
        result = result + item
    return result
`

func newTestReviewer(t *testing.T) *Reviewer {
	t.Helper()
	r, err := New(DefaultOptions())
	require.NoError(t, err)
	return r
}

func TestReview_SyntaxError(t *testing.T) {
	r := newTestReviewer(t)
	// Long lines and bad names would trip other rules if they ran.
	code := "def BadName(:\n    x = '" + strings.Repeat("a", 100) + "'\n"

	res := r.Review(code)

	require.Len(t, res.Issues, 1)
	assert.True(t, strings.HasPrefix(res.Issues[0], "Syntax error: "), "issue = %q", res.Issues[0])
	assert.Empty(t, res.Suggestions)
	assert.Equal(t, VerdictRequestChanges, res.Verdict)
	assert.Equal(t, ExplanationSyntaxError, res.Explanation)
}

func TestReview_CompilerRejectedInput(t *testing.T) {
	r := newTestReviewer(t)

	tests := []struct {
		name string
		code string
		want string
	}{
		{"indented first line", "    x = 1\n", "Syntax error: unexpected indent (<unknown>, line 1)"},
		{"indented second statement", "x = 1\n    y = 2\n", "Syntax error: unexpected indent (<unknown>, line 2)"},
		{"def without body", "def f():\n", "Syntax error: expected an indented block after function definition on line 1 (<unknown>, line 2)"},
		{"dedent to unknown level", "if a:\n        x = 1\n    y = 2\n", "Syntax error: unindent does not match any outer indentation level (<unknown>, line 3)"},
		{"tab then spaces", "if a:\n\tx = 1\n        y = 2\n", "Syntax error: inconsistent use of tabs and spaces in indentation (<unknown>, line 3)"},
		{"del literal", "del 1\n", "Syntax error: cannot delete literal (<unknown>, line 1)"},
		{"exec statement", "exec 'x'\n", "Syntax error: Missing parentheses in call to 'exec'. Did you mean exec(...)? (<unknown>, line 1)"},
		{"except comma", "try:\n    pass\nexcept ValueError, e:\n    pass\n", "Syntax error: multiple exception types must be parenthesized (<unknown>, line 3)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Review(tt.code)
			assert.Equal(t, []string{tt.want}, res.Issues)
			assert.Empty(t, res.Suggestions)
			assert.Equal(t, VerdictRequestChanges, res.Verdict)
			assert.Equal(t, ExplanationSyntaxError, res.Explanation)
		})
	}
}

func TestReview_Clean(t *testing.T) {
	r := newTestReviewer(t)

	res := r.Review("def calculate_sum(a, b):\n    total = a + b\n    return total\n")

	assert.Empty(t, res.Issues)
	assert.Empty(t, res.Suggestions)
	assert.Equal(t, VerdictApprove, res.Verdict)
	assert.Equal(t, ExplanationClean, res.Explanation)
	assert.True(t, res.Approved())
}

func TestReview_EmptyInput(t *testing.T) {
	r := newTestReviewer(t)
	res := r.Review("")
	assert.Equal(t, VerdictApprove, res.Verdict)
	assert.Empty(t, res.Issues)
}

func TestReview_DemoSnippet(t *testing.T) {
	r := newTestReviewer(t)

	got := r.Review(demoSnippet)

	want := Result{
		Issues: []string{
			"Function name 'calculateSum' doesn't follow snake_case convention",
			"Function uses mutable default argument (list or dict)",
		},
		Suggestions: []string{
			"Rename 'calculateSum' to follow snake_case (lowercase with underscores)",
			"Use 'None' as default and initialize the mutable object inside the function",
		},
		Verdict:     VerdictRequestChanges,
		Explanation: ExplanationIssues,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Review() mismatch (-want +got):\n%s", diff)
	}
}

func TestReview_IssueOrderFollowsRuleOrder(t *testing.T) {
	r := newTestReviewer(t)
	code := "def BadName(x={}):\n    # " + strings.Repeat("z", 90) + "\n    pass\n"

	res := r.Review(code)

	require.Len(t, res.Issues, 3)
	assert.Equal(t, "Lines 2 exceed 80 characters", res.Issues[0])
	assert.Contains(t, res.Issues[1], "'BadName'")
	assert.Equal(t, "Function uses mutable default argument (list or dict)", res.Issues[2])
	assert.Len(t, res.Suggestions, 3)
}

func TestReview_Idempotent(t *testing.T) {
	r := newTestReviewer(t)
	inputs := []string{
		demoSnippet,
		"def f(:\n",
		"x = 1\n",
		"if a:\n    if b:\n        if c:\n            if d:\n                pass\n",
	}
	for _, code := range inputs {
		first := r.Review(code)
		second := r.Review(code)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("Review(%q) not idempotent (-first +second):\n%s", code, diff)
		}
	}
}

func TestReview_VerdictMatchesIssues(t *testing.T) {
	r := newTestReviewer(t)
	inputs := []string{
		"",
		"x = 1\n",
		"myVar = 1\n",
		"try:\n    pass\nexcept:\n    pass\n",
		demoSnippet,
	}
	for _, code := range inputs {
		res := r.Review(code)
		if len(res.Issues) > 0 {
			assert.Equal(t, VerdictRequestChanges, res.Verdict, "code %q", code)
			assert.Equal(t, ExplanationIssues, res.Explanation, "code %q", code)
		} else {
			assert.Equal(t, VerdictApprove, res.Verdict, "code %q", code)
		}
	}
}

type panicRule struct{}

func (panicRule) Name() string        { return "panics" }
func (panicRule) Description() string { return "always fails" }
func (panicRule) Check(src *Source, f *Findings) {
	f.Add("partial issue", "partial suggestion")
	panic("unexpected node shape")
}

func TestReview_RuleFailureIsContained(t *testing.T) {
	r := newTestReviewer(t)
	r.rules = append([]Rule{panicRule{}}, r.rules...)

	var res Result
	require.NotPanics(t, func() { res = r.Review("def CamelCase():\n    pass\n") })

	assert.NotContains(t, res.Issues, "partial issue")
	assert.NotContains(t, res.Suggestions, "partial suggestion")
	require.Len(t, res.Issues, 1)
	assert.Contains(t, res.Issues[0], "'CamelCase'")
}

func TestReview_ConcurrentUse(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := newTestReviewer(t)
	want := r.Review(demoSnippet)

	var wg sync.WaitGroup
	results := make([]Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.Review(demoSnippet)
		}(i)
	}
	wg.Wait()

	for i, got := range results {
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("result %d differs (-want +got):\n%s", i, diff)
		}
	}
}

func TestNew_Defaults(t *testing.T) {
	r, err := New(Options{})
	require.NoError(t, err)

	opts := r.Options()
	assert.Equal(t, DefaultMaxLineLength, opts.MaxLineLength)
	assert.Equal(t, DefaultMaxFunctionLength, opts.MaxFunctionLength)
	assert.Equal(t, DefaultNestingThreshold, opts.NestingThreshold)
	assert.Equal(t, SnakeCasePattern, opts.Naming.Function)
	assert.Equal(t, SnakeCasePattern, opts.Naming.Variable)
	assert.Equal(t, UpperCasePattern, opts.Naming.Constant)
	assert.NotNil(t, opts.Logger)
}

func TestNew_InvalidPattern(t *testing.T) {
	opts := DefaultOptions()
	opts.Naming.Variable = "([a-z"

	r, err := New(opts)
	assert.Nil(t, r)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "variable naming pattern")
}

func TestReviewer_Rules(t *testing.T) {
	r := newTestReviewer(t)
	var names []string
	for _, rule := range r.Rules() {
		names = append(names, rule.Name())
		assert.NotEmpty(t, rule.Description())
	}
	assert.Equal(t, []string{"line-length", "function-length", "naming", "nesting", "common-bugs"}, names)
}

func TestReviewer_Fingerprint(t *testing.T) {
	a := newTestReviewer(t)
	b := newTestReviewer(t)
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	opts := DefaultOptions()
	opts.MaxLineLength = 120
	c, err := New(opts)
	require.NoError(t, err)
	assert.NotEqual(t, a.Fingerprint(), c.Fingerprint())
}

func TestComputeSummary(t *testing.T) {
	files := []FileReport{
		{Path: "a.py", Result: Result{Verdict: VerdictApprove, Issues: []string{}}},
		{Path: "b.py", Result: Result{Verdict: VerdictRequestChanges, Issues: []string{"x", "y"}}},
		{Path: "c.py", Result: Result{Verdict: VerdictRequestChanges, Issues: []string{"z"}}},
	}
	got := ComputeSummary(files)
	assert.Equal(t, Summary{Files: 3, Approved: 1, ChangesRequested: 2, Issues: 3}, got)

	report := NewReport("1.0", files)
	assert.Equal(t, "pyreview", report.Tool)
	assert.True(t, report.ChangesRequested())
	assert.False(t, NewReport("1.0", nil).ChangesRequested())
}

func TestVerdict_Label(t *testing.T) {
	assert.Equal(t, "APPROVE", VerdictApprove.Label())
	assert.Equal(t, "REQUEST CHANGES", VerdictRequestChanges.Label())
	assert.Equal(t, "UNKNOWN", Verdict("").Label())
}
