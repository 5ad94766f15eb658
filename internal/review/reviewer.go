package review

import (
	"errors"
	"fmt"
	"regexp"

	"go.uber.org/zap"

	"github.com/dshills/pyreview/internal/pysyntax"
)

// Reviewer runs the rule battery over Python snippets. It holds no per-call
// state and is safe for concurrent use.
type Reviewer struct {
	opts   Options
	rules  []Rule
	logger *zap.Logger
}

// New builds a Reviewer. It fails only when a naming pattern does not compile.
func New(opts Options) (*Reviewer, error) {
	opts = opts.withDefaults()

	function, err := compileNaming("function", opts.Naming.Function)
	if err != nil {
		return nil, err
	}
	variable, err := compileNaming("variable", opts.Naming.Variable)
	if err != nil {
		return nil, err
	}
	constant, err := compileNaming("constant", opts.Naming.Constant)
	if err != nil {
		return nil, err
	}

	return &Reviewer{
		opts: opts,
		rules: []Rule{
			&lineLengthRule{max: opts.MaxLineLength},
			&functionLengthRule{max: opts.MaxFunctionLength},
			&namingRule{function: function, variable: variable, constant: constant},
			&nestingRule{threshold: opts.NestingThreshold},
			&commonBugRule{},
		},
		logger: opts.Logger,
	}, nil
}

// compileNaming anchors pattern at the start of the name, matching Python's
// re.match. The end is left open unless the pattern closes it with $.
func compileNaming(kind, pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("^(?:" + pattern + ")")
	if err != nil {
		return nil, fmt.Errorf("compiling %s naming pattern: %w", kind, err)
	}
	return re, nil
}

// Options returns the effective options.
func (r *Reviewer) Options() Options {
	return r.opts
}

// Rules returns the rule battery in execution order.
func (r *Reviewer) Rules() []Rule {
	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Fingerprint identifies the configuration for cache keys.
func (r *Reviewer) Fingerprint() string {
	return r.opts.fingerprint()
}

// Review checks code and returns a verdict. It never fails: malformed input
// yields a single syntax issue and every other rule is skipped.
func (r *Reviewer) Review(code string) Result {
	tree, err := pysyntax.Parse(code)
	if err != nil {
		var serr *pysyntax.SyntaxError
		if errors.As(err, &serr) {
			r.logger.Debug("syntax check failed",
				zap.Int("line", serr.Line),
				zap.Int("column", serr.Column))
		} else {
			r.logger.Warn("parser failed", zap.Error(err))
		}
		return Result{
			Issues:      []string{"Syntax error: " + err.Error()},
			Suggestions: []string{},
			Verdict:     VerdictRequestChanges,
			Explanation: ExplanationSyntaxError,
		}
	}
	defer tree.Close()

	src := newSource(code, tree)
	res := Result{
		Issues:      []string{},
		Suggestions: []string{},
	}
	for _, rule := range r.rules {
		f := r.runRule(rule, src)
		res.Issues = append(res.Issues, f.Issues...)
		res.Suggestions = append(res.Suggestions, f.Suggestions...)
	}

	if len(res.Issues) > 0 {
		res.Verdict = VerdictRequestChanges
		res.Explanation = ExplanationIssues
	} else {
		res.Verdict = VerdictApprove
		res.Explanation = ExplanationClean
	}

	r.logger.Debug("review complete",
		zap.String("verdict", string(res.Verdict)),
		zap.Int("issues", len(res.Issues)))
	return res
}

// runRule is the failure boundary around a single rule: a rule that panics
// contributes nothing and does not affect its siblings.
func (r *Reviewer) runRule(rule Rule, src *Source) (f Findings) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Warn("rule failed, discarding its findings",
				zap.String("rule", rule.Name()),
				zap.Any("panic", p))
			f = Findings{}
		}
	}()
	rule.Check(src, &f)
	r.logger.Debug("rule finished",
		zap.String("rule", rule.Name()),
		zap.Int("issues", len(f.Issues)))
	return f
}
