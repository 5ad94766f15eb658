package review

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

type lineLengthRule struct {
	max int
}

func (r *lineLengthRule) Name() string { return "line-length" }

func (r *lineLengthRule) Description() string {
	return fmt.Sprintf("Flags lines longer than %d characters", r.max)
}

func (r *lineLengthRule) Check(src *Source, f *Findings) {
	var long []string
	for i, line := range src.Lines {
		if utf8.RuneCountInString(line) > r.max {
			long = append(long, strconv.Itoa(i+1))
		}
	}
	if len(long) == 0 {
		return
	}
	f.Add(
		fmt.Sprintf("Lines %s exceed %d characters", strings.Join(long, ", "), r.max),
		"Break long lines using line continuation or refactor into smaller chunks",
	)
}

// functionLengthRule measures the whole input; snippets are assumed to hold a
// single function.
type functionLengthRule struct {
	max int
}

func (r *functionLengthRule) Name() string { return "function-length" }

func (r *functionLengthRule) Description() string {
	return fmt.Sprintf("Flags snippets longer than %d lines", r.max)
}

func (r *functionLengthRule) Check(src *Source, f *Findings) {
	n := len(src.Lines)
	if n <= r.max {
		return
	}
	f.Add(
		fmt.Sprintf("Function is %d lines long (exceeds recommended %d)", n, r.max),
		"Break this function into smaller, more focused functions",
	)
}
