package review

import (
	"crypto/sha256"
	"fmt"

	"go.uber.org/zap"
)

// Default thresholds and naming patterns.
const (
	DefaultMaxLineLength     = 80
	DefaultMaxFunctionLength = 30
	DefaultNestingThreshold  = 3

	SnakeCasePattern = `^[a-z][a-z0-9_]*$`
	UpperCasePattern = `^[A-Z][A-Z0-9_]*$`
)

// NamingPatterns holds the regular expressions identifiers must match.
type NamingPatterns struct {
	Function string
	Variable string
	Constant string
}

// Options configures a Reviewer. Zero values fall back to the defaults.
type Options struct {
	MaxLineLength     int
	MaxFunctionLength int
	NestingThreshold  int
	Naming            NamingPatterns
	Logger            *zap.Logger
}

// DefaultOptions returns Options with all defaults applied.
func DefaultOptions() Options {
	return Options{
		MaxLineLength:     DefaultMaxLineLength,
		MaxFunctionLength: DefaultMaxFunctionLength,
		NestingThreshold:  DefaultNestingThreshold,
		Naming: NamingPatterns{
			Function: SnakeCasePattern,
			Variable: SnakeCasePattern,
			Constant: UpperCasePattern,
		},
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxLineLength <= 0 {
		o.MaxLineLength = d.MaxLineLength
	}
	if o.MaxFunctionLength <= 0 {
		o.MaxFunctionLength = d.MaxFunctionLength
	}
	if o.NestingThreshold <= 0 {
		o.NestingThreshold = d.NestingThreshold
	}
	if o.Naming.Function == "" {
		o.Naming.Function = d.Naming.Function
	}
	if o.Naming.Variable == "" {
		o.Naming.Variable = d.Naming.Variable
	}
	if o.Naming.Constant == "" {
		o.Naming.Constant = d.Naming.Constant
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}

// fingerprint hashes every option that can change a Result.
func (o Options) fingerprint() string {
	data := fmt.Sprintf("%d:%d:%d:%s:%s:%s",
		o.MaxLineLength, o.MaxFunctionLength, o.NestingThreshold,
		o.Naming.Function, o.Naming.Variable, o.Naming.Constant)
	h := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", h[:8])
}
