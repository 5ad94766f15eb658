// Package cli wires together the Cobra command tree for the pyreview binary.
//
// It defines the root command and all subcommands (review, demo, rules,
// config, cache, version), binds flags, reads configuration, invokes the
// reviewer, and returns deterministic exit codes for CI gating.
package cli
