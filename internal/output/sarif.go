package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dshills/pyreview/internal/review"
)

// SARIFWriter outputs issues in SARIF v2.1.0 format, one result per issue.
type SARIFWriter struct{}

func (s *SARIFWriter) Write(w io.Writer, report *review.Report) error {
	sarif := buildSARIF(report)
	data, err := json.MarshalIndent(sarif, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling SARIF: %w", err)
	}
	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("writing SARIF: %w", err)
	}
	_, err = fmt.Fprintln(w)
	return err
}

// SARIF schema types (v2.1.0)

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string             `json:"id"`
	Name             string             `json:"name"`
	ShortDescription sarifMessage       `json:"shortDescription"`
	DefaultConfig    sarifDefaultConfig `json:"defaultConfiguration"`
}

type sarifDefaultConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

var ruleDescriptions = map[string]string{
	review.SyntaxRuleName: "Code must parse as Python",
	"line-length":         "Lines must not exceed the configured length",
	"function-length":     "Functions must not exceed the configured line count",
	"naming":              "Identifiers must follow naming conventions",
	"nesting":             "Loops and conditionals must not nest too deeply",
	"common-bugs":         "Bare except clauses and mutable default arguments",
	"unknown":             "Unclassified issue",
}

func buildSARIF(report *review.Report) sarifLog {
	results := []sarifResult{}
	var rules []sarifRule
	seen := make(map[string]bool)

	for _, f := range report.Files {
		for _, issue := range f.Result.Issues {
			name := review.RuleForIssue(issue)
			id := "pyreview/" + name
			level := ruleLevel(name)

			if !seen[id] {
				seen[id] = true
				rules = append(rules, sarifRule{
					ID:               id,
					Name:             name,
					ShortDescription: sarifMessage{Text: ruleDescriptions[name]},
					DefaultConfig:    sarifDefaultConfig{Level: level},
				})
			}

			result := sarifResult{
				RuleID:  id,
				Level:   level,
				Message: sarifMessage{Text: issue},
			}
			if f.Path != "" {
				result.Locations = []sarifLocation{{
					PhysicalLocation: sarifPhysicalLocation{
						ArtifactLocation: sarifArtifactLocation{URI: f.Path},
					},
				}}
			}
			results = append(results, result)
		}
	}
	if rules == nil {
		rules = []sarifRule{}
	}

	return sarifLog{
		Version: "2.1.0",
		Schema:  "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/main/sarif-2.1/schema/sarif-schema-2.1.0.json",
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:           "pyreview",
						Version:        report.Version,
						InformationURI: "https://github.com/dshills/pyreview",
						Rules:          rules,
					},
				},
				Results: results,
			},
		},
	}
}

// ruleLevel maps a rule to a SARIF level; only unparseable code is an error.
func ruleLevel(rule string) string {
	if rule == review.SyntaxRuleName {
		return "error"
	}
	return "warning"
}
