// Package sarif defines the subset of the SARIF 2.1.0 data model exchanged
// with the analysis service.
// https://docs.oasis-open.org/sarif/sarif/v2.1.0/sarif-v2.1.0.html
package sarif

import (
	"encoding/json"
	"fmt"
)

// Log represents the top-level SARIF log object returned by an analysis.
type Log struct {
	Schema  string `json:"$schema,omitempty"`
	Version string `json:"version,omitempty"`
	Runs    []Run  `json:"runs"`
}

// Run represents a single run of an analysis tool.
type Run struct {
	Tool    Tool     `json:"tool"`
	Results []Result `json:"results"`
}

// Tool describes the analysis tool that produced the results.
type Tool struct {
	Driver Driver `json:"driver"`
}

// Driver describes the tool component that produced the results.
type Driver struct {
	Name           string `json:"name"`
	InformationURI string `json:"informationUri,omitempty"`
	Version        string `json:"version,omitempty"`
	Rules          []Rule `json:"rules,omitempty"`
}

// Rule describes an analysis rule.
type Rule struct {
	ID               string  `json:"id"`
	ShortDescription Message `json:"shortDescription"`
}

// Result represents a single issue found by the analysis.
type Result struct {
	RuleID    string     `json:"ruleId"`
	Level     string     `json:"level"`
	Message   Message    `json:"message"`
	Locations []Location `json:"locations,omitempty"`
}

// Message contains text describing a result or rule. Markdown carries an
// optional rich explanation and may be stripped before rendering.
type Message struct {
	Text     string `json:"text"`
	Markdown string `json:"markdown,omitempty"`
}

// Location describes a location relevant to a result.
type Location struct {
	PhysicalLocation PhysicalLocation `json:"physicalLocation"`
}

// PhysicalLocation describes a physical location in a file.
type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           Region           `json:"region"`
}

// ArtifactLocation describes the location of an artifact.
type ArtifactLocation struct {
	URI string `json:"uri"`
}

// Region describes a region within an artifact.
type Region struct {
	StartLine int `json:"startLine"`
}

// IssueCount returns the number of results in the first run.
// A missing first run or a missing results list counts as zero.
func (l *Log) IssueCount() int {
	if l == nil || len(l.Runs) == 0 {
		return 0
	}
	return len(l.Runs[0].Results)
}

// StripMarkdown removes the markdown explanation from every result of the
// first run, in place. Later steps that serialize the log see the stripped
// messages too.
func (l *Log) StripMarkdown() {
	if l == nil || len(l.Runs) == 0 {
		return
	}
	results := l.Runs[0].Results
	for i := range results {
		results[i].Message.Markdown = ""
	}
}

// Serialize renders the log as indented JSON.
func (l *Log) Serialize() (string, error) {
	b, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal results as JSON: %w", err)
	}
	return string(b), nil
}
