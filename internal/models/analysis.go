package models

import (
	"encoding/json"
	"strings"
)

// Alternative is a different way the change could have been implemented
type Alternative struct {
	Method        string `json:"method"`
	Justification string `json:"justification"`
}

// Fault is a weak point the analysis found in the change
type Fault struct {
	Point string `json:"point"`
	Risk  string `json:"risk"`
}

// AnalysisResult is the structured AI analysis of one commit
type AnalysisResult struct {
	Summary      string        `json:"summary"`
	Technologies []string      `json:"technologies"`
	Alternatives []Alternative `json:"alternatives"`
	Faults       []Fault       `json:"faults"`
}

// ParseAnalysis decodes the JSON-encoded analysis string returned by the backend.
// Only syntactic validity is checked; missing fields stay zero.
func ParseAnalysis(raw string) (AnalysisResult, error) {
	var result AnalysisResult
	if strings.TrimSpace(raw) == "" {
		return AnalysisResult{}, &ParseError{What: "analysis", Err: errEmptyPayload}
	}
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return AnalysisResult{}, &ParseError{What: "analysis", Err: err}
	}
	return result, nil
}

// Clone returns a deep copy so callers can't alias the slices
func (a AnalysisResult) Clone() AnalysisResult {
	out := a
	out.Technologies = append([]string(nil), a.Technologies...)
	out.Alternatives = append([]Alternative(nil), a.Alternatives...)
	out.Faults = append([]Fault(nil), a.Faults...)
	return out
}
