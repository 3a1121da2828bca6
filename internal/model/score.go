// Package model defines the shared value objects exchanged between the
// assessment pipeline stages. Everything here is a plain data structure:
// constructed once per request, fully populated before return, never mutated.
package model

import "math"

// SubScore is one independently scored dimension of an assessment.
// Value is always kept inside [Min, Max] by the producing scorer.
type SubScore struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// NewSubScore builds a SubScore with the value clamped into its bounds.
func NewSubScore(name string, value, min, max float64) SubScore {
	s := SubScore{Name: name, Value: value, Min: min, Max: max}
	return s.Clamped()
}

// Clamped returns a copy with Value forced into [Min, Max].
func (s SubScore) Clamped() SubScore {
	s.Value = math.Min(s.Max, math.Max(s.Min, s.Value))
	return s
}

// Normalized maps Value onto a 0-100 scale within its bounds.
// A degenerate range (Min == Max) normalizes to 0.
func (s SubScore) Normalized() float64 {
	if s.Max <= s.Min {
		return 0
	}
	c := s.Clamped()
	return (c.Value - c.Min) / (c.Max - c.Min) * 100
}

// Polarity classifies a finding as passing, warning, or failing.
type Polarity string

// Polarity values.
const (
	Pass Polarity = "pass"
	Warn Polarity = "warn"
	Fail Polarity = "fail"
)

// Finding is a human-readable statement explaining one checked condition.
// Findings are produced alongside numeric scores, never instead of them.
type Finding struct {
	Polarity Polarity `json:"polarity"`
	Message  string   `json:"message"`
}

// String renders the finding with its conventional status marker.
func (f Finding) String() string {
	switch f.Polarity {
	case Pass:
		return "✓ " + f.Message
	case Warn:
		return "⚠ " + f.Message
	default:
		return "✗ " + f.Message
	}
}

// PassFinding returns a pass-polarity finding.
func PassFinding(msg string) Finding { return Finding{Polarity: Pass, Message: msg} }

// WarnFinding returns a warn-polarity finding.
func WarnFinding(msg string) Finding { return Finding{Polarity: Warn, Message: msg} }

// FailFinding returns a fail-polarity finding.
func FailFinding(msg string) Finding { return Finding{Polarity: Fail, Message: msg} }
