package model

import "time"

// Severity classifies how badly a pipeline stage is leaking.
type Severity string

// Severity levels, worst first.
const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Rank orders severities for sorting: high=2, medium=1, low=0.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 2
	case SeverityMedium:
		return 1
	default:
		return 0
	}
}

// PipelineRow is one deal parsed from a CRM pipeline export.
// Optional fields default to zero values rather than failing the row.
type PipelineRow struct {
	DealName string    `json:"deal_name"`
	Stage    string    `json:"stage"`
	Created  time.Time `json:"date_created"`
	Modified time.Time `json:"date_modified"`
	Value    float64   `json:"deal_value"`
	Source   string    `json:"lead_source"`
}

// StageOrdering records where a stage landed in the derived funnel order and
// whether the position came from a recognized category pattern or was
// appended in first-seen order. Callers should treat "appended" positions
// as a guess, not ground truth.
type StageOrdering struct {
	Stage string `json:"stage"`
	Basis string `json:"basis"` // "recognized" or "appended"
}

// Stage ordering bases.
const (
	OrderingRecognized = "recognized"
	OrderingAppended   = "appended"
)

// PipelineLeak describes one leaking stage. Severity depends only on
// conversion rate and dwell time; revenue impact affects ranking only.
type PipelineLeak struct {
	Stage          string   `json:"stage"`
	Severity       Severity `json:"severity"`
	ConversionRate float64  `json:"conversion_rate"`
	AvgDaysInStage float64  `json:"avg_days_in_stage"`
	DealsLost      int      `json:"deals_lost"`
	RevenueImpact  float64  `json:"revenue_impact"`
	Description    string   `json:"description"`
}

// FunnelSummary condenses the leak report into headline numbers.
type FunnelSummary struct {
	BiggestLeak      string   `json:"biggest_leak"`
	PotentialRevenue float64  `json:"potential_revenue"`
	QuickWins        []string `json:"quick_wins"`
}
