// Package funnel derives pipeline-leak reports from parsed CRM export rows:
// stage ordering, stage-to-stage conversion, dwell times, and severity-tiered
// leaks ranked by estimated revenue impact.
package funnel

import (
	"fmt"
	"math"
	"regexp"
	"sort"

	"github.com/maru-digital/assess-cli/internal/config"
	"github.com/maru-digital/assess-cli/internal/model"
)

// stageCategories is the fixed funnel progression used to order observed
// stage labels. Matching is a heuristic: custom stage names that match no
// category are appended after the recognized ones in first-seen order, and
// the ordering basis on each entry tells the caller which case applied.
var stageCategories = []*regexp.Regexp{
	regexp.MustCompile(`(?i)lead|prospect`),
	regexp.MustCompile(`(?i)qualif`),
	regexp.MustCompile(`(?i)opportunit|demo|discovery`),
	regexp.MustCompile(`(?i)proposal|negotiat|contract`),
	regexp.MustCompile(`(?i)closed|won|lost`),
}

// Analyzer computes funnel reports using configured severity cut-offs.
type Analyzer struct {
	cfg config.FunnelConfig
}

// NewAnalyzer builds an Analyzer from funnel configuration.
func NewAnalyzer(cfg config.FunnelConfig) *Analyzer {
	return &Analyzer{cfg: cfg}
}

// OrderStages orders the distinct stage labels in rows along the funnel
// category sequence. Labels matching the same category keep first-seen
// order among themselves.
func OrderStages(rows []model.PipelineRow) []model.StageOrdering {
	var seen []string
	seenSet := make(map[string]bool)
	for _, r := range rows {
		if !seenSet[r.Stage] {
			seenSet[r.Stage] = true
			seen = append(seen, r.Stage)
		}
	}

	ordered := make([]model.StageOrdering, 0, len(seen))
	matched := make(map[string]bool)
	for _, cat := range stageCategories {
		for _, label := range seen {
			if !matched[label] && cat.MatchString(label) {
				matched[label] = true
				ordered = append(ordered, model.StageOrdering{
					Stage: label,
					Basis: model.OrderingRecognized,
				})
			}
		}
	}
	for _, label := range seen {
		if !matched[label] {
			ordered = append(ordered, model.StageOrdering{
				Stage: label,
				Basis: model.OrderingAppended,
			})
		}
	}
	return ordered
}

// Analyze produces the full funnel report for the parsed rows.
func (a *Analyzer) Analyze(rows []model.PipelineRow) model.FunnelReport {
	order := OrderStages(rows)

	counts := make(map[string]int)
	values := make(map[string]float64)
	dwellSums := make(map[string]float64)
	for _, r := range rows {
		counts[r.Stage]++
		values[r.Stage] += r.Value
		dwellSums[r.Stage] += dwellDays(r)
	}

	conversions := make(map[string]float64, len(order))
	dwell := make(map[string]float64, len(order))
	for i, s := range order {
		dwell[s.Stage] = dwellSums[s.Stage] / float64(counts[s.Stage])
		if i+1 < len(order) {
			conversions[s.Stage] = conversionRate(counts[s.Stage], counts[order[i+1].Stage])
		}
	}

	var leaks []model.PipelineLeak
	for i, s := range order {
		stage := s.Stage
		isLast := i+1 == len(order)
		conv := conversions[stage]

		var severity model.Severity
		var desc string
		switch {
		case !isLast && conv < a.cfg.HighConversionCut:
			severity = model.SeverityHigh
			desc = fmt.Sprintf("Only %.0f%% of deals advance past %s", conv, stage)
		case !isLast && conv < a.cfg.MediumConversionCut:
			severity = model.SeverityMedium
			desc = fmt.Sprintf("%.0f%% conversion out of %s is below target", conv, stage)
		case dwell[stage] > a.cfg.DwellDaysCut:
			severity = model.SeverityMedium
			desc = fmt.Sprintf("Deals sit in %s for %.0f days on average", stage, dwell[stage])
		default:
			continue
		}

		lost := 0
		if !isLast {
			lost = int(math.Floor(float64(counts[stage]) * (1 - conv/100)))
		}
		avgValue := 0.0
		if counts[stage] > 0 {
			avgValue = values[stage] / float64(counts[stage])
		}

		leaks = append(leaks, model.PipelineLeak{
			Stage:          stage,
			Severity:       severity,
			ConversionRate: conv,
			AvgDaysInStage: dwell[stage],
			DealsLost:      lost,
			RevenueImpact:  float64(lost) * avgValue,
			Description:    desc,
		})
	}

	sort.SliceStable(leaks, func(i, j int) bool {
		return leaks[i].RevenueImpact > leaks[j].RevenueImpact
	})

	return model.FunnelReport{
		Score:           a.healthScore(leaks),
		TotalDeals:      len(rows),
		StageOrder:      order,
		ConversionRates: conversions,
		AvgTimeInStage:  dwell,
		Leaks:           leaks,
		Recommendations: Recommendations(leaks),
		Summary:         summarize(leaks),
	}
}

// healthScore penalizes the overall pipeline health per leak severity.
func (a *Analyzer) healthScore(leaks []model.PipelineLeak) int {
	score := 100.0
	for _, l := range leaks {
		switch l.Severity {
		case model.SeverityHigh:
			score -= 25
		case model.SeverityMedium:
			score -= 10
		}
	}
	return int(math.Max(0, math.Min(100, score)))
}

// Recommendations derives the deterministic action list from detected leaks.
func Recommendations(leaks []model.PipelineLeak) []string {
	var recs []string
	for _, l := range leaks {
		switch l.Severity {
		case model.SeverityHigh:
			recs = append(recs, fmt.Sprintf("Urgent: improve conversion out of the %s stage (currently %.0f%%)", l.Stage, l.ConversionRate))
		case model.SeverityMedium:
			recs = append(recs, fmt.Sprintf("Shorten time in %s and revisit its qualification criteria", l.Stage))
		}
		if len(recs) == 3 {
			break
		}
	}
	recs = append(recs, "Implement automated pipeline health monitoring")
	recs = append(recs, "Set up deal progression alerts for the sales team")
	return recs
}

// summarize condenses the leak list into the report summary block.
func summarize(leaks []model.PipelineLeak) model.FunnelSummary {
	s := model.FunnelSummary{}
	if len(leaks) == 0 {
		s.QuickWins = []string{"Pipeline looks healthy; keep monitoring stage conversion monthly"}
		return s
	}

	s.BiggestLeak = leaks[0].Stage
	for _, l := range leaks {
		s.PotentialRevenue += l.RevenueImpact
	}
	for _, l := range leaks {
		if len(s.QuickWins) == 3 {
			break
		}
		s.QuickWins = append(s.QuickWins, fmt.Sprintf("Tighten follow-up cadence in %s", l.Stage))
	}
	return s
}

// conversionRate guards the zero-denominator case by reporting 0%.
func conversionRate(current, next int) float64 {
	if current == 0 {
		return 0
	}
	return float64(next) / float64(current) * 100
}

// dwellDays floors every row at one day so same-day entries still register.
func dwellDays(r model.PipelineRow) float64 {
	if r.Created.IsZero() || r.Modified.IsZero() || r.Modified.Before(r.Created) {
		return 1
	}
	days := r.Modified.Sub(r.Created).Hours() / 24
	return math.Max(1, days)
}
