package scorer

import (
	"math"

	"github.com/rotisserie/eris"

	"github.com/maru-digital/assess-cli/internal/config"
	"github.com/maru-digital/assess-cli/internal/model"
)

// AggregateAudit folds the five 0-20 audit sub-scores into the overall
// 0-100 score. Inputs are clamped before summing and the result is clamped
// again so a buggy scorer can never push the report out of range.
func AggregateAudit(factors map[string]model.SubScore) int {
	sum := 0.0
	for _, f := range factors {
		sum += f.Clamped().Value
	}
	return clampInt(int(math.Round(sum)), 0, 100)
}

// AggregateLead computes the weighted lead score from the four 0-100
// factors. Weights are percentages and should sum to 100; see
// ValidateWeights.
func AggregateLead(factors map[string]model.SubScore, cfg config.ScorerConfig) int {
	weights := map[string]float64{
		FactorWebsiteQuality: cfg.WebsiteQualityWeight,
		FactorTechStack:      cfg.TechStackWeight,
		FactorContentQuality: cfg.ContentQualityWeight,
		FactorSEOReadiness:   cfg.SEOReadinessWeight,
	}

	total := 0.0
	for name, w := range weights {
		if f, ok := factors[name]; ok {
			total += f.Clamped().Value * w / 100
		}
	}
	return clampInt(int(math.Round(total)), 0, 100)
}

// ValidateWeights rejects a scorer configuration whose lead factor weights
// are negative or do not sum to 100 within rounding tolerance.
func ValidateWeights(cfg config.ScorerConfig) error {
	weights := []float64{
		cfg.WebsiteQualityWeight,
		cfg.TechStackWeight,
		cfg.ContentQualityWeight,
		cfg.SEOReadinessWeight,
	}
	sum := 0.0
	for _, w := range weights {
		if w < 0 {
			return eris.Errorf("scorer: negative factor weight %.2f", w)
		}
		sum += w
	}
	if math.Abs(sum-100) > 0.01 {
		return eris.Errorf("scorer: factor weights sum to %.2f, want 100", sum)
	}
	return nil
}

// BelowThreshold returns the factors scoring under the improvement
// threshold (normalized to 0-100), lowest first.
func BelowThreshold(factors map[string]model.SubScore, order []string, threshold float64) []model.SubScore {
	var weak []model.SubScore
	for _, name := range order {
		f, ok := factors[name]
		if !ok {
			continue
		}
		if f.Normalized() < threshold {
			weak = append(weak, f)
		}
	}
	// Insertion sort keeps report order stable for equal scores.
	for i := 1; i < len(weak); i++ {
		for j := i; j > 0 && weak[j].Normalized() < weak[j-1].Normalized(); j-- {
			weak[j], weak[j-1] = weak[j-1], weak[j]
		}
	}
	return weak
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
