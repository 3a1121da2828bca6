package scorer

import (
	"fmt"

	"github.com/maru-digital/assess-cli/internal/extract"
	"github.com/maru-digital/assess-cli/internal/model"
)

// Lead score factor names, matching the outbound payload keys.
const (
	FactorWebsiteQuality = "website_quality"
	FactorTechStack      = "tech_stack_maturity"
	FactorContentQuality = "content_quality"
	FactorSEOReadiness   = "seo_readiness"
)

// LeadFactors lists the lead score factors in report order.
var LeadFactors = []string{
	FactorWebsiteQuality, FactorTechStack, FactorContentQuality, FactorSEOReadiness,
}

// ScoreWebsiteQuality is the deterministic baseline for the website quality
// factor (0-100). The generative analysis may override it; this value is what
// the fallback path reports.
func ScoreWebsiteQuality(f extract.PageFeatures) model.SubScore {
	score := 50.0
	if f.Latency.Milliseconds() < 3000 {
		score = 70
	}
	if f.Secure {
		score += 10
	}
	if f.HasViewport {
		score += 10
	}
	return model.NewSubScore(FactorWebsiteQuality, score, 0, 100)
}

// ScoreTechStack scores tech stack maturity (0-100) from detected
// technologies: 15 points per recognized technology, capped.
func ScoreTechStack(f extract.PageFeatures) model.SubScore {
	score := min(100.0, float64(len(f.Technologies))*15)
	return model.NewSubScore(FactorTechStack, score, 0, 100)
}

// ScoreContentQuality scores content depth (0-100): word count tiers plus
// fixed bonuses for images, links, and contact/about mentions.
func ScoreContentQuality(f extract.PageFeatures) model.SubScore {
	score := 0.0

	switch {
	case f.WordCount > 500:
		score += 30
	case f.WordCount > 200:
		score += 20
	default:
		score += 10
	}

	if f.ImageCount > 0 {
		score += 20
	}
	if f.LinkCount > 0 {
		score += 15
	}
	if f.HasContactMention {
		score += 15
	}
	if f.HasAboutMention {
		score += 10
	}

	return model.NewSubScore(FactorContentQuality, score, 0, 100)
}

// ScoreSEOReadiness scores SEO metadata completeness (0-100).
func ScoreSEOReadiness(f extract.PageFeatures) model.SubScore {
	score := 0.0

	if f.HasTitle && f.TitleLength > 10 && f.TitleLength < 60 {
		score += 25
	}
	if f.HasMetaDesc && f.MetaDescLength > 50 && f.MetaDescLength < 160 {
		score += 25
	}
	if f.HasOGTitle {
		score += 15
	}
	if f.HasOGDesc {
		score += 15
	}
	if f.HasKeywords {
		score += 10
	}

	return model.NewSubScore(FactorSEOReadiness, score, 0, 100)
}

// ScoreLead runs the four deterministic lead factors.
func ScoreLead(f extract.PageFeatures) map[string]model.SubScore {
	return map[string]model.SubScore{
		FactorWebsiteQuality: ScoreWebsiteQuality(f),
		FactorTechStack:      ScoreTechStack(f),
		FactorContentQuality: ScoreContentQuality(f),
		FactorSEOReadiness:   ScoreSEOReadiness(f),
	}
}

// LeadFindings renders the lead factor audit trail.
func LeadFindings(f extract.PageFeatures, factors map[string]model.SubScore) []model.Finding {
	var findings []model.Finding

	if len(f.Technologies) > 0 {
		findings = append(findings, model.PassFinding(fmt.Sprintf("Detected technologies: %d", len(f.Technologies))))
	} else {
		findings = append(findings, model.WarnFinding("No recognizable technology stack detected"))
	}

	if f.WordCount > 500 {
		findings = append(findings, model.PassFinding(fmt.Sprintf("Substantial page content (%d words)", f.WordCount)))
	} else {
		findings = append(findings, model.WarnFinding(fmt.Sprintf("Thin page content (%d words)", f.WordCount)))
	}

	for _, name := range LeadFactors {
		fs, ok := factors[name]
		if !ok {
			continue
		}
		switch {
		case fs.Value >= 70:
			findings = append(findings, model.PassFinding(fmt.Sprintf("%s: strong (%.0f/100)", name, fs.Value)))
		case fs.Value >= 40:
			findings = append(findings, model.WarnFinding(fmt.Sprintf("%s: needs work (%.0f/100)", name, fs.Value)))
		default:
			findings = append(findings, model.FailFinding(fmt.Sprintf("%s: weak (%.0f/100)", name, fs.Value)))
		}
	}

	return findings
}
