// Package scorer implements the rule-based sub-factor scoring for all
// assessment kinds. Every scorer is a pure function from extracted features
// to a bounded SubScore; thresholds are coarse product-defined tiers,
// never interpolated.
package scorer

import (
	"fmt"
	"time"

	"github.com/maru-digital/assess-cli/internal/extract"
	"github.com/maru-digital/assess-cli/internal/model"
)

// Website audit factor names.
const (
	FactorTechnical   = "technical"
	FactorSEO         = "seo"
	FactorContent     = "content"
	FactorIntegration = "integration"
	FactorAutomation  = "automation"
)

// AuditFactors lists the website audit factors in report order.
var AuditFactors = []string{
	FactorTechnical, FactorSEO, FactorContent, FactorIntegration, FactorAutomation,
}

// ScoreTechnical scores technical performance (0-20): load-time tiers,
// secure transport, responsive viewport.
func ScoreTechnical(f extract.PageFeatures) model.SubScore {
	score := 0.0

	// Load speed tiers (0-8).
	switch {
	case f.Latency < time.Second:
		score += 8
	case f.Latency < 2*time.Second:
		score += 6
	case f.Latency < 3*time.Second:
		score += 4
	case f.Latency < 5*time.Second:
		score += 2
	}

	// HTTPS (0-6).
	if f.Secure {
		score += 6
	}

	// Mobile viewport meta tag (0-6).
	if f.HasViewport {
		score += 6
	}

	return model.NewSubScore(FactorTechnical, score, 0, 20)
}

// ScoreSEO scores SEO foundations (0-20): title, meta description, h1
// discipline, image alt coverage. A page with no images takes the neutral
// middle tier rather than a failure.
func ScoreSEO(f extract.PageFeatures) model.SubScore {
	score := 0.0

	// Title tag (0-5).
	switch {
	case f.HasTitle && f.TitleLength > 10 && f.TitleLength < 70:
		score += 5
	case f.HasTitle:
		score += 2
	}

	// Meta description (0-5).
	switch {
	case f.HasMetaDesc && f.MetaDescLength > 50 && f.MetaDescLength < 160:
		score += 5
	case f.HasMetaDesc:
		score += 2
	}

	// H1 tag (0-5).
	switch {
	case f.H1Count == 1:
		score += 5
	case f.H1Count > 0:
		score += 2
	}

	// Image alt attributes (0-5).
	if f.ImageCount == 0 {
		score += 3
	} else {
		switch {
		case f.ImageAltRatio >= 0.9:
			score += 5
		case f.ImageAltRatio >= 0.5:
			score += 3
		case f.ImageAltRatio > 0:
			score += 1
		}
	}

	return model.NewSubScore(FactorSEO, score, 0, 20)
}

// ScoreContent scores content structure (0-20): semantic HTML5 variety,
// heading hierarchy, structured data.
func ScoreContent(f extract.PageFeatures) model.SubScore {
	score := 0.0

	// Semantic tag variety, one point per distinct tag, capped (0-7).
	score += min(7.0, float64(len(f.SemanticTagsFound)))

	// Heading hierarchy (0-6).
	hasH1, hasH2 := f.H1Count > 0, f.H2Count > 0
	switch {
	case hasH1 && hasH2:
		score += 6
	case hasH1 || hasH2:
		score += 3
	}

	// Structured data (0-7).
	switch {
	case f.HasJSONLD:
		score += 7
	case f.HasSchemaOrg:
		score += 4
	}

	return model.NewSubScore(FactorContent, score, 0, 20)
}

// ScoreIntegration scores third-party integration readiness (0-20).
func ScoreIntegration(f extract.PageFeatures) model.SubScore {
	score := 0.0

	if f.HasGoogleAnalytics {
		score += 7
	}
	if f.HasFacebookPixel {
		score += 7
	}
	// Other trackers: 2 points each, capped (0-6).
	score += min(6.0, float64(len(f.IntegrationVendors))*2)

	return model.NewSubScore(FactorIntegration, score, 0, 20)
}

// ScoreAutomation scores automation potential (0-20): lead-capture forms,
// email inputs, chat widgets.
func ScoreAutomation(f extract.PageFeatures) model.SubScore {
	score := 0.0

	if f.FormCount > 0 {
		score += min(8.0, float64(f.FormCount)*4)
	}
	if f.EmailInputCount > 0 {
		score += 6
	}
	if f.HasChatWidget {
		score += 6
	}

	return model.NewSubScore(FactorAutomation, score, 0, 20)
}

// ScoreWebsite runs all five audit sub-scorers.
func ScoreWebsite(f extract.PageFeatures) map[string]model.SubScore {
	return map[string]model.SubScore{
		FactorTechnical:   ScoreTechnical(f),
		FactorSEO:         ScoreSEO(f),
		FactorContent:     ScoreContent(f),
		FactorIntegration: ScoreIntegration(f),
		FactorAutomation:  ScoreAutomation(f),
	}
}

// WebsiteFindings produces the human-readable audit trail for all factors.
// Findings are generated alongside the numeric scores, never derived from
// them, so the report stays actionable even for low-weight factors.
func WebsiteFindings(f extract.PageFeatures) []model.Finding {
	var findings []model.Finding

	// Technical.
	latencyMS := f.Latency.Milliseconds()
	if f.Latency < 2*time.Second {
		findings = append(findings, model.PassFinding(fmt.Sprintf("Fast load time: %dms", latencyMS)))
	} else {
		findings = append(findings, model.WarnFinding(fmt.Sprintf("Slow load time: %dms (aim for <2000ms)", latencyMS)))
	}
	if f.Secure {
		findings = append(findings, model.PassFinding("HTTPS enabled"))
	} else {
		findings = append(findings, model.FailFinding("No HTTPS - security risk"))
	}
	if f.HasViewport {
		findings = append(findings, model.PassFinding("Mobile-responsive viewport configured"))
	} else {
		findings = append(findings, model.FailFinding("Missing viewport meta tag"))
	}

	// SEO.
	switch {
	case f.HasTitle && f.TitleLength > 10 && f.TitleLength < 70:
		findings = append(findings, model.PassFinding(fmt.Sprintf("Title tag optimized (%d chars)", f.TitleLength)))
	case f.HasTitle:
		findings = append(findings, model.WarnFinding(fmt.Sprintf("Title tag exists but not optimal length (%d chars)", f.TitleLength)))
	default:
		findings = append(findings, model.FailFinding("Missing title tag"))
	}
	switch {
	case f.HasMetaDesc && f.MetaDescLength > 50 && f.MetaDescLength < 160:
		findings = append(findings, model.PassFinding(fmt.Sprintf("Meta description optimized (%d chars)", f.MetaDescLength)))
	case f.HasMetaDesc:
		findings = append(findings, model.WarnFinding(fmt.Sprintf("Meta description exists but not optimal (%d chars)", f.MetaDescLength)))
	default:
		findings = append(findings, model.FailFinding("Missing meta description"))
	}
	switch {
	case f.H1Count == 1:
		findings = append(findings, model.PassFinding("Single H1 tag (best practice)"))
	case f.H1Count > 1:
		findings = append(findings, model.WarnFinding(fmt.Sprintf("Multiple H1 tags found (%d)", f.H1Count)))
	default:
		findings = append(findings, model.FailFinding("No H1 tag found"))
	}
	if f.ImageCount > 0 {
		pct := int(f.ImageAltRatio*100 + 0.5)
		if f.ImageAltRatio >= 0.9 {
			findings = append(findings, model.PassFinding(fmt.Sprintf("%d%% of images have alt text", pct)))
		} else {
			findings = append(findings, model.WarnFinding(fmt.Sprintf("Only %d%% of images have alt text", pct)))
		}
	}

	// Content.
	switch {
	case len(f.SemanticTagsFound) >= 5:
		findings = append(findings, model.PassFinding(fmt.Sprintf("Good semantic HTML usage (%d/7 tags)", len(f.SemanticTagsFound))))
	case len(f.SemanticTagsFound) > 0:
		findings = append(findings, model.WarnFinding(fmt.Sprintf("Limited semantic HTML (%d/7 tags)", len(f.SemanticTagsFound))))
	default:
		findings = append(findings, model.FailFinding("No semantic HTML5 tags found"))
	}
	if f.H1Count > 0 && f.H2Count > 0 {
		findings = append(findings, model.PassFinding("Proper heading hierarchy (H1 + H2)"))
	} else {
		findings = append(findings, model.WarnFinding("Incomplete heading hierarchy"))
	}
	switch {
	case f.HasJSONLD:
		findings = append(findings, model.PassFinding("Structured data (JSON-LD) present"))
	case f.HasSchemaOrg:
		findings = append(findings, model.WarnFinding("Schema.org markup detected"))
	default:
		findings = append(findings, model.FailFinding("No structured data found"))
	}

	// Integration.
	if f.HasGoogleAnalytics {
		findings = append(findings, model.PassFinding("Google Analytics/Tag Manager detected"))
	} else {
		findings = append(findings, model.FailFinding("No Google Analytics detected"))
	}
	if f.HasFacebookPixel {
		findings = append(findings, model.PassFinding("Facebook Pixel detected"))
	}
	if len(f.IntegrationVendors) > 0 {
		findings = append(findings, model.PassFinding(fmt.Sprintf("Additional integrations detected (%d)", len(f.IntegrationVendors))))
	} else {
		findings = append(findings, model.WarnFinding("Limited third-party integrations"))
	}

	// Automation.
	if f.FormCount > 0 {
		findings = append(findings, model.PassFinding(fmt.Sprintf("%d form(s) detected for lead capture", f.FormCount)))
	} else {
		findings = append(findings, model.FailFinding("No forms found"))
	}
	if f.EmailInputCount > 0 {
		findings = append(findings, model.PassFinding(fmt.Sprintf("Email capture fields present (%d)", f.EmailInputCount)))
	} else {
		findings = append(findings, model.WarnFinding("No email input fields found"))
	}
	if f.HasChatWidget {
		findings = append(findings, model.PassFinding("Chat/support widget detected"))
	} else {
		findings = append(findings, model.WarnFinding("No chat widget detected"))
	}

	return findings
}
