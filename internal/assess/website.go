// Package assess wires the pipeline stages into one orchestrator per
// assessment kind. Orchestrators degrade to neutral results on fetch
// failures; only unusable caller input surfaces as an error.
package assess

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/maru-digital/assess-cli/internal/config"
	"github.com/maru-digital/assess-cli/internal/extract"
	"github.com/maru-digital/assess-cli/internal/fetcher"
	"github.com/maru-digital/assess-cli/internal/model"
	"github.com/maru-digital/assess-cli/internal/scorer"
	"github.com/maru-digital/assess-cli/internal/synth"
)

// DocumentFetcher retrieves the page under assessment.
type DocumentFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*fetcher.Document, error)
}

// WebsiteAuditor runs the five-factor website audit.
type WebsiteAuditor struct {
	fetch DocumentFetcher
	synth *synth.Synthesizer
	cfg   config.ScorerConfig
}

// NewWebsiteAuditor builds a WebsiteAuditor.
func NewWebsiteAuditor(fetch DocumentFetcher, s *synth.Synthesizer, cfg config.ScorerConfig) *WebsiteAuditor {
	return &WebsiteAuditor{fetch: fetch, synth: s, cfg: cfg}
}

// Audit fetches, extracts, scores, and synthesizes recommendations for url.
// Fetch failures produce a neutral degraded result; only an invalid URL is
// an error.
func (a *WebsiteAuditor) Audit(ctx context.Context, url string) (*model.WebsiteAudit, error) {
	doc, err := a.fetch.Fetch(ctx, url)
	if err != nil {
		if errors.Is(err, fetcher.ErrInvalidURL) {
			return nil, err
		}
		zap.L().Warn("assess: website fetch failed, degrading to neutral result",
			zap.String("url", url),
			zap.Error(err),
		)
		return a.degraded(ctx, url, err), nil
	}

	features := extract.ExtractPage(doc)
	factors := scorer.ScoreWebsite(features)

	recs := a.synth.Recommendations(ctx, synth.Request{
		Prompt:    auditPrompt(features, factors),
		Factors:   factors,
		Order:     scorer.AuditFactors,
		Threshold: a.cfg.ImprovementThreshold,
	})

	return &model.WebsiteAudit{
		URL:             doc.URL,
		Score:           scorer.AggregateAudit(factors),
		Factors:         factors,
		Findings:        scorer.WebsiteFindings(features),
		Recommendations: recs,
	}, nil
}

// degraded builds the neutral result returned when the page is unreachable.
func (a *WebsiteAuditor) degraded(ctx context.Context, url string, cause error) *model.WebsiteAudit {
	factors := make(map[string]model.SubScore, len(scorer.AuditFactors))
	for _, name := range scorer.AuditFactors {
		factors[name] = model.NewSubScore(name, a.cfg.NeutralFallbackScore/100*20, 0, 20)
	}

	findings := []model.Finding{
		model.FailFinding(fmt.Sprintf("Analysis failed: %s", fetchFailureReason(cause))),
		model.WarnFinding("Scores shown are neutral defaults, not measurements"),
	}

	recs := a.synth.Fallback(factors, scorer.AuditFactors, a.cfg.ImprovementThreshold)
	recs = append([]string{"Ensure the website is accessible and loading properly"}, recs...)

	return &model.WebsiteAudit{
		URL:             url,
		Score:           int(a.cfg.NeutralFallbackScore),
		Factors:         factors,
		Findings:        findings,
		Recommendations: recs,
		Degraded:        true,
	}
}

// fetchFailureReason renders a typed fetch error for findings.
func fetchFailureReason(err error) string {
	var statusErr *fetcher.StatusError
	switch {
	case errors.Is(err, fetcher.ErrTimeout):
		return "website did not respond within the time budget"
	case errors.As(err, &statusErr):
		return fmt.Sprintf("website returned HTTP %d", statusErr.Code)
	default:
		return "website could not be reached"
	}
}

// auditPrompt embeds the measured scores and key features for the
// recommendation request.
func auditPrompt(f extract.PageFeatures, factors map[string]model.SubScore) string {
	var b strings.Builder
	b.WriteString("Analyze this website audit and suggest improvements:\n\n")
	fmt.Fprintf(&b, "URL: %s\nLoad time: %dms\nHTTPS: %t\n\nFactor scores (0-20):\n",
		f.URL, f.Latency.Milliseconds(), f.Secure)
	for _, name := range scorer.AuditFactors {
		fmt.Fprintf(&b, "- %s: %.0f\n", name, factors[name].Value)
	}
	fmt.Fprintf(&b, "\nDetected technologies: %s\n", strings.Join(f.Technologies, ", "))
	b.WriteString("\nRespond with a JSON array of 3-5 specific recommendation strings, most impactful first.")
	return b.String()
}
