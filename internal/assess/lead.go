package assess

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/maru-digital/assess-cli/internal/config"
	"github.com/maru-digital/assess-cli/internal/extract"
	"github.com/maru-digital/assess-cli/internal/fetcher"
	"github.com/maru-digital/assess-cli/internal/model"
	"github.com/maru-digital/assess-cli/internal/scorer"
	"github.com/maru-digital/assess-cli/internal/synth"
)

// LeadInput is the lead-score request.
type LeadInput struct {
	URL      string `json:"website_url"`
	Company  string `json:"company_name"`
	Industry string `json:"industry"`
	Size     string `json:"company_size"`
}

// LeadScorer runs the weighted four-factor lead assessment.
type LeadScorer struct {
	fetch DocumentFetcher
	gen   synth.TextGenerator
	synth *synth.Synthesizer
	cfg   config.Config
}

// NewLeadScorer builds a LeadScorer. gen may be nil; the deterministic
// factor baselines and fallback recommendations then carry the result.
func NewLeadScorer(fetch DocumentFetcher, gen synth.TextGenerator, s *synth.Synthesizer, cfg config.Config) *LeadScorer {
	return &LeadScorer{fetch: fetch, gen: gen, synth: s, cfg: cfg}
}

// leadAnalysis is the JSON object requested from the generator.
type leadAnalysis struct {
	WebsiteQualityScore float64  `json:"website_quality_score"`
	TechStackScore      float64  `json:"tech_stack_score"`
	ContentQualityScore float64  `json:"content_quality_score"`
	SEOScore            float64  `json:"seo_score"`
	DetectedIndustry    string   `json:"detected_industry"`
	CompanyDescription  string   `json:"company_description"`
	Recommendations     []string `json:"recommendations"`
}

// Score assesses the lead generation readiness of input.URL.
func (l *LeadScorer) Score(ctx context.Context, input LeadInput) (*model.LeadScore, error) {
	doc, err := l.fetch.Fetch(ctx, input.URL)
	if err != nil {
		if errors.Is(err, fetcher.ErrInvalidURL) {
			return nil, err
		}
		zap.L().Warn("assess: lead fetch failed, degrading to neutral result",
			zap.String("url", input.URL),
			zap.Error(err),
		)
		return l.degraded(input, err), nil
	}

	features := extract.ExtractPage(doc)
	factors := scorer.ScoreLead(features)

	analysis := l.analyze(ctx, features, input)
	applyAnalysis(factors, analysis)

	recs := synth.Compact(analysis.Recommendations)
	if len(recs) < l.cfg.Synth.MinItems {
		recs = append(recs, l.synth.Fallback(factors, scorer.LeadFactors, l.cfg.Scorer.ImprovementThreshold)...)
	}
	if len(recs) > l.cfg.Synth.MaxItems {
		recs = recs[:l.cfg.Synth.MaxItems]
	}

	company := model.CompanyData{
		Name:        input.Company,
		Industry:    input.Industry,
		Size:        input.Size,
		Description: analysis.CompanyDescription,
	}
	if company.Name == "" {
		company.Name = inferCompanyName(doc.URL)
	}
	if company.Industry == "" {
		company.Industry = orUnknown(analysis.DetectedIndustry)
	}
	if company.Size == "" {
		company.Size = "Unknown"
	}

	return &model.LeadScore{
		Score:           scorer.AggregateLead(factors, l.cfg.Scorer),
		Factors:         factors,
		Findings:        scorer.LeadFindings(features, factors),
		Recommendations: recs,
		CompanyData:     company,
	}, nil
}

// analyze requests factor overrides from the generator. Any failure returns
// the zero analysis and the deterministic baselines stand.
func (l *LeadScorer) analyze(ctx context.Context, f extract.PageFeatures, input LeadInput) leadAnalysis {
	var analysis leadAnalysis
	if l.gen == nil {
		return analysis
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(l.cfg.Synth.TimeoutSecs)*time.Second)
	defer cancel()

	text, err := l.gen.Generate(ctx, leadPrompt(f, input))
	if err != nil {
		zap.L().Debug("assess: lead analysis failed, keeping deterministic factors", zap.Error(err))
		return analysis
	}
	blob, ok := synth.FirstJSONObject(text)
	if !ok {
		return analysis
	}
	if err := json.Unmarshal([]byte(blob), &analysis); err != nil {
		zap.L().Debug("assess: unparseable lead analysis", zap.Error(err))
		return leadAnalysis{}
	}
	return analysis
}

// applyAnalysis overrides the deterministic factor baselines with clamped
// generator scores where present. Zero values mean "not provided".
func applyAnalysis(factors map[string]model.SubScore, a leadAnalysis) {
	override := func(name string, value float64) {
		if value > 0 {
			factors[name] = model.NewSubScore(name, value, 0, 100)
		}
	}
	override(scorer.FactorWebsiteQuality, a.WebsiteQualityScore)
	override(scorer.FactorTechStack, a.TechStackScore)
	override(scorer.FactorContentQuality, a.ContentQualityScore)
	override(scorer.FactorSEOReadiness, a.SEOScore)
}

// degraded is the neutral lead result for an unreachable website.
func (l *LeadScorer) degraded(input LeadInput, cause error) *model.LeadScore {
	neutral := l.cfg.Scorer.NeutralFallbackScore
	factors := make(map[string]model.SubScore, len(scorer.LeadFactors))
	for _, name := range scorer.LeadFactors {
		factors[name] = model.NewSubScore(name, neutral, 0, 100)
	}

	return &model.LeadScore{
		Score:   int(neutral),
		Factors: factors,
		Findings: []model.Finding{
			model.FailFinding(fmt.Sprintf("Analysis failed: %s", fetchFailureReason(cause))),
		},
		Recommendations: []string{
			"Website analysis failed - manual review recommended",
			"Ensure the website is accessible and loading properly",
			"Consider a technical SEO audit",
		},
		CompanyData: model.CompanyData{
			Name:     orUnknown(input.Company),
			Industry: orUnknown(input.Industry),
			Size:     orUnknown(input.Size),
		},
		Degraded: true,
	}
}

// leadPrompt embeds the extracted features and company context.
func leadPrompt(f extract.PageFeatures, input LeadInput) string {
	var b strings.Builder
	b.WriteString("Analyze this website for lead generation potential:\n\n")
	fmt.Fprintf(&b, "URL: %s\nWord count: %d\nTechnologies: %s\nLoad time: %dms\n",
		f.URL, f.WordCount, strings.Join(f.Technologies, ", "), f.Latency.Milliseconds())
	fmt.Fprintf(&b, "\nCompany context:\n- Name: %s\n- Industry: %s\n- Size: %s\n",
		orUnknown(input.Company), orUnknown(input.Industry), orUnknown(input.Size))
	b.WriteString(`
Provide analysis as JSON:
{
  "website_quality_score": 0-100,
  "tech_stack_score": 0-100,
  "content_quality_score": 0-100,
  "seo_score": 0-100,
  "detected_industry": "industry name",
  "company_description": "brief description",
  "recommendations": ["rec1", "rec2", "rec3", "rec4", "rec5"]
}

Focus on lead generation potential and actionable improvements.`)
	return b.String()
}

// inferCompanyName guesses a company name from the URL host.
func inferCompanyName(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Hostname() == "" {
		return "Unknown Company"
	}
	host := strings.TrimPrefix(parsed.Hostname(), "www.")
	name := strings.Split(host, ".")[0]
	if name == "" {
		return "Unknown Company"
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Unknown"
	}
	return s
}
