package assess

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/maru-digital/assess-cli/internal/config"
	"github.com/maru-digital/assess-cli/internal/model"
	"github.com/maru-digital/assess-cli/internal/synth"
)

// ErrInvalidProposalInput reports a proposal request missing required fields.
var ErrInvalidProposalInput = errors.New("assess: invalid proposal input")

// Proposal win-probability factor names.
const (
	FactorScopeClarity      = "scope_clarity"
	FactorBudgetFit         = "budget_fit"
	FactorTimelineFit       = "timeline_fit"
	FactorStakeholderAccess = "stakeholder_access"
)

// ProposalFactors lists the proposal factors in report order.
var ProposalFactors = []string{
	FactorScopeClarity, FactorBudgetFit, FactorTimelineFit, FactorStakeholderAccess,
}

// ProposalInput is the structured company/project description.
type ProposalInput struct {
	Company        string   `json:"company_name"`
	Industry       string   `json:"industry"`
	Size           string   `json:"company_size"`
	Challenges     []string `json:"challenges"`
	Services       []string `json:"services"`
	Timeline       string   `json:"timeline"`
	BudgetRange    string   `json:"budget_range"`
	PrimaryContact string   `json:"primary_contact"`
	Stakeholders   []string `json:"stakeholders"`
}

// ProposalBuilder estimates win probability from the input completeness and
// generates the proposal copy, with a canned fallback when the generator is
// unavailable.
type ProposalBuilder struct {
	gen synth.TextGenerator
	cfg config.SynthConfig
}

// NewProposalBuilder builds a ProposalBuilder. gen may be nil.
func NewProposalBuilder(gen synth.TextGenerator, cfg config.SynthConfig) *ProposalBuilder {
	return &ProposalBuilder{gen: gen, cfg: cfg}
}

// Build validates the input, scores the win probability, and assembles the
// proposal sections.
func (p *ProposalBuilder) Build(ctx context.Context, input ProposalInput) (*model.Proposal, error) {
	if strings.TrimSpace(input.Company) == "" {
		return nil, eris.Wrap(ErrInvalidProposalInput, "company name is required")
	}
	if strings.TrimSpace(input.Industry) == "" {
		return nil, eris.Wrap(ErrInvalidProposalInput, "industry is required")
	}

	factors := scoreProposal(input)
	probability := winProbability(factors)

	sections, degraded := p.sections(ctx, input)

	return &model.Proposal{
		Score:          probability,
		WinProbability: probability,
		Factors:        factors,
		Sections:       sections,
		Recommendations: []string{
			"Schedule a discovery call to refine requirements",
			"Prepare detailed technical specifications",
			"Create an implementation timeline with milestones",
			"Set up regular progress review meetings",
		},
		Degraded: degraded,
	}, nil
}

// scoreProposal rates how complete and winnable the request looks. Each
// factor is a 0-100 rubric over input completeness, not a prediction model.
func scoreProposal(input ProposalInput) map[string]model.SubScore {
	scope := math.Min(75, float64(len(input.Services))*25)
	if len(input.Challenges) > 0 {
		scope += 25
	}

	budget := 20.0
	if strings.TrimSpace(input.BudgetRange) != "" {
		budget = 80
	}

	timeline := 25.0
	if strings.TrimSpace(input.Timeline) != "" {
		timeline = 75
	}

	stakeholders := math.Min(40, float64(len(input.Stakeholders))*10)
	if strings.TrimSpace(input.PrimaryContact) != "" {
		stakeholders += 60
	}

	return map[string]model.SubScore{
		FactorScopeClarity:      model.NewSubScore(FactorScopeClarity, scope, 0, 100),
		FactorBudgetFit:         model.NewSubScore(FactorBudgetFit, budget, 0, 100),
		FactorTimelineFit:       model.NewSubScore(FactorTimelineFit, timeline, 0, 100),
		FactorStakeholderAccess: model.NewSubScore(FactorStakeholderAccess, stakeholders, 0, 100),
	}
}

// winProbability averages the rubric factors and clamps away false
// certainty at both ends.
func winProbability(factors map[string]model.SubScore) int {
	sum := 0.0
	for _, f := range factors {
		sum += f.Clamped().Value
	}
	p := int(math.Round(sum / float64(len(factors))))
	if p < 5 {
		p = 5
	}
	if p > 95 {
		p = 95
	}
	return p
}

// sections generates the proposal copy, degrading to the canned sections on
// any generator failure.
func (p *ProposalBuilder) sections(ctx context.Context, input ProposalInput) (model.ProposalSections, bool) {
	if p.gen == nil {
		return fallbackSections(input), true
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(p.cfg.TimeoutSecs)*time.Second)
	defer cancel()

	text, err := p.gen.Generate(ctx, proposalPrompt(input))
	if err != nil {
		zap.L().Warn("assess: proposal generation failed, using canned sections", zap.Error(err))
		return fallbackSections(input), true
	}

	blob, ok := synth.FirstJSONObject(text)
	if !ok {
		return fallbackSections(input), true
	}
	var sections model.ProposalSections
	if err := json.Unmarshal([]byte(blob), &sections); err != nil || sections.ExecutiveSummary == "" {
		zap.L().Debug("assess: unparseable proposal sections", zap.Error(err))
		return fallbackSections(input), true
	}
	return sections, false
}

// proposalPrompt embeds the full project description.
func proposalPrompt(input ProposalInput) string {
	var b strings.Builder
	b.WriteString("Generate a professional business proposal for:\n\n")
	fmt.Fprintf(&b, "Company: %s\nIndustry: %s\nSize: %s\nChallenges: %s\n\n",
		input.Company, input.Industry, orUnknown(input.Size), strings.Join(input.Challenges, ", "))
	fmt.Fprintf(&b, "Services requested: %s\nTimeline: %s\nBudget range: %s\n\n",
		strings.Join(input.Services, ", "), input.Timeline, input.BudgetRange)
	fmt.Fprintf(&b, "Primary contact: %s\nStakeholders: %s\n",
		input.PrimaryContact, strings.Join(input.Stakeholders, ", "))
	b.WriteString(`
Respond with JSON:
{
  "executive_summary": "<compelling 2-paragraph summary>",
  "solution_overview": "<detailed solution description>",
  "implementation_plan": "<step-by-step implementation approach>",
  "pricing": "<pricing structure and value justification>"
}

Make it professional, specific to their industry, and focused on ROI.`)
	return b.String()
}

// fallbackSections is the canned proposal used when no generated copy is
// available.
func fallbackSections(input ProposalInput) model.ProposalSections {
	return model.ProposalSections{
		ExecutiveSummary: fmt.Sprintf(
			"We propose a comprehensive automation solution for %s to streamline operations and drive growth. Our proven approach will deliver measurable ROI within 90 days.",
			input.Company),
		SolutionOverview: "Custom automation platform tailored to your industry needs, including lead generation, sales pipeline optimization, and operational efficiency improvements.",
		ImplementationPlan: "Phase 1: Discovery and Planning (2 weeks), Phase 2: System Setup (4 weeks), " +
			"Phase 3: Testing and Training (2 weeks), Phase 4: Go-Live and Support (ongoing).",
		Pricing: "Investment starts at $5,000 setup + $500/month ongoing support. ROI typically achieved within 3-6 months through increased efficiency and revenue growth.",
	}
}
