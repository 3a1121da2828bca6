package model

// CompanyData echoes what is known about the company under assessment.
type CompanyData struct {
	Name        string `json:"name"`
	Industry    string `json:"industry"`
	Size        string `json:"size"`
	Description string `json:"description,omitempty"`
}

// WebsiteAudit is the result of the five-factor website audit.
type WebsiteAudit struct {
	URL             string              `json:"url"`
	Score           int                 `json:"score"`
	Factors         map[string]SubScore `json:"factors"`
	Findings        []Finding           `json:"findings"`
	Recommendations []string            `json:"recommendations"`
	Degraded        bool                `json:"degraded,omitempty"`
}

// LeadScore is the result of the lead-generation readiness assessment.
type LeadScore struct {
	Score           int                 `json:"score"`
	Factors         map[string]SubScore `json:"factors"`
	Findings        []Finding           `json:"findings"`
	Recommendations []string            `json:"recommendations"`
	CompanyData     CompanyData         `json:"company_data"`
	Degraded        bool                `json:"degraded,omitempty"`
}

// FunnelReport is the result of the pipeline-leak assessment.
// Leaks are sorted strictly descending by revenue impact.
type FunnelReport struct {
	Score           int                `json:"score"`
	TotalDeals      int                `json:"total_deals"`
	StageOrder      []StageOrdering    `json:"stage_order"`
	ConversionRates map[string]float64 `json:"conversion_rates"`
	AvgTimeInStage  map[string]float64 `json:"avg_time_in_stage"`
	Leaks           []PipelineLeak     `json:"leaks"`
	Recommendations []string           `json:"recommendations"`
	Summary         FunnelSummary      `json:"summary"`
}

// ProposalSections holds the generated proposal copy.
type ProposalSections struct {
	ExecutiveSummary   string `json:"executive_summary"`
	SolutionOverview   string `json:"solution_overview"`
	ImplementationPlan string `json:"implementation_plan"`
	Pricing            string `json:"pricing"`
}

// Proposal is the result of the proposal win-probability assessment.
// Score and WinProbability are the same number; both are kept so the
// payload matches the documented base shape.
type Proposal struct {
	Score           int                 `json:"score"`
	WinProbability  int                 `json:"win_probability"`
	Factors         map[string]SubScore `json:"factors"`
	Sections        ProposalSections    `json:"proposal"`
	Recommendations []string            `json:"recommendations"`
	Degraded        bool                `json:"degraded,omitempty"`
}
