package main

import (
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/maru-digital/assess-cli/internal/assess"
	"github.com/maru-digital/assess-cli/internal/config"
	"github.com/maru-digital/assess-cli/internal/fetcher"
	"github.com/maru-digital/assess-cli/internal/scorer"
	"github.com/maru-digital/assess-cli/internal/synth"
	"github.com/maru-digital/assess-cli/pkg/anthropic"
)

// pipeline bundles the per-assessment orchestrators built from config.
type pipeline struct {
	auditor   *assess.WebsiteAuditor
	leads     *assess.LeadScorer
	funnel    *assess.FunnelAnalyzer
	proposals *assess.ProposalBuilder
}

// newPipeline wires the fetcher, generator, and orchestrators. Without an
// API key the generator is nil and every assessment uses its deterministic
// fallback path.
func newPipeline(cfg *config.Config) (*pipeline, error) {
	if err := scorer.ValidateWeights(cfg.Scorer); err != nil {
		return nil, err
	}

	fetch := fetcher.NewHTTPFetcher(fetcher.Options{
		UserAgent: cfg.Fetch.UserAgent,
		Timeout:   time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		Limiter:   rate.NewLimiter(rate.Limit(cfg.Fetch.RatePerSec), cfg.Fetch.RatePerSec),
	})

	var gen synth.TextGenerator
	if cfg.Anthropic.Key != "" {
		client := anthropic.NewClient(cfg.Anthropic.Key)
		gen = anthropic.NewGenerator(client, cfg.Anthropic.Model, cfg.Anthropic.MaxTokens)
	}
	s := synth.New(gen, cfg.Synth)

	return &pipeline{
		auditor:   assess.NewWebsiteAuditor(fetch, s, cfg.Scorer),
		leads:     assess.NewLeadScorer(fetch, gen, s, *cfg),
		funnel:    assess.NewFunnelAnalyzer(cfg.Funnel),
		proposals: assess.NewProposalBuilder(gen, cfg.Synth),
	}, nil
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
