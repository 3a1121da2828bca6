// Package synth turns assessment scores into recommendation lists. It asks a
// generative-text collaborator first and degrades through a permissive parser
// to a deterministic rule-derived list, so callers always get usable output.
package synth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/maru-digital/assess-cli/internal/config"
	"github.com/maru-digital/assess-cli/internal/model"
	"github.com/maru-digital/assess-cli/internal/scorer"
)

// TextGenerator is the generative-text collaborator. Implementations own API
// keys, model selection, and retries; the synthesizer owns prompts and
// response parsing.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Request carries everything needed to synthesize recommendations for one
// assessment.
type Request struct {
	Prompt    string
	Factors   map[string]model.SubScore
	Order     []string
	Threshold float64
}

// Synthesizer produces recommendation lists. A nil generator is valid and
// routes every request straight to the deterministic fallback.
type Synthesizer struct {
	gen TextGenerator
	cfg config.SynthConfig
}

// New builds a Synthesizer.
func New(gen TextGenerator, cfg config.SynthConfig) *Synthesizer {
	return &Synthesizer{gen: gen, cfg: cfg}
}

// Recommendations returns 3-5 recommendation strings. It never fails and
// never returns an empty list: generator errors, timeouts, and unparseable
// responses all degrade to the rule-derived fallback.
func (s *Synthesizer) Recommendations(ctx context.Context, req Request) []string {
	items := s.generated(ctx, req.Prompt)
	if len(items) < s.cfg.MinItems {
		items = append(items, s.Fallback(req.Factors, req.Order, req.Threshold)...)
	}
	if len(items) > s.cfg.MaxItems {
		items = items[:s.cfg.MaxItems]
	}
	return items
}

func (s *Synthesizer) generated(ctx context.Context, prompt string) []string {
	if s.gen == nil || prompt == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(s.cfg.TimeoutSecs)*time.Second)
	defer cancel()

	text, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		zap.L().Debug("synth: generator failed, using fallback", zap.Error(err))
		return nil
	}

	items := parseStrict(text)
	if items == nil {
		items = parseBullets(text)
	}
	if items == nil {
		zap.L().Debug("synth: unparseable generator output, using fallback",
			zap.Int("response_len", len(text)),
		)
	}
	return items
}

// parseStrict extracts the first JSON string array in the response.
func parseStrict(text string) []string {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil
	}

	var items []string
	if err := json.Unmarshal([]byte(text[start:end+1]), &items); err != nil {
		return nil
	}
	return Compact(items)
}

// parseBullets salvages bullet or numbered lines from free-form output.
func parseBullets(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		for _, marker := range []string{"- ", "* ", "• "} {
			if strings.HasPrefix(line, marker) {
				items = append(items, strings.TrimSpace(line[len(marker):]))
				break
			}
		}
		if len(line) > 3 && line[0] >= '1' && line[0] <= '9' && (line[1] == '.' || line[1] == ')') {
			items = append(items, strings.TrimSpace(line[2:]))
		}
	}
	return Compact(items)
}

// Compact trims whitespace and drops empty entries so generator output that
// technically parses cannot ship blank recommendations.
func Compact(items []string) []string {
	var kept []string
	for _, it := range items {
		if strings.TrimSpace(it) != "" {
			kept = append(kept, strings.TrimSpace(it))
		}
	}
	return kept
}

// factorAdvice maps factor names to their canned improvement actions.
var factorAdvice = map[string]string{
	scorer.FactorTechnical:      "Improve page load speed and enable HTTPS with a mobile viewport",
	scorer.FactorSEO:            "Optimize title tags, meta descriptions, and image alt text",
	scorer.FactorContent:        "Adopt semantic HTML structure and add structured data markup",
	scorer.FactorIntegration:    "Add analytics and marketing tracking integrations",
	scorer.FactorAutomation:     "Add lead capture forms and calls to action",
	scorer.FactorWebsiteQuality: "Improve website loading speed and performance",
	scorer.FactorTechStack:      "Implement marketing automation tools",
	scorer.FactorContentQuality: "Enhance content with clear value propositions",
	scorer.FactorSEOReadiness:   "Optimize SEO elements for better discoverability",
}

// Fallback derives recommendations from the factors scoring under the
// improvement threshold, lowest first. With nothing under the threshold it
// still returns a non-empty list.
func (s *Synthesizer) Fallback(factors map[string]model.SubScore, order []string, threshold float64) []string {
	var recs []string
	for _, f := range scorer.BelowThreshold(factors, order, threshold) {
		if advice, ok := factorAdvice[f.Name]; ok {
			recs = append(recs, fmt.Sprintf("Focus on %s: %s", f.Name, advice))
		} else {
			recs = append(recs, fmt.Sprintf("Improve %s (currently %.0f/100)", f.Name, f.Normalized()))
		}
	}
	if len(recs) == 0 {
		recs = append(recs, "Scores look solid; schedule a manual review to find the next improvement")
	}
	for len(recs) < s.cfg.MinItems {
		recs = append(recs, genericAdvice[len(recs)%len(genericAdvice)])
	}
	return recs
}

// FirstJSONObject extracts the first {...} blob from generator output so a
// response wrapped in prose or code fences still parses.
func FirstJSONObject(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

var genericAdvice = []string{
	"Review conversion paths from your highest-traffic pages",
	"Set a quarterly cadence for re-running this assessment",
	"Benchmark against two direct competitors' websites",
}
