package synth

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maru-digital/assess-cli/internal/config"
	"github.com/maru-digital/assess-cli/internal/model"
	"github.com/maru-digital/assess-cli/internal/scorer"
)

type fakeGenerator struct {
	response string
	err      error
	called   bool
}

func (f *fakeGenerator) Generate(_ context.Context, _ string) (string, error) {
	f.called = true
	return f.response, f.err
}

func synthConfig() config.SynthConfig {
	return config.SynthConfig{TimeoutSecs: 2, MinItems: 3, MaxItems: 5}
}

func leadRequest() Request {
	return Request{
		Prompt: "analyze",
		Factors: map[string]model.SubScore{
			scorer.FactorWebsiteQuality: model.NewSubScore(scorer.FactorWebsiteQuality, 80, 0, 100),
			scorer.FactorTechStack:      model.NewSubScore(scorer.FactorTechStack, 20, 0, 100),
			scorer.FactorContentQuality: model.NewSubScore(scorer.FactorContentQuality, 45, 0, 100),
			scorer.FactorSEOReadiness:   model.NewSubScore(scorer.FactorSEOReadiness, 70, 0, 100),
		},
		Order:     scorer.LeadFactors,
		Threshold: 60,
	}
}

func TestRecommendationsStrictJSONPath(t *testing.T) {
	gen := &fakeGenerator{response: `Here you go:
["Add exit-intent forms", "Compress hero images", "Publish case studies"]`}

	recs := New(gen, synthConfig()).Recommendations(context.Background(), leadRequest())
	assert.Equal(t, []string{"Add exit-intent forms", "Compress hero images", "Publish case studies"}, recs)
}

func TestRecommendationsBulletFallbackPath(t *testing.T) {
	gen := &fakeGenerator{response: `Suggestions:
- Add exit-intent forms
* Compress hero images
1. Publish case studies
2) Start an email sequence`}

	recs := New(gen, synthConfig()).Recommendations(context.Background(), leadRequest())
	require.Len(t, recs, 4)
	assert.Equal(t, "Add exit-intent forms", recs[0])
	assert.Equal(t, "Start an email sequence", recs[3])
}

func TestRecommendationsGeneratorErrorFallsBack(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("upstream 500")}

	recs := New(gen, synthConfig()).Recommendations(context.Background(), leadRequest())
	require.NotEmpty(t, recs)
	assert.True(t, gen.called)

	// Deterministic fallback names the lowest factor first.
	assert.Contains(t, recs[0], scorer.FactorTechStack)
}

func TestRecommendationsUnparseableOutputFallsBack(t *testing.T) {
	gen := &fakeGenerator{response: "I am unable to provide recommendations at this time."}

	recs := New(gen, synthConfig()).Recommendations(context.Background(), leadRequest())
	require.NotEmpty(t, recs)
	assert.Contains(t, recs[0], scorer.FactorTechStack)
}

func TestRecommendationsNilGenerator(t *testing.T) {
	recs := New(nil, synthConfig()).Recommendations(context.Background(), leadRequest())
	require.NotEmpty(t, recs)
	assert.GreaterOrEqual(t, len(recs), 3)
}

func TestRecommendationsCapAtMaxItems(t *testing.T) {
	gen := &fakeGenerator{response: `["a1","a2","a3","a4","a5","a6","a7"]`}
	recs := New(gen, synthConfig()).Recommendations(context.Background(), leadRequest())
	assert.Len(t, recs, 5)
}

func TestRecommendationsTopUpShortResponses(t *testing.T) {
	gen := &fakeGenerator{response: `["just one"]`}
	recs := New(gen, synthConfig()).Recommendations(context.Background(), leadRequest())
	assert.GreaterOrEqual(t, len(recs), 3)
	assert.Equal(t, "just one", recs[0])
}

func TestFallbackNeverEmpty(t *testing.T) {
	s := New(nil, synthConfig())

	// Every factor healthy: still non-empty.
	factors := map[string]model.SubScore{
		scorer.FactorSEO: model.NewSubScore(scorer.FactorSEO, 20, 0, 20),
	}
	recs := s.Fallback(factors, []string{scorer.FactorSEO}, 60)
	require.NotEmpty(t, recs)

	// No factors at all: still non-empty.
	recs = s.Fallback(nil, nil, 60)
	require.NotEmpty(t, recs)
}

func TestFallbackDeterministic(t *testing.T) {
	s := New(nil, synthConfig())
	req := leadRequest()
	a := s.Fallback(req.Factors, req.Order, req.Threshold)
	b := s.Fallback(req.Factors, req.Order, req.Threshold)
	assert.Equal(t, a, b)
}

func TestFirstJSONObject(t *testing.T) {
	blob, ok := FirstJSONObject("```json\n{\"score\": 80}\n```")
	require.True(t, ok)
	assert.True(t, strings.HasPrefix(blob, "{"))
	assert.True(t, strings.HasSuffix(blob, "}"))

	_, ok = FirstJSONObject("no json here")
	assert.False(t, ok)
}
