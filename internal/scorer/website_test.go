package scorer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maru-digital/assess-cli/internal/extract"
	"github.com/maru-digital/assess-cli/internal/model"
)

func optimizedFeatures() extract.PageFeatures {
	return extract.PageFeatures{
		URL:               "https://acme.example",
		Latency:           800 * time.Millisecond,
		Secure:            true,
		HasTitle:          true,
		TitleLength:       45,
		HasMetaDesc:       true,
		MetaDescLength:    120,
		HasOGTitle:        true,
		HasOGDesc:         true,
		HasKeywords:       true,
		HasViewport:       true,
		H1Count:           1,
		H2Count:           3,
		ImageCount:        10,
		ImagesWithAlt:     10,
		ImageAltRatio:     1.0,
		SemanticTagsFound: []string{"header", "nav", "main", "article", "section", "aside", "footer"},
		HasJSONLD:         true,
		HasSchemaOrg:      true,
		FormCount:         2,
		EmailInputCount:   1,
		HasChatWidget:     true,
		HasGoogleAnalytics: true,
		HasFacebookPixel:   true,
		IntegrationVendors: []string{"hubspot", "intercom", "segment"},
		Technologies:       []string{"React", "Google Analytics", "HubSpot"},
		WordCount:          900,
		LinkCount:          25,
		HasContactMention:  true,
		HasAboutMention:    true,
	}
}

func TestScoreTechnicalLoadTiers(t *testing.T) {
	tests := []struct {
		name    string
		latency time.Duration
		want    float64
	}{
		{"sub-second", 900 * time.Millisecond, 8},
		{"under two", 1500 * time.Millisecond, 6},
		{"under three", 2500 * time.Millisecond, 4},
		{"under five", 4 * time.Second, 2},
		{"slow", 7 * time.Second, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := extract.PageFeatures{Latency: tt.latency}
			assert.Equal(t, tt.want, ScoreTechnical(f).Value)
		})
	}
}

func TestScoreTechnicalFullMarks(t *testing.T) {
	s := ScoreTechnical(optimizedFeatures())
	assert.Equal(t, 20.0, s.Value)
}

func TestScoreSEOOptimizedPageMaxes(t *testing.T) {
	s := ScoreSEO(optimizedFeatures())
	assert.Equal(t, 20.0, s.Value)
}

func TestScoreSEOAltRatioBands(t *testing.T) {
	tests := []struct {
		name   string
		count  int
		ratio  float64
		points float64
	}{
		{"no images neutral", 0, 0, 3},
		{"full coverage", 5, 1.0, 5},
		{"half coverage", 5, 0.6, 3},
		{"sparse coverage", 5, 0.2, 1},
		{"none covered", 5, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := extract.PageFeatures{ImageCount: tt.count, ImageAltRatio: tt.ratio}
			assert.Equal(t, tt.points, ScoreSEO(f).Value)
		})
	}
}

func TestScoreSEOSuboptimalTitle(t *testing.T) {
	f := extract.PageFeatures{HasTitle: true, TitleLength: 100}
	assert.Equal(t, 2.0+3.0, ScoreSEO(f).Value, "long title gets 2, no images gets neutral 3")
}

func TestScoreContent(t *testing.T) {
	assert.Equal(t, 20.0, ScoreContent(optimizedFeatures()).Value)

	// schema.org without JSON-LD takes the lower structured-data tier.
	f := extract.PageFeatures{
		SemanticTagsFound: []string{"main", "footer"},
		H1Count:           1,
		HasSchemaOrg:      true,
	}
	assert.Equal(t, 2.0+3.0+4.0, ScoreContent(f).Value)
}

func TestScoreIntegration(t *testing.T) {
	assert.Equal(t, 20.0, ScoreIntegration(optimizedFeatures()).Value)

	f := extract.PageFeatures{IntegrationVendors: []string{"hubspot", "intercom", "segment", "drift"}}
	assert.Equal(t, 6.0, ScoreIntegration(f).Value, "vendor points cap at 6")

	assert.Equal(t, 0.0, ScoreIntegration(extract.PageFeatures{}).Value)
}

func TestScoreAutomation(t *testing.T) {
	assert.Equal(t, 20.0, ScoreAutomation(optimizedFeatures()).Value)

	f := extract.PageFeatures{FormCount: 5}
	assert.Equal(t, 8.0, ScoreAutomation(f).Value, "form points cap at 8")
}

func TestScoreWebsiteAllFactorsPresent(t *testing.T) {
	factors := ScoreWebsite(optimizedFeatures())
	require.Len(t, factors, len(AuditFactors))
	for _, name := range AuditFactors {
		f, ok := factors[name]
		require.True(t, ok, "missing factor %s", name)
		assert.Equal(t, name, f.Name)
		assert.GreaterOrEqual(t, f.Value, 0.0)
		assert.LessOrEqual(t, f.Value, 20.0)
	}
}

func TestWebsiteFindingsCoverEveryFactor(t *testing.T) {
	findings := WebsiteFindings(optimizedFeatures())
	require.NotEmpty(t, findings)

	// An optimized page should fail nothing.
	for _, fd := range findings {
		assert.NotEqual(t, model.Fail, fd.Polarity, "unexpected failure: %s", fd.Message)
	}
}

func TestWebsiteFindingsFlagMissingBasics(t *testing.T) {
	findings := WebsiteFindings(extract.PageFeatures{Latency: 6 * time.Second})

	var fails int
	for _, fd := range findings {
		if fd.Polarity == model.Fail {
			fails++
		}
	}
	assert.Greater(t, fails, 3, "bare page should fail several checks")
}
