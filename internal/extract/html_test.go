package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/maru-digital/assess-cli/internal/fetcher"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>Acme Widgets - Industrial Automation Parts</title>
  <meta name="description" content="Acme supplies industrial automation components, sensors, and controllers to manufacturers across North America since 1985.">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <meta property="og:title" content="Acme Widgets">
  <meta name="keywords" content="widgets,automation">
  <script type="application/ld+json">{"@context":"https://schema.org"}</script>
  <script src="https://www.googletagmanager.com/gtag/js"></script>
  <script src="https://js.hubspot.com/forms.js"></script>
</head>
<body>
  <header><nav><a href="/about">About</a><a href="/contact">Contact</a></nav></header>
  <main>
    <h1>Industrial Automation Parts</h1>
    <h2>Trusted by manufacturers</h2>
    <section>
      <img src="a.png" alt="sensor">
      <img src="b.png" alt="controller">
      <img src="c.png">
      <form action="/subscribe"><input type="email" name="email"></form>
    </section>
    <div class="chat-launcher"></div>
  </main>
  <footer>Copyright Acme</footer>
</body>
</html>`

func docFor(html string) *fetcher.Document {
	return &fetcher.Document{
		URL:     "https://acme.example",
		HTML:    html,
		Latency: 850 * time.Millisecond,
		Secure:  true,
	}
}

func TestExtractPage(t *testing.T) {
	f := ExtractPage(docFor(samplePage))

	assert.True(t, f.HasTitle)
	assert.Equal(t, len("Acme Widgets - Industrial Automation Parts"), f.TitleLength)
	assert.True(t, f.HasMetaDesc)
	assert.Greater(t, f.MetaDescLength, 50)
	assert.True(t, f.HasOGTitle)
	assert.False(t, f.HasOGDesc)
	assert.True(t, f.HasKeywords)
	assert.True(t, f.HasViewport)

	assert.Equal(t, 1, f.H1Count)
	assert.Equal(t, 1, f.H2Count)

	assert.Equal(t, 3, f.ImageCount)
	assert.Equal(t, 2, f.ImagesWithAlt)
	assert.InDelta(t, 2.0/3.0, f.ImageAltRatio, 1e-9)

	assert.ElementsMatch(t, []string{"header", "nav", "main", "section", "footer"}, f.SemanticTagsFound)
	assert.True(t, f.HasJSONLD)
	assert.True(t, f.HasSchemaOrg)

	assert.Equal(t, 1, f.FormCount)
	assert.Equal(t, 1, f.EmailInputCount)
	assert.True(t, f.HasChatWidget)

	assert.True(t, f.HasGoogleAnalytics)
	assert.False(t, f.HasFacebookPixel)
	assert.Contains(t, f.IntegrationVendors, "hubspot")
	assert.Contains(t, f.Technologies, "HubSpot")
	assert.Contains(t, f.Technologies, "Google Analytics")

	assert.True(t, f.HasContactMention)
	assert.True(t, f.HasAboutMention)
	assert.Greater(t, f.WordCount, 0)
	assert.Equal(t, 850*time.Millisecond, f.Latency)
	assert.True(t, f.Secure)
}

func TestExtractPageMalformedHTML(t *testing.T) {
	// Unclosed tags, stray brackets: must not panic or error, just degrade.
	f := ExtractPage(docFor(`<html><body><h1>Broken<div><<img src=x ><form`))

	assert.False(t, f.HasTitle)
	assert.Equal(t, 0, f.TitleLength)
	assert.GreaterOrEqual(t, f.H1Count, 1, "lenient parse still finds the h1")
	assert.GreaterOrEqual(t, f.ImageAltRatio, 0.0)
	assert.LessOrEqual(t, f.ImageAltRatio, 1.0)
}

func TestExtractPageNoImages(t *testing.T) {
	f := ExtractPage(docFor(`<html><head><title>t</title></head><body><p>text</p></body></html>`))
	assert.Equal(t, 0, f.ImageCount)
	assert.Equal(t, 0.0, f.ImageAltRatio)
}

func TestExtractPageDeterministic(t *testing.T) {
	a := ExtractPage(docFor(samplePage))
	b := ExtractPage(docFor(samplePage))
	assert.Equal(t, a, b)
}

func TestDetectTechnologies(t *testing.T) {
	html := `<script src="/wp-content/themes/x.js"></script>
<script src="https://js.stripe.com/v3"></script>
<script>jQuery(document).ready()</script>`
	found := DetectTechnologies(html)
	assert.Contains(t, found, "WordPress")
	assert.Contains(t, found, "Stripe")
	assert.Contains(t, found, "jQuery")
	assert.NotContains(t, found, "Shopify")
}

func TestKnownSignaturesEachMatchTheirOwnName(t *testing.T) {
	// Every signature should at minimum match a page mentioning its marker.
	samples := map[string]string{
		"React":            "react.production.min.js",
		"Vue":              "vue.js",
		"Angular":          "angular.min.js",
		"jQuery":           "jquery-3.6.0.js",
		"WordPress":        "/wp-content/",
		"Shopify":          "cdn.shopify.com",
		"Google Analytics": "gtag('config')",
		"HubSpot":          "js.hubspot.com",
		"Mailchimp":        "chimpstatic.mailchimp.com",
		"Stripe":           "js.stripe.com",
	}
	for _, sig := range KnownSignatures() {
		sample, ok := samples[sig.Name]
		if !ok {
			t.Fatalf("no sample for signature %q", sig.Name)
		}
		assert.True(t, sig.Pattern.MatchString(sample), "signature %s should match %q", sig.Name, sample)
	}
}
