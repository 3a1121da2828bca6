// Package extract turns raw documents into flat feature records for the
// scorers. Extraction is lenient: malformed markup yields zero counts, never
// an error, and the same document always yields the same features.
package extract

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/maru-digital/assess-cli/internal/fetcher"
)

// semanticTags are the HTML5 structural tags counted by the content scorer.
var semanticTags = []string{"header", "nav", "main", "article", "section", "aside", "footer"}

// chatSelectors identify common chat/support widgets.
var chatSelectors = []string{
	"[class*='chat']",
	"[id*='chat']",
	"[class*='intercom']",
	"[class*='drift']",
	"[class*='crisp']",
}

// PageFeatures is the flat record of structural facts extracted from one
// page. Numeric features are non-negative; ratios are within [0, 1].
type PageFeatures struct {
	URL     string
	Latency time.Duration
	Secure  bool

	HasTitle       bool
	TitleLength    int
	HasMetaDesc    bool
	MetaDescLength int
	HasOGTitle     bool
	HasOGDesc      bool
	HasKeywords    bool
	HasViewport    bool

	H1Count int
	H2Count int

	// ImageAltRatio is meaningless when ImageCount is zero; scorers apply
	// the neutral no-images rule instead of reading it.
	ImageCount    int
	ImagesWithAlt int
	ImageAltRatio float64

	SemanticTagsFound []string
	HasJSONLD         bool
	HasSchemaOrg      bool

	FormCount       int
	EmailInputCount int
	HasChatWidget   bool

	HasGoogleAnalytics bool
	HasFacebookPixel   bool
	IntegrationVendors []string
	Technologies       []string

	WordCount         int
	LinkCount         int
	HasContactMention bool
	HasAboutMention   bool
}

// ExtractPage derives features from a fetched document. It never fails:
// unparseable HTML degrades to zero counts with the transport facts kept.
func ExtractPage(doc *fetcher.Document) PageFeatures {
	f := PageFeatures{
		URL:     doc.URL,
		Latency: doc.Latency,
		Secure:  doc.Secure,
	}

	html := doc.HTML
	lower := strings.ToLower(html)

	// Raw-text signals survive even when the DOM parse fails.
	f.HasSchemaOrg = strings.Contains(lower, "schema.org")
	f.HasGoogleAnalytics = strings.Contains(lower, "google-analytics.com") || strings.Contains(lower, "googletagmanager.com")
	f.HasFacebookPixel = strings.Contains(lower, "facebook.net") || strings.Contains(lower, "connect.facebook.net")
	for _, vendor := range []string{"hubspot", "intercom", "segment.com"} {
		if strings.Contains(lower, vendor) {
			f.IntegrationVendors = append(f.IntegrationVendors, vendor)
		}
	}
	f.Technologies = DetectTechnologies(html)
	f.HasContactMention = strings.Contains(lower, "contact")
	f.HasAboutMention = strings.Contains(lower, "about")

	parsed, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		zap.L().Warn("extract: html parse failed, degrading to text features",
			zap.String("url", doc.URL),
			zap.Error(err),
		)
		f.WordCount = len(strings.Fields(html))
		return f
	}

	title := strings.TrimSpace(parsed.Find("title").First().Text())
	f.HasTitle = title != ""
	f.TitleLength = len(title)

	if desc, ok := parsed.Find(`meta[name="description"]`).Attr("content"); ok {
		f.HasMetaDesc = strings.TrimSpace(desc) != ""
		f.MetaDescLength = len(desc)
	}
	f.HasOGTitle = parsed.Find(`meta[property="og:title"]`).Length() > 0
	f.HasOGDesc = parsed.Find(`meta[property="og:description"]`).Length() > 0
	f.HasKeywords = parsed.Find(`meta[name="keywords"]`).Length() > 0
	f.HasViewport = parsed.Find(`meta[name="viewport"]`).Length() > 0

	f.H1Count = parsed.Find("h1").Length()
	f.H2Count = parsed.Find("h2").Length()

	f.ImageCount = parsed.Find("img").Length()
	f.ImagesWithAlt = parsed.Find("img[alt]").Length()
	if f.ImageCount > 0 {
		f.ImageAltRatio = float64(f.ImagesWithAlt) / float64(f.ImageCount)
	}

	for _, tag := range semanticTags {
		if parsed.Find(tag).Length() > 0 {
			f.SemanticTagsFound = append(f.SemanticTagsFound, tag)
		}
	}
	f.HasJSONLD = parsed.Find(`script[type="application/ld+json"]`).Length() > 0

	f.FormCount = parsed.Find("form").Length()
	f.EmailInputCount = parsed.Find(`input[type="email"]`).Length()
	for _, sel := range chatSelectors {
		if parsed.Find(sel).Length() > 0 {
			f.HasChatWidget = true
			break
		}
	}

	f.LinkCount = parsed.Find("a[href]").Length()
	f.WordCount = len(strings.Fields(parsed.Find("body").Text()))

	return f
}
